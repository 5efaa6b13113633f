//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"memscan/process"
	"memscan/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// LinuxProcess implements the process.Process interface for Linux systems
type LinuxProcess struct {
	pid process.ProcessID
	exe string
	log *logger.Logger
	mm  []memory_map.MemoryMapItem
	mu  sync.Mutex
}

// New creates a new LinuxProcess instance
func New() process.Process {
	return &LinuxProcess{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a new LinuxProcess instance and opens it with the given PID
func NewWithPID(pid process.ProcessID) (process.Process, error) {
	p := New()
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

// OpenSource opens pid as a region source for the scanner
func OpenSource(pid process.ProcessID) (process.RegionSource, error) {
	return NewWithPID(pid)
}

func (p *LinuxProcess) Open(pid process.ProcessID) error {
	if pid <= 0 || !procExists(int(pid)) {
		return fmt.Errorf("pid %d: %w", pid, process.ErrNoSuchProcess)
	}
	if state := procState(pid); !state.Attachable() {
		return fmt.Errorf("pid %d is in state %s: %w", pid, state, process.ErrNoSuchProcess)
	}

	// /proc/<pid>/exe is unreadable for other users' processes; classification
	// then falls back to file for the executable's mappings
	exe, _ := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))

	p.mu.Lock()
	p.pid = pid
	p.exe = exe
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.mu.Unlock()

	if err := p.UpdateMemoryMap(); err != nil {
		p.mu.Lock()
		p.pid = 0
		p.mu.Unlock()
		return fmt.Errorf("failed to initialize memory map: %w", err)
	}

	p.log.Infoln("Process opened")

	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil
	}

	p.log.Infoln("Process closed")

	p.pid = 0
	p.exe = ""
	p.mm = nil
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))

	return nil
}

// GetPID returns the process ID
func (p *LinuxProcess) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *LinuxProcess) UpdateMemoryMap() error {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()

	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	mm, err := memory_map.NewLinuxMemoryMap().ReadMemoryMap(int(pid))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("pid %d: %w", pid, process.ErrNoSuchProcess)
		}
		return fmt.Errorf("failed to read memory map: %w", err)
	}

	memory_map.SortByAddress(mm)

	p.mu.Lock()
	p.mm = mm
	p.mu.Unlock()
	return nil
}

// Regions re-reads /proc/<pid>/maps so every pass sees the current layout
func (p *LinuxProcess) Regions() ([]process.Region, error) {
	if err := p.UpdateMemoryMap(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return process.RegionsFromMemoryMap(p.mm, p.exe), nil
}

func (p *LinuxProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.isValidAddressInternal(addr)
}

// Internal helper function that assumes the mutex is already locked
func (p *LinuxProcess) isValidAddressInternal(addr process.ProcessMemoryAddress) bool {
	if addr <= 0x10000 {
		return false
	}

	if item := memory_map.FindRegion(uint64(addr), p.mm); item != nil {
		return item.IsReadable()
	}

	return false
}

func (p *LinuxProcess) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pid == 0 {
		return nil, process.ErrProcessNotOpen
	}

	// Make a copy of the memory map to prevent external modification
	result := make([]memory_map.MemoryMapItem, len(p.mm))
	copy(result, p.mm)

	return result, nil
}

// mapErrno converts a process_vm_* failure into the process package errors
func mapErrno(op string, addr process.ProcessMemoryAddress, errno unix.Errno) error {
	switch errno {
	case unix.EFAULT, unix.EINVAL:
		return fmt.Errorf("%s 0x%x: %w: %w", op, uint64(addr), process.ErrAddressNotMapped, errno)
	case unix.EPERM, unix.EACCES:
		return fmt.Errorf("%s 0x%x: %w: %w", op, uint64(addr), process.ErrPermissionDenied, errno)
	case unix.ESRCH:
		return fmt.Errorf("%s 0x%x: %w: %w", op, uint64(addr), process.ErrNoSuchProcess, errno)
	}
	return fmt.Errorf("%s 0x%x failed: %w", op, uint64(addr), errno)
}

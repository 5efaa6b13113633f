//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"memscan/process"
	"memscan/process/memory_map"

	"golang.org/x/sys/unix"
)

// process_vm_writev uses the process_vm_writev syscall to write memory to another process
func process_vm_writev(
	pid process.ProcessID,
	localBuf []byte,
	remoteAddr process.ProcessMemoryAddress,
) (int, unix.Errno) {
	// Create iovec for local buffer
	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  uint64(len(localBuf)),
	}

	// Create iovec for remote buffer
	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(localBuf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	return int(n), errno
}

// WriteMemory writes data to the process memory at the specified address.
// The target region must be mapped writable in the last memory map read.
func (p *LinuxProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()

	if p.pid == 0 {
		p.mu.Unlock()
		return process.ErrProcessNotOpen
	}

	pid := p.pid
	region := memory_map.FindRegion(uint64(addr), p.mm)
	var writable bool
	if region != nil {
		writable = region.IsWritable() && region.End() >= uint64(addr)+uint64(len(data))
	}

	// Release the lock before the system call
	p.mu.Unlock()

	if region == nil {
		return fmt.Errorf("write 0x%x: %w", uint64(addr), process.ErrAddressNotMapped)
	}
	if !writable {
		return fmt.Errorf("memory region at %x is not writable: %w", uint64(addr), process.ErrPermissionDenied)
	}
	if len(data) == 0 {
		return nil
	}

	// Create a copy of the data to avoid potential modification during the write
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	written, errno := process_vm_writev(pid, dataCopy, addr)
	if errno != 0 {
		return mapErrno("process_vm_writev", addr, errno)
	}

	if written != len(data) {
		return fmt.Errorf("only wrote %d of %d bytes at 0x%x: %w", written, len(data), uint64(addr), process.ErrAddressNotMapped)
	}

	return nil
}

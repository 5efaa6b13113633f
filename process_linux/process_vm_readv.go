//go:build linux

package process_linux

import (
	"fmt"
	"unsafe"

	"memscan/process"

	"golang.org/x/sys/unix"
)

// process_vm_readv uses the process_vm_readv syscall to read memory from another process
func process_vm_readv(
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
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),                        // Remote process PID
		uintptr(unsafe.Pointer(&localIov)),  // Local iovec
		uintptr(1),                          // Number of local iovecs
		uintptr(unsafe.Pointer(&remoteIov)), // Remote iovec
		uintptr(1),                          // Number of remote iovecs
		uintptr(0),                          // Flags (reserved for future use)
	)

	return int(n), errno
}

// ReadMemory reads memory from the process at the specified address. The
// read goes straight to the kernel; a range that is no longer mapped fails
// with process.ErrAddressNotMapped.
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if size == 0 {
		return []byte{}, nil
	}

	data := make([]byte, size)
	n, errno := process_vm_readv(pid, data, addr)
	if errno != 0 {
		return nil, mapErrno("process_vm_readv", addr, errno)
	}

	// A short read means the range ran into an unmapped page
	if n != len(data) {
		return nil, fmt.Errorf("partial read at 0x%x: %d of %d bytes: %w", uint64(addr), n, size, process.ErrAddressNotMapped)
	}

	return data, nil
}

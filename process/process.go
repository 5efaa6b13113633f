// Package process defines the view of a target process that memscan scans:
// its memory regions and byte level read/write access.
package process

import "errors"

// The package is split across files:
// - types.go: ProcessID, ProcessInfo, ProcessState
// - memory_types.go: ProcessMemoryAddress, ProcessMemorySize
// - region.go: Region, RegionKind
// - process_interface.go: RegionSource, Process
// - process_finder.go: ProcessFinder

var (
	// ErrAddressNotMapped is returned when a memory address is not found within any mapped region of a process.
	ErrAddressNotMapped = errors.New("address not mapped")

	// ErrPermissionDenied is returned when the region exists but the access
	// (read or write) is not allowed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrNoSuchProcess is returned when opening a PID that does not exist
	ErrNoSuchProcess = errors.New("no such process")
)

package process

import (
	"memscan/process/memory_map"
)

// RegionSource is everything the scanner needs from an attached target:
// the list of regions and byte level access to them.
//
// Reads of unmapped memory fail with ErrAddressNotMapped, accesses the
// target forbids with ErrPermissionDenied. Implementations must be safe for
// concurrent ReadMemory calls; the scanner reads regions from several workers.
type RegionSource interface {
	// GetPID returns the process ID
	GetPID() ProcessID

	// Regions returns the current memory regions ordered by address
	Regions() ([]Region, error)

	// ReadMemory reads memory from the process at the specified address
	ReadMemory(addr ProcessMemoryAddress, size ProcessMemorySize) ([]byte, error)

	// WriteMemory writes data to the process memory at the specified address
	WriteMemory(addr ProcessMemoryAddress, data []byte) error

	// Close releases the target
	Close() error
}

// Process is a live or saved process that can be opened, inspected and saved
type Process interface {
	RegionSource

	// Open opens a process with the given PID for memory operations
	Open(pid ProcessID) error

	// UpdateMemoryMap refreshes the memory map for the process
	UpdateMemoryMap() error

	// IsValidAddress checks if the given memory address is valid and readable
	IsValidAddress(addr ProcessMemoryAddress) bool

	// GetMemoryMap returns a copy of the current memory map
	GetMemoryMap() ([]memory_map.MemoryMapItem, error)

	// Save saves the readable process memory and metadata to a directory
	Save(dirname string) error

	// Load loads the process memory and metadata from a directory
	Load(dirname string) error
}

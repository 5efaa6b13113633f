package process

import (
	"fmt"
	"strings"

	"memscan/process/memory_map"
)

// RegionKind classifies a mapping by what backs it
type RegionKind uint8

const (
	RegionAnonymous RegionKind = iota // no backing file
	RegionFile                        // mapped from a file other than the executable
	RegionExe                         // mapped from the main executable
	RegionBSS                         // anonymous mapping directly after the executable
	RegionHeap                        // [heap]
	RegionStack                       // [stack] and thread stacks
	RegionSpecial                     // [vdso], [vvar] and other kernel provided mappings
)

func (k RegionKind) String() string {
	switch k {
	case RegionAnonymous:
		return "anon"
	case RegionFile:
		return "file"
	case RegionExe:
		return "exe"
	case RegionBSS:
		return "bss"
	case RegionHeap:
		return "heap"
	case RegionStack:
		return "stack"
	case RegionSpecial:
		return "special"
	}
	return fmt.Sprintf("RegionKind(%d)", uint8(k))
}

// Region is a contiguous span of the target's address space with uniform
// access permissions.
type Region struct {
	Base     ProcessMemoryAddress
	Size     ProcessMemorySize
	Readable bool
	Writable bool
	Kind     RegionKind
	Path     string
}

// End returns the first address past the region
func (r Region) End() ProcessMemoryAddress {
	return r.Base + ProcessMemoryAddress(r.Size)
}

// Contains reports whether [addr, addr+size) lies inside the region
func (r Region) Contains(addr ProcessMemoryAddress, size ProcessMemorySize) bool {
	return addr >= r.Base && addr+ProcessMemoryAddress(size) <= r.End() && addr+ProcessMemoryAddress(size) >= addr
}

func (r Region) String() string {
	perms := []byte("--")
	if r.Readable {
		perms[0] = 'r'
	}
	if r.Writable {
		perms[1] = 'w'
	}
	return fmt.Sprintf("%016x-%016x %s %-7s %s", uint64(r.Base), uint64(r.End()), perms, r.Kind, r.Path)
}

// RegionsFromMemoryMap converts parsed maps entries into regions. exe is the
// path of the main executable, used to tell exe and bss mappings apart from
// other file and anonymous mappings. mm must be sorted by address.
func RegionsFromMemoryMap(mm []memory_map.MemoryMapItem, exe string) []Region {
	regions := make([]Region, 0, len(mm))
	for _, item := range mm {
		r := Region{
			Base:     ProcessMemoryAddress(item.Address),
			Size:     ProcessMemorySize(item.Size),
			Readable: item.IsReadable(),
			Writable: item.IsWritable(),
			Path:     item.Path,
		}

		switch {
		case item.Path == "":
			r.Kind = RegionAnonymous
			if n := len(regions); n > 0 && regions[n-1].Kind == RegionExe && regions[n-1].End() == r.Base {
				r.Kind = RegionBSS
			}
		case item.Path == "[heap]":
			r.Kind = RegionHeap
		case strings.HasPrefix(item.Path, "[stack"):
			r.Kind = RegionStack
		case strings.HasPrefix(item.Path, "["):
			r.Kind = RegionSpecial
		case exe != "" && item.Path == exe:
			r.Kind = RegionExe
		default:
			r.Kind = RegionFile
		}

		regions = append(regions, r)
	}
	return regions
}

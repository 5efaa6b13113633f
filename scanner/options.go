package scanner

import (
	"fmt"
	"runtime"
	"strings"

	"memscan/process"
)

// RegionLevel selects which kinds of regions a first scan visits
type RegionLevel int

const (
	RegionAll                     RegionLevel = iota // every readable region
	RegionHeapStackExecutable                        // heap, stack and the executable's own mappings
	RegionHeapStackExecutableBSS                     // as above plus the executable's bss
)

var regionLevelNames = map[RegionLevel]string{
	RegionAll:                    "all",
	RegionHeapStackExecutable:    "heap-stack-exe",
	RegionHeapStackExecutableBSS: "heap-stack-exe-bss",
}

func (l RegionLevel) String() string {
	if name, ok := regionLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("RegionLevel(%d)", int(l))
}

// ParseRegionLevel accepts the names printed by String and the numeric levels 0, 1 and 2
func ParseRegionLevel(s string) (RegionLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range regionLevelNames {
		if s == name || s == fmt.Sprint(int(l)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown region level %q", s)
}

// Includes reports whether a region of this kind is scanned at level l
func (l RegionLevel) Includes(r process.Region) bool {
	switch l {
	case RegionHeapStackExecutable:
		return r.Kind == process.RegionHeap || r.Kind == process.RegionStack || r.Kind == process.RegionExe
	case RegionHeapStackExecutableBSS:
		return r.Kind == process.RegionHeap || r.Kind == process.RegionStack || r.Kind == process.RegionExe || r.Kind == process.RegionBSS
	}
	return true
}

// DefaultChunkSize is how many bytes of a region a scan worker reads at once
const DefaultChunkSize = 1 << 20

// Options tune how a Session scans
type Options struct {
	// Workers is the number of regions scanned concurrently
	Workers int

	// Alignment is the address step in bytes. 0 means each type is tried
	// only at addresses that are a multiple of its own width.
	Alignment int

	// ChunkSize is the number of bytes read from a region per call
	ChunkSize int

	// RequireWritable restricts the first scan to writable regions
	RequireWritable bool

	// RegionLevel restricts the first scan to some kinds of regions
	RegionLevel RegionLevel
}

// Option is a function that configures Options
type Option func(*Options)

func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func WithAlignment(align int) Option {
	return func(o *Options) {
		o.Alignment = align
	}
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithRequireWritable(writable bool) Option {
	return func(o *Options) {
		o.RequireWritable = writable
	}
}

func WithRegionLevel(level RegionLevel) Option {
	return func(o *Options) {
		o.RegionLevel = level
	}
}

// DefaultOptions returns the options a Session starts from
func DefaultOptions() Options {
	return Options{
		Workers:         runtime.NumCPU(),
		ChunkSize:       DefaultChunkSize,
		RequireWritable: true,
		RegionLevel:     RegionAll,
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Alignment < 0 {
		o.Alignment = 0
	}
	return o
}

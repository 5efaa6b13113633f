package process_blob

import (
	"fmt"
	"sort"
	"sync"

	"memscan/process"
)

// ProcessBlob is a RegionSource backed by byte slices held in memory. It
// stands in for a live process wherever a test or a tool needs one: regions
// can be mapped, unmapped and mutated "by the target" with Poke while a
// scan is running.
type ProcessBlob struct {
	pid     process.ProcessID
	mu      sync.RWMutex
	regions []blobRegion
	closed  bool
}

type blobRegion struct {
	process.Region
	data []byte
}

var _ process.RegionSource = (*ProcessBlob)(nil)

// NewProcessBlob creates an empty blob reporting pid as its process ID
func NewProcessBlob(pid process.ProcessID) *ProcessBlob {
	return &ProcessBlob{pid: pid}
}

// Map adds a region at base backed by a copy of data. Overlapping an
// existing region is an error.
func (p *ProcessBlob) Map(base process.ProcessMemoryAddress, data []byte, readable, writable bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := blobRegion{
		Region: process.Region{
			Base:     base,
			Size:     process.ProcessMemorySize(len(data)),
			Readable: readable,
			Writable: writable,
			Kind:     process.RegionAnonymous,
		},
		data: append([]byte(nil), data...),
	}

	for _, existing := range p.regions {
		if r.Base < existing.End() && existing.Base < r.End() {
			return fmt.Errorf("region %s overlaps %s", r.Region, existing.Region)
		}
	}

	p.regions = append(p.regions, r)
	sort.Slice(p.regions, func(i, j int) bool {
		return p.regions[i].Base < p.regions[j].Base
	})
	return nil
}

// SetKind reclassifies the region starting at base
func (p *ProcessBlob) SetKind(base process.ProcessMemoryAddress, kind process.RegionKind, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.regions {
		if p.regions[i].Base == base {
			p.regions[i].Kind = kind
			p.regions[i].Path = path
			return nil
		}
	}
	return fmt.Errorf("no region at 0x%x: %w", uint64(base), process.ErrAddressNotMapped)
}

// Unmap removes the region starting at base
func (p *ProcessBlob) Unmap(base process.ProcessMemoryAddress) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.regions {
		if p.regions[i].Base == base {
			p.regions = append(p.regions[:i], p.regions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no region at 0x%x: %w", uint64(base), process.ErrAddressNotMapped)
}

// Poke changes memory the way the target itself would: permissions are
// ignored.
func (p *ProcessBlob) Poke(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.find(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	copy(r.data[addr-r.Base:], data)
	return nil
}

func (p *ProcessBlob) GetPID() process.ProcessID {
	return p.pid
}

func (p *ProcessBlob) Regions() ([]process.Region, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, process.ErrProcessNotOpen
	}

	result := make([]process.Region, len(p.regions))
	for i, r := range p.regions {
		result[i] = r.Region
	}
	return result, nil
}

func (p *ProcessBlob) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, process.ErrProcessNotOpen
	}

	r, err := p.find(addr, size)
	if err != nil {
		return nil, err
	}
	if !r.Readable {
		return nil, fmt.Errorf("read 0x%x: %w", uint64(addr), process.ErrPermissionDenied)
	}

	offset := addr - r.Base
	result := make([]byte, size)
	copy(result, r.data[offset:uint64(offset)+uint64(size)])
	return result, nil
}

func (p *ProcessBlob) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return process.ErrProcessNotOpen
	}

	r, err := p.find(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	if !r.Writable {
		return fmt.Errorf("write 0x%x: %w", uint64(addr), process.ErrPermissionDenied)
	}

	copy(r.data[addr-r.Base:], data)
	return nil
}

func (p *ProcessBlob) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// find must be called with p.mu held
func (p *ProcessBlob) find(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) (*blobRegion, error) {
	i := sort.Search(len(p.regions), func(i int) bool {
		return p.regions[i].End() > addr
	})
	if i == len(p.regions) || !p.regions[i].Contains(addr, size) {
		return nil, fmt.Errorf("0x%x+%d: %w", uint64(addr), size, process.ErrAddressNotMapped)
	}
	return &p.regions[i], nil
}

package process_blob

import (
	"fmt"
	"sync"

	"memscan/process"
	"memscan/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// ProcessDump implements process.Process for a loaded process dump.
// Writes land in the in-memory copy only; the files on disk are untouched
// until Save is called.
type ProcessDump struct {
	PID       process.ProcessID
	Name      string
	Exe       string
	MemoryMap []memory_map.MemoryMapItem
	Blobs     map[uint64][]byte // Address -> Data

	mu  sync.RWMutex
	log *logger.Logger
}

var _ process.Process = (*ProcessDump)(nil)

// NewProcessDump creates a new ProcessDump instance
func NewProcessDump() *ProcessDump {
	return &ProcessDump{
		Blobs: make(map[uint64][]byte),
		log:   logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "dump-not-loaded")),
	}
}

// OpenDump loads the dump saved in dirname
func OpenDump(dirname string) (*ProcessDump, error) {
	p := NewProcessDump()
	if err := p.Load(dirname); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ProcessDump) Open(pid process.ProcessID) error {
	return fmt.Errorf("Open not supported for ProcessDump, use Load")
}

func (p *ProcessDump) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Blobs = nil
	p.MemoryMap = nil
	return nil
}

func (p *ProcessDump) GetPID() process.ProcessID {
	return p.PID
}

func (p *ProcessDump) UpdateMemoryMap() error {
	return nil // Memory map is static in a dump
}

func (p *ProcessDump) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	item := memory_map.FindRegion(uint64(addr), p.MemoryMap)
	if item == nil {
		return false
	}
	_, saved := p.Blobs[item.Address]
	return saved
}

func (p *ProcessDump) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.MemoryMap == nil {
		return nil, process.ErrProcessNotOpen
	}
	result := make([]memory_map.MemoryMapItem, len(p.MemoryMap))
	copy(result, p.MemoryMap)
	return result, nil
}

// Regions reports every mapped region; regions whose bytes were not saved
// are reported as unreadable.
func (p *ProcessDump) Regions() ([]process.Region, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.MemoryMap == nil {
		return nil, process.ErrProcessNotOpen
	}

	regions := process.RegionsFromMemoryMap(p.MemoryMap, p.Exe)
	for i := range regions {
		if _, saved := p.Blobs[uint64(regions[i].Base)]; !saved {
			regions[i].Readable = false
		}
	}
	return regions, nil
}

func (p *ProcessDump) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, offset, err := p.locate(addr, size)
	if err != nil {
		return nil, err
	}

	result := make([]byte, size)
	copy(result, data[offset:offset+uint64(size)])
	return result, nil
}

func (p *ProcessDump) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	blob, offset, err := p.locate(addr, process.ProcessMemorySize(len(data)))
	if err != nil {
		return err
	}
	if region := memory_map.FindRegion(uint64(addr), p.MemoryMap); !region.IsWritable() {
		return fmt.Errorf("memory region at %x is not writable: %w", uint64(addr), process.ErrPermissionDenied)
	}

	copy(blob[offset:], data)
	return nil
}

// locate must be called with p.mu held
func (p *ProcessDump) locate(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, uint64, error) {
	region := memory_map.FindRegion(uint64(addr), p.MemoryMap)
	if region == nil {
		return nil, 0, process.ErrAddressNotMapped
	}

	data, ok := p.Blobs[region.Address]
	if !ok {
		return nil, 0, fmt.Errorf("no data for region 0x%x: %w", region.Address, process.ErrPermissionDenied)
	}

	offset := uint64(addr) - region.Address
	if offset+uint64(size) > uint64(len(data)) {
		return nil, 0, fmt.Errorf("read size %d exceeds region data bounds: %w", size, process.ErrAddressNotMapped)
	}
	return data, offset, nil
}

// Save writes the (possibly modified) dump to another directory
func (p *ProcessDump) Save(dirname string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	meta := DumpMetadata{PID: p.PID, Name: p.Name, Exe: p.Exe}
	stats, err := WriteDump(dirname, meta, p.MemoryMap, func(item memory_map.MemoryMapItem) ([]byte, error) {
		data, ok := p.Blobs[item.Address]
		if !ok {
			return nil, process.ErrAddressNotMapped
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	p.log.Infoln("Dump saved to", dirname, ":", stats.Saved, "regions")
	return nil
}

func (p *ProcessDump) Load(dirname string) error {
	meta, mm, blobs, err := readDump(dirname)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.PID = meta.PID
	p.Name = meta.Name
	p.Exe = meta.Exe
	p.MemoryMap = mm
	p.Blobs = blobs
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("dump-%d", meta.PID)))
	p.mu.Unlock()

	p.log.Infoln("Dump loaded from", dirname, ":", len(blobs), "of", len(mm), "regions")
	return nil
}

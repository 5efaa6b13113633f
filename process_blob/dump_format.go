package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"memscan/process"
	"memscan/process/memory_map"
)

// A dump directory holds:
//
//	metadata.json            DumpMetadata
//	process_memory_map.json  []memory_map.MemoryMapItem
//	blob_0x<addr>_<size>.bin raw bytes of each saved region
const (
	metadataFile  = "metadata.json"
	memoryMapFile = "process_memory_map.json"
)

// MaxDumpRegionSize caps the size of a single region written to a dump
const MaxDumpRegionSize = 100 * 1024 * 1024

// DumpTimeout bounds how long WriteDump keeps reading regions
const DumpTimeout = 30 * time.Second

// DumpMetadata identifies the process a dump was taken from
type DumpMetadata struct {
	PID  process.ProcessID `json:"pid"`
	Name string            `json:"name"`
	Exe  string            `json:"exe,omitempty"`
}

// DumpStats summarises a WriteDump call
type DumpStats struct {
	Saved       int
	NotReadable int
	TooLarge    int
	ReadErrors  int
}

func blobFilename(dirname string, item memory_map.MemoryMapItem) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", item.Address, item.Size))
}

// WriteDump saves meta, the memory map and every readable region that read
// can return into dirname. Regions that fail to read are counted, not fatal.
func WriteDump(dirname string, meta DumpMetadata, mm []memory_map.MemoryMapItem, read func(memory_map.MemoryMapItem) ([]byte, error)) (DumpStats, error) {
	var stats DumpStats

	if err := os.MkdirAll(dirname, 0755); err != nil {
		return stats, fmt.Errorf("failed to create directory: %w", err)
	}

	metadataJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return stats, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, metadataFile), metadataJSON, 0644); err != nil {
		return stats, fmt.Errorf("failed to write metadata file: %w", err)
	}

	memoryMapJSON, err := json.MarshalIndent(mm, "", "  ")
	if err != nil {
		return stats, fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, memoryMapFile), memoryMapJSON, 0644); err != nil {
		return stats, fmt.Errorf("failed to write memory map file: %w", err)
	}

	deadline := time.Now().Add(DumpTimeout)
	for _, item := range mm {
		if time.Now().After(deadline) {
			return stats, fmt.Errorf("save operation timed out after %s", DumpTimeout)
		}

		if !item.IsReadable() {
			stats.NotReadable++
			continue
		}
		if item.Size > MaxDumpRegionSize {
			stats.TooLarge++
			continue
		}

		data, err := read(item)
		if err != nil {
			stats.ReadErrors++
			continue
		}

		if err := os.WriteFile(blobFilename(dirname, item), data, 0644); err != nil {
			return stats, fmt.Errorf("failed to write region 0x%x: %w", item.Address, err)
		}
		stats.Saved++
	}

	return stats, nil
}

func readDump(dirname string) (DumpMetadata, []memory_map.MemoryMapItem, map[uint64][]byte, error) {
	var meta DumpMetadata

	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return meta, nil, nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metadataBytes, &meta); err != nil {
		return meta, nil, nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return meta, nil, nil, fmt.Errorf("failed to read memory map: %w", err)
	}
	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return meta, nil, nil, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}
	memory_map.SortByAddress(mm)

	blobs := make(map[uint64][]byte)
	for _, item := range mm {
		data, err := os.ReadFile(blobFilename(dirname, item))
		if os.IsNotExist(err) {
			continue // not saved: unreadable or too large
		}
		if err != nil {
			return meta, nil, nil, fmt.Errorf("failed to read blob for 0x%x: %w", item.Address, err)
		}
		blobs[item.Address] = data
	}

	return meta, mm, blobs, nil
}

//go:build linux

package process_linux

import (
	"fmt"

	"memscan/process"
	"memscan/process/memory_map"
	"memscan/process_blob"
)

// Save writes the readable memory of the process to dirname in the dump
// format process_blob.ProcessDump loads
func (p *LinuxProcess) Save(dirname string) error {
	p.mu.Lock()
	pid, exe := p.pid, p.exe
	p.mu.Unlock()

	if pid == 0 {
		return process.ErrProcessNotOpen
	}

	p.log.Infoln("Saving process to directory:", dirname)

	if err := p.UpdateMemoryMap(); err != nil {
		return fmt.Errorf("failed to update memory map: %w", err)
	}
	mm, err := p.GetMemoryMap()
	if err != nil {
		return err
	}

	meta := process_blob.DumpMetadata{PID: pid, Name: "unknown", Exe: exe}
	if info, err := getProcessInfo(pid); err == nil {
		meta.Name = info.Name
	}

	stats, err := process_blob.WriteDump(dirname, meta, mm, func(item memory_map.MemoryMapItem) ([]byte, error) {
		data, err := p.ReadMemory(process.ProcessMemoryAddress(item.Address), process.ProcessMemorySize(item.Size))
		if err != nil {
			p.log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", item.Address), ":", err)
		}
		return data, err
	})
	if err != nil {
		return err
	}

	if stats.TooLarge > 0 {
		p.log.Infoln("Skipped", stats.TooLarge, "regions larger than", process_blob.MaxDumpRegionSize/1024/1024, "MB")
	}
	p.log.Infoln("Process dump saved successfully:", stats.Saved, "regions saved,", stats.ReadErrors, "errors,", stats.NotReadable, "not readable")

	return nil
}

// Load always returns an error for LinuxProcess as loading is only supported by ProcessDump
func (p *LinuxProcess) Load(dirname string) error {
	return fmt.Errorf("loading from a dump is not supported by LinuxProcess, use ProcessDump instead")
}

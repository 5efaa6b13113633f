package process

import (
	"testing"

	"memscan/process/memory_map"
)

func TestRegionsFromMemoryMap(t *testing.T) {
	mm := []memory_map.MemoryMapItem{
		{Address: 0x400000, Size: 0x1000, Perms: "r-xp", Path: "/opt/game"},
		{Address: 0x401000, Size: 0x1000, Perms: "rw-p", Path: "/opt/game"},
		{Address: 0x402000, Size: 0x2000, Perms: "rw-p"},
		{Address: 0x500000, Size: 0x1000, Perms: "rw-p"},
		{Address: 0x600000, Size: 0x1000, Perms: "rw-p", Path: "[heap]"},
		{Address: 0x700000, Size: 0x1000, Perms: "r--p", Path: "/usr/lib/libc.so.6"},
		{Address: 0x7ff000, Size: 0x1000, Perms: "rw-p", Path: "[stack]"},
		{Address: 0x800000, Size: 0x1000, Perms: "r-xp", Path: "[vdso]"},
	}

	want := []RegionKind{RegionExe, RegionExe, RegionBSS, RegionAnonymous, RegionHeap, RegionFile, RegionStack, RegionSpecial}

	regions := RegionsFromMemoryMap(mm, "/opt/game")
	if len(regions) != len(want) {
		t.Fatalf("got %d regions, want %d", len(regions), len(want))
	}
	for i, r := range regions {
		if r.Kind != want[i] {
			t.Errorf("region %d (%s) kind = %s, want %s", i, r.Path, r.Kind, want[i])
		}
	}
	if regions[0].Writable || !regions[1].Writable || !regions[0].Readable {
		t.Error("permissions not carried over")
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{Base: 0x1000, Size: 0x10}
	if !r.Contains(0x1000, 4) || !r.Contains(0x100c, 4) {
		t.Error("Contains rejected an inner span")
	}
	if r.Contains(0x100d, 4) || r.Contains(0xfff, 1) {
		t.Error("Contains accepted a span crossing the boundary")
	}
}

func TestParseAddress(t *testing.T) {
	for in, want := range map[string]ProcessMemoryAddress{
		"0x1000": 0x1000, "1000": 0x1000, " 0X7ffc0000 ": 0x7ffc0000,
	} {
		got, err := ParseAddress(in)
		if err != nil || got != want {
			t.Errorf("ParseAddress(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseAddress("zz"); err == nil {
		t.Error("ParseAddress(zz) succeeded")
	}
}

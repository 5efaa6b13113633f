package memory_map

import (
	"strings"
	"testing"
)

const sampleMaps = `55d0c8a00000-55d0c8a02000 r--p 00000000 08:02 173521                     /usr/bin/game server
55d0c8a02000-55d0c8a06000 r-xp 00002000 08:02 173521                     /usr/bin/game server
55d0c8a06000-55d0c8a08000 rw-p 00006000 08:02 173521                     /usr/bin/game server
55d0c8a08000-55d0c8a09000 rw-p 00000000 00:00 0
55d0c9e1c000-55d0c9e3d000 rw-p 00000000 00:00 0                          [heap]
garbage line
7ffc1b2a0000-7ffc1b2c1000 rw-p 00000000 00:00 0                          [stack]
`

func TestParseMaps(t *testing.T) {
	mm, err := ParseMaps(strings.NewReader(sampleMaps))
	if err != nil {
		t.Fatalf("ParseMaps: %v", err)
	}
	if len(mm) != 6 {
		t.Fatalf("parsed %d items, want 6", len(mm))
	}

	if mm[0].Path != "/usr/bin/game server" {
		t.Errorf("path = %q, want pathname with its space", mm[0].Path)
	}
	if mm[3].Path != "" {
		t.Errorf("anonymous mapping path = %q", mm[3].Path)
	}
	if mm[4].Size != 0x21000 {
		t.Errorf("heap size = %#x, want 0x21000", mm[4].Size)
	}
	if !mm[2].IsWritable() || mm[1].IsWritable() || !mm[1].IsReadable() {
		t.Errorf("permission helpers disagree with perms %q / %q", mm[1].Perms, mm[2].Perms)
	}
}

func TestFindRegion(t *testing.T) {
	mm := []MemoryMapItem{
		{Address: 0x3000, Size: 0x1000, Perms: "rw-p"},
		{Address: 0x1000, Size: 0x1000, Perms: "r--p"},
	}
	SortByAddress(mm)

	if r := FindRegion(0x1fff, mm); r == nil || r.Address != 0x1000 {
		t.Errorf("FindRegion(0x1fff) = %v", r)
	}
	if r := FindRegion(0x2000, mm); r != nil {
		t.Errorf("FindRegion(0x2000) = %v, want nil (gap)", r)
	}
	if r := FindRegion(0x3000, mm); r == nil || r.Address != 0x3000 {
		t.Errorf("FindRegion(0x3000) = %v", r)
	}
	if r := FindRegion(0x4000, mm); r != nil {
		t.Errorf("FindRegion(0x4000) = %v, want nil (end is exclusive)", r)
	}
}

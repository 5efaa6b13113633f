package hexdump

import (
	"encoding/binary"
	"strings"
	"testing"

	"memscan/process"

	"github.com/google/go-cmp/cmp"
)

func TestDumpHighlight(t *testing.T) {
	data := []byte("ABCDEFGH\x00\x01\x02\x03\x64\x00\x00\x00")
	opts := DefaultOptions()
	opts.Highlight = Span{Offset: 12, Len: 4}

	got := Dump(0x1000, data, opts)
	want := "0x0000000000001000  41 42 43 44 45 46 47 48 | 00 01 02 03 64 00 00 00  ABCDEFGH ....d...\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}

	opts.Highlight = Span{Offset: 0, Len: 2}
	if got := Dump(0x1000, []byte{0xab, 0xcd, 0xef}, opts); !strings.HasPrefix(got, "0x0000000000001000  AB CD ef") {
		t.Errorf("highlighted bytes not upper case: %q", got)
	}
}

func TestDumpShortLineAligned(t *testing.T) {
	full := Dump(0, make([]byte, 16), DefaultOptions())
	short := Dump(0, make([]byte, 3), DefaultOptions())

	if strings.Index(full, "  .") != strings.Index(short, "  .") {
		t.Errorf("ASCII column moved:\n%q\n%q", full, short)
	}
}

func TestDumpMaxLines(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLines = 1
	got := Dump(0, make([]byte, 40), opts)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || lines[1] != "... 24 more bytes" {
		t.Errorf("MaxLines output:\n%s", got)
	}
}

func TestDumpPointers(t *testing.T) {
	regions := []process.Region{
		{Base: 0x1000, Size: 0x100, Readable: true, Kind: process.RegionHeap},
		{Base: 0x5000, Size: 0x100, Readable: false, Kind: process.RegionAnonymous},
	}
	data := make([]byte, 16)
	binary.NativeEndian.PutUint64(data[0:], 0x1010)
	binary.NativeEndian.PutUint64(data[8:], 0x5010)

	opts := DefaultOptions()
	opts.Regions = regions
	got := Dump(0x1000, data, opts)
	if !strings.Contains(got, "-> 0x1010 heap") {
		t.Errorf("pointer into heap not annotated: %q", got)
	}
	if strings.Contains(got, "0x5010") {
		t.Errorf("pointer into unreadable region annotated: %q", got)
	}
}

func TestWindow(t *testing.T) {
	r := process.Region{Base: 0x1008, Size: 0x100}
	tests := []struct {
		addr       process.ProcessMemoryAddress
		before     int
		size       int
		wantStart  process.ProcessMemoryAddress
		wantLength process.ProcessMemorySize
	}{
		{0x1054, 16, 64, 0x1040, 64},
		{0x100c, 16, 64, 0x1008, 64},
		{0x1100, 16, 64, 0x10f0, 0x18},
	}
	for _, tt := range tests {
		start, n := Window(r, tt.addr, tt.before, tt.size)
		if start != tt.wantStart || n != tt.wantLength {
			t.Errorf("Window(0x%x) = 0x%x, %d; want 0x%x, %d", uint64(tt.addr), uint64(start), n, uint64(tt.wantStart), tt.wantLength)
		}
	}
}

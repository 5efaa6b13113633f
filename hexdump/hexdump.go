// Package hexdump renders target memory as hex. The bytes of a match can be
// highlighted and 8 byte words that point into a mapped region are
// annotated with the region they point to.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode"

	"memscan/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Span is a byte range of the dumped data, relative to its first byte
type Span struct {
	Offset int
	Len    int
}

func (s Span) contains(i int) bool {
	return i >= s.Offset && i < s.Offset+s.Len
}

// Options defines options for customizing the hexdump output
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// Highlight marks the bytes of a match. Highlighted bytes are printed
	// in color, or in upper case hex when Color is off.
	Highlight Span

	// Regions enables pointer annotation when set
	Regions []process.Region

	// Color enables ANSI colors
	Color bool
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{BytesPerLine: 16}
}

// Dump creates a hex dump of data read at base
func Dump(base process.ProcessMemoryAddress, data []byte, opts Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, base, data, opts)
	return buffer.String()
}

// DumpToWriter writes a hex dump of data read at base to writer
func DumpToWriter(writer io.Writer, base process.ProcessMemoryAddress, data []byte, opts Options) {
	if opts.BytesPerLine <= 0 {
		opts.BytesPerLine = 16
	}

	lines := 0
	for offset := 0; offset < len(data); offset += opts.BytesPerLine {
		if opts.MaxLines > 0 && lines >= opts.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}
		end := min(offset+opts.BytesPerLine, len(data))
		formatLine(writer, base, data, offset, end, opts)
		lines++
	}
}

// format
//
// 0x0000000000401000  00 01 02 03 04 05 06 07 | 08 09 0a 0b 0c 0d 0e 0f  ........ ........  -> 0x404010 heap
func formatLine(writer io.Writer, base process.ProcessMemoryAddress, data []byte, offset, end int, opts Options) {
	fmt.Fprintf(writer, "0x%016x  ", uint64(base)+uint64(offset))

	half := opts.BytesPerLine / 2
	for i := offset; i < offset+opts.BytesPerLine; i++ {
		if i > offset {
			if opts.BytesPerLine >= 8 && i-offset == half {
				fmt.Fprint(writer, " | ")
			} else {
				fmt.Fprint(writer, " ")
			}
		}
		if i >= end {
			// keep the ASCII column aligned on short lines
			fmt.Fprint(writer, "  ")
			continue
		}
		fmt.Fprint(writer, hexByte(data[i], opts.Highlight.contains(i), opts.Color))
	}

	fmt.Fprint(writer, "  ")
	for i := offset; i < end; i++ {
		if opts.BytesPerLine >= 8 && i-offset == half {
			fmt.Fprint(writer, " ")
		}
		fmt.Fprint(writer, asciiByte(data[i], opts.Highlight.contains(i), opts.Color))
	}

	if opts.Regions != nil {
		for i := offset; i+8 <= end; i += 8 {
			ptr := process.ProcessMemoryAddress(binary.NativeEndian.Uint64(data[i : i+8]))
			if r, ok := pointsInto(ptr, opts.Regions); ok {
				fmt.Fprintf(writer, "  -> 0x%x %s", uint64(ptr), r.Kind)
			}
		}
	}

	fmt.Fprintln(writer)
}

func hexByte(b byte, highlighted, color bool) string {
	switch {
	case highlighted && color:
		return coloransi.Color(coloransi.ColorOrange, coloransi.ColorPurple, fmt.Sprintf("%02x", b))
	case highlighted:
		return fmt.Sprintf("%02X", b)
	case b == 0 && color:
		return coloransi.Color(coloransi.Red, coloransi.ColorPurple, "00")
	}
	return fmt.Sprintf("%02x", b)
}

func asciiByte(b byte, highlighted, color bool) string {
	c := "."
	if b != 0 && b < unicode.MaxASCII && unicode.IsPrint(rune(b)) {
		c = string(rune(b))
	}
	if highlighted && color {
		return coloransi.Color(coloransi.ColorOrange, coloransi.ColorPurple, c)
	}
	return c
}

// pointsInto reports the readable region ptr points into. Regions must be
// sorted by base.
func pointsInto(ptr process.ProcessMemoryAddress, regions []process.Region) (process.Region, bool) {
	lo, hi := 0, len(regions)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case ptr < regions[mid].Base:
			hi = mid
		case ptr >= regions[mid].End():
			lo = mid + 1
		default:
			return regions[mid], regions[mid].Readable
		}
	}
	return process.Region{}, false
}

// Window returns the range to dump around addr: up to before bytes ahead
// of it, aligned down to 16, and size bytes in total, clamped to r.
func Window(r process.Region, addr process.ProcessMemoryAddress, before, size int) (process.ProcessMemoryAddress, process.ProcessMemorySize) {
	start := max(addr&^0xf, r.Base)
	if back := process.ProcessMemoryAddress(before); start-r.Base > back {
		start -= back
	} else {
		start = r.Base
	}
	end := start + process.ProcessMemoryAddress(size)
	if end > r.End() || end < start {
		end = r.End()
	}
	return start, process.ProcessMemorySize(end - start)
}

package value

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrMalformedBuffer is returned when a byte slice does not have exactly
	// the width of the type it is decoded as.
	ErrMalformedBuffer = errors.New("malformed buffer")

	// ErrValueOutOfRange is returned when a number is not representable in the
	// requested type. Values are never truncated.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrParse is returned when text is not a number of the requested type
	ErrParse = errors.New("parse error")
)

// byteOrder is the target's native layout. memscan only attaches to
// processes on the machine it runs on.
var byteOrder binary.ByteOrder = binary.NativeEndian

// Value is a number tagged with its concrete type.
//
// Signed integers are stored sign extended, unsigned integers zero extended
// and floats as their IEEE-754 bit pattern in the low bits.
type Value struct {
	Type Type
	bits uint64
}

// IsValid reports whether v holds a number (its Type is concrete)
func (v Value) IsValid() bool {
	return v.Type.IsConcrete()
}

// Int64 returns v as a signed integer. Floats are truncated toward zero.
func (v Value) Int64() int64 {
	switch {
	case v.Type.IsFloat():
		return int64(v.Float64())
	default:
		return int64(v.bits)
	}
}

// Uint64 returns the raw integer payload of v
func (v Value) Uint64() uint64 {
	if v.Type.IsFloat() {
		return uint64(v.Float64())
	}
	return v.bits
}

// Float64 returns v converted to float64
func (v Value) Float64() float64 {
	switch {
	case v.Type == Float32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case v.Type == Float64:
		return math.Float64frombits(v.bits)
	case v.Type.IsSigned():
		return float64(int64(v.bits))
	default:
		return float64(v.bits)
	}
}

func (v Value) String() string {
	switch {
	case !v.IsValid():
		return "<none>"
	case v.Type == Float32:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case v.Type == Float64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case v.Type.IsSigned():
		return strconv.FormatInt(int64(v.bits), 10)
	default:
		return strconv.FormatUint(v.bits, 10)
	}
}

// Bytes encodes v in the target's byte order
func (v Value) Bytes() []byte {
	return Encode(v)
}

// Encode returns the Width(v.Type) byte representation of v.
// The zero Value encodes to an empty slice.
func Encode(v Value) []byte {
	b := make([]byte, Width(v.Type))
	put(b, v)
	return b
}

func put(b []byte, v Value) {
	switch len(b) {
	case 1:
		b[0] = byte(v.bits)
	case 2:
		byteOrder.PutUint16(b, uint16(v.bits))
	case 4:
		byteOrder.PutUint32(b, uint32(v.bits))
	case 8:
		byteOrder.PutUint64(b, v.bits)
	}
}

// Decode interprets b as a value of type t. len(b) must equal Width(t).
func Decode(b []byte, t Type) (Value, error) {
	w := Width(t)
	if w == 0 || len(b) != w {
		return Value{}, fmt.Errorf("%w: %d bytes cannot hold %s", ErrMalformedBuffer, len(b), t)
	}

	switch t {
	case Int8:
		return Value{Type: t, bits: uint64(int64(int8(b[0])))}, nil
	case Uint8:
		return Value{Type: t, bits: uint64(b[0])}, nil
	case Int16:
		return Value{Type: t, bits: uint64(int64(int16(byteOrder.Uint16(b))))}, nil
	case Uint16:
		return Value{Type: t, bits: uint64(byteOrder.Uint16(b))}, nil
	case Int32:
		return Value{Type: t, bits: uint64(int64(int32(byteOrder.Uint32(b))))}, nil
	case Uint32, Float32:
		return Value{Type: t, bits: uint64(byteOrder.Uint32(b))}, nil
	default:
		return Value{Type: t, bits: byteOrder.Uint64(b)}, nil
	}
}

// FromInt64 builds a value of type t from x
func FromInt64(x int64, t Type) (Value, error) {
	switch {
	case t.IsFloat():
		return FromFloat64(float64(x), t)
	case t.IsUnsigned():
		if x < 0 {
			return Value{}, outOfRange(strconv.FormatInt(x, 10), t)
		}
		return FromUint64(uint64(x), t)
	case t.IsSigned():
		bits := uint(Width(t) * 8)
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if bits == 64 {
			lo, hi = math.MinInt64, math.MaxInt64
		}
		if x < lo || x > hi {
			return Value{}, outOfRange(strconv.FormatInt(x, 10), t)
		}
		return Value{Type: t, bits: uint64(x)}, nil
	}
	return Value{}, fmt.Errorf("%w: %s has no representation", ErrValueOutOfRange, t)
}

// FromUint64 builds a value of type t from x
func FromUint64(x uint64, t Type) (Value, error) {
	switch {
	case t.IsFloat():
		return FromFloat64(float64(x), t)
	case t.IsSigned():
		if x > math.MaxInt64 {
			return Value{}, outOfRange(strconv.FormatUint(x, 10), t)
		}
		return FromInt64(int64(x), t)
	case t.IsUnsigned():
		if w := Width(t); w < 8 && x >= uint64(1)<<(w*8) {
			return Value{}, outOfRange(strconv.FormatUint(x, 10), t)
		}
		return Value{Type: t, bits: x}, nil
	}
	return Value{}, fmt.Errorf("%w: %s has no representation", ErrValueOutOfRange, t)
}

// FromFloat64 builds a value of type t from x. Integer types only accept
// integral x inside their range.
func FromFloat64(x float64, t Type) (Value, error) {
	switch t {
	case Float64:
		return Value{Type: t, bits: math.Float64bits(x)}, nil
	case Float32:
		if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > math.MaxFloat32 {
			return Value{}, outOfRange(strconv.FormatFloat(x, 'g', -1, 64), t)
		}
		return Value{Type: t, bits: uint64(math.Float32bits(float32(x)))}, nil
	}

	if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
		return Value{}, outOfRange(strconv.FormatFloat(x, 'g', -1, 64), t)
	}
	if t.IsUnsigned() {
		if x < 0 || x >= math.MaxUint64 {
			return Value{}, outOfRange(strconv.FormatFloat(x, 'g', -1, 64), t)
		}
		return FromUint64(uint64(x), t)
	}
	if x < math.MinInt64 || x >= math.MaxInt64 {
		return Value{}, outOfRange(strconv.FormatFloat(x, 'g', -1, 64), t)
	}
	return FromInt64(int64(x), t)
}

func outOfRange(text string, t Type) error {
	return fmt.Errorf("%w: %s does not fit %s", ErrValueOutOfRange, text, t)
}

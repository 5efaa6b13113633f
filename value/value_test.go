package value

import (
	"errors"
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ints := map[Type][]int64{
		Int8:  {math.MinInt8, -1, 0, 1, math.MaxInt8},
		Int16: {math.MinInt16, -300, 0, 300, math.MaxInt16},
		Int32: {math.MinInt32, -70000, 0, 100, math.MaxInt32},
		Int64: {math.MinInt64, -1 << 40, 0, 1 << 40, math.MaxInt64},
	}
	for typ, xs := range ints {
		for _, x := range xs {
			v, err := FromInt64(x, typ)
			if err != nil {
				t.Fatalf("FromInt64(%d, %s): %v", x, typ, err)
			}
			got, err := Decode(Encode(v), typ)
			if err != nil {
				t.Fatalf("Decode(%s): %v", typ, err)
			}
			if got != v || got.Int64() != x {
				t.Errorf("%s round trip of %d = %v", typ, x, got)
			}
		}
	}

	uints := map[Type][]uint64{
		Uint8:  {0, 1, math.MaxUint8},
		Uint16: {0, 256, math.MaxUint16},
		Uint32: {0, 1 << 20, math.MaxUint32},
		Uint64: {0, 1 << 50, math.MaxUint64},
	}
	for typ, xs := range uints {
		for _, x := range xs {
			v, err := FromUint64(x, typ)
			if err != nil {
				t.Fatalf("FromUint64(%d, %s): %v", x, typ, err)
			}
			got, err := Decode(Encode(v), typ)
			if err != nil {
				t.Fatalf("Decode(%s): %v", typ, err)
			}
			if got != v || got.Uint64() != x {
				t.Errorf("%s round trip of %d = %v", typ, x, got)
			}
		}
	}

	for _, typ := range []Type{Float32, Float64} {
		for _, x := range []float64{0, -1.5, 3.25, 1e30, math.Inf(1)} {
			v, err := FromFloat64(x, typ)
			if err != nil {
				t.Fatalf("FromFloat64(%g, %s): %v", x, typ, err)
			}
			got, err := Decode(Encode(v), typ)
			if err != nil {
				t.Fatalf("Decode(%s): %v", typ, err)
			}
			if got != v {
				t.Errorf("%s round trip of %g = %v", typ, x, got)
			}
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		typ  Type
	}{
		{"short", []byte{1, 2, 3}, Int32},
		{"long", []byte{1, 2, 3}, Uint16},
		{"auto", []byte{1}, Auto},
		{"empty", nil, Int8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.b, tt.typ); !errors.Is(err, ErrMalformedBuffer) {
				t.Errorf("err = %v, want %v", err, ErrMalformedBuffer)
			}
		})
	}
}

func TestOutOfRange(t *testing.T) {
	if _, err := FromInt64(128, Int8); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromInt64(128, int8) err = %v", err)
	}
	if _, err := FromInt64(-1, Uint32); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromInt64(-1, uint32) err = %v", err)
	}
	if _, err := FromUint64(math.MaxUint64, Int64); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromUint64(max, int64) err = %v", err)
	}
	if _, err := FromUint64(1<<16, Uint16); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromUint64(65536, uint16) err = %v", err)
	}
	if _, err := FromFloat64(1e39, Float32); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromFloat64(1e39, float32) err = %v", err)
	}
	if _, err := FromFloat64(1.5, Int32); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("FromFloat64(1.5, int32) err = %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text    string
		typ     Type
		want    string
		wantErr error
	}{
		{"100", Int32, "100", nil},
		{" -5 ", Int8, "-5", nil},
		{"0x10", Uint16, "16", nil},
		{"0b101", Int64, "5", nil},
		{"1_000", Uint32, "1000", nil},
		{"255", Uint8, "255", nil},
		{"256", Uint8, "", ErrValueOutOfRange},
		{"-1", Uint8, "", ErrValueOutOfRange},
		{"-0", Uint32, "0", nil},
		{"-0x0", Uint8, "0", nil},
		{"-129", Int8, "", ErrValueOutOfRange},
		{"abc", Int32, "", ErrParse},
		{"", Int32, "", ErrParse},
		{"1.5", Int32, "", ErrParse},
		{"1.5", Float32, "1.5", nil},
		{"100", Float64, "100", nil},
		{"1e40", Float32, "", ErrValueOutOfRange},
		{"0x10", Float64, "", ErrParse},
		{"1", Auto, "", ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.text, func(t *testing.T) {
			v, err := Parse(tt.text, tt.typ)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type != tt.typ {
				t.Errorf("type = %s, want %s", v.Type, tt.typ)
			}
			if v.String() != tt.want {
				t.Errorf("value = %s, want %s", v, tt.want)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	for name, want := range map[string]Type{
		"auto": Auto, "int32": Int32, "I32": Int32, "u8": Uint8,
		"float": Float32, "double": Float64, "uint64": Uint64,
	} {
		got, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseType(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseType("int128"); err == nil {
		t.Error("ParseType(int128) succeeded")
	}
}

func TestEqualFloatEpsilon(t *testing.T) {
	typed, _ := Parse("1.1", Float32)
	stored, _ := FromFloat64(1.1000001, Float32)
	if !Equal(stored, typed) {
		t.Errorf("Equal(%v, %v) = false", stored, typed)
	}
	far, _ := FromFloat64(1.2, Float32)
	if Equal(far, typed) {
		t.Errorf("Equal(%v, %v) = true", far, typed)
	}
	nan, _ := FromFloat64(math.NaN(), Float64)
	if Equal(nan, nan) {
		t.Error("NaN compared equal")
	}
	if !Same(nan, nan) {
		t.Error("NaN read twice is not Same")
	}
}

func TestCompareMixedTypes(t *testing.T) {
	a, _ := FromInt64(5, Int32)
	b, _ := FromInt64(5, Int64)
	if Equal(a, b) || Less(a, b) || Greater(a, b) {
		t.Error("values of different types compared")
	}
	neg, _ := FromInt64(-1, Int32)
	if !Less(neg, a) {
		t.Error("signed compare treated -1 as unsigned")
	}
}

func TestAddSub(t *testing.T) {
	max8, _ := FromInt64(math.MaxInt8, Int8)
	one8, _ := FromInt64(1, Int8)
	if _, ok := Add(max8, one8); ok {
		t.Error("int8 overflow not reported")
	}
	zero, _ := FromUint64(0, Uint32)
	oneU, _ := FromUint64(1, Uint32)
	if _, ok := Sub(zero, oneU); ok {
		t.Error("uint32 underflow not reported")
	}
	hundred, _ := FromInt64(100, Int32)
	fifty, _ := FromInt64(50, Int32)
	sum, ok := Add(hundred, fifty)
	if !ok || sum.Int64() != 150 {
		t.Errorf("100+50 = %v, %v", sum, ok)
	}
	diff, ok := Sub(hundred, fifty)
	if !ok || diff.Int64() != 50 {
		t.Errorf("100-50 = %v, %v", diff, ok)
	}
	minI64, _ := FromInt64(math.MinInt64, Int64)
	if _, ok := Sub(minI64, one(Int64)); ok {
		t.Error("int64 underflow not reported")
	}
}

func one(typ Type) Value {
	v, _ := FromInt64(1, typ)
	return v
}

func TestRangeSide(t *testing.T) {
	tests := []struct {
		text string
		typ  Type
		want int
	}{
		{"300", Int8, 1},
		{"-129", Int8, -1},
		{"127", Int8, 0},
		{"-1", Uint16, -1},
		{"0x1_0000", Uint16, 1},
		{"18446744073709551616", Uint64, 1},
		{"-9223372036854775809", Int64, -1},
		{"1e40", Float32, 1},
		{"-1e40", Float32, -1},
		{"1e40", Float64, 0},
		{"abc", Int32, 0},
		{"1.5", Int32, 0},
	}
	for _, tt := range tests {
		if got := RangeSide(tt.text, tt.typ); got != tt.want {
			t.Errorf("RangeSide(%q, %s) = %d, want %d", tt.text, tt.typ, got, tt.want)
		}
	}
}

// Package value converts between raw process memory and typed numbers.
//
// A Value is always tagged with the concrete Type it was decoded or parsed
// as. The zero Value carries Type Auto and is used throughout memscan to mean
// "no value" (an absent previous value, or a search without an operand).
package value

import (
	"fmt"
	"strings"
)

// Type identifies how a run of bytes is interpreted
type Type uint8

const (
	Auto Type = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// MaxWidth is the widest concrete type in bytes
const MaxWidth = 8

// Priority is the order in which Auto tries concrete types at one address:
// narrowest integers first, then wider integers, then float32, then float64.
var Priority = []Type{Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Float32, Float64}

var typeNames = [...]string{
	Auto:    "auto",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

var typeAliases = map[string]Type{
	"any": Auto,
	"i8":  Int8, "s8": Int8, "u8": Uint8, "byte": Uint8,
	"i16": Int16, "s16": Int16, "u16": Uint16,
	"i32": Int32, "s32": Int32, "u32": Uint32, "int": Int32,
	"i64": Int64, "s64": Int64, "u64": Uint64,
	"f32": Float32, "float": Float32,
	"f64": Float64, "double": Float64,
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsConcrete reports whether t has a fixed width
func (t Type) IsConcrete() bool {
	return t >= Int8 && t <= Float64
}

func (t Type) IsSigned() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

func (t Type) IsUnsigned() bool {
	switch t {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

func (t Type) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Width returns the number of bytes a value of type t occupies, or 0 for Auto
func Width(t Type) int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

// Alignment returns the natural alignment of t
func Alignment(t Type) int {
	return Width(t)
}

// ParseType accepts the canonical names printed by Type.String as well as
// the short forms i32, u8, f64 and friends.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return Auto, fmt.Errorf("unknown value type %q", s)
}

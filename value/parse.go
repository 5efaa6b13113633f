package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Parse reads text as a number of type t.
//
// Integers accept the usual Go prefixes (0x, 0o, 0b) and underscores.
// Floats are parsed at the precision of t, so a float32 search value is
// rounded the same way the target rounded it when it stored the number.
func Parse(text string, t Type) (Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty value", ErrParse)
	}

	bits := Width(t) * 8
	switch {
	case t.IsSigned():
		n, err := strconv.ParseInt(s, 0, bits)
		if err != nil {
			return Value{}, numError(s, t, err)
		}
		return Value{Type: t, bits: uint64(n)}, nil

	case t.IsUnsigned():
		n, err := strconv.ParseUint(s, 0, bits)
		if err != nil {
			// a negative literal is syntactically a number, just not one that fits
			if m, serr := strconv.ParseInt(s, 0, 64); serr == nil {
				if m == 0 {
					return Value{Type: t}, nil
				}
				return Value{}, outOfRange(s, t)
			}
			return Value{}, numError(s, t, err)
		}
		return Value{Type: t, bits: n}, nil

	case t.IsFloat():
		f, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return Value{}, numError(s, t, err)
		}
		return FromFloat64(f, t)
	}

	return Value{}, fmt.Errorf("%w: %s must be resolved to a concrete type first", ErrParse, t)
}

func numError(s string, t Type, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return outOfRange(strconv.Quote(s), t)
	}
	return fmt.Errorf("%w: %q is not a valid %s", ErrParse, s, t)
}

// RangeSide reports where a number that Parse rejected as out of range lies
// relative to t: 1 above its maximum, -1 below its minimum. It returns 0 for
// text that fits t or is not a number at all.
func RangeSide(text string, t Type) int {
	s := strings.TrimSpace(text)

	if t.IsFloat() {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		limit := math.MaxFloat64
		if t == Float32 {
			limit = math.MaxFloat32
		}
		switch {
		case f > limit:
			return 1
		case f < -limit:
			return -1
		}
		return 0
	}

	n, ok := new(big.Int).SetString(s, 0)
	if !ok || !t.IsConcrete() {
		return 0
	}
	bits := uint(Width(t) * 8)
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), bits)
	if t.IsSigned() {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	hi.Sub(hi, big.NewInt(1))

	switch {
	case n.Cmp(hi) > 0:
		return 1
	case n.Cmp(lo) < 0:
		return -1
	}
	return 0
}

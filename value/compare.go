package value

import "math"

// Epsilon is the relative tolerance used when a float read from memory is
// compared with a float typed in by the user: |a-b| <= Epsilon*max(1,|a|,|b|).
const Epsilon = 1e-6

// Equal reports whether a and b hold the same number. Floats compare within
// Epsilon. Values of different types are never equal.
func Equal(a, b Value) bool {
	if a.Type != b.Type || !a.IsValid() {
		return false
	}
	if a.Type.IsFloat() {
		return approxEqual(a.Float64(), b.Float64())
	}
	return a.bits == b.bits
}

// Same reports whether two values read from memory are unchanged: identical
// bits, or numerically equal floats (so -0 and +0 are the same).
func Same(a, b Value) bool {
	if a.Type != b.Type || !a.IsValid() {
		return false
	}
	if a.bits == b.bits {
		return true
	}
	return a.Type.IsFloat() && a.Float64() == b.Float64()
}

// Less reports a < b. It is false for values of different types and for NaN.
func Less(a, b Value) bool {
	if a.Type != b.Type || !a.IsValid() {
		return false
	}
	switch {
	case a.Type.IsFloat():
		return a.Float64() < b.Float64()
	case a.Type.IsSigned():
		return int64(a.bits) < int64(b.bits)
	default:
		return a.bits < b.bits
	}
}

// Greater reports a > b
func Greater(a, b Value) bool {
	return Less(b, a)
}

// Add returns a+delta in a's type. ok is false when the types differ or the
// sum is not representable.
func Add(a, delta Value) (sum Value, ok bool) {
	if a.Type != delta.Type || !a.IsValid() {
		return Value{}, false
	}

	var err error
	switch {
	case a.Type.IsFloat():
		sum, err = FromFloat64(a.Float64()+delta.Float64(), a.Type)
	case a.Type.IsSigned():
		x, d := int64(a.bits), int64(delta.bits)
		s := x + d
		if (d > 0 && s < x) || (d < 0 && s > x) {
			return Value{}, false
		}
		sum, err = FromInt64(s, a.Type)
	default:
		s := a.bits + delta.bits
		if s < a.bits {
			return Value{}, false
		}
		sum, err = FromUint64(s, a.Type)
	}
	return sum, err == nil
}

// Sub returns a-delta in a's type, with the same rules as Add
func Sub(a, delta Value) (diff Value, ok bool) {
	if a.Type != delta.Type || !a.IsValid() {
		return Value{}, false
	}

	var err error
	switch {
	case a.Type.IsFloat():
		diff, err = FromFloat64(a.Float64()-delta.Float64(), a.Type)
	case a.Type.IsSigned():
		x, d := int64(a.bits), int64(delta.bits)
		s := x - d
		if (d > 0 && s > x) || (d < 0 && s < x) {
			return Value{}, false
		}
		diff, err = FromInt64(s, a.Type)
	default:
		if delta.bits > a.bits {
			return Value{}, false
		}
		diff, err = FromUint64(a.bits-delta.bits, a.Type)
	}
	return diff, err == nil
}

// IsNegative reports whether v is below zero
func (v Value) IsNegative() bool {
	switch {
	case v.Type.IsFloat():
		return v.Float64() < 0
	case v.Type.IsSigned():
		return int64(v.bits) < 0
	}
	return false
}

func approxEqual(x, y float64) bool {
	if x == y {
		return true
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	return math.Abs(x-y) <= Epsilon*scale
}

package scanner

import (
	"errors"
	"fmt"

	"memscan/match"
	"memscan/value"
)

// SearchRequest describes one search or refinement pass
type SearchRequest struct {
	Kind     match.Kind
	Value    string     // operand text, meaningful when HasValue
	HasValue bool
	Type     value.Type // Auto lets the first scan pick a type per address
}

// NewRequest builds a request, treating empty text as "no operand"
func NewRequest(kind match.Kind, text string, t value.Type) SearchRequest {
	return SearchRequest{Kind: kind, Value: text, HasValue: text != "", Type: t}
}

func (r SearchRequest) String() string {
	if r.HasValue {
		return fmt.Sprintf("%s %q (%s)", r.Kind, r.Value, r.Type)
	}
	return fmt.Sprintf("%s (%s)", r.Kind, r.Type)
}

// validate checks the request shape. first is true for the scan that
// creates the candidate set.
func (r SearchRequest) validate(first bool) error {
	if !r.Kind.Supported() {
		return fmt.Errorf("%w: %s is not supported", ErrInvalidRequest, r.Kind)
	}
	if r.Type != value.Auto && !r.Type.IsConcrete() {
		return fmt.Errorf("%w: unknown type %s", ErrInvalidRequest, r.Type)
	}
	if r.Kind.NeedsOperand() && !r.HasValue {
		return fmt.Errorf("%w: %s needs a value", ErrInvalidRequest, r.Kind)
	}
	if !r.Kind.NeedsOperand() && r.HasValue {
		return fmt.Errorf("%w: %s takes no value", ErrInvalidRequest, r.Kind)
	}
	if first && r.Kind.NeedsPrevious() {
		return fmt.Errorf("%w: %s needs a previous scan", ErrInvalidRequest, r.Kind)
	}
	return nil
}

// operands holds the request operand parsed once per concrete type. side
// is set for types the operand lies outside of: 1 above the maximum, -1
// below the minimum.
type operands struct {
	vals [value.Float64 + 1]value.Value
	ok   [value.Float64 + 1]bool
	side [value.Float64 + 1]int
}

func (o *operands) get(t value.Type) (value.Value, bool) {
	return o.vals[t], o.ok[t]
}

// decidable reports whether candidates of type t can be evaluated
func (o *operands) decidable(t value.Type) bool {
	return o.ok[t] || o.side[t] != 0
}

// parseOperands parses r.Value under every type in types. Types whose parse
// fails are left out; if none is left the result is ErrInvalidSearchValue
// wrapping the last parse error. With outOfRange set, a type the operand
// only overflows is recorded in side and counts as usable. Requests without
// an operand accept every type with the zero Value.
func parseOperands(r SearchRequest, types []value.Type, outOfRange bool) (*operands, error) {
	o := &operands{}
	if !r.HasValue {
		for _, t := range types {
			o.ok[t] = true
		}
		return o, nil
	}

	var lastErr error
	usable := 0
	for _, t := range types {
		v, err := value.Parse(r.Value, t)
		if err != nil {
			lastErr = err
			if outOfRange && errors.Is(err, value.ErrValueOutOfRange) {
				if o.side[t] = value.RangeSide(r.Value, t); o.side[t] != 0 {
					usable++
				}
			}
			continue
		}
		o.vals[t], o.ok[t] = v, true
		usable++
	}

	if usable == 0 {
		if lastErr == nil {
			return nil, fmt.Errorf("%w: no type to parse %q as", ErrInvalidSearchValue, r.Value)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSearchValue, lastErr)
	}
	return o, nil
}

// beyondRange evaluates kind against an operand that lies on side of every
// value the candidate's type can hold
func beyondRange(kind match.Kind, side int) bool {
	switch kind {
	case match.NotEqualTo:
		return true
	case match.LessThan:
		return side > 0
	case match.GreaterThan:
		return side < 0
	}
	// EqualTo cannot hold, and no value of the type changes by such a delta
	return false
}

// planTypes returns the types a first scan of type t tries, in priority order
func planTypes(t value.Type) []value.Type {
	if t == value.Auto {
		return value.Priority
	}
	return []value.Type{t}
}

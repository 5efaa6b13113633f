// Package match evaluates search predicates against decoded memory values.
package match

import (
	"fmt"
	"strings"
)

// Kind is the comparison selected for a search
type Kind int

const (
	Any Kind = iota
	// compared with the search value
	EqualTo
	NotEqualTo
	GreaterThan
	LessThan
	Range // not supported
	// compared with the previously observed value
	Update // not supported
	NotChanged
	Changed
	Increased
	Decreased
	// compared with the previous value and a delta
	IncreasedBy
	DecreasedBy
)

var kindNames = [...]string{
	Any:         "any",
	EqualTo:     "equal",
	NotEqualTo:  "notequal",
	GreaterThan: "greater",
	LessThan:    "less",
	Range:       "range",
	Update:      "update",
	NotChanged:  "unchanged",
	Changed:     "changed",
	Increased:   "increased",
	Decreased:   "decreased",
	IncreasedBy: "increasedby",
	DecreasedBy: "decreasedby",
}

var kindOperators = map[string]Kind{
	"?":  Any,
	"=":  EqualTo,
	"==": EqualTo,
	"!=": NotEqualTo,
	">":  GreaterThan,
	"<":  LessThan,
	"!":  Changed,
	"+":  Increased,
	"-":  Decreased,
	"+=": IncreasedBy,
	"-=": DecreasedBy,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Supported reports whether the engine implements k. Range and Update are
// enumerated for completeness only.
func (k Kind) Supported() bool {
	return k >= Any && k <= DecreasedBy && k != Range && k != Update
}

// NeedsOperand reports whether k compares against a user supplied value.
// For IncreasedBy and DecreasedBy the operand is the delta.
func (k Kind) NeedsOperand() bool {
	switch k {
	case EqualTo, NotEqualTo, GreaterThan, LessThan, IncreasedBy, DecreasedBy:
		return true
	}
	return false
}

// NeedsPrevious reports whether k compares against the previous value, which
// makes it meaningless on the first scan.
func (k Kind) NeedsPrevious() bool {
	switch k {
	case NotChanged, Changed, Increased, Decreased, IncreasedBy, DecreasedBy:
		return true
	}
	return false
}

// ParseKind accepts a kind name ("equal", "increased", ...) or one of the
// operator shorthands ("=", "!=", ">", "<", "+", "-", "+=", "-=", "!", "?").
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindOperators[name]; ok {
		return k, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	switch name {
	case "eq", "equalto":
		return EqualTo, nil
	case "ne", "notequalto":
		return NotEqualTo, nil
	case "gt", "greaterthan":
		return GreaterThan, nil
	case "lt", "lessthan":
		return LessThan, nil
	case "notchanged":
		return NotChanged, nil
	case "inc":
		return Increased, nil
	case "dec":
		return Decreased, nil
	}
	return Any, fmt.Errorf("unknown match kind %q", s)
}

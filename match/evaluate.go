package match

import "memscan/value"

// Evaluate reports whether current satisfies kind.
//
// previous and operand use the zero value.Value for "absent". Any kind that
// needs a previous value is false without one. operand is the search value,
// or the delta for IncreasedBy and DecreasedBy; it must carry current's type.
func Evaluate(kind Kind, current, previous, operand value.Value) bool {
	switch kind {
	case Any:
		return true
	case EqualTo:
		return value.Equal(current, operand)
	case NotEqualTo:
		return current.Type == operand.Type && operand.IsValid() && !value.Equal(current, operand)
	case GreaterThan:
		return value.Greater(current, operand)
	case LessThan:
		return value.Less(current, operand)
	}

	if !previous.IsValid() {
		return false
	}

	switch kind {
	case Changed:
		return !value.Same(current, previous)
	case NotChanged:
		return value.Same(current, previous)
	case Increased:
		return value.Greater(current, previous)
	case Decreased:
		return value.Less(current, previous)
	case IncreasedBy:
		want, ok := value.Add(previous, operand)
		return ok && value.Equal(current, want)
	case DecreasedBy:
		want, ok := value.Sub(previous, operand)
		return ok && value.Equal(current, want)
	}
	return false
}

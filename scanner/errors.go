package scanner

import "errors"

var (
	// ErrNotAttached is returned by operations that need a target when the
	// session has none
	ErrNotAttached = errors.New("not attached")

	// ErrInvalidRequest is returned for a search request whose shape is wrong:
	// unsupported kind, missing or superfluous operand, a kind that needs a
	// previous value on the first scan, or a type that contradicts the
	// first scan.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidSearchValue is returned when the operand does not parse under
	// any type the search could use
	ErrInvalidSearchValue = errors.New("invalid search value")

	// ErrParseError is returned by SetValue when the text is not a number of
	// the candidate's type
	ErrParseError = errors.New("parse error")

	// ErrStaleIndex is returned by SetValue when the index is out of range or
	// no longer refers to the given address
	ErrStaleIndex = errors.New("stale match index")

	// ErrWriteFailed is returned by SetValue when the target rejects the write
	ErrWriteFailed = errors.New("write failed")
)

package scanner

import (
	"memscan/process"
	"memscan/value"
)

// Candidate is one surviving address. Its type is fixed when the first scan
// accepts it; raw holds the bytes observed by the latest pass and prev the
// bytes of the pass before.
type Candidate struct {
	Address     process.ProcessMemoryAddress
	Type        value.Type
	raw         [value.MaxWidth]byte
	prev        [value.MaxWidth]byte
	hasPrevious bool
}

func newCandidate(addr process.ProcessMemoryAddress, t value.Type, b []byte) Candidate {
	c := Candidate{Address: addr, Type: t}
	copy(c.raw[:], b)
	return c
}

// Current decodes the bytes observed by the latest pass
func (c *Candidate) Current() value.Value {
	v, _ := value.Decode(c.raw[:value.Width(c.Type)], c.Type)
	return v
}

// Previous decodes the bytes observed by the pass before the latest one, or
// returns the zero Value after the first scan
func (c *Candidate) Previous() value.Value {
	if !c.hasPrevious {
		return value.Value{}
	}
	v, _ := value.Decode(c.prev[:value.Width(c.Type)], c.Type)
	return v
}

// Raw returns a copy of the latest observed bytes
func (c *Candidate) Raw() []byte {
	return append([]byte(nil), c.raw[:value.Width(c.Type)]...)
}

// refined returns the candidate as seen by a refinement pass that read b
func (c *Candidate) refined(b []byte) Candidate {
	n := *c
	n.prev = c.raw
	n.hasPrevious = true
	copy(n.raw[:], b)
	return n
}

// Result is the caller's view of one candidate
type Result struct {
	MatchIndex int
	Address    process.ProcessMemoryAddress
	Value      value.Value
	Previous   value.Value // zero Value when absent
	Type       value.Type
	Raw        []byte
}

func (c *Candidate) result(index int) Result {
	return Result{
		MatchIndex: index,
		Address:    c.Address,
		Value:      c.Current(),
		Previous:   c.Previous(),
		Type:       c.Type,
		Raw:        c.Raw(),
	}
}

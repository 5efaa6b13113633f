package scanner

import (
	"context"
	"fmt"

	"memscan/match"
	"memscan/process"
	"memscan/value"

	"github.com/Moonlight-Companies/gologger/logger"
)

// refineCheckEvery is how many candidates a refinement pass handles between
// context checks
const refineCheckEvery = 4096

// Store owns the ordered candidate sequence. The index of a candidate in the
// sequence is its match index.
type Store struct {
	candidates []Candidate
}

func (s *Store) Len() int {
	return len(s.candidates)
}

// At returns the candidate at index i
func (s *Store) At(i int) (*Candidate, bool) {
	if i < 0 || i >= len(s.candidates) {
		return nil, false
	}
	return &s.candidates[i], true
}

// Results returns the caller's view of every candidate, in match index order
func (s *Store) Results() []Result {
	out := make([]Result, len(s.candidates))
	for i := range s.candidates {
		out[i] = s.candidates[i].result(i)
	}
	return out
}

// commit replaces the sequence wholesale
func (s *Store) commit(c []Candidate) {
	s.candidates = c
}

func (s *Store) clear() {
	s.candidates = nil
}

// presentTypes lists the distinct candidate types in priority order
func (s *Store) presentTypes() []value.Type {
	var seen [value.Float64 + 1]bool
	for i := range s.candidates {
		seen[s.candidates[i].Type] = true
	}
	var types []value.Type
	for _, t := range value.Priority {
		if seen[t] {
			types = append(types, t)
		}
	}
	return types
}

// refine evaluates req against every candidate, with the value read now as
// current and the value of the last pass as previous, and returns the
// survivors in their original order. The store is not modified; the caller
// commits the result. scanType is the type of the first scan.
func (s *Store) refine(ctx context.Context, src process.RegionSource, req SearchRequest, scanType value.Type, prog *progress, log *logger.Logger) ([]Candidate, error) {
	if err := req.validate(false); err != nil {
		return nil, err
	}
	if req.Type != value.Auto && req.Type != scanType {
		return nil, fmt.Errorf("%w: type %s differs from scan type %s", ErrInvalidRequest, req.Type, scanType)
	}

	types := s.presentTypes()
	if len(types) == 0 {
		types = planTypes(scanType)
	}
	ops, err := parseOperands(req, types, true)
	if err != nil {
		return nil, err
	}

	prog.start(int64(len(s.candidates)))
	log.Infoln("Refining", len(s.candidates), "candidates:", req)

	var kept []Candidate
	unreadable := 0
	for i := range s.candidates {
		if i%refineCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			prog.add(int64(min(refineCheckEvery, len(s.candidates)-i)))
		}

		c := &s.candidates[i]
		if !ops.decidable(c.Type) {
			continue
		}

		b, err := src.ReadMemory(c.Address, process.ProcessMemorySize(value.Width(c.Type)))
		if err != nil {
			unreadable++
			continue
		}
		cur, err := value.Decode(b, c.Type)
		if err != nil {
			continue
		}

		var matched bool
		if operand, ok := ops.get(c.Type); ok {
			matched = match.Evaluate(req.Kind, cur, c.Current(), operand)
		} else {
			matched = beyondRange(req.Kind, ops.side[c.Type])
		}
		if matched {
			kept = append(kept, c.refined(b))
		}
	}

	if unreadable > 0 {
		log.Debugln("Dropped", unreadable, "candidates that could no longer be read")
	}
	log.Infoln("Refine complete,", len(kept), "of", len(s.candidates), "remain")
	return kept, nil
}

package scanner

import (
	"errors"
	"fmt"

	"memscan/process"
	"memscan/value"
)

// SetValue writes text, parsed as the candidate's type, to the candidate at
// index. addr must be the candidate's address so that an index taken from an
// older result list cannot hit a different location. On success the
// candidate's current value becomes the written value; its previous value is
// kept.
func (s *Session) SetValue(index int, addr process.ProcessMemoryAddress, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return ErrNotAttached
	}

	c, ok := s.store.At(index)
	if !ok {
		return fmt.Errorf("%w: index %d of %d", ErrStaleIndex, index, s.store.Len())
	}
	if c.Address != addr {
		return fmt.Errorf("%w: index %d is at %s, not %s", ErrStaleIndex, index, c.Address.ToString(), addr.ToString())
	}

	v, err := value.Parse(text, c.Type)
	if err != nil {
		if errors.Is(err, value.ErrValueOutOfRange) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrParseError, err)
	}

	b := v.Bytes()
	if err := s.source.WriteMemory(c.Address, b); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	copy(c.raw[:], b)
	s.log.Infoln("Wrote", v, "to", c.Address.ToString())
	return nil
}

// Package scanner finds addresses in a target's memory whose value matches a
// predicate and narrows that set over successive passes while the target
// keeps running.
package scanner

import (
	"context"
	"fmt"
	"sync"

	"memscan/process"
	"memscan/value"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/google/uuid"
)

// Opener attaches to a target by PID
type Opener func(pid process.ProcessID) (process.RegionSource, error)

// Session is one attach/search/refine/write lifecycle. Calls are serialized;
// only Abort and Progress may be called while another call is running.
type Session struct {
	id     uuid.UUID
	opener Opener
	opts   Options
	log    *logger.Logger

	mu         sync.Mutex
	source     process.RegionSource
	store      Store
	scanType   value.Type
	hasScanned bool

	passMu   sync.Mutex
	passID   int
	cancels  map[int]context.CancelFunc // running and queued passes
	progress progress
}

// NewSession creates a detached session that attaches through opener
func NewSession(opener Opener, opts ...Option) *Session {
	id := uuid.New()
	return &Session{
		id:     id,
		opener: opener,
		opts:   buildOptions(opts),
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "scan-"+id.String()[:8])),
	}
}

// ID identifies the session in logs
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Options returns the options the session scans with
func (s *Session) Options() Options {
	return s.opts
}

// Attach opens pid, detaching from the current target first
func (s *Session) Attach(pid process.ProcessID) error {
	s.Abort()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source != nil {
		s.detachLocked()
	}

	src, err := s.opener(pid)
	if err != nil {
		return fmt.Errorf("attach %d: %w", pid, err)
	}

	s.source = src
	s.resetLocked()
	s.log.Infoln("Attached to pid", pid)
	return nil
}

// Detach aborts any running pass, closes the target and forgets every
// candidate. Detaching a detached session does nothing.
func (s *Session) Detach() error {
	s.Abort()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil
	}
	s.detachLocked()
	return nil
}

func (s *Session) detachLocked() {
	pid := s.source.GetPID()
	if err := s.source.Close(); err != nil {
		s.log.Warn("Failed to close target: ", err)
	}
	s.source = nil
	s.resetLocked()
	s.log.Infoln("Detached from pid", pid)
}

// Reset forgets every candidate but stays attached; the next Search is a
// first scan again
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil
	}
	s.resetLocked()
	s.log.Infoln("Reset")
	return nil
}

func (s *Session) resetLocked() {
	s.store.clear()
	s.hasScanned = false
	s.scanType = value.Auto
	s.progress.clear()
}

// Search runs the first scan, or refines the candidates of earlier passes,
// and returns the number of candidates. On error, including cancellation,
// the candidate set is left as it was.
func (s *Session) Search(ctx context.Context, req SearchRequest) (int, error) {
	// registered before waiting for mu so that an Abort issued while the
	// pass is queued still reaches it
	ctx, cancel := context.WithCancel(ctx)
	id := s.addCancel(cancel)
	defer func() {
		s.removeCancel(id)
		cancel()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return 0, ErrNotAttached
	}
	if err := ctx.Err(); err != nil {
		return s.store.Len(), err
	}

	var (
		next []Candidate
		err  error
	)
	if !s.hasScanned {
		next, err = scan(ctx, s.source, req, s.opts, &s.progress, s.log)
	} else {
		next, err = s.store.refine(ctx, s.source, req, s.scanType, &s.progress, s.log)
	}
	if err != nil {
		if ctx.Err() != nil {
			s.log.Infoln("Pass aborted")
		}
		return s.store.Len(), err
	}

	s.store.commit(next)
	if !s.hasScanned {
		s.hasScanned = true
		s.scanType = req.Type
	}
	s.progress.finish()
	return s.store.Len(), nil
}

func (s *Session) addCancel(cancel context.CancelFunc) int {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	if s.cancels == nil {
		s.cancels = make(map[int]context.CancelFunc)
	}
	s.passID++
	s.cancels[s.passID] = cancel
	return s.passID
}

func (s *Session) removeCancel(id int) {
	s.passMu.Lock()
	delete(s.cancels, id)
	s.passMu.Unlock()
}

// Abort cancels the running pass and any pass waiting to run
func (s *Session) Abort() {
	s.passMu.Lock()
	defer s.passMu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Progress reports the fraction of the running or last pass that is done,
// in [0, 1]
func (s *Session) Progress() float64 {
	return s.progress.fraction()
}

// Results returns every candidate in match index order
func (s *Session) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Results()
}

// Count returns the number of candidates
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source != nil
}

// HasScanned reports whether a first scan has committed a candidate set
func (s *Session) HasScanned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasScanned
}

// ScanType returns the type requested by the first scan
func (s *Session) ScanType() value.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanType
}

// PID returns the attached PID, or 0
func (s *Session) PID() process.ProcessID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return 0
	}
	return s.source.GetPID()
}

// Regions lists every region of the attached target
func (s *Session) Regions() ([]process.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil, ErrNotAttached
	}
	return s.source.Regions()
}

// ReadMemory reads size bytes at addr from the attached target
func (s *Session) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		return nil, ErrNotAttached
	}
	return s.source.ReadMemory(addr, size)
}

package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/result"
)

var (
	// ErrBusy is returned when a batch is already in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNoData is returned when Process is called before any data was loaded.
	ErrNoData = errors.New("please upload data first")
)

// State is the session's request lifecycle. Succeeded and Failed are idle
// states that remember how the last batch ended.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Processor runs one batch. *Orchestrator implements it.
type Processor interface {
	Process(ctx context.Context, ds dataset.Dataset, opts Options) (*result.AggregateResult, error)
}

// Session holds the loaded dataset and the most recent successful result
// for a single user.
type Session struct {
	proc Processor

	mu      sync.Mutex
	data    dataset.Dataset
	last    *result.AggregateResult
	state   State
	lastErr error
}

// NewSession returns an idle session with no data.
func NewSession(p Processor) *Session {
	return &Session{proc: p}
}

// Load replaces the current dataset. A batch already in flight keeps the
// rows it started with.
func (s *Session) Load(ds dataset.Dataset) {
	s.mu.Lock()
	s.data = ds
	s.mu.Unlock()
}

// Data returns the loaded dataset.
func (s *Session) Data() dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Process runs a batch over the loaded dataset. On failure the previous
// result is kept and the error is returned.
func (s *Session) Process(ctx context.Context, opts Options) (*result.AggregateResult, error) {
	s.mu.Lock()
	if s.state == StateRequesting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.data.Empty() {
		s.mu.Unlock()
		return nil, ErrNoData
	}
	ds := s.data
	s.state = StateRequesting
	s.mu.Unlock()

	res, err := s.proc.Process(ctx, ds, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		return nil, err
	}
	s.state = StateSucceeded
	s.lastErr = nil
	s.last = res
	return res, nil
}

// Result returns the last successful aggregate, or nil.
func (s *Session) Result() *result.AggregateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// State reports the lifecycle state and the error of the last failed batch.
func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

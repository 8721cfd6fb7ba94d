package estate

import (
	"sync"
	"time"
)

// Phase is the progress state of the current operation.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Default hold times before success and error statuses clear themselves.
const (
	SuccessHold = 2 * time.Second
	ErrorHold   = 3 * time.Second
)

// Status is the single displayable operation status. Only one status is
// live system-wide; starting a new operation overwrites the message.
type Status struct {
	Visible bool
	Phase   Phase
	Message string
}

// StatusController is the single-slot state machine broadcasting the
// current operation's progress. Success and error states clear themselves
// after a hold period. Each transition takes a new generation token and
// the reset timer only fires for its own generation, so a timer from a
// superseded status can never hide a newer message.
type StatusController struct {
	mu          sync.Mutex
	cur         Status
	gen         uint64
	successHold time.Duration
	errorHold   time.Duration
}

// StatusOption customizes a StatusController.
type StatusOption func(*StatusController)

// WithHolds overrides the auto-reset hold times. Used by tests; the
// defaults are the user-facing values.
func WithHolds(success, failure time.Duration) StatusOption {
	return func(s *StatusController) {
		s.successHold = success
		s.errorHold = failure
	}
}

// NewStatusController returns a controller in the idle state.
func NewStatusController(opts ...StatusOption) *StatusController {
	s := &StatusController{
		cur:         Status{Phase: PhaseIdle},
		successHold: SuccessHold,
		errorHold:   ErrorHold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending displays a pending status. It stays until superseded.
func (s *StatusController) Pending(msg string) {
	s.set(PhasePending, msg, 0)
}

// Success displays a success status that clears itself after the
// success hold, unless superseded first.
func (s *StatusController) Success(msg string) {
	s.set(PhaseSuccess, msg, s.successHold)
}

// Error displays an error status that clears itself after the error
// hold, unless superseded first.
func (s *StatusController) Error(msg string) {
	s.set(PhaseError, msg, s.errorHold)
}

// Current returns a snapshot of the displayed status.
func (s *StatusController) Current() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func (s *StatusController) set(phase Phase, msg string, hold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.cur = Status{Visible: true, Phase: phase, Message: msg}

	if hold > 0 {
		gen := s.gen
		time.AfterFunc(hold, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// A later transition owns the slot now; leave it alone.
			if s.gen != gen {
				return
			}
			s.cur = Status{Phase: PhaseIdle}
		})
	}
}

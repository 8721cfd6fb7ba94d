package estate_test

import (
	"testing"
	"time"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

const (
	shortHold = 30 * time.Millisecond
	holdSlack = 150 * time.Millisecond
)

// TestStatusLifecycle drives the slot through pending, success and the
// automatic reset to idle
func TestStatusLifecycle(t *testing.T) {
	s := estate.NewStatusController(estate.WithHolds(shortHold, shortHold))

	if st := s.Current(); st.Visible || st.Phase != estate.PhaseIdle {
		t.Fatalf("fresh controller not idle: %+v", st)
	}

	s.Pending("working...")
	if st := s.Current(); !st.Visible || st.Phase != estate.PhasePending || st.Message != "working..." {
		t.Fatalf("after Pending: %+v", st)
	}

	// Pending has no hold; it must persist until superseded.
	time.Sleep(holdSlack)
	if st := s.Current(); st.Phase != estate.PhasePending {
		t.Fatalf("pending status expired on its own: %+v", st)
	}

	s.Success("done")
	if st := s.Current(); st.Phase != estate.PhaseSuccess || st.Message != "done" {
		t.Fatalf("after Success: %+v", st)
	}

	time.Sleep(holdSlack)
	if st := s.Current(); st.Visible || st.Phase != estate.PhaseIdle {
		t.Fatalf("success status did not clear: %+v", st)
	}
}

// TestStatusErrorAutoReset checks the error hold clears itself too
func TestStatusErrorAutoReset(t *testing.T) {
	s := estate.NewStatusController(estate.WithHolds(shortHold, shortHold))

	s.Error("boom")
	if st := s.Current(); st.Phase != estate.PhaseError || st.Message != "boom" {
		t.Fatalf("after Error: %+v", st)
	}

	time.Sleep(holdSlack)
	if st := s.Current(); st.Visible {
		t.Fatalf("error status did not clear: %+v", st)
	}
}

// TestStatusSupersededTimerIsNoOp proves a reset timer from an older
// status can never hide a newer one
func TestStatusSupersededTimerIsNoOp(t *testing.T) {
	s := estate.NewStatusController(estate.WithHolds(shortHold, shortHold))

	s.Success("first")
	// Supersede before the first hold elapses. The first timer must not
	// clear the replacement.
	s.Pending("second")

	time.Sleep(holdSlack)
	if st := s.Current(); st.Phase != estate.PhasePending || st.Message != "second" {
		t.Fatalf("superseded timer cleared the live status: %+v", st)
	}
}

// TestStatusLastWriteWins confirms the single-slot semantics under
// rapid-fire transitions
func TestStatusLastWriteWins(t *testing.T) {
	s := estate.NewStatusController(estate.WithHolds(time.Hour, time.Hour))

	s.Pending("a")
	s.Error("b")
	s.Success("c")

	if st := s.Current(); st.Phase != estate.PhaseSuccess || st.Message != "c" {
		t.Fatalf("last write did not win: %+v", st)
	}
}

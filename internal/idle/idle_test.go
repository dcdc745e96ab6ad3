package idle

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)

func newMonitor(t *testing.T) *Monitor {
	t.Helper()
	m, err := New(5*time.Minute, 2*time.Minute, t0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, time.Minute, t0); err == nil {
		t.Fatalf("expected error for zero idle limit")
	}
	if _, err := New(time.Minute, time.Minute, t0); err == nil {
		t.Fatalf("expected error for warn lead == idle limit")
	}
	if _, err := New(time.Minute, 2*time.Minute, t0); err == nil {
		t.Fatalf("expected error for warn lead > idle limit")
	}
}

func TestWarnFiresOnceAtLead(t *testing.T) {
	m := newMonitor(t)

	// idleLimit=5m warnLead=2m: warning fires at 3m elapsed.
	if tr := m.Tick(t0.Add(2*time.Minute + 59*time.Second)); tr != None {
		t.Fatalf("expected no transition before 3m, got %v", tr)
	}
	if tr := m.Tick(t0.Add(3 * time.Minute)); tr != Warn {
		t.Fatalf("expected Warn at 3m, got %v", tr)
	}
	if m.State() != Warned {
		t.Fatalf("expected Warned state, got %v", m.State())
	}
	// Exactly once per idle period.
	if tr := m.Tick(t0.Add(4 * time.Minute)); tr != None {
		t.Fatalf("warning fired twice: %v", tr)
	}
}

func TestExpireAtIdleLimit(t *testing.T) {
	m := newMonitor(t)
	_ = m.Tick(t0.Add(3 * time.Minute))

	if tr := m.Tick(t0.Add(5 * time.Minute)); tr != Expire {
		t.Fatalf("expected Expire at 5m, got %v", tr)
	}
	if m.State() != Expired {
		t.Fatalf("expected Expired state, got %v", m.State())
	}
	// Expired is terminal: further ticks and touches are no-ops.
	if tr := m.Tick(t0.Add(6 * time.Minute)); tr != None {
		t.Fatalf("expected no transition after expiry, got %v", tr)
	}
	m.Touch(t0.Add(6 * time.Minute))
	if m.State() != Expired {
		t.Fatalf("touch after expiry must not revive the session")
	}
}

func TestTouchResetsElapsedAndClearsWarning(t *testing.T) {
	m := newMonitor(t)
	if tr := m.Tick(t0.Add(3 * time.Minute)); tr != Warn {
		t.Fatalf("expected Warn, got %v", tr)
	}

	// Activity at 4m resets the counter; no expiry at the original 5m mark.
	m.Touch(t0.Add(4 * time.Minute))
	if m.State() != Tracking {
		t.Fatalf("expected Tracking after activity, got %v", m.State())
	}
	if tr := m.Tick(t0.Add(5 * time.Minute)); tr != None {
		t.Fatalf("expected no transition 1m after activity, got %v", tr)
	}

	// The warning rearms relative to the new activity instant.
	if tr := m.Tick(t0.Add(7 * time.Minute)); tr != Warn {
		t.Fatalf("expected rearmed Warn at activity+3m, got %v", tr)
	}
	if tr := m.Tick(t0.Add(9 * time.Minute)); tr != Expire {
		t.Fatalf("expected Expire at activity+5m, got %v", tr)
	}
}

func TestSkippedWarnCollapsesToExpire(t *testing.T) {
	// A long gap between ticks (e.g. a suspended machine) crosses both
	// thresholds; only the expiry is reported.
	m := newMonitor(t)
	if tr := m.Tick(t0.Add(10 * time.Minute)); tr != Expire {
		t.Fatalf("expected Expire for a tick past both thresholds, got %v", tr)
	}
}

func TestNextDeadline(t *testing.T) {
	m := newMonitor(t)
	if got, want := m.NextDeadline(), t0.Add(3*time.Minute); !got.Equal(want) {
		t.Fatalf("tracking deadline: got %v want %v", got, want)
	}
	_ = m.Tick(t0.Add(3 * time.Minute))
	if got, want := m.NextDeadline(), t0.Add(5*time.Minute); !got.Equal(want) {
		t.Fatalf("warned deadline: got %v want %v", got, want)
	}
	_ = m.Tick(t0.Add(5 * time.Minute))
	if !m.NextDeadline().IsZero() {
		t.Fatalf("expired monitor has no deadline")
	}
}

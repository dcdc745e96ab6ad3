// Package idle implements inactivity-based session expiry as an explicit
// state machine driven by two inputs: "activity observed" and the passage of
// time. It knows nothing about terminals or timers; the TUI layer feeds it
// key/mouse events and scheduled ticks.
package idle

import (
	"fmt"
	"time"
)

type State int

const (
	// Tracking: counting time since the last activity.
	Tracking State = iota
	// Warned: the warning has fired for the current idle period.
	Warned
	// Expired: the idle limit elapsed; the session must be torn down.
	Expired
)

// Transition reports what a Tick crossed.
type Transition int

const (
	None Transition = iota
	// Warn fires exactly once per idle period, at IdleLimit-WarnLead elapsed.
	Warn
	// Expire fires at IdleLimit elapsed.
	Expire
)

// Monitor tracks one authenticated session's idle time. Create a fresh
// Monitor on every entry into the authenticated state and drop it on logout;
// it holds no timers or listeners of its own, so teardown is garbage
// collection.
type Monitor struct {
	IdleLimit time.Duration
	WarnLead  time.Duration

	state        State
	lastActivity time.Time
}

// New returns a Monitor in Tracking with the activity clock starting at now.
// WarnLead must be shorter than IdleLimit.
func New(idleLimit, warnLead time.Duration, now time.Time) (*Monitor, error) {
	if idleLimit <= 0 {
		return nil, fmt.Errorf("idle limit must be positive, got %s", idleLimit)
	}
	if warnLead <= 0 || warnLead >= idleLimit {
		return nil, fmt.Errorf("warn lead %s must be positive and shorter than idle limit %s", warnLead, idleLimit)
	}
	return &Monitor{
		IdleLimit:    idleLimit,
		WarnLead:     warnLead,
		state:        Tracking,
		lastActivity: now,
	}, nil
}

func (m *Monitor) State() State { return m.state }

// Touch records qualifying activity: the elapsed counter resets to zero and
// a pending warning is rearmed. Activity after expiry is ignored; an expired
// monitor stays expired.
func (m *Monitor) Touch(now time.Time) {
	if m.state == Expired {
		return
	}
	m.lastActivity = now
	m.state = Tracking
}

// Tick advances the machine to now and returns the transition that fired,
// if any. Crossing both thresholds in one tick reports only Expire.
func (m *Monitor) Tick(now time.Time) Transition {
	if m.state == Expired {
		return None
	}
	elapsed := now.Sub(m.lastActivity)
	if elapsed >= m.IdleLimit {
		m.state = Expired
		return Expire
	}
	if elapsed >= m.IdleLimit-m.WarnLead && m.state == Tracking {
		m.state = Warned
		return Warn
	}
	return None
}

// NextDeadline returns the instant of the next pending transition, for
// callers that schedule wakeups instead of polling.
func (m *Monitor) NextDeadline() time.Time {
	switch m.state {
	case Tracking:
		return m.lastActivity.Add(m.IdleLimit - m.WarnLead)
	case Warned:
		return m.lastActivity.Add(m.IdleLimit)
	default:
		return time.Time{}
	}
}

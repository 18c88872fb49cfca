package game

import "time"

// StartTimer builds a countdown expiring at now+duration. The id comes
// from the caller's identity source.
func StartTimer(label string, duration time.Duration, now time.Time, id string) Timer {
	return Timer{
		ID:        id,
		Label:     label,
		ExpiresAt: now.Add(duration),
	}
}

// ClearTimer removes a timer by identity regardless of expiry state.
func (s *Session) ClearTimer(id string) bool {
	for i, timer := range s.Timers {
		if timer.ID == id {
			s.Timers = append(s.Timers[:i], s.Timers[i+1:]...)
			return true
		}
	}
	return false
}

// SweepExpired drops timers that expired before the horizon. Reaching
// zero alone never removes a timer; an expired timer is merely shown
// as complete until a user clears it or a retention horizon passes.
func SweepExpired(timers []Timer, horizon time.Time) []Timer {
	kept := make([]Timer, 0, len(timers))
	for _, timer := range timers {
		if timer.ExpiresAt.After(horizon) {
			kept = append(kept, timer)
		}
	}
	return kept
}

func (t Timer) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Remaining reports the time left, floored at zero.
func (t Timer) Remaining(now time.Time) time.Duration {
	remaining := t.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

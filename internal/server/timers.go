package server

import (
	"log"
	"time"

	"last-call/internal/game"
)

// scheduleRetentionSweep arms a one-shot cleanup for the game's expired
// timers. Expired timers stay visible until the retention window passes so
// the table can show "time's up" before the entry disappears.
func (s *Server) scheduleRetentionSweep(gameID string) {
	retention := time.Duration(s.cfg.TimerRetentionSeconds) * time.Second
	if retention <= 0 {
		return
	}
	g, ok := s.store.GetGame(gameID)
	if !ok {
		return
	}
	next, ok := nextSweepDelay(g.Session.Timers, retention, timeNowUTC())
	if !ok {
		return
	}

	s.sweepsMu.Lock()
	if existing, ok := s.sweeps[gameID]; ok {
		existing.Stop()
	}
	s.sweeps[gameID] = time.AfterFunc(next, func() {
		s.runRetentionSweep(gameID)
	})
	s.sweepsMu.Unlock()
}

func (s *Server) cancelRetentionSweep(gameID string) {
	s.sweepsMu.Lock()
	defer s.sweepsMu.Unlock()
	if t, ok := s.sweeps[gameID]; ok {
		t.Stop()
		delete(s.sweeps, gameID)
	}
}

func (s *Server) runRetentionSweep(gameID string) {
	s.sweepsMu.Lock()
	delete(s.sweeps, gameID)
	s.sweepsMu.Unlock()

	retention := time.Duration(s.cfg.TimerRetentionSeconds) * time.Second
	horizon := timeNowUTC().Add(-retention)

	var swept int
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		before := len(g.Session.Timers)
		g.Session.Timers = game.SweepExpired(g.Session.Timers, horizon)
		swept = before - len(g.Session.Timers)
		return nil
	})
	if err != nil {
		return
	}
	if swept > 0 {
		log.Printf("timers swept game_id=%s count=%d", gameID, swept)
		s.persistSnapshot(g)
		s.broadcastGameUpdate(g)
	}
	// More timers may still be running toward their own retention cutoffs.
	s.scheduleRetentionSweep(gameID)
}

// nextSweepDelay returns how long until the oldest timer ages past the
// retention window.
func nextSweepDelay(timers []game.Timer, retention time.Duration, now time.Time) (time.Duration, bool) {
	var soonest time.Time
	for _, t := range timers {
		cutoff := t.ExpiresAt.Add(retention)
		if soonest.IsZero() || cutoff.Before(soonest) {
			soonest = cutoff
		}
	}
	if soonest.IsZero() {
		return 0, false
	}
	delay := soonest.Sub(now)
	if delay < 0 {
		delay = 0
	}
	return delay, true
}

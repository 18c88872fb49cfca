package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"last-call/internal/db"
	"last-call/internal/game"
)

// restoreGameFromDB rebuilds a session from its persisted snapshot.
// Absent or malformed data means "no saved session", never a crash.
func (s *Server) restoreGameFromDB(code string) (*Game, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errors.New("no saved session")
	}

	if existing, ok := s.store.FindGameByResumeCode(code); ok {
		return existing, nil
	}
	if s.db == nil {
		return nil, errors.New("no saved session")
	}

	var record db.Session
	if err := s.db.Where("key = ?", code).First(&record).Error; err != nil {
		return nil, errors.New("no saved session")
	}
	g, err := rebuildGame(record)
	if err != nil {
		log.Printf("saved session unusable key=%s error=%v", code, err)
		return nil, errors.New("no saved session")
	}
	if err := s.store.RestoreGame(g); err != nil {
		return nil, err
	}
	log.Printf("game restored game_id=%s resume_code=%s phase=%s", g.ID, g.ResumeCode, g.Session.Phase)
	return g, nil
}

// RestoreSaved loads every persisted snapshot at boot. Broken rows are
// skipped; play starts fresh for those.
func (s *Server) RestoreSaved() {
	if s.db == nil {
		return
	}
	var records []db.Session
	if err := s.db.Order("updated_at asc").Find(&records).Error; err != nil {
		log.Printf("load saved sessions failed error=%v", err)
		return
	}
	restored := 0
	for _, record := range records {
		g, err := rebuildGame(record)
		if err != nil {
			log.Printf("skipping saved session key=%s error=%v", record.Key, err)
			continue
		}
		if err := s.store.RestoreGame(g); err != nil {
			continue
		}
		restored++
	}
	if restored > 0 {
		log.Printf("restored saved sessions count=%d", restored)
	}
}

func rebuildGame(record db.Session) (*Game, error) {
	if len(record.State) == 0 {
		return nil, errors.New("empty snapshot")
	}
	var session game.Session
	if err := json.Unmarshal(record.State, &session); err != nil {
		return nil, err
	}
	if len(session.Board) != game.BoardSize {
		return nil, fmt.Errorf("snapshot board has %d cells", len(session.Board))
	}
	if session.Players == nil {
		return nil, errors.New("snapshot has no players field")
	}
	if session.Timers == nil {
		session.Timers = []game.Timer{}
	}
	if session.Phase != game.PhaseLobby && len(session.Players) < game.MinPlayers {
		return nil, fmt.Errorf("snapshot in phase %s with %d players", session.Phase, len(session.Players))
	}
	if session.CurrentPlayerIndex < 0 || (len(session.Players) > 0 && session.CurrentPlayerIndex >= len(session.Players)) {
		return nil, errors.New("snapshot turn index out of range")
	}
	return &Game{
		ID:         fmt.Sprintf("game-%s", strings.ToLower(record.Key)),
		ResumeCode: record.Key,
		Session:    &session,
	}, nil
}

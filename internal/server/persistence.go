package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"last-call/internal/db"
	"last-call/internal/game"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type eventPayload struct {
	ResumeCode string `json:"resume_code,omitempty"`
	PlayerName string `json:"player,omitempty"`
	PlayerID   int    `json:"player_id,omitempty"`
	Steps      int    `json:"steps,omitempty"`
	From       int    `json:"from,omitempty"`
	To         int    `json:"to,omitempty"`
	CellIndex  int    `json:"cell_index,omitempty"`
	CellKind   string `json:"cell_kind,omitempty"`
	Phase      string `json:"phase,omitempty"`
	TimerID    string `json:"timer_id,omitempty"`
	TimerLabel string `json:"timer_label,omitempty"`
	WinnerName string `json:"winner,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// persistSession creates the snapshot row for a new game.
func (s *Server) persistSession(g *Game) error {
	if s.db == nil {
		return nil
	}
	state, err := json.Marshal(g.Session)
	if err != nil {
		return err
	}
	record := db.Session{
		Key:   g.ResumeCode,
		Phase: string(g.Session.Phase),
		State: datatypes.JSON(state),
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	return s.persistEventErr(g, "game_created", eventPayload{ResumeCode: g.ResumeCode})
}

// persistSnapshot upserts the whole session after a settled mutation.
// Writes are suppressed while a move animation is in flight.
func (s *Server) persistSnapshot(g *Game) {
	if s.db == nil || g.Animating {
		return
	}
	state, err := json.Marshal(g.Session)
	if err != nil {
		log.Printf("marshal snapshot failed game_id=%s error=%v", g.ID, err)
		return
	}
	record := db.Session{
		Key:   g.ResumeCode,
		Phase: string(g.Session.Phase),
		State: datatypes.JSON(state),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "state", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		log.Printf("persist snapshot failed game_id=%s error=%v", g.ID, err)
	}
}

func (s *Server) persistPlayer(g *Game, player *game.Player) error {
	if s.db == nil {
		return nil
	}
	record := db.Player{
		SessionKey: g.ResumeCode,
		Name:       player.Name,
		Color:      player.Color,
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return s.persistEventErr(g, "player_joined", eventPayload{
		PlayerName: player.Name,
		PlayerID:   player.ID,
	})
}

func (s *Server) persistEvent(g *Game, eventType string, payload eventPayload) {
	if err := s.persistEventErr(g, eventType, payload); err != nil {
		log.Printf("persist event failed game_id=%s type=%s error=%v", g.ID, eventType, err)
	}
}

func (s *Server) persistEventErr(g *Game, eventType string, payload eventPayload) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		SessionKey: g.ResumeCode,
		PlayerID:   s.resolveEventPlayerID(g, payload),
		Type:       eventType,
		Payload:    datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventPlayerID(g *Game, payload eventPayload) *uint {
	if payload.PlayerName == "" {
		return nil
	}
	var record db.Player
	if err := s.db.Where("session_key = ? AND name = ?", g.ResumeCode, payload.PlayerName).First(&record).Error; err != nil {
		return nil
	}
	id := record.ID
	return &id
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

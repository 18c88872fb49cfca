package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"last-call/internal/game"

	"github.com/google/uuid"
)

type joinRequest struct {
	Name string `json:"name" validate:"required,playername"`
}

type restoreRequest struct {
	Code string `json:"code" validate:"required,max=12"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	g := s.store.CreateGame()
	if err := s.persistSession(g); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	log.Printf("game created game_id=%s resume_code=%s", g.ID, g.ResumeCode)
	writeJSON(w, http.StatusCreated, map[string]string{
		"game_id":     g.ID,
		"resume_code": g.ResumeCode,
	})
	s.broadcastHomeUpdate()
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if gameID, playerID, action, ok := parsePlayerActionPath(r.URL.Path); ok {
			switch action {
			case "remove":
				s.handleRemovePlayer(w, r, gameID, playerID)
			default:
				http.NotFound(w, r)
			}
			return
		}
		if gameID, timerID, action, ok := parseTimerActionPath(r.URL.Path); ok {
			switch action {
			case "clear":
				s.handleClearTimer(w, r, gameID, timerID)
			default:
				http.NotFound(w, r)
			}
			return
		}
	}

	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if action == "" && r.Method == http.MethodGet {
		s.handleGetGame(w, r, gameID)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	switch action {
	case "join":
		s.handleJoinGame(w, r, gameID)
	case "start":
		s.handleStartGame(w, r, gameID)
	case "handoff":
		s.handleHandoff(w, r, gameID)
	case "roll":
		s.handleRoll(w, r, gameID)
	case "settle":
		s.handleSettle(w, r, gameID)
	case "ack":
		s.handleAcknowledge(w, r, gameID)
	case "reset":
		s.handleReset(w, r, gameID)
	case "lobby":
		s.handleBackToLobby(w, r, gameID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, gameID string) {
	g, ok := s.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(g))
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request, gameID string) {
	var req joinRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid name")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, player, err := s.store.AddPlayer(gameID, name)
	if err != nil {
		if err.Error() == "game not found" {
			http.NotFound(w, r)
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err := s.persistPlayer(g, player); err != nil {
		log.Printf("persist player failed game_id=%s player=%s error=%v", g.ID, player.Name, err)
	}
	s.persistSnapshot(g)
	log.Printf("player joined game_id=%s player_id=%d name=%s", g.ID, player.ID, player.Name)
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":   g.ID,
		"player_id": player.ID,
		"name":      player.Name,
		"color":     player.Color,
	})
	s.broadcastGameUpdate(g)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request, gameID string, playerID int) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		return g.Session.RemovePlayer(playerID)
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.persistEvent(g, "player_removed", eventPayload{PlayerID: playerID})
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request, gameID string) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		return g.Session.Start()
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.persistEvent(g, "game_started", eventPayload{Phase: string(g.Session.Phase), Count: len(g.Session.Players)})
	s.persistSnapshot(g)
	log.Printf("game started game_id=%s players=%d", g.ID, len(g.Session.Players))
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request, gameID string) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		return g.Session.ConfirmHandoff()
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request, gameID string) {
	steps := s.rollDie()
	var move game.Move
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		if g.Animating {
			return game.ErrRollBlocked
		}
		planned, err := g.Session.BeginMove(steps)
		if err != nil {
			return err
		}
		move = planned
		g.Animating = true
		g.LastMove = &move
		return nil
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	// The move is not settled until the animation finishes; no
	// snapshot is written here.
	log.Printf("die rolled game_id=%s steps=%d from=%d to=%d", g.ID, move.Steps, move.From, move.To)
	writeJSON(w, http.StatusOK, map[string]any{
		"steps":   move.Steps,
		"from":    move.From,
		"to":      move.To,
		"bounced": move.Bounced,
		"path":    move.Path,
	})
	s.broadcastGameUpdate(g)
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request, gameID string) {
	var move *game.Move
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		if !g.Animating {
			return game.ErrNoPendingMove
		}
		g.Animating = false
		move = g.LastMove
		_, err := g.Session.ResolveLanding()
		return err
	})
	if err != nil {
		if errors.Is(err, game.ErrBoardLoop) {
			log.Printf("fatal board configuration game_id=%s error=%v", gameID, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.rejectUpdate(w, r, err)
		return
	}
	if move != nil {
		s.persistEvent(g, "die_rolled", eventPayload{Steps: move.Steps, From: move.From, To: move.To})
	}
	if ack := g.Session.PendingAck; ack != nil {
		s.persistEvent(g, "cell_resolved", eventPayload{
			CellIndex: ack.CellIndex,
			CellKind:  string(ack.CellKind),
			Phase:     string(g.Session.Phase),
		})
	}
	if g.Session.Phase == game.PhaseFinished {
		s.persistEvent(g, "game_won", eventPayload{WinnerName: g.Session.WinnerName})
		log.Printf("game won game_id=%s winner=%s", g.ID, g.Session.WinnerName)
	}
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request, gameID string) {
	var started *game.Timer
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		if g.Animating {
			return game.ErrNoPendingAck
		}
		timer, err := g.Session.Acknowledge(game.AckInput{
			Now:           timeNowUTC(),
			NewTimerID:    uuid.NewString,
			SocialTimeout: time.Duration(s.cfg.SocialTimerSeconds) * time.Second,
			VideoTimeout:  time.Duration(s.cfg.VideoTimerSeconds) * time.Second,
		})
		if err != nil {
			return err
		}
		started = timer
		return nil
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	if started != nil {
		s.persistEvent(g, "timer_started", eventPayload{TimerID: started.ID, TimerLabel: started.Label})
		log.Printf("timer started game_id=%s timer_id=%s label=%q", g.ID, started.ID, started.Label)
		s.scheduleRetentionSweep(g.ID)
	}
	s.persistEvent(g, "acknowledged", eventPayload{Phase: string(g.Session.Phase)})
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleClearTimer(w http.ResponseWriter, r *http.Request, gameID, timerID string) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		if !g.Session.ClearTimer(timerID) {
			return errors.New("timer not found")
		}
		return nil
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.persistEvent(g, "timer_cleared", eventPayload{TimerID: timerID})
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, gameID string) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		g.Session.Reset()
		g.Animating = false
		g.LastMove = nil
		return nil
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.cancelRetentionSweep(g.ID)
	s.persistEvent(g, "game_reset", eventPayload{Phase: string(g.Session.Phase)})
	s.persistSnapshot(g)
	log.Printf("game reset game_id=%s", g.ID)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleBackToLobby(w http.ResponseWriter, r *http.Request, gameID string) {
	g, err := s.store.UpdateGame(gameID, func(g *Game) error {
		g.Session.BackToLobby()
		g.Animating = false
		g.LastMove = nil
		return nil
	})
	if err != nil {
		s.rejectUpdate(w, r, err)
		return
	}
	s.persistEvent(g, "returned_to_lobby", eventPayload{Phase: string(g.Session.Phase)})
	s.persistSnapshot(g)
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastGameUpdate(g)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid code")
		return
	}
	g, err := s.restoreGameFromDB(req.Code)
	if err != nil {
		writeError(w, http.StatusNotFound, "no saved session")
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(g))
	s.broadcastHomeUpdate()
}

// rejectUpdate maps contract violations to no-op rejections. They are
// expected during normal play (double taps, stale views), never 5xx.
func (s *Server) rejectUpdate(w http.ResponseWriter, r *http.Request, err error) {
	if err.Error() == "game not found" {
		http.NotFound(w, r)
		return
	}
	writeError(w, http.StatusConflict, err.Error())
}

package server

import (
	"time"

	"last-call/internal/config"
	"last-call/internal/game"
)

// snapshotWithConfig projects a game into the JSON payload the UI
// consumes. It includes transient presentation facts (animation,
// last move) that the durable snapshot deliberately omits.
func snapshotWithConfig(g *Game, cfg config.Config, now time.Time) map[string]any {
	session := g.Session
	players := make([]map[string]any, 0, len(session.Players))
	for _, player := range session.Players {
		players = append(players, map[string]any{
			"id":       player.ID,
			"name":     player.Name,
			"position": player.Position,
			"color":    player.Color,
			"cell":     string(session.CellAt(player.Position).Kind),
		})
	}

	timers := make([]map[string]any, 0, len(session.Timers))
	for _, timer := range session.Timers {
		timers = append(timers, map[string]any{
			"id":                timer.ID,
			"label":             timer.Label,
			"expires_at":        timer.ExpiresAt.UTC().Format(time.RFC3339),
			"remaining_seconds": int(timer.Remaining(now).Seconds()),
			"expired":           timer.Expired(now),
		})
	}

	board := make([]map[string]any, 0, len(session.Board))
	for _, cell := range session.Board {
		board = append(board, map[string]any{
			"index": cell.Index,
			"kind":  string(cell.Kind),
			"label": cell.Label,
		})
	}

	var pendingAck map[string]any
	if ack := session.PendingAck; ack != nil {
		pendingAck = map[string]any{
			"title":           ack.Title,
			"body":            ack.Body,
			"confirm_label":   ack.ConfirmLabel,
			"required_action": string(ack.RequiredAction),
			"cell_index":      ack.CellIndex,
			"cell_kind":       string(ack.CellKind),
		}
	}

	var lastMove map[string]any
	if g.LastMove != nil {
		lastMove = map[string]any{
			"steps":   g.LastMove.Steps,
			"from":    g.LastMove.From,
			"to":      g.LastMove.To,
			"bounced": g.LastMove.Bounced,
			"path":    g.LastMove.Path,
		}
	}

	currentPlayerID := 0
	currentPlayerName := ""
	if player := session.CurrentPlayer(); player != nil {
		currentPlayerID = player.ID
		currentPlayerName = player.Name
	}

	return map[string]any{
		"game_id":              g.ID,
		"resume_code":          g.ResumeCode,
		"phase":                string(session.Phase),
		"stage":                string(session.Stage),
		"board":                board,
		"players":              players,
		"current_player_index": session.CurrentPlayerIndex,
		"current_player_id":    currentPlayerID,
		"current_player_name":  currentPlayerName,
		"pending_ack":          pendingAck,
		"timers":               timers,
		"winner_name":          session.WinnerName,
		"animating":            g.Animating,
		"last_move":            lastMove,
		"can_roll":             !g.Animating && session.CanRoll() == nil,
		"can_join":             session.Phase == game.PhaseLobby && len(session.Players) < game.MaxPlayers,
		"social_timer_seconds": cfg.SocialTimerSeconds,
		"video_timer_seconds":  cfg.VideoTimerSeconds,
	}
}

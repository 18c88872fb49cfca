package server

import (
	"net/http"
	"testing"

	"last-call/internal/game"
)

// placeCurrentPlayer fakes a finished roll animation so the settle
// endpoint can be exercised against a chosen cell.
func placeCurrentPlayer(t *testing.T, srv *Server, gameID string, position int) {
	t.Helper()
	_, err := srv.store.UpdateGame(gameID, func(g *Game) error {
		player := g.Session.CurrentPlayer()
		if player == nil {
			t.Fatal("no current player")
		}
		move := game.PlanMove(player.Position, 1)
		move.To = position
		player.Position = position
		g.Session.Stage = game.StageResolving
		g.Animating = true
		g.LastMove = &move
		return nil
	})
	if err != nil {
		t.Fatalf("place player: %v", err)
	}
}

func TestFullTurnFlow(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	snapshot := fetchSnapshot(t, ts, gameID)
	if snapshot["phase"] != "playing" || snapshot["stage"] != "handoff" {
		t.Fatalf("expected playing/handoff, got %v/%v", snapshot["phase"], snapshot["stage"])
	}

	// Rolling before the handoff is confirmed is rejected.
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/roll", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d before handoff, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/handoff", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("handoff: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	if snapshot["stage"] != "roll" {
		t.Fatalf("expected roll stage after handoff, got %v", snapshot["stage"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/roll", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("roll: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	move := decodeBody(t, resp)
	steps := int(move["steps"].(float64))
	if steps < 1 || steps > game.DieSides {
		t.Fatalf("steps out of range: %d", steps)
	}
	path := move["path"].([]any)
	if len(path) != steps {
		t.Fatalf("expected %d path entries, got %d", steps, len(path))
	}
	if int(move["to"].(float64)) != steps {
		t.Fatalf("expected first move to land on %d, got %v", steps, move["to"])
	}

	// The move has not settled: snapshot shows the animation and
	// blocks further rolls and acknowledgements.
	snapshot = fetchSnapshot(t, ts, gameID)
	if snapshot["animating"] != true || snapshot["can_roll"] != false {
		t.Fatalf("expected animating snapshot, got animating=%v can_roll=%v", snapshot["animating"], snapshot["can_roll"])
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/roll", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for double roll, got %d", http.StatusConflict, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/ack", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for ack mid-animation, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	if snapshot["stage"] != "acknowledge" {
		t.Fatalf("expected acknowledge stage, got %v", snapshot["stage"])
	}
	if snapshot["pending_ack"] == nil {
		t.Fatal("expected a pending acknowledgement after settling")
	}
	if snapshot["animating"] != false {
		t.Fatal("expected animation flag cleared after settling")
	}

	// Settling twice is a no-op rejection.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for double settle, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/ack", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ack: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	if snapshot["stage"] != "handoff" {
		t.Fatalf("expected handoff stage after ack, got %v", snapshot["stage"])
	}
	if snapshot["current_player_index"] != float64(1) {
		t.Fatalf("expected turn to pass to second player, got %v", snapshot["current_player_index"])
	}
}

func TestSettleResolvesMoveBackChain(t *testing.T) {
	srv, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	placeCurrentPlayer(t, srv, gameID, 17)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	ack := snapshot["pending_ack"].(map[string]any)
	if ack["cell_kind"] != "dare" || ack["cell_index"] != float64(7) {
		t.Fatalf("expected the chain to end on the dare at 7, got %#v", ack)
	}
	player := snapshot["players"].([]any)[0].(map[string]any)
	if player["position"] != float64(7) {
		t.Fatalf("expected player on cell 7, got %v", player["position"])
	}
}

func TestSocialTimerFlow(t *testing.T) {
	srv, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	placeCurrentPlayer(t, srv, gameID, 23)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	ack := snapshot["pending_ack"].(map[string]any)
	if ack["required_action"] != "start-social-timer" {
		t.Fatalf("expected a social timer acknowledgement, got %#v", ack)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/ack", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ack: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	timers := snapshot["timers"].([]any)
	if len(timers) != 1 {
		t.Fatalf("expected one running timer, got %d", len(timers))
	}
	timer := timers[0].(map[string]any)
	remaining := timer["remaining_seconds"].(float64)
	if remaining < 590 || remaining > 600 {
		t.Fatalf("expected roughly ten minutes remaining, got %v", remaining)
	}
	if timer["expired"] != false {
		t.Fatal("expected a running timer")
	}
	if snapshot["stage"] != "handoff" {
		t.Fatalf("expected the turn to advance alongside the timer, got %v", snapshot["stage"])
	}

	timerID := timer["id"].(string)
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/timers/"+timerID+"/clear", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	if len(snapshot["timers"].([]any)) != 0 {
		t.Fatal("expected timer list to be empty after clearing")
	}
}

func TestVideoTimerFlow(t *testing.T) {
	srv, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	placeCurrentPlayer(t, srv, gameID, 14)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/ack", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ack: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	timers := snapshot["timers"].([]any)
	if len(timers) != 1 {
		t.Fatalf("expected one running timer, got %d", len(timers))
	}
	remaining := timers[0].(map[string]any)["remaining_seconds"].(float64)
	if remaining < 3590 || remaining > 3600 {
		t.Fatalf("expected roughly an hour remaining, got %v", remaining)
	}
}

func TestWinFlowReturnsToLobby(t *testing.T) {
	srv, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	placeCurrentPlayer(t, srv, gameID, game.WinIndex)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/settle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("settle: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	if snapshot["phase"] != "finished" {
		t.Fatalf("expected finished phase, got %v", snapshot["phase"])
	}
	if snapshot["winner_name"] != "Amy" {
		t.Fatalf("expected Amy to win, got %v", snapshot["winner_name"])
	}
	ack := snapshot["pending_ack"].(map[string]any)
	if ack["required_action"] != "new-game" {
		t.Fatalf("expected a new-game acknowledgement, got %#v", ack)
	}

	// Rolling while the win acknowledgement is pending stays blocked.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/roll", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/ack", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ack: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = decodeBody(t, resp)
	if snapshot["phase"] != "lobby" {
		t.Fatalf("expected lobby phase after win ack, got %v", snapshot["phase"])
	}
	players := snapshot["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("expected roster preserved, got %d players", len(players))
	}
	for _, entry := range players {
		if entry.(map[string]any)["position"] != float64(0) {
			t.Fatalf("expected positions reset, got %#v", entry)
		}
	}

	// The fresh session must support an immediate restart.
	resp = doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestResetClearsRoster(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/reset", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	if snapshot["phase"] != "lobby" {
		t.Fatalf("expected lobby phase after reset, got %v", snapshot["phase"])
	}
	if len(snapshot["players"].([]any)) != 0 {
		t.Fatal("expected an empty roster after reset")
	}
}

func TestBackToLobbyKeepsRoster(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := startedGame(t, ts)

	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/lobby", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lobby: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot := decodeBody(t, resp)
	if snapshot["phase"] != "lobby" {
		t.Fatalf("expected lobby phase, got %v", snapshot["phase"])
	}
	if len(snapshot["players"].([]any)) != 2 {
		t.Fatal("expected roster preserved when returning to the lobby")
	}
}

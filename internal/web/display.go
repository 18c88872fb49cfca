package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// DisplayView is the read-only board for a shared screen. It never sends
// actions, it only mirrors whatever the play device does.
func DisplayView(gameID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Last Call - Display</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body data-game-id="`+escape(gameID)+`" class="display">
    <main class="shell">
      <header class="bar">
        <span class="tag">Last Call</span>
        <span id="turnBanner" class="turn-banner"></span>
      </header>
      <div id="board" class="board large"></div>
      <ul id="timerList" class="timer-list"></ul>
    </main>

    <script>
      const gameID = document.body.dataset.gameId;
      const el = (id) => document.getElementById(id);
      let snapshot = null;

      function render() {
        if (!snapshot) return;
        const board = el("board");
        board.innerHTML = "";
        for (const cell of snapshot.board) {
          const div = document.createElement("div");
          div.className = "cell kind-" + cell.kind;
          div.title = cell.label;
          for (const p of snapshot.players.filter((x) => x.position === cell.index)) {
            const tok = document.createElement("span");
            tok.className = "token";
            tok.style.background = p.color;
            tok.textContent = p.name[0];
            div.appendChild(tok);
          }
          board.appendChild(div);
        }
        el("turnBanner").textContent = snapshot.phase === "finished"
          ? snapshot.winner_name + " made it out!"
          : snapshot.phase === "lobby"
            ? "Waiting in the lobby (" + snapshot.resume_code + ")"
            : (snapshot.current_player_name || "") + "'s turn";
        const timers = el("timerList");
        timers.innerHTML = "";
        for (const t of snapshot.timers) {
          const li = document.createElement("li");
          li.className = t.expired ? "expired" : "";
          li.textContent = t.label + (t.expired ? " — time's up" : " — " + t.remaining_seconds + "s");
          timers.appendChild(li);
        }
      }

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/games/" + gameID);
      ws.addEventListener("message", (event) => {
        snapshot = JSON.parse(event.data);
        render();
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}

package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// GameView is the pass-the-phone play surface. All state arrives over the
// game websocket; the markup here is just the empty slots it fills in.
func GameView(gameID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Last Call</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body data-game-id="`+escape(gameID)+`">
    <main class="shell play">
      <header class="bar">
        <span class="tag">Last Call</span>
        <span id="resumeCode" class="code"></span>
        <a class="display-link" href="/display/`+escape(gameID)+`" target="_blank">Table display</a>
      </header>

      <section id="lobbyPanel" class="panel hidden">
        <h2>Who's playing?</h2>
        <form id="joinForm" class="join-form">
          <input name="name" placeholder="Player name" maxlength="18" autocomplete="off" required/>
          <button type="submit" class="secondary">Add player</button>
        </form>
        <ul id="lobbyList" class="player-list"></ul>
        <button id="startGame" class="primary" disabled>Start game</button>
        <div id="lobbyResult" class="result"></div>
      </section>

      <section id="playPanel" class="panel hidden">
        <div id="turnBanner" class="turn-banner"></div>
        <div id="board" class="board"></div>
        <div id="handoffBox" class="action-box hidden">
          <p id="handoffText"></p>
          <button id="handoffBtn" class="primary">It's me, let's go</button>
        </div>
        <div id="rollBox" class="action-box hidden">
          <button id="rollBtn" class="primary">Roll the die</button>
          <div id="rollResult" class="die"></div>
        </div>
        <div id="ackBox" class="action-box hidden">
          <h3 id="ackTitle"></h3>
          <p id="ackBody"></p>
          <button id="ackBtn" class="primary"></button>
        </div>
        <div id="playResult" class="result"></div>
      </section>

      <section id="timerPanel" class="panel hidden">
        <h2>Timers</h2>
        <ul id="timerList" class="timer-list"></ul>
      </section>

      <footer class="bar">
        <button id="lobbyBtn" class="ghost hidden">Back to lobby</button>
        <button id="resetBtn" class="ghost">Reset table</button>
      </footer>
    </main>

    <script>
      const gameID = document.body.dataset.gameId;
      const api = (path, body) => fetch("/api/games/" + gameID + path, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: body ? JSON.stringify(body) : undefined
      });
      const el = (id) => document.getElementById(id);
      const show = (id, on) => el(id).classList.toggle("hidden", !on);

      let snapshot = null;
      let animating = false;

      function renderBoard() {
        const board = el("board");
        board.innerHTML = "";
        for (const cell of snapshot.board) {
          const div = document.createElement("div");
          div.className = "cell kind-" + cell.kind;
          div.title = cell.label;
          const here = snapshot.players.filter((p) => p.position === cell.index);
          for (const p of here) {
            const tok = document.createElement("span");
            tok.className = "token";
            tok.style.background = p.color;
            tok.textContent = p.name[0];
            div.appendChild(tok);
          }
          board.appendChild(div);
        }
      }

      function renderLobby() {
        const list = el("lobbyList");
        list.innerHTML = "";
        for (const p of snapshot.players) {
          const li = document.createElement("li");
          li.innerHTML = '<span class="swatch" style="background:' + p.color + '"></span>' +
            p.name + ' <button class="ghost" data-remove="' + p.id + '">remove</button>';
          list.appendChild(li);
        }
        el("startGame").disabled = snapshot.players.length < 2;
      }

      function renderTimers() {
        const list = el("timerList");
        list.innerHTML = "";
        for (const t of snapshot.timers) {
          const li = document.createElement("li");
          li.className = t.expired ? "expired" : "";
          li.innerHTML = t.label + " — " +
            (t.expired ? "time's up" : t.remaining_seconds + "s left") +
            ' <button class="ghost" data-clear="' + t.id + '">dismiss</button>';
          list.appendChild(li);
        }
        show("timerPanel", snapshot.timers.length > 0);
      }

      function render() {
        if (!snapshot) return;
        el("resumeCode").textContent = snapshot.resume_code;
        const lobby = snapshot.phase === "lobby";
        show("lobbyPanel", lobby);
        show("playPanel", !lobby);
        show("lobbyBtn", snapshot.phase === "playing");
        if (lobby) {
          renderLobby();
        } else {
          renderBoard();
          const current = snapshot.current_player_name || "";
          el("turnBanner").textContent = snapshot.phase === "finished"
            ? snapshot.winner_name + " made it out!"
            : current + "'s turn";
          show("handoffBox", snapshot.stage === "handoff" && !snapshot.pending_ack);
          el("handoffText").textContent = "Pass the phone to " + current + ".";
          show("rollBox", snapshot.stage === "roll");
          show("ackBox", snapshot.stage === "acknowledge" && !!snapshot.pending_ack);
          if (snapshot.pending_ack) {
            el("ackTitle").textContent = snapshot.pending_ack.title;
            el("ackBody").textContent = snapshot.pending_ack.body;
            el("ackBtn").textContent = snapshot.pending_ack.confirm_label;
          }
        }
        renderTimers();
      }

      async function animateRoll(move) {
        animating = true;
        el("rollResult").textContent = "Rolled a " + move.steps;
        const me = snapshot.players[snapshot.current_player_index];
        for (const idx of move.path) {
          me.position = idx;
          renderBoard();
          await new Promise((r) => setTimeout(r, 250));
        }
        animating = false;
        await api("/settle");
      }

      el("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const name = el("joinForm").elements.name.value.trim();
        const res = await api("/join", { name });
        const data = await res.json();
        el("lobbyResult").textContent = res.ok ? "" : data.error;
        if (res.ok) el("joinForm").reset();
      });
      el("lobbyList").addEventListener("click", (event) => {
        const id = event.target.dataset.remove;
        if (id) api("/players/" + id + "/remove");
      });
      el("timerList").addEventListener("click", (event) => {
        const id = event.target.dataset.clear;
        if (id) api("/timers/" + id + "/clear");
      });
      el("startGame").addEventListener("click", () => api("/start"));
      el("handoffBtn").addEventListener("click", () => api("/handoff"));
      el("rollBtn").addEventListener("click", async () => {
        const res = await api("/roll");
        const data = await res.json();
        if (!res.ok) {
          el("playResult").textContent = data.error;
          return;
        }
        await animateRoll(data);
      });
      el("ackBtn").addEventListener("click", () => api("/ack"));
      el("lobbyBtn").addEventListener("click", () => api("/lobby"));
      el("resetBtn").addEventListener("click", () => {
        if (confirm("Reset the table? This clears every player.")) api("/reset");
      });

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/games/" + gameID);
      ws.addEventListener("message", (event) => {
        snapshot = JSON.parse(event.data);
        if (!animating) render();
      });
      setInterval(() => {
        if (snapshot && snapshot.timers.length > 0 && !animating) {
          for (const t of snapshot.timers) {
            if (!t.expired && t.remaining_seconds > 0) t.remaining_seconds--;
            if (t.remaining_seconds <= 0) t.expired = true;
          }
          renderTimers();
        }
      }, 1000);
    </script>
  </body>
</html>
`)
		return nil
	})
}

package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(summaries []SessionSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Last Call</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Last Call</span>
        <h1>One phone. One board. Last one standing.</h1>
        <p>Start a table and pass the device around, or pick up where a saved game left off.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Start a table</h2>
          <p>Creates a fresh board and gives you a resume code for later.</p>
        </div>
        <button id="createGame" class="primary">Start table</button>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Resume a table</h2>
          <p>Enter the resume code from an earlier session.</p>
        </div>
        <form id="restoreForm" class="join-form">
          <input name="code" placeholder="Resume code" autocomplete="off" required/>
          <button type="submit" class="secondary">Resume</button>
        </form>
        <div id="restoreResult" class="result"></div>
      </section>
`)
		if len(summaries) > 0 {
			_, _ = io.WriteString(w, `      <section class="panel">
        <h2>Open tables</h2>
        <ul class="game-list">
`)
			for _, s := range summaries {
				_, _ = io.WriteString(w, `          <li><a href="/games/`+escape(s.ID)+`">`+escape(s.ResumeCode)+`</a> <span class="phase">`+escape(s.Phase)+`</span> <span class="count">`+itoa(s.Players)+` players</span></li>
`)
			}
			_, _ = io.WriteString(w, `        </ul>
      </section>
`)
		}
		_, _ = io.WriteString(w, `    </main>

    <script>
      const createBtn = document.getElementById("createGame");
      const createResult = document.getElementById("createResult");
      const restoreForm = document.getElementById("restoreForm");
      const restoreResult = document.getElementById("restoreResult");

      createBtn.addEventListener("click", async () => {
        createResult.textContent = "Setting up the board...";
        const res = await fetch("/api/games", { method: "POST" });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to start a table.";
          return;
        }
        window.location.href = "/games/" + data.game_id;
      });

      restoreForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        restoreResult.textContent = "Looking up that table...";
        const code = restoreForm.elements.code.value.trim();
        const res = await fetch("/api/restore", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ code })
        });
        const data = await res.json();
        if (!res.ok) {
          restoreResult.textContent = data.error || "No table found for that code.";
          return;
        }
        window.location.href = "/games/" + data.game_id;
      });

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/home");
      ws.addEventListener("message", () => {
        // Summaries changed on the server. A reload keeps the list honest.
        window.location.reload();
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}

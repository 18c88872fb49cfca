package main

import (
	"log"
	"net/http"
	"os"

	"last-call/internal/config"
	"last-call/internal/db"
	"last-call/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Printf("database unavailable, running without persistence: %v", err)
		conn = nil
	} else if err := db.Migrate(conn); err != nil {
		log.Printf("database migration failed: %v", err)
	}

	srv := server.New(conn, cfg)
	srv.RestoreSaved()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	log.Printf("last-call server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

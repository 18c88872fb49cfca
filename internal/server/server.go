package server

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"last-call/internal/config"
	"last-call/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	homeWS   *homeHub
	cfg      config.Config
	rngMu    sync.Mutex
	rng      *rand.Rand
	sweepsMu sync.Mutex
	sweeps   map[string]*time.Timer
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		ws:     newWSHub(),
		homeWS: newHomeHub(),
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sweeps: make(map[string]*time.Timer),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("GET /games/", s.handleGameView)
	mux.HandleFunc("GET /display/", s.handleDisplayView)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("POST /api/restore", s.handleRestore)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /ws/games/", s.handleWebsocket)
	mux.HandleFunc("GET /ws/home", s.handleHomeWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}

func (s *Server) rollDie() int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return game.RollDie(s.rng)
}

func (s *Server) snapshot(g *Game) map[string]any {
	return snapshotWithConfig(g, s.cfg, timeNowUTC())
}

package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"last-call/internal/game"
)

// Game wraps a session with the transient, presentation-only state the
// durable snapshot must never contain.
type Game struct {
	ID         string
	ResumeCode string
	Session    *game.Session

	// Animating marks a token move whose step animation has not
	// settled yet. While set, no roll or acknowledgement is accepted
	// and no snapshot is written.
	Animating bool
	LastMove  *game.Move
}

type GameSummary struct {
	ID         string
	ResumeCode string
	Phase      game.Phase
	Players    int
}

type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	games        map[string]*Game
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		games:        make(map[string]*Game),
	}
}

func (s *Store) CreateGame() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("game-%d", s.nextID)
	s.nextID++
	g := &Game{
		ID:         id,
		ResumeCode: newResumeCode(),
		Session:    game.NewSession(),
	}
	s.games[id] = g
	return g
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	return g, ok
}

// UpdateGame runs one mutation under the store lock. One mutation
// completes before the next begins; there is no finer locking.
func (s *Store) UpdateGame(id string, update func(g *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, errors.New("game not found")
	}
	if err := update(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Store) FindGameByResumeCode(code string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.ResumeCode == code {
			return g, true
		}
	}
	return nil, false
}

// AddPlayer allocates the player identity and adds it to the roster in
// one critical section.
func (s *Store) AddPlayer(gameID, name string) (*Game, *game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, nil, errors.New("game not found")
	}
	player, err := g.Session.AddPlayer(s.nextPlayerID, name)
	if err != nil {
		return nil, nil, err
	}
	s.nextPlayerID++
	return g, player, nil
}

// RestoreGame registers a session rebuilt from a persisted snapshot and
// bumps the identity counters past anything it contains.
func (s *Store) RestoreGame(g *Game) error {
	if g == nil || g.Session == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; ok {
		return errors.New("game already running")
	}
	for _, existing := range s.games {
		if existing.ResumeCode == g.ResumeCode {
			return errors.New("game already running")
		}
	}
	s.games[g.ID] = g
	if id := gameSortKey(g.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	maxPlayerID := 0
	for _, player := range g.Session.Players {
		if player.ID > maxPlayerID {
			maxPlayerID = player.ID
		}
	}
	if maxPlayerID >= s.nextPlayerID {
		s.nextPlayerID = maxPlayerID + 1
	}
	return nil
}

func (s *Store) ListGameSummaries() []GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]GameSummary, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, GameSummary{
			ID:         g.ID,
			ResumeCode: g.ResumeCode,
			Phase:      g.Session.Phase,
			Players:    len(g.Session.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return gameSortKey(list[i].ID) < gameSortKey(list[j].ID)
	})
	return list
}

func gameSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}

package game

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Stage is the turn sub-state while the session is playing.
type Stage string

const (
	StageHandoff     Stage = "handoff"
	StageRoll        Stage = "roll"
	StageResolving   Stage = "resolving"
	StageAcknowledge Stage = "acknowledge"
)

const (
	MaxPlayers    = 16
	MinPlayers    = 2
	MaxNameLength = 18
)

var (
	ErrNameRequired   = errors.New("player name is required")
	ErrNameTooLong    = errors.New("player name is too long")
	ErrNameTaken      = errors.New("player name already taken")
	ErrLobbyFull      = errors.New("lobby is full")
	ErrNotInLobby     = errors.New("session is not in the lobby")
	ErrNotPlaying     = errors.New("session is not being played")
	ErrNeedMorePlayer = errors.New("at least two players required")
	ErrPlayerNotFound = errors.New("player not found")
	ErrRollBlocked    = errors.New("rolling is not allowed right now")
	ErrNoPendingMove  = errors.New("no move awaiting resolution")
	ErrNoPendingAck   = errors.New("no acknowledgement pending")
	ErrNoHandoff      = errors.New("no handoff pending")
	ErrBoardLoop      = errors.New("board relocation chain does not terminate")
)

type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Color    string `json:"color"`
}

// AckAction is the sub-action an acknowledgement demands before the
// turn may advance.
type AckAction string

const (
	AckActionNone        AckAction = ""
	AckActionSocialTimer AckAction = "start-social-timer"
	AckActionVideoTimer  AckAction = "start-video-timer"
	AckActionNewGame     AckAction = "new-game"
)

// PendingAck blocks all rolling until the current player confirms it.
// At most one exists per session.
type PendingAck struct {
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	ConfirmLabel   string    `json:"confirm_label"`
	RequiredAction AckAction `json:"required_action"`
	CellIndex      int       `json:"cell_index"`
	CellKind       CellKind  `json:"cell_kind"`
}

// Timer is a wall-clock fact, not a scheduled callback. Expiry is
// computed lazily against "now" whenever it is displayed.
type Timer struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is the whole durable game state. Everything transient
// (animation flags, last roll detail) lives outside of it.
type Session struct {
	Phase              Phase       `json:"phase"`
	Board              []Cell      `json:"board"`
	Players            []Player    `json:"players"`
	CurrentPlayerIndex int         `json:"current_player_index"`
	Stage              Stage       `json:"stage,omitempty"`
	PendingAck         *PendingAck `json:"pending_ack,omitempty"`
	Timers             []Timer     `json:"timers"`
	WinnerName         string      `json:"winner_name,omitempty"`
}

func NewSession() *Session {
	return &Session{
		Phase:   PhaseLobby,
		Board:   BuildBoard(),
		Players: []Player{},
		Timers:  []Timer{},
	}
}

var colorPalette = []string{
	"#ff6b6b",
	"#4dabf7",
	"#51cf66",
	"#ffa94d",
	"#ffd43b",
	"#845ef7",
	"#20c997",
	"#e64980",
	"#f783ac",
	"#748ffc",
	"#63e6be",
	"#fab005",
	"#a9e34b",
	"#9775fa",
	"#3bc9db",
	"#ced4da",
}

// AddPlayer appends a player to the roster. The id comes from the
// caller's identity source.
func (s *Session) AddPlayer(id int, name string) (*Player, error) {
	if s.Phase != PhaseLobby {
		return nil, ErrNotInLobby
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	for _, player := range s.Players {
		if strings.EqualFold(player.Name, trimmed) {
			return nil, ErrNameTaken
		}
	}
	if len(s.Players) >= MaxPlayers {
		return nil, ErrLobbyFull
	}
	player := Player{
		ID:    id,
		Name:  trimmed,
		Color: s.pickColor(),
	}
	s.Players = append(s.Players, player)
	return &s.Players[len(s.Players)-1], nil
}

// pickColor prefers a palette color nobody holds yet; once the palette
// is exhausted repeats are allowed.
func (s *Session) pickColor() string {
	used := make(map[string]struct{}, len(s.Players))
	for _, player := range s.Players {
		used[player.Color] = struct{}{}
	}
	for _, color := range colorPalette {
		if _, taken := used[color]; !taken {
			return color
		}
	}
	return colorPalette[len(s.Players)%len(colorPalette)]
}

func (s *Session) RemovePlayer(id int) error {
	if s.Phase != PhaseLobby {
		return ErrNotInLobby
	}
	for i, player := range s.Players {
		if player.ID == id {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// Start begins play. Turn order is the roster order; the first player
// must confirm the pass-handoff before rolling.
func (s *Session) Start() error {
	if s.Phase != PhaseLobby {
		return ErrNotInLobby
	}
	if len(s.Players) < MinPlayers {
		return ErrNeedMorePlayer
	}
	s.Phase = PhasePlaying
	s.Stage = StageHandoff
	s.CurrentPlayerIndex = 0
	s.PendingAck = nil
	s.WinnerName = ""
	for i := range s.Players {
		s.Players[i].Position = 0
	}
	return nil
}

// Reset wipes the session back to an empty lobby, roster included.
func (s *Session) Reset() {
	s.Phase = PhaseLobby
	s.Stage = ""
	s.Players = []Player{}
	s.CurrentPlayerIndex = 0
	s.PendingAck = nil
	s.Timers = []Timer{}
	s.WinnerName = ""
}

// BackToLobby abandons play but keeps the roster, with every token
// returned to start. Reset is the one that clears the roster.
func (s *Session) BackToLobby() {
	s.Phase = PhaseLobby
	s.Stage = ""
	s.CurrentPlayerIndex = 0
	s.PendingAck = nil
	s.WinnerName = ""
	for i := range s.Players {
		s.Players[i].Position = 0
	}
}

func (s *Session) CurrentPlayer() *Player {
	if len(s.Players) == 0 {
		return nil
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// ConfirmHandoff records that the device reached the next player.
func (s *Session) ConfirmHandoff() error {
	if s.Phase != PhasePlaying || s.Stage != StageHandoff {
		return ErrNoHandoff
	}
	s.Stage = StageRoll
	return nil
}

func (s *Session) CellAt(index int) Cell {
	if index < 0 || index >= len(s.Board) {
		return Cell{Index: index, Kind: CellPlain, Label: cellLabels[CellPlain]}
	}
	return s.Board[index]
}

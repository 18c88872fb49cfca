package game

import (
	"fmt"
	"time"
)

// cellResolvers builds the acknowledgement for each terminal cell kind.
// Relocation (move-back-5) is handled before dispatch; only the cell
// it relocates to resolves.
var cellResolvers = map[CellKind]func(cell Cell, player *Player) PendingAck{
	CellStart: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Back to the start", "Catch your breath. Nothing happens here.")
	},
	CellPlain: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Breather", "Nothing happens. Enjoy it while it lasts.")
	},
	CellSafe: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Safe cell", "You are safe. Pass the device with a smug grin.")
	},
	CellDrinkSmall:  drinkResolver,
	CellDrinkMedium: drinkResolver,
	CellDrinkLarge:  drinkResolver,
	CellDrinkMax:    drinkResolver,
	CellTimedChug: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Timed chug", fmt.Sprintf("%s drinks until the table stops counting to five.", player.Name))
	},
	CellShotgun: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Shotgun", fmt.Sprintf("%s shotguns a can. No substitutions.", player.Name))
	},
	CellFinishDrink: func(cell Cell, player *Player) PendingAck {
		return confirmAck(cell, "Finish your drink", fmt.Sprintf("%s finishes whatever is in hand.", player.Name))
	},
	CellSocialTimer: func(cell Cell, player *Player) PendingAck {
		return PendingAck{
			Title:          "Story time",
			Body:           fmt.Sprintf("%s posts a story the group picks. It stays up until the timer runs out.", player.Name),
			ConfirmLabel:   "Start the 10 minute timer",
			RequiredAction: AckActionSocialTimer,
			CellIndex:      cell.Index,
			CellKind:       cell.Kind,
		}
	},
	CellVideoTimer: func(cell Cell, player *Player) PendingAck {
		return PendingAck{
			Title:          "Short film",
			Body:           fmt.Sprintf("%s records the video the group decides on. One hour on the clock.", player.Name),
			ConfirmLabel:   "Start the 60 minute timer",
			RequiredAction: AckActionVideoTimer,
			CellIndex:      cell.Index,
			CellKind:       cell.Kind,
		}
	},
	CellDare: func(cell Cell, player *Player) PendingAck {
		// The table assigns the dare out loud; there is no preset text.
		return PendingAck{
			Title:        "Dare",
			ConfirmLabel: "Dare completed",
			CellIndex:    cell.Index,
			CellKind:     cell.Kind,
		}
	},
}

func drinkResolver(cell Cell, player *Player) PendingAck {
	units := DrinkUnits(cell.Kind)
	return confirmAck(cell, cell.Label, fmt.Sprintf("%s takes %d sips.", player.Name, units))
}

func confirmAck(cell Cell, title, body string) PendingAck {
	return PendingAck{
		Title:        title,
		Body:         body,
		ConfirmLabel: "Got it",
		CellIndex:    cell.Index,
		CellKind:     cell.Kind,
	}
}

// ResolveLanding inspects the cell under the current player and
// produces the pending acknowledgement that gates the turn. Move-back
// cells relocate first and resolve the destination; the chain is depth
// capped so a broken layout fails loudly instead of spinning.
func (s *Session) ResolveLanding() (*PendingAck, error) {
	if s.Phase != PhasePlaying || s.Stage != StageResolving {
		return nil, ErrNoPendingMove
	}
	player := s.CurrentPlayer()
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	cell := s.CellAt(player.Position)
	depth := 0
	for cell.Kind == CellMoveBack {
		depth++
		if depth > len(s.Board) {
			return nil, ErrBoardLoop
		}
		next := player.Position - moveBackSteps
		if next < 0 {
			next = 0
		}
		player.Position = next
		cell = s.CellAt(next)
	}

	if cell.Kind == CellWin {
		s.Phase = PhaseFinished
		s.Stage = ""
		s.WinnerName = player.Name
		s.PendingAck = &PendingAck{
			Title:          "Last call!",
			Body:           fmt.Sprintf("%s wins. Everyone else finishes their drink.", player.Name),
			ConfirmLabel:   "New game",
			RequiredAction: AckActionNewGame,
			CellIndex:      cell.Index,
			CellKind:       cell.Kind,
		}
		return s.PendingAck, nil
	}

	resolve, ok := cellResolvers[cell.Kind]
	if !ok {
		resolve = cellResolvers[CellPlain]
	}
	ack := resolve(cell, player)
	s.PendingAck = &ack
	s.Stage = StageAcknowledge
	return s.PendingAck, nil
}

// AckInput carries the collaborator seams an acknowledgement needs:
// the clock, the identity source for timers, and the configured timer
// durations.
type AckInput struct {
	Now           time.Time
	NewTimerID    func() string
	SocialTimeout time.Duration
	VideoTimeout  time.Duration
}

// Acknowledge clears the pending acknowledgement, starts the required
// timer if the cell demanded one, and hands the turn to the next
// player. A finished session returns to the lobby instead.
func (s *Session) Acknowledge(in AckInput) (*Timer, error) {
	if s.PendingAck == nil {
		return nil, ErrNoPendingAck
	}
	// A pending acknowledgement with nobody at the table only exists
	// in corrupt state; rejecting keeps the turn math well defined.
	if len(s.Players) == 0 {
		return nil, ErrPlayerNotFound
	}
	ack := *s.PendingAck
	s.PendingAck = nil

	if s.Phase == PhaseFinished || ack.RequiredAction == AckActionNewGame {
		s.BackToLobby()
		return nil, nil
	}

	var started *Timer
	player := s.CurrentPlayer()
	switch ack.RequiredAction {
	case AckActionSocialTimer:
		timer := StartTimer(timerLabel(player, "story"), in.SocialTimeout, in.Now, in.NewTimerID())
		s.Timers = append(s.Timers, timer)
		started = &s.Timers[len(s.Timers)-1]
	case AckActionVideoTimer:
		timer := StartTimer(timerLabel(player, "video"), in.VideoTimeout, in.Now, in.NewTimerID())
		s.Timers = append(s.Timers, timer)
		started = &s.Timers[len(s.Timers)-1]
	}

	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
	s.Stage = StageHandoff
	return started, nil
}

func timerLabel(player *Player, kind string) string {
	if player == nil {
		return kind
	}
	return fmt.Sprintf("%s: %s", player.Name, kind)
}

package game

import "math/rand"

const DieSides = 6

// RollDie consumes one die roll from the supplied source.
func RollDie(rng *rand.Rand) int {
	return rng.Intn(DieSides) + 1
}

// Move is the outcome of applying a die roll: where the token ends up
// and every intermediate index it visits, in order. The path exists
// for the step animation only; intermediate cells have no effects.
type Move struct {
	Steps   int   `json:"steps"`
	From    int   `json:"from"`
	To      int   `json:"to"`
	Bounced bool  `json:"bounced"`
	Path    []int `json:"path"`
}

// PlanMove maps a die roll to a final position. Overshooting the win
// cell bounces the token back by the overshoot amount, so only an
// exact landing ever reaches the win cell.
func PlanMove(from, steps int) Move {
	move := Move{Steps: steps, From: from}
	raw := from + steps
	path := make([]int, 0, steps+1)
	if raw <= WinIndex {
		for pos := from + 1; pos <= raw; pos++ {
			path = append(path, pos)
		}
		move.To = raw
		move.Path = path
		return move
	}
	for pos := from + 1; pos <= WinIndex; pos++ {
		path = append(path, pos)
	}
	final := WinIndex - (raw - WinIndex)
	if final < 0 {
		final = 0
	}
	for pos := WinIndex - 1; pos >= final; pos-- {
		path = append(path, pos)
	}
	move.To = final
	move.Bounced = true
	move.Path = path
	return move
}

// CanRoll reports whether the current player may roll. Every gate
// surfaces as ErrRollBlocked so callers can treat the whole class as
// one no-op.
func (s *Session) CanRoll() error {
	if s.Phase != PhasePlaying {
		return ErrRollBlocked
	}
	if s.Stage != StageRoll {
		return ErrRollBlocked
	}
	if s.PendingAck != nil {
		return ErrRollBlocked
	}
	if len(s.Players) < MinPlayers {
		return ErrRollBlocked
	}
	return nil
}

// BeginMove applies a rolled step count to the current player. The
// session enters the resolving stage: no further roll or
// acknowledgement is accepted until ResolveLanding has run.
func (s *Session) BeginMove(steps int) (Move, error) {
	if err := s.CanRoll(); err != nil {
		return Move{}, err
	}
	if steps < 1 || steps > DieSides {
		return Move{}, ErrRollBlocked
	}
	player := s.CurrentPlayer()
	if player == nil {
		return Move{}, ErrPlayerNotFound
	}
	move := PlanMove(player.Position, steps)
	player.Position = move.To
	s.Stage = StageResolving
	return move, nil
}

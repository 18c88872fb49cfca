package game

// CellKind decides what happens when a token lands on a cell.
type CellKind string

const (
	CellStart       CellKind = "start"
	CellPlain       CellKind = "plain"
	CellSafe        CellKind = "safe"
	CellDrinkSmall  CellKind = "drink-small"
	CellDrinkMedium CellKind = "drink-medium"
	CellDrinkLarge  CellKind = "drink-large"
	CellDrinkMax    CellKind = "drink-max"
	CellTimedChug   CellKind = "timed-chug"
	CellShotgun     CellKind = "shotgun"
	CellFinishDrink CellKind = "finish-drink"
	CellMoveBack    CellKind = "move-back-5"
	CellSocialTimer CellKind = "social-story-timer"
	CellVideoTimer  CellKind = "short-video-timer"
	CellDare        CellKind = "dare"
	CellWin         CellKind = "win"
)

const (
	BoardSize     = 35
	WinIndex      = BoardSize - 1
	moveBackSteps = 5
)

type Cell struct {
	Index int      `json:"index"`
	Kind  CellKind `json:"kind"`
	Label string   `json:"label"`
}

// boardLayout is the game's balance. Indices not listed here are plain.
var boardLayout = map[int]CellKind{
	0:  CellStart,
	1:  CellDrinkSmall,
	3:  CellDrinkMedium,
	4:  CellSafe,
	5:  CellSocialTimer,
	6:  CellDrinkSmall,
	7:  CellDare,
	9:  CellTimedChug,
	10: CellDrinkLarge,
	11: CellSafe,
	12: CellMoveBack,
	13: CellDrinkSmall,
	14: CellVideoTimer,
	16: CellDrinkMedium,
	17: CellMoveBack,
	18: CellDare,
	19: CellSafe,
	20: CellShotgun,
	21: CellDrinkSmall,
	23: CellSocialTimer,
	24: CellDrinkLarge,
	25: CellDare,
	26: CellMoveBack,
	27: CellDrinkMedium,
	28: CellSafe,
	29: CellTimedChug,
	30: CellDrinkMax,
	31: CellDare,
	32: CellFinishDrink,
	34: CellWin,
}

var cellLabels = map[CellKind]string{
	CellStart:       "Start",
	CellPlain:       "Breather",
	CellSafe:        "Safe",
	CellDrinkSmall:  "Drink 2",
	CellDrinkMedium: "Drink 3",
	CellDrinkLarge:  "Drink 5",
	CellDrinkMax:    "Drink 10",
	CellTimedChug:   "Timed chug",
	CellShotgun:     "Shotgun",
	CellFinishDrink: "Finish your drink",
	CellMoveBack:    "Back 5",
	CellSocialTimer: "Story time",
	CellVideoTimer:  "Short film",
	CellDare:        "Dare",
	CellWin:         "Last call",
}

// BuildBoard returns the fixed 35-cell path. Deterministic and pure.
func BuildBoard() []Cell {
	board := make([]Cell, BoardSize)
	for i := range board {
		kind, ok := boardLayout[i]
		if !ok {
			kind = CellPlain
		}
		board[i] = Cell{
			Index: i,
			Kind:  kind,
			Label: cellLabels[kind],
		}
	}
	return board
}

// DrinkUnits reports how many sips a drink cell demands. Zero for
// cells that are not drink cells.
func DrinkUnits(kind CellKind) int {
	switch kind {
	case CellDrinkSmall:
		return 2
	case CellDrinkMedium:
		return 3
	case CellDrinkLarge:
		return 5
	case CellDrinkMax:
		return 10
	default:
		return 0
	}
}

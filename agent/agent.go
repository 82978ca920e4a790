package agent

import (
	"bestia/game"
)

// Chooser answers for a seat: given the seat's observation it returns the
// action to submit. A buco entry is answered by its taker's Chooser.
type Chooser interface {
	Choose(obs *game.Observation) (game.Action, error)
	Name() string
}

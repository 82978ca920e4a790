package agent

import (
	"fmt"
	"math/rand"

	"bestia/game"
)

// Random picks uniformly from the legal actions. The baseline of baselines.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Choose(obs *game.Observation) (game.Action, error) {
	legal := obs.LegalActions()
	if len(legal) == 0 {
		return game.Action{}, fmt.Errorf("random: seat %d has no decision to make", obs.Seat)
	}
	return legal[r.rng.Intn(len(legal))], nil
}

func (r *Random) Name() string {
	return "random"
}

package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bestia/agent"
	"bestia/game"
)

// maxSteps bounds the decisions in one hand. A full table never needs more
// than a few dozen; hitting the cap means the state machine is stuck.
const maxSteps = 100

// maxRetries is how often one participant may resubmit after an illegal
// action before the hand is aborted.
const maxRetries = 3

// Sink receives the closing record of every hand.
type Sink func(game.HandSummary)

// Engine drives a single hand: every decision is put to the controlling
// seat's Chooser, the answer applied, and the state verified, until the
// hand closes. A buco entry is answered by its taker's Chooser.
type Engine struct {
	Choosers []agent.Chooser // one per seat
	Sink     Sink
}

func New(choosers []agent.Chooser) *Engine {
	if len(choosers) < 2 {
		panic("need at least two seats of choosers")
	}
	return &Engine{Choosers: choosers}
}

// RunHand plays the hand to its close and returns the terminal state. The
// input state is never mutated. Chooser failures, exhausted retries and
// invariant breaches abort the hand with an error.
func (e *Engine) RunHand(handID string, h *game.HandState) (*game.HandState, error) {
	if len(e.Choosers) != h.Config.Seats {
		return nil, fmt.Errorf("hand %s: %d choosers for %d seats", handID, len(e.Choosers), h.Config.Seats)
	}

	for steps := 0; !h.IsTerminal(); steps++ {
		if steps >= maxSteps {
			return nil, fmt.Errorf("hand %s: no close after %d decisions", handID, maxSteps)
		}
		actor, ok := h.CurrentActor()
		if !ok {
			return nil, fmt.Errorf("hand %s: open in phase %s with nobody to act", handID, h.Phase)
		}

		next, err := e.decide(h, actor)
		if err != nil {
			return nil, fmt.Errorf("hand %s: %w", handID, err)
		}
		h = next

		if err := h.Verify(); err != nil {
			return nil, fmt.Errorf("hand %s: %w", handID, err)
		}
	}

	summary, err := game.Summarize(handID, h)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("hand %s closed: pot %d, payouts %d, next pot %d, salvo %v",
		handID, summary.Pot, summary.Pot-summary.NextPot, summary.NextPot, summary.Salvo)
	if e.Sink != nil {
		e.Sink(summary)
	}
	return h, nil
}

// decide asks the controlling seat's Chooser until the answer sticks. Only
// an IllegalActionError earns a retry; anything else aborts immediately.
func (e *Engine) decide(h *game.HandState, actor game.ParticipantID) (*game.HandState, error) {
	seat := h.ControllingSeat(actor)
	chooser := e.Choosers[seat]

	for attempt := 1; ; attempt++ {
		a, err := chooser.Choose(h.Observe(seat))
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", actor, chooser.Name(), err)
		}

		next, err := h.Apply(actor, a)
		if err == nil {
			return next, nil
		}
		var illegal *game.IllegalActionError
		if !errors.As(err, &illegal) || attempt >= maxRetries {
			return nil, fmt.Errorf("%s (%s): %w", actor, chooser.Name(), err)
		}
		log.Info().Msgf("%s (%s) resubmits after attempt %d: %s", actor, chooser.Name(), attempt, illegal.Reason)
	}
}

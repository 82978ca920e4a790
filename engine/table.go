package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bestia/agent"
	"bestia/game"
)

// Table runs consecutive hands with money on the side: bankrolls in cents,
// the button passing to the dealer's right, and the unpaid part of every
// pot carried into the next deal.
type Table struct {
	Config    game.Config
	Engine    *Engine
	Bankrolls []int64 // cents per seat
	Dealer    int     // seat holding the button for the next hand
	Carry     int64   // cents rolling into the next pot
	Floor     int64   // a bankroll at or below this stops the table

	seed  int64
	hands int
}

// NewTable seats the choosers with equal bankrolls. Under StakeAll every
// seat antes the dealer fee up front and the first pot opens with one fee
// per seat; under StakeDealer the dealer's fee alone opens it.
func NewTable(cfg game.Config, choosers []agent.Chooser, bankrollCents int64, seed int64) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(choosers) != cfg.Seats {
		return nil, fmt.Errorf("%d choosers for %d seats", len(choosers), cfg.Seats)
	}
	if bankrollCents < cfg.DealerFee {
		return nil, fmt.Errorf("bankroll of %d cents cannot cover the %d cent dealer fee", bankrollCents, cfg.DealerFee)
	}

	t := &Table{
		Config:    cfg,
		Engine:    New(choosers),
		Bankrolls: make([]int64, cfg.Seats),
		seed:      seed,
	}
	for seat := range t.Bankrolls {
		t.Bankrolls[seat] = bankrollCents
	}
	if cfg.StakeMode == game.StakeAll {
		for seat := range t.Bankrolls {
			if seat == t.Dealer {
				continue // the dealer antes through the deal itself
			}
			t.Bankrolls[seat] -= cfg.DealerFee
			t.Carry += cfg.DealerFee
		}
	}
	return t, nil
}

// PlayHand deals one hand, plays it to settlement, applies the seat deltas
// to the bankrolls and passes the button.
func (t *Table) PlayHand() (game.HandSummary, error) {
	handID := uuid.NewString()
	dealer := t.Dealer

	h, err := game.NewHand(t.Config, t.Carry, dealer, t.seed+int64(t.hands))
	if err != nil {
		return game.HandSummary{}, err
	}
	t.Bankrolls[dealer] -= t.Config.DealerFee

	log.Info().Msgf("hand %s: dealer seat %d, pot %d, briscola %s",
		handID, dealer, h.Pot, h.Briscola.Name(t.Config.DeckVariant))

	h, err = t.Engine.RunHand(handID, h)
	if err != nil {
		return game.HandSummary{}, err
	}
	summary, err := game.Summarize(handID, h)
	if err != nil {
		return game.HandSummary{}, err
	}

	for seat, delta := range summary.SeatDeltas {
		t.Bankrolls[seat] += delta
	}
	t.Carry = summary.NextPot
	t.Dealer = (dealer + 1) % t.Config.Seats
	t.hands++
	return summary, nil
}

// Run plays up to the given number of hands, stopping early once any
// bankroll falls to the floor. The summaries of the played hands come
// back even when a later hand aborts.
func (t *Table) Run(hands int) ([]game.HandSummary, error) {
	summaries := make([]game.HandSummary, 0, hands)
	for i := 0; i < hands; i++ {
		if seat, broke := t.broke(); broke {
			log.Info().Msgf("table stops after %d hands: seat %d is down to %d cents",
				len(summaries), seat, t.Bankrolls[seat])
			return summaries, nil
		}
		s, err := t.PlayHand()
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Override adjusts the carried pot between hands, mirroring a house
// correction at a live table.
func (t *Table) Override(ev game.ManualOverrideEvent) error {
	if t.Carry+ev.DeltaCents < 0 {
		return fmt.Errorf("override of %d cents would make the carried pot negative", ev.DeltaCents)
	}
	t.Carry += ev.DeltaCents
	log.Info().Msgf("carried pot adjusted by %d cents: %s", ev.DeltaCents, ev.Reason)
	return nil
}

func (t *Table) broke() (int, bool) {
	for seat, b := range t.Bankrolls {
		if b <= t.Floor {
			return seat, true
		}
	}
	return 0, false
}

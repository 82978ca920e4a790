package game

import "fmt"

// Verify checks the hand's structural invariants: the 40-card multiset is
// conserved across hands, deck, discards, carta in mezzo and played cards;
// hand sizes match the phase; the pot is never negative; a settlement
// balances to the cent. It returns an InvariantViolationError on the first
// breach. A breached hand must be aborted, not played on.
func (h *HandState) Verify() error {
	if h.Pot < 0 {
		return &InvariantViolationError{Check: "pot", Detail: fmt.Sprintf("pot is %d cents", h.Pot)}
	}

	counts := make(map[Card]int, 40)
	counts[h.Briscola]++
	for _, s := range h.Seats {
		for _, c := range s.Hand {
			counts[c]++
		}
	}
	for _, b := range h.Bucos {
		for _, c := range b.Hand {
			counts[c]++
		}
	}
	for _, c := range h.Deck.Cards() {
		counts[c]++
	}
	for _, c := range h.Discards {
		counts[c]++
	}
	for _, g := range h.Grabs {
		for _, p := range g.Plays {
			counts[p.Card]++
		}
	}
	for _, p := range h.Current.Plays {
		counts[p.Card]++
	}

	for _, c := range NewDeck().Cards() {
		switch counts[c] {
		case 1:
		case 0:
			return &InvariantViolationError{Check: "card-conservation", Detail: fmt.Sprintf("%s is missing", c.Code())}
		default:
			return &InvariantViolationError{Check: "card-conservation", Detail: fmt.Sprintf("%s appears %d times", c.Code(), counts[c])}
		}
	}
	if total := len(counts); total != 40 {
		return &InvariantViolationError{Check: "card-conservation", Detail: fmt.Sprintf("%d distinct cards in circulation", total)}
	}

	if err := h.verifyHandSizes(); err != nil {
		return err
	}

	if h.Result != nil {
		if err := h.Result.verifyBalance(); err != nil {
			return err
		}
	}
	return nil
}

func (h *HandState) verifyHandSizes() error {
	switch h.Phase {
	case PhaseSelection, PhaseExchange, PhaseBucoOffer:
		for seat, s := range h.Seats {
			want := 3
			if s.Folded {
				want = 0
			}
			if len(s.Hand) != want {
				return &InvariantViolationError{Check: "hand-size", Detail: fmt.Sprintf("seat %d holds %d cards in %s", seat, len(s.Hand), h.Phase)}
			}
		}
		for i, b := range h.Bucos {
			want := 3
			if h.PendingDiscard == i {
				want = 4
			}
			if len(b.Hand) != want {
				return &InvariantViolationError{Check: "hand-size", Detail: fmt.Sprintf("buco %d holds %d cards", i, len(b.Hand))}
			}
		}
	case PhasePlay:
		played := make(map[ParticipantID]int)
		for _, g := range h.Grabs {
			for _, p := range g.Plays {
				played[p.Actor]++
			}
		}
		for _, p := range h.Current.Plays {
			played[p.Actor]++
		}
		for _, id := range h.Order {
			if got, want := len(*h.handOf(id)), 3-played[id]; got != want {
				return &InvariantViolationError{Check: "hand-size", Detail: fmt.Sprintf("%s holds %d cards, want %d", id, got, want)}
			}
		}
	}
	return nil
}

func (s *Settlement) verifyBalance() error {
	if s.Salvo {
		if s.NextPot != s.Pot {
			return &InvariantViolationError{Check: "money-conservation", Detail: fmt.Sprintf("salvo rolls %d of a %d pot", s.NextPot, s.Pot)}
		}
		return nil
	}

	paid, owed := int64(0), int64(0)
	for _, r := range s.Results {
		paid += r.Payout
		owed += r.Bestia
	}
	if paid+s.Remainder != s.Pot {
		return &InvariantViolationError{Check: "money-conservation", Detail: fmt.Sprintf("payouts %d + remainder %d != pot %d", paid, s.Remainder, s.Pot)}
	}
	if s.NextPot != s.Remainder+owed {
		return &InvariantViolationError{Check: "money-conservation", Detail: fmt.Sprintf("next pot %d != remainder %d + debts %d", s.NextPot, s.Remainder, owed)}
	}

	net := int64(0)
	for _, d := range s.SeatDeltas {
		net += d
	}
	if net != s.Pot-s.NextPot {
		return &InvariantViolationError{Check: "money-conservation", Detail: fmt.Sprintf("seat deltas net %d, want %d", net, s.Pot-s.NextPot)}
	}
	return nil
}

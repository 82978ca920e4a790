package searcher

import (
	"fmt"

	"golang.org/x/exp/rand"

	"bestia/game"
)

// Determinizer deals the cards an observation cannot see. Each sample is one
// world consistent with the observation: the unseen cards go uniformly into
// the other hands, the hidden part of the discard pile and the deck,
// respecting every public count.
type Determinizer struct {
	rng *rand.Rand
}

func NewDeterminizer(rng *rand.Rand) *Determinizer {
	return &Determinizer{rng: rng}
}

// Sample builds a full hand state consistent with the observation. The
// viewer's own cards and discards stay exactly where the observation puts
// them. An observation whose counts the unseen cards cannot cover fails.
func (d *Determinizer) Sample(obs *game.Observation) (*game.HandState, error) {
	seen := map[game.Card]bool{obs.Briscola: true}
	mark := func(c game.Card) error {
		if seen[c] {
			return fmt.Errorf("determinize: %s is visible twice", c.Code())
		}
		seen[c] = true
		return nil
	}
	for _, c := range obs.OwnCards {
		if err := mark(c); err != nil {
			return nil, err
		}
	}
	for _, c := range obs.OwnDiscards {
		if err := mark(c); err != nil {
			return nil, err
		}
	}
	for _, g := range obs.Grabs {
		for _, p := range g.Plays {
			if err := mark(p.Card); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range obs.Current.Plays {
		if err := mark(p.Card); err != nil {
			return nil, err
		}
	}

	me := obs.Seat
	myBuco := obs.Seats[me].InBuco
	if myBuco >= 0 {
		if len(obs.OwnCards) != obs.Bucos[myBuco].HandSize {
			return nil, fmt.Errorf("determinize: seat %d holds %d cards of a %d card buco hand", me, len(obs.OwnCards), obs.Bucos[myBuco].HandSize)
		}
	} else if len(obs.OwnCards) != obs.Seats[me].HandSize {
		return nil, fmt.Errorf("determinize: seat %d holds %d cards, hand size says %d", me, len(obs.OwnCards), obs.Seats[me].HandSize)
	}

	hiddenDiscards := obs.DiscardSize - len(obs.OwnDiscards)
	if hiddenDiscards < 0 {
		return nil, fmt.Errorf("determinize: %d own discards in a pile of %d", len(obs.OwnDiscards), obs.DiscardSize)
	}

	pool := make([]game.Card, 0, 40-len(seen))
	for _, c := range game.NewDeck().Cards() {
		if !seen[c] {
			pool = append(pool, c)
		}
	}

	needed := hiddenDiscards + obs.DeckSize
	for s, view := range obs.Seats {
		if s != me {
			needed += view.HandSize
		}
	}
	for b, view := range obs.Bucos {
		if b != myBuco {
			needed += view.HandSize
		}
	}
	if needed != len(pool) {
		return nil, fmt.Errorf("determinize: observation needs %d hidden cards, %d are unseen", needed, len(pool))
	}

	d.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	take := func(k int) []game.Card {
		out := append([]game.Card(nil), pool[:k]...)
		pool = pool[k:]
		return out
	}

	// Attribute the viewer's discard knowledge back to its owners: a seat
	// inside a buco folded its three cards first, the buco's own discard
	// came after.
	ownSeat := obs.OwnDiscards
	var ownBuco []game.Card
	if myBuco >= 0 && obs.Bucos[myBuco].HandSize == 3 {
		ownSeat = obs.OwnDiscards[:len(obs.OwnDiscards)-1]
		ownBuco = obs.OwnDiscards[len(obs.OwnDiscards)-1:]
	}

	snap := &game.Snapshot{
		Config:         obs.Config,
		Dealer:         obs.Dealer,
		Pot:            obs.Pot,
		Briscola:       obs.Briscola,
		Phase:          obs.Phase,
		Turn:           obs.Turn,
		PendingDiscard: obs.PendingDiscard,
		Order:          obs.Order,
		Leader:         obs.Leader,
		Grabs:          obs.Grabs,
		Current:        obs.Current,
	}
	for s, view := range obs.Seats {
		state := game.SeatState{
			Decided:   view.Decided,
			Folded:    view.Folded,
			Exchanged: view.Exchanged,
			InBuco:    view.InBuco,
		}
		if s == me {
			if myBuco < 0 {
				state.Hand = append([]game.Card(nil), obs.OwnCards...)
			}
			state.OwnDiscards = append([]game.Card(nil), ownSeat...)
		} else {
			state.Hand = take(view.HandSize)
		}
		snap.Seats = append(snap.Seats, state)
	}
	for b, view := range obs.Bucos {
		entry := game.BucoEntry{
			Members: append([]int(nil), view.Members...),
			Weights: append([]int(nil), view.Weights...),
		}
		if b == myBuco {
			entry.Hand = append([]game.Card(nil), obs.OwnCards...)
			entry.OwnDiscards = append([]game.Card(nil), ownBuco...)
		} else {
			entry.Hand = take(view.HandSize)
		}
		snap.Bucos = append(snap.Bucos, entry)
	}
	snap.Discards = append(append([]game.Card(nil), obs.OwnDiscards...), take(hiddenDiscards)...)
	snap.Deck = take(obs.DeckSize)

	return game.RestoreHand(snap)
}

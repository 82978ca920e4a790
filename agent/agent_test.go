package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bestia/game"
	"bestia/searcher"
)

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seats = 4
	cfg.DealerFee = 100
	return cfg
}

func keys(actions []game.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Key()
	}
	return out
}

// observe restores a snapshot and projects it onto one seat.
func observe(t *testing.T, snap *game.Snapshot, seat int) *game.Observation {
	t.Helper()
	h, err := game.RestoreHand(snap)
	require.NoError(t, err)
	return h.Observe(seat)
}

// selectionObs deals seat 0 the given cards and puts it on the spot to
// declare. The other seats take the leftovers in canonical order.
func selectionObs(t *testing.T, briscola game.Card, hand []game.Card) *game.Observation {
	t.Helper()
	cfg := testConfig()
	snap := &game.Snapshot{
		Config:         cfg,
		Dealer:         3,
		Pot:            cfg.DealerFee,
		Briscola:       briscola,
		Phase:          game.PhaseSelection,
		PendingDiscard: -1,
		Seats: []game.SeatState{
			{Hand: hand, Exchanged: -1, InBuco: -1},
		},
	}
	rest := leftovers(briscola, hand)
	for seat := 1; seat < cfg.Seats; seat++ {
		snap.Seats = append(snap.Seats, game.SeatState{Hand: rest[:3], Exchanged: -1, InBuco: -1})
		rest = rest[3:]
	}
	snap.Deck = rest
	return observe(t, snap, 0)
}

// exchangeObs puts seat 0 on the exchange decision with the given cards.
// Cards beyond deckSize land in the discard pile so the deck cap can be
// exercised.
func exchangeObs(t *testing.T, briscola game.Card, hand []game.Card, deckSize int) *game.Observation {
	t.Helper()
	cfg := testConfig()
	snap := &game.Snapshot{
		Config:         cfg,
		Dealer:         3,
		Pot:            cfg.DealerFee,
		Briscola:       briscola,
		Phase:          game.PhaseExchange,
		PendingDiscard: -1,
		Seats: []game.SeatState{
			{Hand: hand, Decided: true, Exchanged: -1, InBuco: -1},
		},
	}
	rest := leftovers(briscola, hand)
	for seat := 1; seat < cfg.Seats; seat++ {
		snap.Seats = append(snap.Seats, game.SeatState{Hand: rest[:3], Decided: true, Exchanged: -1, InBuco: -1})
		rest = rest[3:]
	}
	require.LessOrEqual(t, deckSize, len(rest), "deck cannot hold %d cards", deckSize)
	snap.Deck = rest[:deckSize]
	snap.Discards = rest[deckSize:]
	return observe(t, snap, 0)
}

// playObs builds a two-party grab in progress: seat 0 led the given card
// and seat 2 answers with the given hand. An empty led leaves seat 0 on
// lead instead, observing its own hand.
func playObs(t *testing.T, briscola game.Card, led []game.Card, hand []game.Card) *game.Observation {
	t.Helper()
	cfg := testConfig()
	snap := &game.Snapshot{
		Config:         cfg,
		Dealer:         3,
		Pot:            300,
		Briscola:       briscola,
		Phase:          game.PhasePlay,
		PendingDiscard: -1,
		Order:          []game.ParticipantID{game.SeatID(0), game.SeatID(2)},
		Seats: []game.SeatState{
			{Decided: true, Exchanged: 0, InBuco: -1},
			{Folded: true, Decided: true, Exchanged: -1, InBuco: -1},
			{Hand: hand, Decided: true, Exchanged: 0, InBuco: -1},
			{Folded: true, Decided: true, Exchanged: -1, InBuco: -1},
		},
	}
	viewer := 2
	if len(led) == 0 {
		snap.Seats[0].Hand = hand
		snap.Seats[2].Hand = nil
		viewer = 0
	}
	for _, c := range led {
		snap.Current.Plays = append(snap.Current.Plays, game.PlayedCard{Actor: game.SeatID(0), Card: c})
	}

	// The folded seats and the missing third hand explain the leftovers.
	rest := leftovers(briscola, append(append([]game.Card(nil), led...), hand...))
	if viewer == 2 {
		snap.Seats[0].Hand = rest[:2]
		rest = rest[2:]
	} else {
		snap.Seats[2].Hand = rest[:3]
		rest = rest[3:]
	}
	snap.Discards = rest[:6]
	snap.Deck = rest[6:]
	return observe(t, snap, viewer)
}

// bucoObs builds a buco offer in progress: seats 0 and 2 kept servito,
// seats 1 and 3 folded. With four cards the buco entry for seat 1 owes its
// discard; with none seat 1 is the one being offered the buco.
func bucoObs(t *testing.T, briscola game.Card, bucoHand []game.Card) *game.Observation {
	t.Helper()
	cfg := testConfig()
	snap := &game.Snapshot{
		Config:         cfg,
		Dealer:         3,
		Pot:            cfg.DealerFee,
		Briscola:       briscola,
		Phase:          game.PhaseBucoOffer,
		PendingDiscard: -1,
		Seats: []game.SeatState{
			{Decided: true, Exchanged: 0, InBuco: -1},
			{Folded: true, Decided: true, Exchanged: -1, InBuco: -1},
			{Decided: true, Exchanged: 0, InBuco: -1},
			{Folded: true, Decided: true, Exchanged: -1, InBuco: -1},
		},
	}
	if len(bucoHand) == 4 {
		snap.PendingDiscard = 0
		snap.Seats[1].InBuco = 0
		snap.Bucos = []game.BucoEntry{{Members: []int{1}, Weights: []int{1}, Hand: bucoHand}}
	}

	rest := leftovers(briscola, bucoHand)
	snap.Seats[0].Hand = rest[:3]
	snap.Seats[2].Hand = rest[3:6]
	fold1, fold3 := rest[6:9], rest[9:12]
	snap.Seats[1].OwnDiscards = fold1
	snap.Seats[3].OwnDiscards = fold3
	snap.Discards = rest[6:12]
	snap.Deck = rest[12:]
	return observe(t, snap, 1)
}

// leftovers lists the deck minus the named cards, in canonical order.
func leftovers(briscola game.Card, used []game.Card) []game.Card {
	taken := map[game.Card]bool{briscola: true}
	for _, c := range used {
		taken[c] = true
	}
	var rest []game.Card
	for _, c := range game.NewDeck().Cards() {
		if !taken[c] {
			rest = append(rest, c)
		}
	}
	return rest
}

func TestRandomPlaysLegalActions(t *testing.T) {
	cfg := testConfig()
	r := NewRandom(11)

	for seed := int64(0); seed < 10; seed++ {
		h, err := game.NewHand(cfg, 0, int(seed)%cfg.Seats, seed)
		require.NoError(t, err)

		for steps := 0; !h.IsTerminal(); steps++ {
			require.Less(t, steps, 200, "hand does not close")
			actor, ok := h.CurrentActor()
			require.True(t, ok)

			obs := h.Observe(h.ControllingSeat(actor))
			a, err := r.Choose(obs)
			require.NoError(t, err)
			require.Contains(t, keys(h.LegalActions(actor)), a.Key(),
				"random picked an illegal %s", a)

			h, err = h.Apply(actor, a)
			require.NoError(t, err)
		}
	}
}

func TestRandomReportsNoDecision(t *testing.T) {
	obs := selectionObs(t, game.Card{Suit: game.Denari, Rank: game.Sette}, []game.Card{
		{Suit: game.Bastoni, Rank: game.Asso},
		{Suit: game.Coppe, Rank: game.Due},
		{Suit: game.Spade, Rank: game.Quattro},
	})
	require.Equal(t, 0, obs.Seat)

	bystander := *obs
	bystander.Seat = 1
	_, err := NewRandom(1).Choose(&bystander)
	require.ErrorContains(t, err, "no decision")
}

func TestGreedyKeepsOnStrength(t *testing.T) {
	g := NewGreedy()
	briscola := game.Card{Suit: game.Denari, Rank: game.Sette}

	cases := []struct {
		name string
		hand []game.Card
		want game.ActionType
	}{
		{
			name: "strong hand keeps",
			hand: []game.Card{{Suit: game.Denari, Rank: game.Asso}, {Suit: game.Denari, Rank: game.Tre}, {Suit: game.Bastoni, Rank: game.Re}},
			want: game.Keep,
		},
		{
			name: "weak hand folds",
			hand: []game.Card{{Suit: game.Bastoni, Rank: game.Due}, {Suit: game.Coppe, Rank: game.Quattro}, {Suit: game.Spade, Rank: game.Cinque}},
			want: game.Fold,
		},
		{
			name: "the threshold itself keeps",
			hand: []game.Card{{Suit: game.Denari, Rank: game.Due}, {Suit: game.Coppe, Rank: game.Sette}, {Suit: game.Spade, Rank: game.Sei}},
			want: game.Keep,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := g.Choose(selectionObs(t, briscola, tc.hand))
			require.NoError(t, err)
			require.Equal(t, tc.want, a.Type)
		})
	}
}

func TestGreedyExchangesTheWeakCards(t *testing.T) {
	g := NewGreedy()
	briscola := game.Card{Suit: game.Denari, Rank: game.Sette}

	t.Run("swaps the off-briscola chaff", func(t *testing.T) {
		obs := exchangeObs(t, briscola, []game.Card{
			{Suit: game.Bastoni, Rank: game.Asso},
			{Suit: game.Coppe, Rank: game.Due},
			{Suit: game.Spade, Rank: game.Quattro},
		}, 10)
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, game.Exchange, a.Type)
		require.Equal(t, "exchange:2C,4S", a.Key())
		require.Contains(t, keys(obs.LegalActions()), a.Key())
	})

	t.Run("briscola cards are never swapped", func(t *testing.T) {
		obs := exchangeObs(t, briscola, []game.Card{
			{Suit: game.Denari, Rank: game.Due},
			{Suit: game.Coppe, Rank: game.Tre},
			{Suit: game.Coppe, Rank: game.Quattro},
		}, 10)
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, "exchange:4C", a.Key())
	})

	t.Run("a short deck caps the swap", func(t *testing.T) {
		obs := exchangeObs(t, briscola, []game.Card{
			{Suit: game.Bastoni, Rank: game.Asso},
			{Suit: game.Coppe, Rank: game.Due},
			{Suit: game.Spade, Rank: game.Quattro},
		}, 1)
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, "exchange:2C", a.Key(), "only the weakest card fits the deck")
		require.Contains(t, keys(obs.LegalActions()), a.Key())
	})

	t.Run("a strong hand stays servito", func(t *testing.T) {
		obs := exchangeObs(t, briscola, []game.Card{
			{Suit: game.Bastoni, Rank: game.Asso},
			{Suit: game.Coppe, Rank: game.Tre},
			{Suit: game.Denari, Rank: game.Due},
		}, 10)
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, game.Servito, a.Type)
	})
}

func TestGreedyBucoDecisions(t *testing.T) {
	g := NewGreedy()
	briscola := game.Card{Suit: game.Denari, Rank: game.Sette}

	t.Run("passes the offer", func(t *testing.T) {
		a, err := g.Choose(bucoObs(t, briscola, nil))
		require.NoError(t, err)
		require.Equal(t, game.PassBuco, a.Type)
	})

	t.Run("discards the cheapest card", func(t *testing.T) {
		a, err := g.Choose(bucoObs(t, briscola, []game.Card{
			{Suit: game.Bastoni, Rank: game.Asso},
			{Suit: game.Coppe, Rank: game.Cinque},
			{Suit: game.Denari, Rank: game.Re},
			{Suit: game.Spade, Rank: game.Due},
		}))
		require.NoError(t, err)
		require.Equal(t, game.DiscardBuco, a.Type)
		require.Equal(t, game.Card{Suit: game.Spade, Rank: game.Due}, a.Card,
			"the briscola Re must be worth more than the plain Asso")
	})
}

func TestGreedyPlaysTheCheapestWinner(t *testing.T) {
	g := NewGreedy()
	briscola := game.Card{Suit: game.Denari, Rank: game.Sette}

	t.Run("beats with the smallest card that wins", func(t *testing.T) {
		obs := playObs(t, briscola,
			[]game.Card{{Suit: game.Bastoni, Rank: game.Cinque}},
			[]game.Card{
				{Suit: game.Bastoni, Rank: game.Sette},
				{Suit: game.Bastoni, Rank: game.Asso},
				{Suit: game.Denari, Rank: game.Due},
			})
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, game.Card{Suit: game.Bastoni, Rank: game.Sette}, a.Card)
	})

	t.Run("dumps the cheapest card when it cannot win", func(t *testing.T) {
		obs := playObs(t, briscola,
			[]game.Card{{Suit: game.Bastoni, Rank: game.Asso}},
			[]game.Card{
				{Suit: game.Bastoni, Rank: game.Quattro},
				{Suit: game.Bastoni, Rank: game.Re},
				{Suit: game.Coppe, Rank: game.Asso},
			})
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, game.Card{Suit: game.Bastoni, Rank: game.Quattro}, a.Card)
	})

	t.Run("leads the cheapest card", func(t *testing.T) {
		obs := playObs(t, briscola, nil,
			[]game.Card{
				{Suit: game.Bastoni, Rank: game.Due},
				{Suit: game.Coppe, Rank: game.Re},
				{Suit: game.Denari, Rank: game.Cinque},
			})
		a, err := g.Choose(obs)
		require.NoError(t, err)
		require.Equal(t, game.Card{Suit: game.Bastoni, Rank: game.Due}, a.Card,
			"the briscola Cinque is dearer than the plain Re")
	})
}

func TestGreedyPlaysAFullHand(t *testing.T) {
	cfg := testConfig()
	g := NewGreedy()

	for seed := int64(0); seed < 10; seed++ {
		h, err := game.NewHand(cfg, 150, int(seed)%cfg.Seats, seed)
		require.NoError(t, err)

		for steps := 0; !h.IsTerminal(); steps++ {
			require.Less(t, steps, 200, "hand does not close")
			actor, ok := h.CurrentActor()
			require.True(t, ok)

			a, err := g.Choose(h.Observe(h.ControllingSeat(actor)))
			require.NoError(t, err)
			require.Contains(t, keys(h.LegalActions(actor)), a.Key(),
				"greedy picked an illegal %s", a)

			h, err = h.Apply(actor, a)
			require.NoError(t, err)
		}
		require.NoError(t, h.Verify())
	}
}

func TestSearchChooserFindsALegalMove(t *testing.T) {
	s := NewSearch(searcher.New(2, searcher.WithEpisodes(30), searcher.WithSeed(5)))
	require.Equal(t, "ismcts", s.Name())

	obs := playObs(t, game.Card{Suit: game.Denari, Rank: game.Sette},
		[]game.Card{{Suit: game.Bastoni, Rank: game.Cinque}},
		[]game.Card{
			{Suit: game.Bastoni, Rank: game.Sette},
			{Suit: game.Bastoni, Rank: game.Asso},
			{Suit: game.Denari, Rank: game.Due},
		})
	a, err := s.Choose(obs)
	require.NoError(t, err)
	require.Equal(t, game.PlayCard, a.Type)
	require.Contains(t, keys(obs.LegalActions()), a.Key())
}

package agent

import (
	"fmt"
	"sort"

	"bestia/game"
)

const (
	// keepThreshold is the hand score below which Greedy folds.
	keepThreshold = 20
	// strongRank is the strength a card needs to survive an exchange.
	strongRank = 8
	// briscolaBonus is the flat premium a briscola card carries, both when
	// rating a dealt hand and when pricing a card to spend.
	briscolaBonus = 10
)

// Greedy plays fixed rules of thumb: keep on a strong hand, swap the weak
// off-briscola cards, spend the cheapest card that still takes the grab,
// never enter the buco. It is the standing baseline for search agents.
type Greedy struct{}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Choose(obs *game.Observation) (game.Action, error) {
	legal := obs.LegalActions()
	if len(legal) == 0 {
		return game.Action{}, fmt.Errorf("greedy: seat %d has no decision to make", obs.Seat)
	}

	switch obs.Phase {
	case game.PhaseSelection:
		if handScore(obs.OwnCards, obs.Briscola.Suit) >= keepThreshold {
			return game.Action{Type: game.Keep}, nil
		}
		return game.Action{Type: game.Fold}, nil
	case game.PhaseExchange:
		return g.exchange(obs), nil
	case game.PhaseBucoOffer:
		if obs.Actor.Kind == game.KindBuco {
			return game.Action{Type: game.DiscardBuco, Card: cheapest(obs.OwnCards, obs.Briscola.Suit)}, nil
		}
		return game.Action{Type: game.PassBuco}, nil
	case game.PhasePlay:
		return game.Action{Type: game.PlayCard, Card: g.play(obs, legal)}, nil
	default:
		return legal[0], nil
	}
}

func (g *Greedy) Name() string {
	return "greedy"
}

// exchange swaps every off-briscola card below strongRank, weakest first,
// capped by the table limit and the cards left in the deck.
func (g *Greedy) exchange(obs *game.Observation) game.Action {
	briscola := obs.Briscola.Suit
	var weak []game.Card
	for _, c := range obs.OwnCards {
		if c.Suit != briscola && c.Rank.Strength() < strongRank {
			weak = append(weak, c)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		return weak[i].Rank.Strength() < weak[j].Rank.Strength()
	})

	limit := obs.Config.MaxExchange
	if obs.DeckSize < limit {
		limit = obs.DeckSize
	}
	if len(weak) > limit {
		weak = weak[:limit]
	}
	if len(weak) == 0 {
		return game.Action{Type: game.Servito}
	}
	return game.Action{Type: game.Exchange, Cards: weak}
}

// play picks the cheapest card that would hold the grab as it stands, and
// falls back to the cheapest legal card when nothing wins or when leading.
func (g *Greedy) play(obs *game.Observation, legal []game.Action) game.Card {
	briscola := obs.Briscola.Suit
	best, contested := obs.Current.Best(briscola)

	var winner, fallback game.Card
	winnerCost, fallbackCost := -1, -1
	for _, a := range legal {
		cost := cardCost(a.Card, briscola)
		if fallbackCost < 0 || cost < fallbackCost {
			fallback, fallbackCost = a.Card, cost
		}
		if !contested || !game.Beats(a.Card, best.Card, obs.Current.LedSuit(), briscola) {
			continue
		}
		if winnerCost < 0 || cost < winnerCost {
			winner, winnerCost = a.Card, cost
		}
	}
	if contested && winnerCost >= 0 {
		return winner
	}
	return fallback
}

// handScore rates a dealt hand: pip strength, plus the premium per briscola.
func handScore(hand []game.Card, briscola game.Suit) int {
	score := 0
	for _, c := range hand {
		score += c.Rank.Strength()
		if c.Suit == briscola {
			score += briscolaBonus
		}
	}
	return score
}

// cardCost prices a card for spending. Briscola cards cost extra so the
// greedy line holds trumps back until they are needed.
func cardCost(c game.Card, briscola game.Suit) int {
	cost := c.Rank.Strength()
	if c.Suit == briscola {
		cost += briscolaBonus
	}
	return cost
}

func cheapest(cards []game.Card, briscola game.Suit) game.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if cardCost(c, briscola) < cardCost(best, briscola) {
			best = c
		}
	}
	return best
}

package game

import (
	"fmt"

	"bestia/utils"
)

// LegalActions enumerates every action the participant may submit right
// now. Only the participant the hand is waiting on gets a non-empty set.
func (h *HandState) LegalActions(actor ParticipantID) []Action {
	current, ok := h.CurrentActor()
	if !ok || actor != current {
		return nil
	}

	switch h.Phase {
	case PhaseSelection:
		return []Action{{Type: Keep}, {Type: Fold}}
	case PhaseExchange:
		return exchangeActions(h.Seats[actor.Index].Hand, h.Deck.Len(), h.Config.MaxExchange)
	case PhaseBucoOffer:
		if actor.Kind == KindBuco {
			return discardActions(h.Bucos[actor.Index].Hand)
		}
		return offerActions(actor.Index, h.seatViews(), h.Config.AllowSocieta)
	case PhasePlay:
		cards := legalPlays(*h.handOf(actor), h.Current, h.Briscola)
		actions := make([]Action, len(cards))
		for i, c := range cards {
			actions[i] = Action{Type: PlayCard, Card: c}
		}
		return actions
	default:
		return nil
	}
}

// legalPlays applies the play obligations to a hand.
//
// Di mano (leading): the Asso of briscola must be led if held; failing
// that, the Tre of briscola must be led when the carta in mezzo is the
// Asso. If either applies no further rule is consulted; otherwise the
// leader may play anything.
//
// Following: hold the led suit and the choice narrows to it; void in the
// led suit it narrows to briscola; void in both the whole hand stands.
// Within that set, any card that beats the current best narrows the choice
// to the beating cards (ammazzare sempre). A player who cannot beat is not
// forced to win, only to follow.
func legalPlays(hand []Card, g Grab, cartaInMezzo Card) []Card {
	briscola := cartaInMezzo.Suit

	if len(g.Plays) == 0 {
		if i := utils.FindIndex(hand, Card{Suit: briscola, Rank: Asso}); i >= 0 {
			return []Card{hand[i]}
		}
		if cartaInMezzo.Rank == Asso {
			if i := utils.FindIndex(hand, Card{Suit: briscola, Rank: Tre}); i >= 0 {
				return []Card{hand[i]}
			}
		}
		return append([]Card(nil), hand...)
	}

	led := g.LedSuit()
	subset := cardsOfSuit(hand, led)
	if len(subset) == 0 {
		subset = cardsOfSuit(hand, briscola)
	}
	if len(subset) == 0 {
		subset = append([]Card(nil), hand...)
	}

	best, _ := g.Best(briscola)
	var beaters []Card
	for _, c := range subset {
		if Beats(c, best.Card, led, briscola) {
			beaters = append(beaters, c)
		}
	}
	if len(beaters) > 0 {
		return beaters
	}
	return subset
}

func cardsOfSuit(hand []Card, suit Suit) []Card {
	var out []Card
	for _, c := range hand {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

// exchangeActions enumerates servito plus every exchangeable card set. The
// deck has to cover the draw, so a short deck shrinks the choices.
func exchangeActions(hand []Card, deckLen, maxExchange int) []Action {
	actions := []Action{{Type: Servito}}
	limit := min(maxExchange, deckLen, len(hand))
	for k := 1; k <= limit; k++ {
		for _, idxs := range combinations(len(hand), k) {
			cards := make([]Card, k)
			for i, idx := range idxs {
				cards[i] = hand[idx]
			}
			actions = append(actions, Action{Type: Exchange, Cards: cards})
		}
	}
	return actions
}

// offerActions enumerates the buco decisions for a folded seat: a solo
// take, a take with every possible partner set when società are allowed,
// and a pass.
func offerActions(seat int, seats []SeatView, allowSocieta bool) []Action {
	actions := []Action{{Type: TakeBuco}}
	if allowSocieta {
		var eligible []int
		for s, state := range seats {
			if s != seat && state.Folded && state.InBuco == -1 {
				eligible = append(eligible, s)
			}
		}
		for mask := 1; mask < 1<<len(eligible); mask++ {
			var partners []int
			for i, s := range eligible {
				if mask&(1<<i) != 0 {
					partners = append(partners, s)
				}
			}
			actions = append(actions, Action{Type: TakeBuco, Partners: partners})
		}
	}
	return append(actions, Action{Type: PassBuco})
}

func discardActions(bucoHand []Card) []Action {
	actions := make([]Action, len(bucoHand))
	for i, c := range bucoHand {
		actions[i] = Action{Type: DiscardBuco, Card: c}
	}
	return actions
}

// combinations returns every k-subset of 0..n-1 in lexicographic order.
func combinations(n, k int) [][]int {
	var out [][]int
	idxs := make([]int, k)
	var build func(start, depth int)
	build = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), idxs...))
			return
		}
		for i := start; i < n; i++ {
			idxs[depth] = i
			build(i+1, depth+1)
		}
	}
	build(0, 0)
	return out
}

// explainIllegal gives the reason an action missed the legal set, for the
// error the caller gets back.
func (h *HandState) explainIllegal(actor ParticipantID, a Action) string {
	switch h.Phase {
	case PhaseSelection:
		return fmt.Sprintf("only keep or fold during %s", h.Phase)
	case PhaseExchange:
		switch a.Type {
		case Exchange:
			if len(a.Cards) == 0 {
				return "an exchange needs at least one card"
			}
			if len(a.Cards) > h.Config.MaxExchange {
				return fmt.Sprintf("at most %d cards may be exchanged", h.Config.MaxExchange)
			}
			if len(a.Cards) > h.Deck.Len() {
				return fmt.Sprintf("the deck holds only %d cards", h.Deck.Len())
			}
			return h.explainCards(a.Cards, h.Seats[actor.Index].Hand)
		case Servito:
			return "servito is not available"
		default:
			return fmt.Sprintf("only servito or exchange during %s", h.Phase)
		}
	case PhaseBucoOffer:
		if actor.Kind == KindBuco {
			if a.Type != DiscardBuco {
				return "the buco must discard one of its four cards"
			}
			return fmt.Sprintf("%s is not among the buco cards", a.Card.Code())
		}
		switch a.Type {
		case TakeBuco:
			if len(a.Partners) > 0 && !h.Config.AllowSocieta {
				return "società entries are disabled at this table"
			}
			return h.explainPartners(actor.Index, a.Partners)
		default:
			return fmt.Sprintf("only take or pass during %s", h.Phase)
		}
	case PhasePlay:
		if a.Type != PlayCard {
			return fmt.Sprintf("only a card play during %s", h.Phase)
		}
		hand := *h.handOf(actor)
		if utils.FindIndex(hand, a.Card) < 0 {
			return fmt.Sprintf("%s is not held", a.Card.Code())
		}
		return h.explainPlay(hand, a.Card)
	default:
		return fmt.Sprintf("no actions during %s", h.Phase)
	}
}

func (h *HandState) explainCards(cards, hand []Card) string {
	seen := map[Card]bool{}
	for _, c := range cards {
		if seen[c] {
			return fmt.Sprintf("%s listed twice", c.Code())
		}
		seen[c] = true
		if utils.FindIndex(hand, c) < 0 {
			return fmt.Sprintf("%s is not held", c.Code())
		}
	}
	return "exchange rejected"
}

func (h *HandState) explainPartners(taker int, partners []int) string {
	seen := map[int]bool{}
	for _, p := range partners {
		if p == taker {
			return "a seat cannot partner itself"
		}
		if seen[p] {
			return fmt.Sprintf("seat %d listed twice", p)
		}
		seen[p] = true
		if p < 0 || p >= h.Config.Seats {
			return fmt.Sprintf("seat %d does not exist", p)
		}
		if !h.Seats[p].Folded {
			return fmt.Sprintf("seat %d is still in the hand", p)
		}
		if h.Seats[p].InBuco != -1 {
			return fmt.Sprintf("seat %d already belongs to a buco", p)
		}
	}
	return "buco entry rejected"
}

func (h *HandState) explainPlay(hand []Card, card Card) string {
	briscola := h.Briscola.Suit

	if len(h.Current.Plays) == 0 {
		if utils.FindIndex(hand, Card{Suit: briscola, Rank: Asso}) >= 0 {
			return "must lead the Asso of briscola"
		}
		if h.Briscola.Rank == Asso && utils.FindIndex(hand, Card{Suit: briscola, Rank: Tre}) >= 0 {
			return "must lead the Tre of briscola while the Asso sits in the middle"
		}
		return "play rejected"
	}

	led := h.Current.LedSuit()
	if card.Suit != led && len(cardsOfSuit(hand, led)) > 0 {
		return fmt.Sprintf("must follow the led suit (%s)", suitNames[VariantItaliana][led])
	}
	if card.Suit != briscola && len(cardsOfSuit(hand, led)) == 0 && len(cardsOfSuit(hand, briscola)) > 0 {
		return "must play briscola when void in the led suit"
	}
	best, _ := h.Current.Best(briscola)
	if !Beats(card, best.Card, led, briscola) {
		return fmt.Sprintf("must beat the %s when able", best.Card.Code())
	}
	return "play rejected"
}

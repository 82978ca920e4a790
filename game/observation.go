package game

// SeatView is the public slice of a seat: everyone at the table sees who
// folded, who exchanged how many cards, and how many cards are held.
type SeatView struct {
	Folded    bool `json:"folded"`
	Decided   bool `json:"decided"`
	Exchanged int  `json:"exchanged"`
	HandSize  int  `json:"hand_size"`
	InBuco    int  `json:"in_buco"`
}

// BucoView is the public slice of a buco entry. The members and their
// agreed split are table knowledge; the cards are not.
type BucoView struct {
	Members  []int `json:"members"`
	Weights  []int `json:"weights,omitempty"`
	HandSize int   `json:"hand_size"`
}

// Observation is everything one seat knows about the hand: the public
// state, plus its own cards and the discards it made itself. Played cards
// are public; the pile and the deck are counts only.
type Observation struct {
	Seat           int             `json:"seat"`
	Config         Config          `json:"config"`
	Phase          Phase           `json:"phase"`
	Dealer         int             `json:"dealer"`
	Pot            int64           `json:"pot_cents"`
	Briscola       Card            `json:"briscola"`
	DeckSize       int             `json:"deck_size"`
	DiscardSize    int             `json:"discard_size"`
	Seats          []SeatView      `json:"seats"`
	Bucos          []BucoView      `json:"bucos,omitempty"`
	Order          []ParticipantID `json:"order,omitempty"`
	Grabs          []Grab          `json:"grabs,omitempty"`
	Current        Grab            `json:"current"`
	Leader         int             `json:"leader"`
	Turn           int             `json:"turn"`
	PendingDiscard int             `json:"pending_discard"`
	Actor          ParticipantID   `json:"actor"`
	HasActor       bool            `json:"has_actor"`
	OwnCards       []Card          `json:"own_cards,omitempty"`
	OwnDiscards    []Card          `json:"own_discards,omitempty"`
	Result         *Settlement     `json:"result,omitempty"`
}

// Observe projects the hand onto one seat's knowledge. The result shares
// nothing with the hand state.
func (h *HandState) Observe(seat int) *Observation {
	if seat < 0 || seat >= h.Config.Seats {
		panic("observation for a seat that is not at the table")
	}

	obs := &Observation{
		Seat:           seat,
		Config:         h.Config,
		Phase:          h.Phase,
		Dealer:         h.Dealer,
		Pot:            h.Pot,
		Briscola:       h.Briscola,
		DeckSize:       h.Deck.Len(),
		DiscardSize:    len(h.Discards),
		Seats:          h.seatViews(),
		Order:          append([]ParticipantID(nil), h.Order...),
		Current:        h.Current.copy(),
		Leader:         h.Leader,
		Turn:           h.Turn,
		PendingDiscard: h.PendingDiscard,
	}

	for _, b := range h.Bucos {
		obs.Bucos = append(obs.Bucos, BucoView{
			Members:  append([]int(nil), b.Members...),
			Weights:  append([]int(nil), b.Weights...),
			HandSize: len(b.Hand),
		})
	}
	for _, g := range h.Grabs {
		obs.Grabs = append(obs.Grabs, g.copy())
	}

	obs.Actor, obs.HasActor = h.CurrentActor()

	// Own knowledge: the seat's hand, or the hand of the buco it belongs
	// to, plus every discard the seat has itself seen go face down.
	s := h.Seats[seat]
	obs.OwnDiscards = append(obs.OwnDiscards, s.OwnDiscards...)
	if s.InBuco >= 0 {
		b := h.Bucos[s.InBuco]
		obs.OwnCards = append(obs.OwnCards, b.Hand...)
		obs.OwnDiscards = append(obs.OwnDiscards, b.OwnDiscards...)
	} else {
		obs.OwnCards = append(obs.OwnCards, s.Hand...)
	}

	if h.Result != nil {
		r := h.Result.copy()
		obs.Result = &r
	}
	return obs
}

func (h *HandState) seatViews() []SeatView {
	views := make([]SeatView, len(h.Seats))
	for i, s := range h.Seats {
		views[i] = SeatView{
			Folded:    s.Folded,
			Decided:   s.Decided,
			Exchanged: s.Exchanged,
			HandSize:  len(s.Hand),
			InBuco:    s.InBuco,
		}
	}
	return views
}

// ViewerActs reports whether the observing seat answers for the current
// actor: the seat itself, or any member of the acting buco. Search and
// bots only run when this holds.
func (o *Observation) ViewerActs() bool {
	if !o.HasActor {
		return false
	}
	if o.Actor.Kind == KindSeat {
		return o.Actor.Index == o.Seat
	}
	for _, m := range o.Bucos[o.Actor.Index].Members {
		if m == o.Seat {
			return true
		}
	}
	return false
}

// LegalActions runs the oracle on the observation alone. The acting
// participant's cards are the viewer's own, so the set matches what the
// full state would produce. Nil when the viewer is not the one acting.
func (o *Observation) LegalActions() []Action {
	if !o.ViewerActs() {
		return nil
	}

	switch o.Phase {
	case PhaseSelection:
		return []Action{{Type: Keep}, {Type: Fold}}
	case PhaseExchange:
		return exchangeActions(o.OwnCards, o.DeckSize, o.Config.MaxExchange)
	case PhaseBucoOffer:
		if o.Actor.Kind == KindBuco {
			return discardActions(o.OwnCards)
		}
		return offerActions(o.Actor.Index, o.Seats, o.Config.AllowSocieta)
	case PhasePlay:
		cards := legalPlays(o.OwnCards, o.Current, o.Briscola)
		actions := make([]Action, len(cards))
		for i, c := range cards {
			actions[i] = Action{Type: PlayCard, Card: c}
		}
		return actions
	default:
		return nil
	}
}

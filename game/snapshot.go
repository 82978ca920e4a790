package game

import "fmt"

// Snapshot is the full hand state as a plain JSON-codable value, hidden
// cards included. It is the persistence surface for collaborators and the
// construction path the determinizer uses.
type Snapshot struct {
	Config         Config          `json:"config"`
	Dealer         int             `json:"dealer"`
	Pot            int64           `json:"pot_cents"`
	Briscola       Card            `json:"briscola"`
	Deck           []Card          `json:"deck,omitempty"` // bottom first
	Discards       []Card          `json:"discards,omitempty"`
	Phase          Phase           `json:"phase"`
	Seats          []SeatState     `json:"seats"`
	Bucos          []BucoEntry     `json:"bucos,omitempty"`
	Turn           int             `json:"turn"`
	PendingDiscard int             `json:"pending_discard"`
	Order          []ParticipantID `json:"order,omitempty"`
	Leader         int             `json:"leader"`
	Grabs          []Grab          `json:"grabs,omitempty"`
	Current        Grab            `json:"current"`
	Result         *Settlement     `json:"result,omitempty"`
}

// Snapshot captures the hand. The snapshot shares nothing with the state.
func (h *HandState) Snapshot() *Snapshot {
	c := h.Copy()
	return &Snapshot{
		Config:         c.Config,
		Dealer:         c.Dealer,
		Pot:            c.Pot,
		Briscola:       c.Briscola,
		Deck:           c.Deck.Cards(),
		Discards:       c.Discards,
		Phase:          c.Phase,
		Seats:          c.Seats,
		Bucos:          c.Bucos,
		Turn:           c.Turn,
		PendingDiscard: c.PendingDiscard,
		Order:          c.Order,
		Leader:         c.Leader,
		Grabs:          c.Grabs,
		Current:        c.Current,
		Result:         c.Result,
	}
}

// RestoreHand rebuilds a hand from a snapshot and checks it: the config
// must validate, the cursors must be in range, and every hand invariant
// must hold. A hand restored from a valid snapshot produces exactly the
// legal actions of the hand that was captured.
func RestoreHand(s *Snapshot) (*HandState, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	if len(s.Seats) != s.Config.Seats {
		return nil, fmt.Errorf("snapshot has %d seats for a %d seat table", len(s.Seats), s.Config.Seats)
	}
	if s.Dealer < 0 || s.Dealer >= s.Config.Seats {
		return nil, fmt.Errorf("snapshot dealer %d out of range", s.Dealer)
	}
	if s.Turn < 0 || s.Turn > s.Config.Seats {
		return nil, fmt.Errorf("snapshot turn cursor %d out of range", s.Turn)
	}
	if s.PendingDiscard < -1 || s.PendingDiscard >= len(s.Bucos) {
		return nil, fmt.Errorf("snapshot pending discard %d out of range", s.PendingDiscard)
	}
	if s.Phase == PhasePlay {
		if len(s.Order) < 2 {
			return nil, fmt.Errorf("snapshot in play with %d participants", len(s.Order))
		}
		if s.Leader < 0 || s.Leader >= len(s.Order) {
			return nil, fmt.Errorf("snapshot leader %d out of range", s.Leader)
		}
	}
	for _, id := range s.Order {
		if id.Kind == KindBuco && id.Index >= len(s.Bucos) {
			return nil, fmt.Errorf("snapshot order names missing %s", id)
		}
		if id.Kind == KindSeat && (id.Index < 0 || id.Index >= s.Config.Seats) {
			return nil, fmt.Errorf("snapshot order names missing %s", id)
		}
	}

	h := &HandState{
		Config:         s.Config,
		Dealer:         s.Dealer,
		Pot:            s.Pot,
		Briscola:       s.Briscola,
		Deck:           NewDeckFrom(s.Deck),
		Discards:       append([]Card(nil), s.Discards...),
		Phase:          s.Phase,
		Turn:           s.Turn,
		PendingDiscard: s.PendingDiscard,
		Order:          append([]ParticipantID(nil), s.Order...),
		Leader:         s.Leader,
		Current:        s.Current.copy(),
	}

	h.Seats = make([]SeatState, len(s.Seats))
	for i, seat := range s.Seats {
		h.Seats[i] = seat
		h.Seats[i].Hand = append([]Card(nil), seat.Hand...)
		h.Seats[i].OwnDiscards = append([]Card(nil), seat.OwnDiscards...)
	}
	h.Bucos = make([]BucoEntry, len(s.Bucos))
	for i, b := range s.Bucos {
		h.Bucos[i] = BucoEntry{
			Members:     append([]int(nil), b.Members...),
			Weights:     append([]int(nil), b.Weights...),
			Hand:        append([]Card(nil), b.Hand...),
			OwnDiscards: append([]Card(nil), b.OwnDiscards...),
		}
	}
	h.Grabs = make([]Grab, len(s.Grabs))
	for i, g := range s.Grabs {
		h.Grabs[i] = g.copy()
	}
	if s.Result != nil {
		r := s.Result.copy()
		h.Result = &r
	}

	if err := h.Verify(); err != nil {
		return nil, err
	}
	return h, nil
}

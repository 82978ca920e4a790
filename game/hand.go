package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"bestia/utils"
)

type Phase int

const (
	PhaseDealt      Phase = iota // instantaneous post-deal state
	PhaseSelection               // every seat declares keep or fold
	PhaseExchange                // kept seats exchange or stay servito
	PhaseBucoOffer               // folded seats may enter via the buco
	PhasePlay                    // the three grabs
	PhaseSettlement              // transient, resolved inside the closing transition
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "dealt"
	case PhaseSelection:
		return "selection"
	case PhaseExchange:
		return "exchange"
	case PhaseBucoOffer:
		return "buco offer"
	case PhasePlay:
		return "play"
	case PhaseSettlement:
		return "settlement"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SeatState is the per-seat slice of a hand. OwnDiscards collects the cards
// this seat itself dropped (fold, exchange), which it keeps knowledge of
// even though the pile is face down.
type SeatState struct {
	Hand        []Card `json:"hand,omitempty"`
	Decided     bool   `json:"decided"`
	Folded      bool   `json:"folded"`
	Exchanged   int    `json:"exchanged"` // -1 until the exchange decision, then 0..max
	InBuco      int    `json:"in_buco"`   // buco entry index, -1 if none
	OwnDiscards []Card `json:"own_discards,omitempty"`
}

// BucoEntry is one buco hand: four cards drawn, one discarded, owned by one
// or more folded seats.
type BucoEntry struct {
	Members     []int  `json:"members"` // taker first, partners after
	Weights     []int  `json:"weights,omitempty"`
	Hand        []Card `json:"hand,omitempty"`
	OwnDiscards []Card `json:"own_discards,omitempty"`
}

// HandState is the full state of one hand, hidden cards included. It is
// threaded as an owned value: Apply never touches the receiver and returns
// a fresh state, so old references stay valid.
type HandState struct {
	Config         Config          // table rules, fixed for the hand
	Dealer         int             // dealing seat; play starts at its right
	Pot            int64           // cents at stake
	Briscola       Card            // the carta in mezzo, face up
	Deck           *Deck           // undealt stack
	Discards       []Card          // face-down pile, in discard order
	Phase          Phase           // current phase
	Seats          []SeatState     // per-seat state
	Bucos          []BucoEntry     // buco entries in chronological take order
	Turn           int             // offset cursor from the dealer's right, phase dependent
	PendingDiscard int             // buco entry awaiting its discard, -1 otherwise
	Order          []ParticipantID // committed order, fixed once BucoOffer completes
	Leader         int             // index into Order leading the current grab
	Grabs          []Grab          // resolved grabs
	Current        Grab            // grab in progress
	Result         *Settlement     // set when the hand closes
}

type StateHash uint64

// NewHand deals a fresh hand: shuffle with the seed, turn the carta in
// mezzo, deal three cards per seat starting at the dealer's right. The pot
// is the carried amount plus the dealer fee. The returned state is already
// at Selection's first decision.
func NewHand(cfg Config, carryCents int64, dealer int, seed int64) (*HandState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dealer < 0 || dealer >= cfg.Seats {
		return nil, fmt.Errorf("dealer seat %d out of range for %d seats", dealer, cfg.Seats)
	}
	if carryCents < 0 {
		return nil, fmt.Errorf("negative carry-in of %d cents", carryCents)
	}

	rng := rand.New(rand.NewSource(seed))
	deck := NewDeck()
	deck.Shuffle(rng)

	briscola, err := deck.Draw()
	if err != nil {
		return nil, err
	}

	h := &HandState{
		Config:         cfg,
		Dealer:         dealer,
		Pot:            carryCents + cfg.DealerFee,
		Briscola:       briscola,
		Deck:           deck,
		Phase:          PhaseSelection,
		Seats:          make([]SeatState, cfg.Seats),
		Turn:           0,
		PendingDiscard: -1,
	}
	for offset := 0; offset < cfg.Seats; offset++ {
		seat := h.seatAt(offset)
		hand, err := deck.DrawN(3)
		if err != nil {
			return nil, err
		}
		h.Seats[seat] = SeatState{Hand: hand, Exchanged: -1, InBuco: -1}
	}

	if err := h.Verify(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HandState) Copy() *HandState {
	// Copy seats with their hands and discard knowledge
	seats := make([]SeatState, len(h.Seats))
	for i, s := range h.Seats {
		seats[i] = s
		seats[i].Hand = append([]Card(nil), s.Hand...)
		seats[i].OwnDiscards = append([]Card(nil), s.OwnDiscards...)
	}

	// Copy buco entries
	bucos := make([]BucoEntry, len(h.Bucos))
	for i, b := range h.Bucos {
		bucos[i] = BucoEntry{
			Members:     append([]int(nil), b.Members...),
			Weights:     append([]int(nil), b.Weights...),
			Hand:        append([]Card(nil), b.Hand...),
			OwnDiscards: append([]Card(nil), b.OwnDiscards...),
		}
	}

	// Copy grab history
	grabs := make([]Grab, len(h.Grabs))
	for i, g := range h.Grabs {
		grabs[i] = g.copy()
	}

	var result *Settlement
	if h.Result != nil {
		r := h.Result.copy()
		result = &r
	}

	return &HandState{
		Config:         h.Config,
		Dealer:         h.Dealer,
		Pot:            h.Pot,
		Briscola:       h.Briscola,
		Deck:           h.Deck.Copy(),
		Discards:       append([]Card(nil), h.Discards...),
		Phase:          h.Phase,
		Seats:          seats,
		Bucos:          bucos,
		Turn:           h.Turn,
		PendingDiscard: h.PendingDiscard,
		Order:          append([]ParticipantID(nil), h.Order...),
		Leader:         h.Leader,
		Grabs:          grabs,
		Current:        h.Current.copy(),
		Result:         result,
	}
}

func (h *HandState) IsTerminal() bool {
	return h.Phase == PhaseClosed
}

// Settlement returns the closing accounts, or an error while the hand is
// still running.
func (h *HandState) Settlement() (*Settlement, error) {
	if h.Result == nil {
		return nil, fmt.Errorf("hand is not settled in phase %s", h.Phase)
	}
	return h.Result, nil
}

// seatAt maps an offset from the dealer's right onto a seat index. Seats
// advance counter-clockwise, so the dealer's right neighbour is dealer+1.
func (h *HandState) seatAt(offset int) int {
	return (h.Dealer + 1 + offset) % h.Config.Seats
}

func (h *HandState) seatOffset(seat int) int {
	n := h.Config.Seats
	return (seat - h.Dealer - 1 + n) % n
}

// CurrentActor returns the participant whose decision the hand is waiting
// on, or false once the hand is closed.
func (h *HandState) CurrentActor() (ParticipantID, bool) {
	switch h.Phase {
	case PhaseSelection:
		if h.Turn >= h.Config.Seats {
			panic("selection cursor overran the table")
		}
		return SeatID(h.seatAt(h.Turn)), true
	case PhaseExchange:
		offset, ok := h.nextKeptOffset(h.Turn)
		if !ok {
			panic("exchange cursor overran the kept seats")
		}
		return SeatID(h.seatAt(offset)), true
	case PhaseBucoOffer:
		if h.PendingDiscard >= 0 {
			return BucoID(h.PendingDiscard), true
		}
		offset, ok := h.nextOfferOffset(h.Turn)
		if !ok {
			panic("buco offer cursor overran the folded seats")
		}
		return SeatID(h.seatAt(offset)), true
	case PhasePlay:
		return h.Order[(h.Leader+len(h.Current.Plays))%len(h.Order)], true
	default:
		return ParticipantID{}, false
	}
}

// ControllingSeat returns the seat that decides for a participant: the seat
// itself, or the taker of a buco entry.
func (h *HandState) ControllingSeat(id ParticipantID) int {
	if id.Kind == KindSeat {
		return id.Index
	}
	return h.Bucos[id.Index].Members[0]
}

// nextKeptOffset finds the first kept seat at or after the given offset.
func (h *HandState) nextKeptOffset(from int) (int, bool) {
	for o := from; o < h.Config.Seats; o++ {
		s := h.Seats[h.seatAt(o)]
		if !s.Folded && s.Exchanged == -1 {
			return o, true
		}
	}
	return 0, false
}

// offerOpen reports whether another buco entry can still be taken.
func (h *HandState) offerOpen() bool {
	return len(h.Bucos) < h.Config.MaxBucoEntries && h.Deck.Len() >= 4
}

// nextOfferOffset finds the first folded seat without an entry at or after
// the given offset, while the offer is still open.
func (h *HandState) nextOfferOffset(from int) (int, bool) {
	if !h.offerOpen() {
		return 0, false
	}
	for o := from; o < h.Config.Seats; o++ {
		s := h.Seats[h.seatAt(o)]
		if s.Folded && s.InBuco == -1 {
			return o, true
		}
	}
	return 0, false
}

// Participants returns the committed participants aligned with Order.
func (h *HandState) Participants() []Participant {
	out := make([]Participant, len(h.Order))
	for i, id := range h.Order {
		out[i] = h.participantOf(id)
	}
	return out
}

func (h *HandState) participantOf(id ParticipantID) Participant {
	if id.Kind == KindBuco {
		b := h.Bucos[id.Index]
		return Participant{
			ID:      id,
			Members: append([]int(nil), b.Members...),
			Weights: append([]int(nil), b.Weights...),
		}
	}
	return Participant{ID: id, Members: []int{id.Index}}
}

func (h *HandState) handOf(id ParticipantID) *[]Card {
	if id.Kind == KindBuco {
		return &h.Bucos[id.Index].Hand
	}
	return &h.Seats[id.Index].Hand
}

func (h *HandState) orderIndex(id ParticipantID) int {
	idx := utils.FindIndex(h.Order, id)
	if idx < 0 {
		panic(fmt.Sprintf("%s is not a committed participant", id))
	}
	return idx
}

// grabCounts tallies resolved grabs per committed participant.
func (h *HandState) grabCounts() []int {
	counts := make([]int, len(h.Order))
	for _, g := range h.Grabs {
		counts[h.orderIndex(g.Winner(h.Briscola.Suit))]++
	}
	return counts
}

// Apply submits one action for one participant. The receiver is never
// mutated: on success a new state is returned, on an IllegalActionError the
// old state stands.
func (h *HandState) Apply(actor ParticipantID, a Action) (*HandState, error) {
	current, ok := h.CurrentActor()
	if !ok {
		return nil, &IllegalActionError{Actor: actor, Action: a, Reason: "hand is closed"}
	}
	if actor != current {
		return nil, &IllegalActionError{Actor: actor, Action: a, Reason: fmt.Sprintf("waiting on %s", current)}
	}

	legal := h.LegalActions(actor)
	if !containsAction(legal, a) {
		return nil, &IllegalActionError{Actor: actor, Action: a, Reason: h.explainIllegal(actor, a)}
	}

	n := h.Copy()
	switch n.Phase {
	case PhaseSelection:
		n.applySelection(actor.Index, a)
	case PhaseExchange:
		n.applyExchange(actor.Index, a)
	case PhaseBucoOffer:
		n.applyBucoOffer(actor, a)
	case PhasePlay:
		n.applyPlay(actor, a)
	default:
		panic(fmt.Sprintf("apply in phase %s", n.Phase))
	}

	if err := n.Verify(); err != nil {
		return nil, err
	}
	return n, nil
}

func (h *HandState) applySelection(seat int, a Action) {
	s := &h.Seats[seat]
	s.Decided = true
	if a.Type == Fold {
		s.Folded = true
		h.Discards = append(h.Discards, s.Hand...)
		s.OwnDiscards = append(s.OwnDiscards, s.Hand...)
		s.Hand = nil
	}
	h.Turn++
	if h.Turn == h.Config.Seats {
		h.enterExchange()
	}
}

func (h *HandState) enterExchange() {
	h.Phase = PhaseExchange
	h.Turn = 0
	if _, ok := h.nextKeptOffset(0); !ok {
		h.enterBucoOffer()
	}
}

func (h *HandState) applyExchange(seat int, a Action) {
	s := &h.Seats[seat]
	if a.Type == Servito {
		s.Exchanged = 0
	} else {
		for _, card := range a.Cards {
			h.removeFromHand(&s.Hand, card)
			h.Discards = append(h.Discards, card)
			s.OwnDiscards = append(s.OwnDiscards, card)
		}
		drawn, err := h.Deck.DrawN(len(a.Cards))
		if err != nil {
			panic(err) // legality guarantees the deck covers the exchange
		}
		s.Hand = append(s.Hand, drawn...)
		s.Exchanged = len(a.Cards)
	}

	h.Turn = h.seatOffset(seat) + 1
	if _, ok := h.nextKeptOffset(h.Turn); !ok {
		h.enterBucoOffer()
	}
}

func (h *HandState) enterBucoOffer() {
	h.Phase = PhaseBucoOffer
	h.Turn = 0
	h.PendingDiscard = -1
	if _, ok := h.nextOfferOffset(0); !ok {
		h.commitAndPlay()
	}
}

func (h *HandState) applyBucoOffer(actor ParticipantID, a Action) {
	switch a.Type {
	case TakeBuco:
		partners := append([]int(nil), a.Partners...)
		sort.Ints(partners)
		members := append([]int{actor.Index}, partners...)
		for _, seat := range members {
			h.Seats[seat].InBuco = len(h.Bucos)
		}
		hand, err := h.Deck.DrawN(4)
		if err != nil {
			panic(err) // the offer is only open with four cards in the deck
		}
		h.Bucos = append(h.Bucos, BucoEntry{Members: members, Hand: hand})
		h.PendingDiscard = len(h.Bucos) - 1
		return // the entry must discard before the offer moves on
	case DiscardBuco:
		b := &h.Bucos[actor.Index]
		h.removeFromHand(&b.Hand, a.Card)
		h.Discards = append(h.Discards, a.Card)
		b.OwnDiscards = append(b.OwnDiscards, a.Card)
		h.PendingDiscard = -1
		h.Turn = h.seatOffset(b.Members[0]) + 1
	case PassBuco:
		h.Turn = h.seatOffset(actor.Index) + 1
	default:
		panic(fmt.Sprintf("action %s in buco offer", a))
	}

	if _, ok := h.nextOfferOffset(h.Turn); !ok {
		h.commitAndPlay()
	}
}

// commitAndPlay freezes the committed order and opens play. Buco entries
// come first in take order, then the kept seats from the dealer's right.
// With one committed participant the pot is theirs without play; with none
// the pot rolls over.
func (h *HandState) commitAndPlay() {
	h.Order = nil
	for i := range h.Bucos {
		h.Order = append(h.Order, BucoID(i))
	}
	for offset := 0; offset < h.Config.Seats; offset++ {
		seat := h.seatAt(offset)
		if !h.Seats[seat].Folded {
			h.Order = append(h.Order, SeatID(seat))
		}
	}

	switch len(h.Order) {
	case 0:
		h.settle(nil)
	case 1:
		h.settle([]int{3})
	default:
		h.Phase = PhasePlay
		h.Leader = 0
		h.Grabs = nil
		h.Current = Grab{Leader: 0}
	}
}

func (h *HandState) applyPlay(actor ParticipantID, a Action) {
	hand := h.handOf(actor)
	h.removeFromHand(hand, a.Card)
	h.Current.Plays = append(h.Current.Plays, PlayedCard{Actor: actor, Card: a.Card})

	if len(h.Current.Plays) < len(h.Order) {
		return
	}

	// Grab complete: resolve the winner, who leads the next one
	winner := h.Current.Winner(h.Briscola.Suit)
	h.Grabs = append(h.Grabs, h.Current)
	h.Leader = h.orderIndex(winner)

	if len(h.Grabs) == 3 {
		h.settle(h.grabCounts())
		return
	}
	h.Current = Grab{Leader: h.Leader}
}

// settle runs the closing transition: through the transient Settlement
// phase into Closed with the accounts attached.
func (h *HandState) settle(counts []int) {
	h.Phase = PhaseSettlement
	h.Current = Grab{Leader: h.Leader}
	result := computeSettlement(h.Config, h.Pot, h.Participants(), counts)
	h.Result = &result
	h.Phase = PhaseClosed
}

func (h *HandState) removeFromHand(hand *[]Card, card Card) {
	idx := utils.FindIndex(*hand, card)
	if idx < 0 {
		panic(fmt.Sprintf("card %s is not in hand", card.Code()))
	}
	*hand = append((*hand)[:idx], (*hand)[idx+1:]...)
}

// ApplyManualOverride adjusts the pot out of band, for replaying hands
// where the house corrected the table. Value-threaded like Apply.
func (h *HandState) ApplyManualOverride(ev ManualOverrideEvent) (*HandState, error) {
	if h.IsTerminal() {
		return nil, fmt.Errorf("manual override on a closed hand")
	}
	if h.Pot+ev.DeltaCents < 0 {
		return nil, fmt.Errorf("manual override of %d cents would make the pot negative", ev.DeltaCents)
	}
	n := h.Copy()
	n.Pot += ev.DeltaCents
	return n, nil
}

func containsAction(legal []Action, a Action) bool {
	key := a.Key()
	for _, l := range legal {
		if l.Key() == key {
			return true
		}
	}
	return false
}

func (h *HandState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(h.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(h.Dealer))
	binary.Write(hasher, binary.LittleEndian, h.Pot)
	binary.Write(hasher, binary.LittleEndian, int64(h.Turn))
	binary.Write(hasher, binary.LittleEndian, int64(h.PendingDiscard))
	binary.Write(hasher, binary.LittleEndian, int64(h.Leader))
	writeCard := func(c Card) {
		binary.Write(hasher, binary.LittleEndian, int64(c.Suit)<<8|int64(c.Rank))
	}
	writeCard(h.Briscola)

	for _, s := range h.Seats {
		binary.Write(hasher, binary.LittleEndian, int64(s.Exchanged))
		binary.Write(hasher, binary.LittleEndian, int64(s.InBuco))
		flags := int64(0)
		if s.Decided {
			flags |= 1
		}
		if s.Folded {
			flags |= 2
		}
		binary.Write(hasher, binary.LittleEndian, flags)
		for _, c := range s.Hand {
			writeCard(c)
		}
	}
	for _, b := range h.Bucos {
		for _, m := range b.Members {
			binary.Write(hasher, binary.LittleEndian, int64(m))
		}
		for _, c := range b.Hand {
			writeCard(c)
		}
	}
	for _, c := range h.Deck.Cards() {
		writeCard(c)
	}
	for _, c := range h.Discards {
		writeCard(c)
	}
	for _, g := range append(append([]Grab(nil), h.Grabs...), h.Current) {
		binary.Write(hasher, binary.LittleEndian, int64(g.Leader))
		for _, p := range g.Plays {
			binary.Write(hasher, binary.LittleEndian, int64(p.Actor.Kind)<<32|int64(p.Actor.Index))
			writeCard(p.Card)
		}
	}

	return StateHash(hasher.Sum64())
}

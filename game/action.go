package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ActionType represents the kind of decision a participant can submit.
type ActionType int

const (
	Keep        ActionType = iota // stay in the hand
	Fold                          // drop the hand face down
	Servito                       // exchange nothing
	Exchange                      // replace 1..max_exchange cards
	TakeBuco                      // enter by drawing four cards
	PassBuco                      // decline the buco
	DiscardBuco                   // drop one of the four drawn cards
	PlayCard                      // play a card into the grab
)

// Action is one decision. Card is set for PlayCard and DiscardBuco, Cards
// for Exchange, Partners for a TakeBuco forming a società.
type Action struct {
	Type     ActionType `json:"type"`
	Card     Card       `json:"card,omitempty"`
	Cards    []Card     `json:"cards,omitempty"`
	Partners []int      `json:"partners,omitempty"`
}

// Key returns the canonical form used as a search tree edge and for
// membership checks: card sets and partner sets are sorted, so two actions
// meaning the same thing always share a key.
func (a Action) Key() string {
	switch a.Type {
	case Keep:
		return "keep"
	case Fold:
		return "fold"
	case Servito:
		return "servito"
	case Exchange:
		codes := make([]string, len(a.Cards))
		for i, c := range sortedCards(a.Cards) {
			codes[i] = c.Code()
		}
		return "exchange:" + strings.Join(codes, ",")
	case TakeBuco:
		if len(a.Partners) == 0 {
			return "buco"
		}
		partners := append([]int(nil), a.Partners...)
		sort.Ints(partners)
		parts := make([]string, len(partners))
		for i, p := range partners {
			parts[i] = strconv.Itoa(p)
		}
		return "buco:" + strings.Join(parts, ",")
	case PassBuco:
		return "pass"
	case DiscardBuco:
		return "discard:" + a.Card.Code()
	case PlayCard:
		return "play:" + a.Card.Code()
	default:
		panic(fmt.Sprintf("unknown action type %d", a.Type))
	}
}

func (a Action) String() string {
	switch a.Type {
	case Keep:
		return "keep"
	case Fold:
		return "fold"
	case Servito:
		return "servito"
	case Exchange:
		codes := make([]string, len(a.Cards))
		for i, c := range a.Cards {
			codes[i] = c.Code()
		}
		return fmt.Sprintf("exchange %d (%s)", len(a.Cards), strings.Join(codes, " "))
	case TakeBuco:
		if len(a.Partners) == 0 {
			return "take buco"
		}
		return fmt.Sprintf("take buco with seats %v", a.Partners)
	case PassBuco:
		return "pass buco"
	case DiscardBuco:
		return "discard " + a.Card.Code()
	case PlayCard:
		return "play " + a.Card.Code()
	default:
		return fmt.Sprintf("action(%d)", a.Type)
	}
}

// Equal compares by canonical key, so card and partner order do not matter.
func (a Action) Equal(b Action) bool {
	return a.Key() == b.Key()
}

func sortedCards(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Suit != out[j].Suit {
			return out[i].Suit < out[j].Suit
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

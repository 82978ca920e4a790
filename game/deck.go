package game

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered stack of cards. Draws come off the top (the end of the
// slice), so a shuffled deck fixes every future draw.
type Deck struct {
	cards []Card
}

// NewDeck returns the full 40-card deck in canonical suit-major order.
func NewDeck() *Deck {
	cards := make([]Card, 0, 40)
	for suit := Bastoni; suit <= Spade; suit++ {
		for rank := Asso; rank <= Re; rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return &Deck{cards: cards}
}

// NewDeckFrom rebuilds a deck with the given remaining cards, bottom first.
func NewDeckFrom(cards []Card) *Deck {
	stack := make([]Card, len(cards))
	copy(stack, cards)
	return &Deck{cards: stack}
}

func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, fmt.Errorf("draw from empty deck")
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// DrawN removes and returns the top n cards in draw order.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("draw %d from deck of %d", n, len(d.cards))
	}
	drawn := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.Draw()
		if err != nil {
			return nil, err
		}
		drawn = append(drawn, card)
	}
	return drawn, nil
}

// Cards returns a copy of the remaining stack, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) Copy() *Deck {
	return NewDeckFrom(d.cards)
}

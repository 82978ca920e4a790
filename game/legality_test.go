package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/*
Play obligations under test:
- di mano: the Asso of briscola must be led; the Tre of briscola must be
  led when the carta in mezzo is the Asso; otherwise any lead
- following: follow the led suit, briscola when void, anything when void
  in both; within the forced set, beat the best card when able
*/

func TestLegalPlaysLeading(t *testing.T) {
	inMezzo := Card{Denari, Sette}

	t.Run("holder of the briscola ace must lead it", func(t *testing.T) {
		hand := []Card{{Spade, Re}, {Denari, Asso}, {Coppe, Due}}
		got := legalPlays(hand, Grab{}, inMezzo)
		require.Equal(t, []Card{{Denari, Asso}}, got)
	})

	t.Run("three of briscola must lead while the ace is in the middle", func(t *testing.T) {
		hand := []Card{{Denari, Tre}, {Spade, Re}, {Coppe, Due}}
		got := legalPlays(hand, Grab{}, Card{Denari, Asso})
		require.Equal(t, []Card{{Denari, Tre}}, got)
	})

	t.Run("three of briscola is free when the middle card is not the ace", func(t *testing.T) {
		hand := []Card{{Denari, Tre}, {Spade, Re}, {Coppe, Due}}
		got := legalPlays(hand, Grab{}, inMezzo)
		require.Len(t, got, 3, "no obligation binds this lead")
	})

	t.Run("unconstrained leader may play the whole hand", func(t *testing.T) {
		hand := []Card{{Spade, Re}, {Coppe, Due}, {Bastoni, Sei}}
		got := legalPlays(hand, Grab{}, inMezzo)
		require.Equal(t, hand, got)
	})
}

func TestLegalPlaysFollowing(t *testing.T) {
	inMezzo := Card{Denari, Sette} // briscola Denari
	lead := func(c Card) Grab {
		return Grab{Plays: []PlayedCard{{Actor: SeatID(0), Card: c}}}
	}

	t.Run("must follow the led suit", func(t *testing.T) {
		hand := []Card{{Spade, Due}, {Coppe, Asso}, {Denari, Re}}
		got := legalPlays(hand, lead(Card{Spade, Sei}), inMezzo)
		require.Equal(t, []Card{{Spade, Due}}, got,
			"holding the led suit rules out briscola and discards")
	})

	t.Run("must beat within the led suit when able", func(t *testing.T) {
		hand := []Card{{Spade, Due}, {Spade, Re}, {Spade, Cinque}}
		got := legalPlays(hand, lead(Card{Spade, Sei}), inMezzo)
		require.Equal(t, []Card{{Spade, Re}}, got,
			"ammazzare sempre narrows to the beating cards")
	})

	t.Run("unable to beat still follows", func(t *testing.T) {
		hand := []Card{{Spade, Due}, {Spade, Quattro}, {Coppe, Asso}}
		got := legalPlays(hand, lead(Card{Spade, Re}), inMezzo)
		require.ElementsMatch(t, []Card{{Spade, Due}, {Spade, Quattro}}, got,
			"no card beats the Re, so any spade goes")
	})

	t.Run("void in the led suit must play briscola", func(t *testing.T) {
		hand := []Card{{Coppe, Asso}, {Denari, Due}, {Denari, Re}}
		got := legalPlays(hand, lead(Card{Spade, Sei}), inMezzo)
		require.ElementsMatch(t, []Card{{Denari, Due}, {Denari, Re}}, got,
			"every briscola beats a plain lead, so both stay legal")
	})

	t.Run("briscola must overtake a briscola best when able", func(t *testing.T) {
		g := Grab{Plays: []PlayedCard{
			{Actor: SeatID(0), Card: Card{Spade, Sei}},
			{Actor: SeatID(1), Card: Card{Denari, Fante}},
		}}
		hand := []Card{{Denari, Due}, {Denari, Re}, {Coppe, Asso}}
		got := legalPlays(hand, g, inMezzo)
		require.Equal(t, []Card{{Denari, Re}}, got,
			"only the Re overtakes the Fante of briscola")
	})

	t.Run("briscola short of the best briscola still plays briscola", func(t *testing.T) {
		g := Grab{Plays: []PlayedCard{
			{Actor: SeatID(0), Card: Card{Spade, Sei}},
			{Actor: SeatID(1), Card: Card{Denari, Asso}},
		}}
		hand := []Card{{Denari, Due}, {Coppe, Asso}}
		got := legalPlays(hand, g, inMezzo)
		require.Equal(t, []Card{{Denari, Due}}, got,
			"cannot be forced to win, but still void in the led suit")
	})

	t.Run("void in led suit and briscola discards freely", func(t *testing.T) {
		hand := []Card{{Coppe, Asso}, {Bastoni, Due}}
		got := legalPlays(hand, lead(Card{Spade, Sei}), inMezzo)
		require.ElementsMatch(t, hand, got)
	})
}

func TestExchangeActions(t *testing.T) {
	hand := []Card{{Spade, Due}, {Coppe, Asso}, {Denari, Re}}

	t.Run("servito plus every one and two card set", func(t *testing.T) {
		got := exchangeActions(hand, 20, 2)
		require.Len(t, got, 1+3+3, "servito, three singles, three pairs")
		require.Equal(t, Servito, got[0].Type)
	})

	t.Run("a short deck caps the exchange", func(t *testing.T) {
		got := exchangeActions(hand, 1, 2)
		require.Len(t, got, 1+3, "only singles fit a one card deck")
	})

	t.Run("an empty deck forces servito", func(t *testing.T) {
		got := exchangeActions(hand, 0, 2)
		require.Len(t, got, 1)
		require.Equal(t, Servito, got[0].Type)
	})
}

func TestOfferActions(t *testing.T) {
	seats := []SeatView{
		{Folded: true, InBuco: -1},  // the seat being offered
		{Folded: false, InBuco: -1}, // kept, never a partner
		{Folded: true, InBuco: -1},  // eligible partner
		{Folded: true, InBuco: 0},   // already in a buco
	}

	t.Run("with società allowed", func(t *testing.T) {
		got := offerActions(0, seats, true)
		require.Len(t, got, 3, "solo take, take with seat 2, pass")
		require.Equal(t, "buco", got[0].Key())
		require.Equal(t, "buco:2", got[1].Key())
		require.Equal(t, "pass", got[2].Key())
	})

	t.Run("without società", func(t *testing.T) {
		got := offerActions(0, seats, false)
		require.Len(t, got, 2, "solo take and pass only")
	})
}

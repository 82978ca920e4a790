package game

// PlayedCard is one card on the table, with the participant who played it.
type PlayedCard struct {
	Actor ParticipantID `json:"actor"`
	Card  Card          `json:"card"`
}

// Grab is one trick: up to one card per committed participant. Leader is
// the index into the committed order that led it.
type Grab struct {
	Leader int          `json:"leader"`
	Plays  []PlayedCard `json:"plays,omitempty"`
}

// LedSuit returns the suit of the first card. Only meaningful once a card
// has been played.
func (g Grab) LedSuit() Suit {
	return g.Plays[0].Card.Suit
}

// Best returns the play currently holding the grab.
func (g Grab) Best(briscola Suit) (PlayedCard, bool) {
	if len(g.Plays) == 0 {
		return PlayedCard{}, false
	}
	led := g.LedSuit()
	best := g.Plays[0]
	for _, p := range g.Plays[1:] {
		if Beats(p.Card, best.Card, led, briscola) {
			best = p
		}
	}
	return best, true
}

// Winner returns the participant taking a completed grab: the strongest
// briscola if any was played, otherwise the strongest card of the led suit.
func (g Grab) Winner(briscola Suit) ParticipantID {
	best, ok := g.Best(briscola)
	if !ok {
		panic("winner of an empty grab")
	}
	return best.Actor
}

func (g Grab) copy() Grab {
	plays := make([]PlayedCard, len(g.Plays))
	copy(plays, g.Plays)
	return Grab{Leader: g.Leader, Plays: plays}
}

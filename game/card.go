package game

import "fmt"

// Suit is one of the four Italian suits.
type Suit int

const (
	Bastoni Suit = iota // 0
	Coppe               // 1
	Denari              // 2
	Spade               // 3
)

// Rank runs Asso..Re. The numeric value is the pip count for Asso..Sette,
// then the three face cards.
type Rank int

const (
	Asso Rank = iota + 1
	Due
	Tre
	Quattro
	Cinque
	Sei
	Sette
	Fante
	Cavallo
	Re
)

// Card identifies one of the 40 cards. Comparable, safe as a map key.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Deck variants. The 40 card identities are the same in every variant;
// the variant only selects the naming table.
const (
	VariantItaliana = "italiana"
	VariantFrancese = "francese"
)

var suitNames = map[string][4]string{
	VariantItaliana: {"Bastoni", "Coppe", "Denari", "Spade"},
	VariantFrancese: {"Fiori", "Cuori", "Quadri", "Picche"},
}

var rankNames = map[string][10]string{
	VariantItaliana: {"Asso", "Due", "Tre", "Quattro", "Cinque", "Sei", "Sette", "Fante", "Cavallo", "Re"},
	VariantFrancese: {"Asso", "Due", "Tre", "Quattro", "Cinque", "Sei", "Sette", "Jack", "Donna", "Re"},
}

var suitCodes = [4]byte{'B', 'C', 'D', 'S'}
var rankCodes = [10]byte{'A', '2', '3', '4', '5', '6', '7', 'F', 'C', 'R'}

// Strength returns the Briscola taking order:
// Asso > Tre > Re > Cavallo > Fante > Sette > Sei > Cinque > Quattro > Due.
func (r Rank) Strength() int {
	switch r {
	case Asso:
		return 10
	case Tre:
		return 9
	case Re:
		return 8
	case Cavallo:
		return 7
	case Fante:
		return 6
	default:
		// Sette..Due keep their pip order
		return int(r) - 1
	}
}

// Name renders the card in the given deck variant.
func (c Card) Name(variant string) string {
	ranks, ok := rankNames[variant]
	if !ok {
		ranks = rankNames[VariantItaliana]
	}
	suits, ok := suitNames[variant]
	if !ok {
		suits = suitNames[VariantItaliana]
	}
	return fmt.Sprintf("%s di %s", ranks[c.Rank-1], suits[c.Suit])
}

func (c Card) String() string {
	return c.Name(VariantItaliana)
}

// Code is the compact two-character form used in action keys and logs,
// rank first: "AB" is the Asso di Bastoni, "CS" the Cavallo di Spade.
func (c Card) Code() string {
	return string([]byte{rankCodes[c.Rank-1], suitCodes[c.Suit]})
}

// Beats reports whether candidate takes the grab from best, given the led
// suit and the briscola suit. Briscola beats any plain card; within briscola
// or within the led suit the stronger rank wins; an off-suit plain card
// never wins.
func Beats(candidate, best Card, led, briscola Suit) bool {
	if candidate.Suit == briscola && best.Suit != briscola {
		return true
	}
	if candidate.Suit != briscola && best.Suit == briscola {
		return false
	}
	if candidate.Suit == best.Suit {
		return candidate.Rank.Strength() > best.Rank.Strength()
	}
	// Different plain suits: only the led suit can hold the grab.
	return candidate.Suit == led && best.Suit != led
}

package game

import "fmt"

// ActorKind tells a seat participant from a buco entry.
type ActorKind int

const (
	KindSeat ActorKind = iota
	KindBuco
)

// ParticipantID names one acting entity in a hand: a seat, or a buco entry
// by chronological index. Comparable, safe as a map key.
type ParticipantID struct {
	Kind  ActorKind `json:"kind"`
	Index int       `json:"index"`
}

func SeatID(seat int) ParticipantID {
	return ParticipantID{Kind: KindSeat, Index: seat}
}

func BucoID(entry int) ParticipantID {
	return ParticipantID{Kind: KindBuco, Index: entry}
}

func (id ParticipantID) String() string {
	if id.Kind == KindBuco {
		return fmt.Sprintf("buco %d", id.Index)
	}
	return fmt.Sprintf("seat %d", id.Index)
}

// Participant is one committed entity: a kept seat, or a buco entry owned
// by one or more seats. Two or more members make the entry a società, paid
// and charged as a single participant.
type Participant struct {
	ID      ParticipantID `json:"id"`
	Members []int         `json:"members"`           // owning seats, taker first
	Weights []int         `json:"weights,omitempty"` // split weights, nil = even
}

func (p Participant) IsSocieta() bool {
	return len(p.Members) > 1
}

// Split divides a non-negative amount of cents between the members by
// weight. Shares sum to the amount exactly; leftover cents go to the
// earliest members.
func (p Participant) Split(amount int64) []int64 {
	if amount < 0 {
		panic("split of negative amount")
	}
	n := len(p.Members)
	shares := make([]int64, n)
	if n == 0 {
		return shares
	}

	weights := p.Weights
	if len(weights) != n {
		weights = make([]int, n)
		for i := range weights {
			weights[i] = 1
		}
	}
	total := int64(0)
	for _, w := range weights {
		total += int64(w)
	}
	if total <= 0 {
		panic("split weights must sum to a positive total")
	}

	paid := int64(0)
	for i, w := range weights {
		shares[i] = amount * int64(w) / total
		paid += shares[i]
	}
	for i := 0; paid < amount; i++ {
		shares[i%n]++
		paid++
	}
	return shares
}

package game

import "fmt"

// HandSummary is the once-per-hand record emitted when a hand closes,
// ready for whatever log or store the caller feeds.
type HandSummary struct {
	HandID      string              `json:"hand_id"`
	Seats       int                 `json:"seats"`
	Dealer      int                 `json:"dealer"`
	Pot         int64               `json:"pot_cents"`
	Briscola    Card                `json:"briscola"`
	Salvo       bool                `json:"salvo"`
	BestiaScesa bool                `json:"bestia_scesa"`
	NextPot     int64               `json:"next_pot_cents"`
	Grabs       []Grab              `json:"grabs,omitempty"`
	Results     []ParticipantResult `json:"results,omitempty"`
	SeatDeltas  []int64             `json:"seat_deltas_cents"`
}

// Summarize builds the closing record of a settled hand.
func Summarize(handID string, h *HandState) (HandSummary, error) {
	if !h.IsTerminal() || h.Result == nil {
		return HandSummary{}, fmt.Errorf("summary of an unsettled hand in phase %s", h.Phase)
	}
	r := h.Result.copy()
	grabs := make([]Grab, len(h.Grabs))
	for i, g := range h.Grabs {
		grabs[i] = g.copy()
	}
	return HandSummary{
		HandID:      handID,
		Seats:       h.Config.Seats,
		Dealer:      h.Dealer,
		Pot:         r.Pot,
		Briscola:    h.Briscola,
		Salvo:       r.Salvo,
		BestiaScesa: h.Result.BestiaScesa(),
		NextPot:     r.NextPot,
		Grabs:       grabs,
		Results:     r.Results,
		SeatDeltas:  r.SeatDeltas,
	}, nil
}

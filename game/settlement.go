package game

// ParticipantResult is one participant's closing line: grabs taken, cents
// paid out, cents owed into the next pot.
type ParticipantResult struct {
	ID     ParticipantID `json:"id"`
	Member []int         `json:"members"`
	Grabs  int           `json:"grabs"`
	Payout int64         `json:"payout_cents"`
	Bestia int64         `json:"bestia_cents"`
}

// Settlement is the closing account of a hand. All amounts are cents and
// they balance exactly: payouts plus the remainder equal the pot, and the
// next pot is the remainder plus every bestia debt (or the whole pot on a
// salvo).
type Settlement struct {
	Pot          int64               `json:"pot_cents"`
	Results      []ParticipantResult `json:"results,omitempty"`
	Salvo        bool                `json:"salvo"`
	ForcedPayout bool                `json:"forced_payout"` // a threshold suppressed the salvo
	Remainder    int64               `json:"remainder_cents"`
	NextPot      int64               `json:"next_pot_cents"`
	SeatDeltas   []int64             `json:"seat_deltas_cents"` // per-seat net, società splits applied
}

// BestiaScesa reports the pot leaving the table clean: paid out in full
// with nobody going bestia.
func (s *Settlement) BestiaScesa() bool {
	if s.Salvo || len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if r.Bestia > 0 {
			return false
		}
	}
	return true
}

func (s Settlement) copy() Settlement {
	results := make([]ParticipantResult, len(s.Results))
	for i, r := range s.Results {
		results[i] = r
		results[i].Member = append([]int(nil), r.Member...)
	}
	out := s
	out.Results = results
	out.SeatDeltas = append([]int64(nil), s.SeatDeltas...)
	return out
}

// computeSettlement closes a hand's accounts. counts aligns with the
// committed participants; a nil slice means nobody committed and the pot
// rolls over whole.
//
// Piatto salvo: three participants each on one grab, or four participants
// on 1-1-1-0 when the table plays that agreement. A configured threshold
// suppresses the salvo once the pot reaches it. A granted salvo rolls the
// pot with no payouts and no bestia debts; a settled hand pays each
// participant floor(grabs*pot/3) and charges every zero-grab participant
// the full pot into the next one.
func computeSettlement(cfg Config, pot int64, participants []Participant, counts []int) Settlement {
	s := Settlement{
		Pot:        pot,
		SeatDeltas: make([]int64, cfg.Seats),
	}

	if len(participants) == 0 {
		s.Salvo = true
		s.NextPot = pot
		return s
	}

	salvo := salvoPattern(cfg, counts)
	if salvo && cfg.SalvoThreshold > 0 && pot >= cfg.SalvoThreshold {
		salvo = false
		s.ForcedPayout = true
	}

	for i, p := range participants {
		s.Results = append(s.Results, ParticipantResult{
			ID:     p.ID,
			Member: append([]int(nil), p.Members...),
			Grabs:  counts[i],
		})
	}

	if salvo {
		s.Salvo = true
		s.NextPot = pot
		return s
	}

	paid := int64(0)
	owed := int64(0)
	for i, p := range participants {
		r := &s.Results[i]
		r.Payout = int64(counts[i]) * pot / 3
		paid += r.Payout
		if counts[i] == 0 {
			r.Bestia = pot
			owed += pot
		}

		for m, share := range p.Split(r.Payout) {
			s.SeatDeltas[p.Members[m]] += share
		}
		for m, share := range p.Split(r.Bestia) {
			s.SeatDeltas[p.Members[m]] -= share
		}
	}

	s.Remainder = pot - paid
	s.NextPot = s.Remainder + owed
	return s
}

// salvoPattern matches the two rollover distributions. Nothing else
// counts: with three grabs in play, an all-ones round is only possible
// with exactly three participants.
func salvoPattern(cfg Config, counts []int) bool {
	switch len(counts) {
	case 3:
		return counts[0] == 1 && counts[1] == 1 && counts[2] == 1
	case 4:
		if !cfg.SalvoOnFourWithZero {
			return false
		}
		zeros, ones := 0, 0
		for _, c := range counts {
			switch c {
			case 0:
				zeros++
			case 1:
				ones++
			}
		}
		return zeros == 1 && ones == 3
	default:
		return false
	}
}

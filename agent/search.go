package agent

import (
	"bestia/game"
	"bestia/searcher"
)

// Search answers every decision with a fresh determinized tree search over
// the viewer's observation.
type Search struct {
	searcher *searcher.ISMCTS
}

func NewSearch(s *searcher.ISMCTS) *Search {
	return &Search{searcher: s}
}

func (s *Search) Choose(obs *game.Observation) (game.Action, error) {
	action, _, err := s.searcher.Search(obs)
	return action, err
}

func (s *Search) Name() string {
	return "ismcts"
}

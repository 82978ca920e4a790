package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"bestia/game"
)

func TestSelectOrExpandTriesEveryActionFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	root := newNode("", -1)
	legal := []game.Action{{Type: game.Keep}, {Type: game.Fold}}

	first, a1, expanded := root.selectOrExpand(legal, 0, CSquared, rng)
	require.True(t, expanded)
	second, a2, expanded := root.selectOrExpand(legal, 0, CSquared, rng)
	require.True(t, expanded, "the untried action expands before any reselection")
	require.NotEqual(t, a1.Key(), a2.Key())
	require.Len(t, root.children, 2)

	first.backup(0.5)
	second.backup(-0.5)

	chosen, a3, expanded := root.selectOrExpand(legal, 0, CSquared, rng)
	require.False(t, expanded, "a fully expanded node selects")
	require.Equal(t, a1.Key(), a3.Key(), "the better rewarded child wins the selection")
	require.Same(t, first, chosen)
}

func TestBackupReversesTheVirtualLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	root := newNode("", -1)
	legal := []game.Action{{Type: game.Servito}}

	child, _, _ := root.selectOrExpand(legal, 3, CSquared, rng)
	require.Equal(t, 1, child.Visits())
	require.Equal(t, virtualLoss, child.rewards, "a selected child carries the loss until backup")
	require.Equal(t, 3, child.seat)

	child.backup(0.75)
	require.Equal(t, 1, child.Visits(), "backup keeps the visit from selection")
	require.Equal(t, 0.75, child.rewards)
}

func TestObservePrefersUnvisitedChildren(t *testing.T) {
	n := newNode("play:AB", 0)
	require.True(t, math.IsInf(n.observe(CSquared), 1), "an unvisited node outranks any score")
	require.Equal(t, 1, n.avail)
}

func TestEdgeReward(t *testing.T) {
	s := &game.Settlement{Pot: 300, SeatDeltas: []int64{150, -300, 0, 150}}
	require.Equal(t, 0.5, edgeReward(s, 0))
	require.Equal(t, -1.0, edgeReward(s, 1), "a bestia costs the whole pot")
	require.Equal(t, 0.0, edgeReward(s, 2))
	require.Equal(t, 0.0, edgeReward(&game.Settlement{}, 0), "an empty pot has nothing at stake")
}

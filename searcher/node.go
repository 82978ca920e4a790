package searcher

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"bestia/game"
)

// Hyperparameters for ISMCTS

const CSquared = 2.0 // Default exploration constant (squared)

// virtualLoss is added when a node is selected and reversed on backup, so
// concurrent episodes spread over different lines.
const virtualLoss = -1.0

// node is one information set: the hand as seen after a public sequence of
// actions from the root. Stats are guarded per node; a parent locks itself
// before touching a child, never the other way around.
type node struct {
	sync.RWMutex
	key      string // action key of the edge into this node
	seat     int    // seat that decided the incoming edge
	children map[string]*node
	rewards  float64
	visits   int
	avail    int // times this node was available at its parent's selection
}

func newNode(key string, seat int) *node {
	return &node{key: key, seat: seat}
}

// selectOrExpand follows one edge for the current determinization's legal
// set. An untried action expands a fresh child; otherwise every available
// child is scored and the best one is selected. The chosen child carries a
// virtual loss until backup.
func (n *node) selectOrExpand(legal []game.Action, seat int, cSquared float64, rng *rand.Rand) (*node, game.Action, bool) {
	n.Lock()
	defer n.Unlock()

	if n.children == nil {
		n.children = make(map[string]*node, len(legal))
	}

	var untried []game.Action
	for _, a := range legal {
		if _, ok := n.children[a.Key()]; !ok {
			untried = append(untried, a)
		}
	}
	if len(untried) > 0 {
		action := untried[rng.Intn(len(untried))]
		child := newNode(action.Key(), seat)
		child.applyLoss()
		n.children[action.Key()] = child
		return child, action, true
	}

	// Fully expanded for this determinization: availability UCB1
	scores := make([]float64, len(legal))
	for i, a := range legal {
		scores[i] = n.children[a.Key()].observe(cSquared)
	}
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	child := n.children[legal[best].Key()]
	child.applyLoss()
	return child, legal[best], false
}

// observe counts one availability and scores the node for its parent's
// selection. Unvisited nodes win outright.
func (c *node) observe(cSquared float64) float64 {
	c.Lock()
	defer c.Unlock()

	c.avail++
	if c.visits == 0 {
		return math.Inf(1)
	}
	return c.rewards/float64(c.visits) + math.Sqrt(cSquared*math.Log(float64(c.avail))/float64(c.visits))
}

func (c *node) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.rewards += virtualLoss
	c.visits++
}

// backup reverses the virtual loss and records the episode reward.
func (c *node) backup(reward float64) {
	c.Lock()
	defer c.Unlock()

	c.rewards -= virtualLoss
	c.rewards += reward
}

func (c *node) Visits() int {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}

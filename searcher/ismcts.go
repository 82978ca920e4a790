package searcher

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"bestia/game"
)

// RolloutPolicy picks the playout action from a non-empty legal set.
type RolloutPolicy func(h *game.HandState, legal []game.Action, rng *rand.Rand) game.Action

type Option func(m *ISMCTS)

// ISMCTS searches one seat's observation by information set Monte Carlo tree
// search: every episode samples a determinization of the hidden cards and
// descends a single tree shared by all workers, keyed by the public action
// sequence. A search runs its own worker pool; Search itself must not be
// called concurrently.
type ISMCTS struct {
	goroutines int
	episodes   int
	duration   time.Duration
	cSquared   float64
	seed       uint64
	policy     RolloutPolicy
	collector  Collector
	root       *node
}

func WithEpisodes(episodes int) Option {
	return func(m *ISMCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *ISMCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithExploration(cSquared float64) Option {
	return func(m *ISMCTS) {
		if cSquared > 0 {
			m.cSquared = cSquared
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *ISMCTS) {
		m.seed = seed
	}
}

func WithCollector(collector Collector) Option {
	return func(m *ISMCTS) {
		if collector != nil {
			m.collector = collector
		}
	}
}

func WithRolloutPolicy(policy RolloutPolicy) Option {
	return func(m *ISMCTS) {
		if policy != nil {
			m.policy = policy
		}
	}
}

func New(goroutines int, options ...Option) *ISMCTS {
	if goroutines < 1 {
		panic("need at least one search goroutine")
	}
	m := &ISMCTS{ // Default values
		goroutines: goroutines,
		cSquared:   CSquared,
		seed:       uint64(time.Now().UnixNano()),
		policy:     uniformRollout,
		collector:  NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

func uniformRollout(_ *game.HandState, legal []game.Action, rng *rand.Rand) game.Action {
	return legal[rng.Intn(len(legal))]
}

// Search spends the episode or duration budget on the observation and
// returns the most visited root action.
func (m *ISMCTS) Search(obs *game.Observation) (game.Action, SearchMetrics, error) {
	if !obs.ViewerActs() {
		return game.Action{}, SearchMetrics{}, fmt.Errorf("search: seat %d does not answer for the current actor", obs.Seat)
	}
	legal := obs.LegalActions()
	if len(legal) == 0 {
		return game.Action{}, SearchMetrics{}, fmt.Errorf("search: seat %d has no legal actions", obs.Seat)
	}

	m.root = newNode("", -1)
	m.collector.Start()

	var err error
	if m.episodes > 0 {
		err = m.iterate(obs)
	} else {
		err = m.countdown(obs)
	}
	metric := m.collector.Complete()
	if err != nil {
		return game.Action{}, metric, err
	}

	best := m.bestAction(legal)
	log.Debug().Msgf("search: seat %d picked %s after %d episodes in %v", obs.Seat, best, metric.Episodes, metric.Duration)
	return best, metric, nil
}

func (m *ISMCTS) iterate(obs *game.Observation) error {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	g := new(errgroup.Group)
	for i := 0; i < m.goroutines; i++ {
		rng := m.workerRNG(i)
		g.Go(func() error {
			for range task {
				if err := m.episode(obs, rng); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *ISMCTS) countdown(obs *game.Observation) error {
	done := make(chan any)

	g := new(errgroup.Group)
	for i := 0; i < m.goroutines; i++ {
		rng := m.workerRNG(i)
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
					if err := m.episode(obs, rng); err != nil {
						return err
					}
				}
			}
		})
	}

	<-time.After(m.duration)
	close(done)
	return g.Wait()
}

// workerRNG derives an independent stream per worker from the search seed.
func (m *ISMCTS) workerRNG(worker int) *rand.Rand {
	return rand.New(rand.NewSource(m.seed + uint64(worker)*0x9E3779B97F4A7C15))
}

// episode runs one simulation: determinize, descend the shared tree until
// an expansion, roll out to settlement, back the outcome up the path.
func (m *ISMCTS) episode(obs *game.Observation, rng *rand.Rand) error {
	state, err := NewDeterminizer(rng).Sample(obs)
	if err != nil {
		return err
	}

	n := m.root
	var path []*node
	for !state.IsTerminal() {
		actor, _ := state.CurrentActor()
		legal := state.LegalActions(actor)
		child, action, expanded := n.selectOrExpand(legal, state.ControllingSeat(actor), m.cSquared, rng)
		if state, err = state.Apply(actor, action); err != nil {
			return err
		}
		path = append(path, child)
		if expanded {
			m.collector.AddExpansion()
			break
		}
		n = child
	}

	moves := 0
	for !state.IsTerminal() {
		actor, _ := state.CurrentActor()
		legal := state.LegalActions(actor)
		action := m.policy(state, legal, rng)
		if state, err = state.Apply(actor, action); err != nil {
			return err
		}
		moves++
	}
	m.collector.AddRolloutMoves(moves)

	result, err := state.Settlement()
	if err != nil {
		return err
	}
	for _, c := range path {
		c.backup(edgeReward(result, c.seat))
	}
	m.collector.AddEpisode()
	return nil
}

// edgeReward is the deciding seat's net settlement outcome scaled into
// [-1, 1] by the pot.
func edgeReward(result *game.Settlement, seat int) float64 {
	if result.Pot == 0 {
		return 0
	}
	return float64(result.SeatDeltas[seat]) / float64(result.Pot)
}

func (m *ISMCTS) bestAction(legal []game.Action) game.Action {
	m.root.RLock()
	children := m.root.children
	m.root.RUnlock()

	best := legal[0]
	bestVisits := -1
	for _, a := range legal {
		child, ok := children[a.Key()]
		if !ok {
			continue
		}
		if v := child.Visits(); v > bestVisits {
			bestVisits = v
			best = a
		}
	}
	return best
}

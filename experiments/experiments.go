package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bestia/agent"
	"bestia/engine"
	"bestia/experiments/metrics"
	"bestia/game"
	"bestia/searcher"
)

const (
	HandsPerSession = 30
	BuyIn           = 10_000 // cents per seat
	SearchParallel  = 4      // goroutines per searching agent
)

var budgetConfigs = []metrics.AgentConfig{
	{ID: 1, Kind: "ismcts", Goroutines: SearchParallel, Episodes: 50},
	{ID: 2, Kind: "ismcts", Goroutines: SearchParallel, Episodes: 100},
	{ID: 3, Kind: "ismcts", Goroutines: SearchParallel, Episodes: 200},
	{ID: 4, Kind: "ismcts", Goroutines: SearchParallel, Episodes: 400},
}

var baseline = metrics.AgentConfig{ID: 0, Kind: "greedy"}

// RunBudgetToStrength seats one searching agent at increasing episode
// budgets against a table of greedy baselines, one session per budget. A
// rising net for seat 0 across sessions is the strength signal.
func RunBudgetToStrength(outDir string, seed int64) {
	cfg := game.DefaultConfig()

	sessions := make([][]metrics.AgentConfig, len(budgetConfigs))
	for i, bc := range budgetConfigs {
		seatConfigs := make([]metrics.AgentConfig, cfg.Seats)
		seatConfigs[0] = bc
		for seat := 1; seat < cfg.Seats; seat++ {
			seatConfigs[seat] = baseline
		}
		sessions[i] = seatConfigs
	}

	configs := append([]metrics.AgentConfig{baseline}, budgetConfigs...)
	runExperiment("budget_to_strength", outDir, cfg, configs, sessions, seed)
}

// runExperiment plays every session on its own goroutine and stores the
// accumulated records.
func runExperiment(name, outDir string, cfg game.Config, configs []metrics.AgentConfig, sessions [][]metrics.AgentConfig, seed int64) {
	log.Info().Msgf("starting %s experiment with %d sessions...", name, len(sessions))

	recorder := metrics.NewRecorder()
	var g errgroup.Group
	for i, seatConfigs := range sessions {
		session := i + 1
		seatConfigs := seatConfigs
		g.Go(func() error {
			return runSession(session, cfg, seatConfigs, seed+int64(session)*1_000, recorder)
		})
	}
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("experiment %s failed: %v", name, err))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		panic(fmt.Sprintf("failed to store agent configs: %v", err))
	}
	sessionRecords, handRecords := recorder.Records()
	if err := writer.WriteSessionRecords(sessionRecords); err != nil {
		panic(fmt.Sprintf("failed to write session records: %v", err))
	}
	if err := writer.WriteHandRecords(handRecords); err != nil {
		panic(fmt.Sprintf("failed to write hand records: %v", err))
	}
	log.Info().Msgf("stored results under %s", writer.Dir())
}

// runSession plays one table through its hands and records every one.
func runSession(session int, cfg game.Config, seatConfigs []metrics.AgentConfig, seed int64, recorder *metrics.Recorder) error {
	choosers := make([]agent.Chooser, len(seatConfigs))
	agentIDs := make([]int, len(seatConfigs))
	for seat, sc := range seatConfigs {
		choosers[seat] = buildChooser(sc, seed+int64(seat))
		agentIDs[seat] = sc.ID
	}

	table, err := engine.NewTable(cfg, choosers, BuyIn, seed)
	if err != nil {
		return err
	}

	played := 0
	for hand := 1; hand <= HandsPerSession; hand++ {
		if seat, broke := brokeSeat(table); broke {
			log.Info().Msgf("session %d stops after %d hands: seat %d is broke", session, played, seat)
			break
		}
		start := time.Now()
		s, err := table.PlayHand()
		if err != nil {
			return fmt.Errorf("session %d hand %d: %w", session, hand, err)
		}
		recorder.AddHand(metrics.HandRecord{
			Session:     session,
			Hand:        hand,
			HandID:      s.HandID,
			Seats:       s.Seats,
			Dealer:      s.Dealer,
			Pot:         s.Pot,
			NextPot:     s.NextPot,
			Salvo:       s.Salvo,
			BestiaScesa: s.BestiaScesa,
			Duration:    time.Since(start),
			Agents:      agentIDs,
			Deltas:      s.SeatDeltas,
		})
		played++
	}

	nets := make([]int64, len(table.Bankrolls))
	for seat, b := range table.Bankrolls {
		nets[seat] = b - BuyIn
	}
	recorder.AddSession(metrics.SessionRecord{
		Session: session,
		Hands:   played,
		Agents:  agentIDs,
		Nets:    nets,
	})
	log.Info().Msgf("completed session %d after %d hands", session, played)
	return nil
}

func brokeSeat(t *engine.Table) (int, bool) {
	for seat, b := range t.Bankrolls {
		if b <= t.Floor {
			return seat, true
		}
	}
	return 0, false
}

// buildChooser turns an agent config into a seat's chooser.
func buildChooser(c metrics.AgentConfig, seed int64) agent.Chooser {
	switch c.Kind {
	case "random":
		return agent.NewRandom(seed)
	case "greedy":
		return agent.NewGreedy()
	default:
		options := []searcher.Option{searcher.WithSeed(uint64(seed))}
		if c.Episodes > 0 {
			options = append(options, searcher.WithEpisodes(c.Episodes))
		}
		if c.Duration > 0 {
			options = append(options, searcher.WithDuration(c.Duration))
		}
		goroutines := c.Goroutines
		if goroutines == 0 {
			goroutines = 1
		}
		return agent.NewSearch(searcher.New(goroutines, options...))
	}
}

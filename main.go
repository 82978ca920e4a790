package main

import (
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bestia/agent"
	"bestia/engine"
	"bestia/experiments"
	"bestia/game"
	"bestia/searcher"
)

func main() {
	mode := flag.String("mode", "demo", "demo, selfplay, experiment or throughput")
	seats := flag.Int("seats", 0, "seats at the table, 0 keeps the config value")
	hands := flag.Int("hands", 20, "hands per selfplay session")
	budget := flag.Int("budget", 200, "search episodes per decision")
	duration := flag.Duration("duration", 0, "search time per decision, overrides -budget when set")
	goroutines := flag.Int("goroutines", 4, "search goroutines")
	seed := flag.Int64("seed", 0, "rng seed, 0 picks the clock")
	configPath := flag.String("config", "", "table config JSON, defaults apply when empty")
	out := flag.String("out", "out", "experiment output directory")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = game.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load config")
		}
	}
	if *seats > 0 {
		cfg.Seats = *seats
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad table config")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	switch *mode {
	case "demo":
		runDemo(cfg, *goroutines, *budget, *duration, *seed)
	case "selfplay":
		runSelfplay(cfg, *hands, *goroutines, *budget, *duration, *seed)
	case "experiment":
		experiments.RunBudgetToStrength(*out, *seed)
	case "throughput":
		experiments.RunThroughput(*out, *seed)
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

// narrate logs every action its inner chooser takes.
type narrate struct {
	seat  int
	inner agent.Chooser
}

func (n *narrate) Choose(obs *game.Observation) (game.Action, error) {
	a, err := n.inner.Choose(obs)
	if err == nil {
		log.Info().Msgf("seat %d (%s) in %s: %s", n.seat, n.inner.Name(), obs.Phase, a)
	}
	return a, err
}

func (n *narrate) Name() string { return n.inner.Name() }

// runDemo plays one narrated hand: a searching seat 0, a greedy seat 1,
// random play everywhere else.
func runDemo(cfg game.Config, goroutines, budget int, duration time.Duration, seed int64) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	choosers := make([]agent.Chooser, cfg.Seats)
	choosers[0] = agent.NewSearch(newSearcher(goroutines, budget, duration, seed))
	choosers[1] = agent.NewGreedy()
	for seat := 2; seat < cfg.Seats; seat++ {
		choosers[seat] = agent.NewRandom(seed + int64(seat))
	}
	for seat := range choosers {
		choosers[seat] = &narrate{seat: seat, inner: choosers[seat]}
	}

	e := engine.New(choosers)
	e.Sink = func(s game.HandSummary) {
		for seat, delta := range s.SeatDeltas {
			log.Info().Msgf("seat %d (%s) nets %+d cents", seat, choosers[seat].Name(), delta)
		}
	}

	h, err := game.NewHand(cfg, 0, 0, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot deal")
	}
	log.Info().Msgf("dealt: briscola %s, pot %d cents", h.Briscola.Name(cfg.DeckVariant), h.Pot)
	if _, err := e.RunHand(uuid.NewString(), h); err != nil {
		log.Fatal().Err(err).Msg("hand aborted")
	}
}

// runSelfplay runs a searching seat against a table of greedy baselines
// for a whole session.
func runSelfplay(cfg game.Config, hands, goroutines, budget int, duration time.Duration, seed int64) {
	choosers := make([]agent.Chooser, cfg.Seats)
	choosers[0] = agent.NewSearch(newSearcher(goroutines, budget, duration, seed))
	for seat := 1; seat < cfg.Seats; seat++ {
		choosers[seat] = agent.NewGreedy()
	}

	table, err := engine.NewTable(cfg, choosers, 100*cfg.DealerFee, seed)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot seat the table")
	}
	summaries, err := table.Run(hands)
	if err != nil {
		log.Fatal().Err(err).Msg("session aborted")
	}

	log.Info().Msgf("session over after %d hands, %d cents still carried", len(summaries), table.Carry)
	for seat, b := range table.Bankrolls {
		log.Info().Msgf("seat %d (%s) closes at %d cents", seat, choosers[seat].Name(), b)
	}
}

func newSearcher(goroutines, episodes int, duration time.Duration, seed int64) *searcher.ISMCTS {
	options := []searcher.Option{searcher.WithSeed(uint64(seed))}
	if duration > 0 {
		options = append(options, searcher.WithDuration(duration))
	} else {
		options = append(options, searcher.WithEpisodes(episodes))
	}
	return searcher.New(goroutines, options...)
}

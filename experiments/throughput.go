package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bestia/experiments/metrics"
	"bestia/game"
	"bestia/searcher"
)

// RunThroughput measures how many episodes fit into a fixed budget window
// as the goroutine count grows, searching the same play decision each time.
func RunThroughput(outDir string, seed int64) {
	const window = 100 * time.Millisecond
	counts := []int{1, 2, 4, 8, 16, 32}

	obs := throughputObservation(seed)
	records := make([]metrics.ThroughputRecord, 0, len(counts))
	for _, goroutines := range counts {
		s := searcher.New(goroutines,
			searcher.WithDuration(window),
			searcher.WithSeed(uint64(seed)),
			searcher.WithCollector(searcher.NewCollector()),
		)
		_, m, err := s.Search(obs)
		if err != nil {
			panic(fmt.Sprintf("throughput search failed: %v", err))
		}
		records = append(records, metrics.ThroughputRecord{
			Goroutines:   goroutines,
			Duration:     m.Duration,
			Episodes:     int(m.Episodes),
			Expansions:   int(m.Expansions),
			RolloutMoves: int(m.RolloutMoves),
		})
		log.Info().Msgf("%d goroutines: %d episodes in %v", goroutines, m.Episodes, m.Duration)
	}

	writer, err := metrics.NewWriter(outDir, "throughput")
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		panic(fmt.Sprintf("failed to write throughput records: %v", err))
	}
	log.Info().Msgf("stored results under %s", writer.Dir())
}

// throughputObservation deals a hand with every seat kept servito and
// stops at the first card play.
func throughputObservation(seed int64) *game.Observation {
	cfg := game.DefaultConfig()
	h, err := game.NewHand(cfg, 0, 0, seed)
	if err != nil {
		panic(err)
	}
	for h.Phase != game.PhasePlay {
		actor, _ := h.CurrentActor()
		a := game.Action{Type: game.Keep}
		if h.Phase == game.PhaseExchange {
			a = game.Action{Type: game.Servito}
		}
		h, err = h.Apply(actor, a)
		if err != nil {
			panic(err)
		}
	}
	actor, _ := h.CurrentActor()
	return h.Observe(h.ControllingSeat(actor))
}

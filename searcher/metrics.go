package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics describes one completed search.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	Expansions   int64
	RolloutMoves int64
}

type Collector interface {
	Start()
	AddEpisode()
	AddExpansion()
	AddRolloutMoves(moves int)
	Complete() SearchMetrics
}

type collector struct {
	startTime    time.Time
	episodes     atomic.Int64
	expansions   atomic.Int64
	rolloutMoves atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.episodes.Store(0)
	c.expansions.Store(0)
	c.rolloutMoves.Store(0)
}

func (c *collector) AddEpisode() {
	c.episodes.Add(1)
}

func (c *collector) AddExpansion() {
	c.expansions.Add(1)
}

func (c *collector) AddRolloutMoves(moves int) {
	c.rolloutMoves.Add(int64(moves))
}

func (c *collector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    c.startTime,
		Duration:     time.Since(c.startTime),
		Episodes:     c.episodes.Load(),
		Expansions:   c.expansions.Load(),
		RolloutMoves: c.rolloutMoves.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (d *dummyCollector) Start()                  {}
func (d *dummyCollector) AddEpisode()             {}
func (d *dummyCollector) AddExpansion()           {}
func (d *dummyCollector) AddRolloutMoves(int)     {}
func (d *dummyCollector) Complete() SearchMetrics { return SearchMetrics{} }

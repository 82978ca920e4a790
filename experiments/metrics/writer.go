package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AgentConfig describes one seat's agent for an experiment run.
type AgentConfig struct {
	ID         int
	Kind       string // "random", "greedy" or "ismcts"
	Goroutines int
	Episodes   int
	Duration   time.Duration
}

// HandRecord is one row per played hand.
type HandRecord struct {
	Session     int
	Hand        int // 1-based within the session
	HandID      string
	Seats       int
	Dealer      int
	Pot         int64
	NextPot     int64
	Salvo       bool
	BestiaScesa bool
	Duration    time.Duration
	Agents      []int   // AgentConfig.ID per seat
	Deltas      []int64 // net cents per seat
}

// SessionRecord is one row per session: the closing bankroll movement of
// every seat against its buy-in.
type SessionRecord struct {
	Session int
	Hands   int
	Agents  []int
	Nets    []int64 // closing bankroll minus buy-in, cents per seat
}

type Writer struct {
	baseDir string
}

// NewWriter creates <outDir>/<name>/<timestamp> and writes every file of
// the experiment there.
func NewWriter(outDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outDir, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the directory the writer stores into.
func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := [][]string{{"id", "kind", "goroutines", "episodes", "duration"}}
	for _, c := range configs {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			c.Kind,
			strconv.Itoa(c.Goroutines),
			strconv.Itoa(c.Episodes),
			c.Duration.String(),
		})
	}
	return w.writeFile("agent_configs.csv", rows)
}

func (w *Writer) WriteHandRecords(records []HandRecord) error {
	rows := [][]string{{
		"session", "hand", "hand_id", "seats", "dealer",
		"pot_cents", "next_pot_cents", "salvo", "bestia_scesa",
		"duration", "agents", "deltas_cents",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Session),
			strconv.Itoa(r.Hand),
			r.HandID,
			strconv.Itoa(r.Seats),
			strconv.Itoa(r.Dealer),
			strconv.FormatInt(r.Pot, 10),
			strconv.FormatInt(r.NextPot, 10),
			strconv.FormatBool(r.Salvo),
			strconv.FormatBool(r.BestiaScesa),
			r.Duration.String(),
			joinInts(r.Agents),
			joinInt64s(r.Deltas),
		})
	}
	return w.writeFile("hand_records.csv", rows)
}

func (w *Writer) WriteSessionRecords(records []SessionRecord) error {
	rows := [][]string{{"session", "hands", "agents", "nets_cents"}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Session),
			strconv.Itoa(r.Hands),
			joinInts(r.Agents),
			joinInt64s(r.Nets),
		})
	}
	return w.writeFile("session_records.csv", rows)
}

// WriteThroughputRecords stores the rows of a search throughput sweep.
func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	rows := [][]string{{"goroutines", "duration", "episodes", "expansions", "rollout_moves"}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Goroutines),
			r.Duration.String(),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.Expansions),
			strconv.Itoa(r.RolloutMoves),
		})
	}
	return w.writeFile("throughput.csv", rows)
}

// ThroughputRecord is one row of the goroutines-to-episodes sweep.
type ThroughputRecord struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Expansions   int
	RolloutMoves int
}

func (w *Writer) writeFile(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	return nil
}

// joinInts renders a per-seat column as "1+0+0+2".
func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "+")
}

func joinInt64s(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, "+")
}

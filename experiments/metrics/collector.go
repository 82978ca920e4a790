package metrics

import (
	"sort"
	"sync"
)

// Recorder accumulates the records of concurrently running sessions. Every
// table goroutine appends through it; the writer reads the sorted result
// once the experiment is done.
type Recorder struct {
	mu       sync.Mutex
	hands    []HandRecord
	sessions []SessionRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddHand(rec HandRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, rec)
}

func (r *Recorder) AddSession(rec SessionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, rec)
}

// Records returns the accumulated rows ordered by session and hand.
func (r *Recorder) Records() ([]SessionRecord, []HandRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := append([]SessionRecord(nil), r.sessions...)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Session < sessions[j].Session })

	hands := append([]HandRecord(nil), r.hands...)
	sort.Slice(hands, func(i, j int) bool {
		if hands[i].Session != hands[j].Session {
			return hands[i].Session < hands[j].Session
		}
		return hands[i].Hand < hands[j].Hand
	})
	return sessions, hands
}

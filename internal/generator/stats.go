package generator

import (
	"sort"
	"sync"
	"time"
)

type run struct {
	at         time.Time
	durationMs int64
	failed     bool
}

// StatsSnapshot aggregates recent generation runs.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
}

// Stats keeps generation timings within a rolling window.
type Stats struct {
	mu     sync.Mutex
	runs   []run
	window time.Duration
	now    func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{runs: make([]run, 0, 64), window: window, now: time.Now}
}

// Record adds one generation run.
func (s *Stats) Record(d time.Duration, failed bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.dropOldLocked(now)
	s.runs = append(s.runs, run{at: now, durationMs: ms, failed: failed})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropOldLocked(s.now())
	if len(s.runs) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{Count: len(s.runs)}
	durations := make([]int64, 0, len(s.runs))
	var sum int64
	for _, r := range s.runs {
		durations = append(durations, r.durationMs)
		sum += r.durationMs
		if r.failed {
			snap.Failures++
		}
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	snap.MinMs = durations[0]
	snap.MaxMs = durations[len(durations)-1]
	snap.AvgMs = float64(sum) / float64(len(durations))
	snap.P50Ms = interpolate(durations, 0.50)
	snap.P95Ms = interpolate(durations, 0.95)
	return snap
}

func (s *Stats) dropOldLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	kept := s.runs[:0]
	for _, r := range s.runs {
		if !r.at.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	s.runs = kept
}

// interpolate returns the q-quantile (0..1) of sorted values using linear
// interpolation between neighbours.
func interpolate(sorted []int64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}

package publisher

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// gapWindow is how many recent emit gaps feed the cadence statistics.
const gapWindow = 512

// Stats summarises the publisher's emission cadence: the configured rates
// plus mean/stddev of recent emit gaps and the achieved rate they imply.
type Stats struct {
	TickRate   int     `json:"tick_rate_hz"`
	TargetHz   int     `json:"target_hz"`
	Interval   float64 `json:"interval_ticks"`
	EmitCount  uint64  `json:"emit_count"`
	GapMean    float64 `json:"gap_mean_ticks"`
	GapStdDev  float64 `json:"gap_stddev_ticks"`
	AchievedHz float64 `json:"achieved_hz"`
}

// gapStats keeps a ring of recent gaps between emit ticks. The producer
// goroutine records; the monitor reads concurrently, so access is guarded.
type gapStats struct {
	mu       sync.Mutex
	tickRate int

	emitCount uint64
	lastEmit  uint64
	hasLast   bool

	gaps []float64
	next int
	full bool
}

func newGapStats(tickRate int) *gapStats {
	return &gapStats{
		tickRate: tickRate,
		gaps:     make([]float64, gapWindow),
	}
}

func (g *gapStats) record(tick uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.emitCount++
	if g.hasLast {
		g.gaps[g.next] = float64(tick - g.lastEmit)
		g.next = (g.next + 1) % len(g.gaps)
		if g.next == 0 {
			g.full = true
		}
	}
	g.lastEmit = tick
	g.hasLast = true
}

func (g *gapStats) summary() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	window := g.gaps[:g.next]
	if g.full {
		window = g.gaps
	}

	s := Stats{EmitCount: g.emitCount}
	if len(window) == 0 {
		return s
	}

	s.GapMean = stat.Mean(window, nil)
	if len(window) > 1 {
		s.GapStdDev = stat.StdDev(window, nil)
	}
	if s.GapMean > 0 {
		s.AchievedHz = float64(g.tickRate) / s.GapMean
	}
	return s
}

// Package publisher wires the rate divider, the binding table and the
// dispatcher into the per-tick publish path for one simulation engine.
package publisher

import (
	"fmt"

	"github.com/robolens/simpub/internal/binding"
	"github.com/robolens/simpub/internal/jointstate"
	"github.com/robolens/simpub/internal/rate"
	"github.com/robolens/simpub/internal/sim"
)

// Submitter receives emitted snapshots. In production this is the
// publish.Dispatcher; tests substitute a recorder.
type Submitter interface {
	Submit(snap jointstate.Snapshot)
}

// Config describes one publisher: its target rate and joint bindings.
type Config struct {
	// TargetHz is the requested publish frequency.
	TargetHz int

	// Tolerance bounds the per-interval relative error for frequencies that
	// do not divide the tick rate evenly. Zero selects rate.DefaultTolerance.
	Tolerance float64

	// Joints lists the published joints in output order.
	Joints []binding.JointConfig
}

// Publisher downsamples the simulation tick stream to the target frequency
// and submits joint-state snapshots for publication. All methods except
// Stats must be called from the simulation stepping goroutine only.
type Publisher struct {
	engine    sim.Engine
	table     *binding.Table
	divider   *rate.Divider
	submitter Submitter

	tick     uint64
	tickRate int
	targetHz int
	interval float64
	gaps     *gapStats
}

// New validates the configuration against the engine and freezes the
// binding table. Every returned error is setup-fatal: the publisher either
// constructs completely or not at all, and a constructed publisher has no
// per-tick error path.
func New(cfg Config, engine sim.Engine, submitter Submitter) (*Publisher, error) {
	tol := cfg.Tolerance
	if tol == 0 {
		tol = rate.DefaultTolerance
	}

	tickRate := engine.CurrentTickRate()
	interval, err := rate.Validate(tickRate, cfg.TargetHz, tol)
	if err != nil {
		return nil, fmt.Errorf("frequency check failed: %w", err)
	}

	table, err := binding.Bind(cfg.Joints, engine)
	if err != nil {
		return nil, fmt.Errorf("sensor binding failed: %w", err)
	}

	return &Publisher{
		engine:    engine,
		table:     table,
		divider:   rate.NewDivider(tickRate, cfg.TargetHz),
		submitter: submitter,
		tickRate:  tickRate,
		targetHz:  cfg.TargetHz,
		interval:  interval,
		gaps:      newGapStats(tickRate),
	}, nil
}

// OnSimStep is the per-tick hot path. Call exactly once per engine tick,
// after the engine has stepped. On an emit tick it captures the bound
// sensor values and hands the snapshot to the submitter; otherwise it only
// advances the divider.
func (p *Publisher) OnSimStep() {
	tick := p.tick
	p.tick++

	if !p.divider.ShouldEmit() {
		return
	}

	snap := jointstate.Capture(tick, p.table, p.engine.ReadBufferValue)
	p.submitter.Submit(snap)
	p.gaps.record(tick)
}

// JointNames returns the published joint names in output order.
func (p *Publisher) JointNames() []string {
	entries := p.table.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Stats summarises the publisher's cadence. Safe from any goroutine.
func (p *Publisher) Stats() Stats {
	s := p.gaps.summary()
	s.TickRate = p.tickRate
	s.TargetHz = p.targetHz
	s.Interval = p.interval
	return s
}

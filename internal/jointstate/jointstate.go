// Package jointstate defines the captured joint telemetry types and the
// per-tick snapshot step.
package jointstate

import "github.com/robolens/simpub/internal/binding"

// JointSample is one joint's state at a single tick. The JSON field names
// are the wire contract and must not change meaning.
type JointSample struct {
	Name     string  `json:"name"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

// Snapshot is an immutable capture of every bound joint at one tick.
// Ownership transfers to the dispatcher at Submit time; nothing mutates a
// Snapshot after Capture returns, which is what lets it cross goroutines
// without locking.
type Snapshot struct {
	Tick    uint64
	Samples []JointSample
}

// Message is the wire-visible publish payload: the snapshot's samples in
// binding order, stamped with the publisher's run identity.
type Message struct {
	RunID  string        `json:"run_id"`
	Tick   uint64        `json:"tick"`
	Joints []JointSample `json:"joints"`
}

// Capture reads the current value of every slot in the binding table and
// returns an immutable snapshot. Unbound slots read as 0.0. read must be
// the engine's O(1) buffer accessor; Capture performs no allocation beyond
// the sample slice and cannot fail.
func Capture(tick uint64, table *binding.Table, read func(slot int) float64) Snapshot {
	entries := table.Entries()
	samples := make([]JointSample, len(entries))
	for i, e := range entries {
		s := JointSample{Name: e.Name}
		if e.PositionSlot >= 0 {
			s.Position = read(e.PositionSlot)
		}
		if e.VelocitySlot >= 0 {
			s.Velocity = read(e.VelocitySlot)
		}
		samples[i] = s
	}
	return Snapshot{Tick: tick, Samples: samples}
}

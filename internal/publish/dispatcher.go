// Package publish hands emitted snapshots to the transport without ever
// blocking the simulation step.
//
// The Dispatcher owns the only concurrency boundary in the system: a single
// producer (the simulation tick loop) submits immutable snapshots into a
// bounded FIFO queue, and one worker goroutine drains it, builds the wire
// message and invokes the configured Publisher. FIFO order from Submit to
// Publish is guaranteed; delivery is best-effort on shutdown.
package publish

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/robolens/simpub/internal/jointstate"
	"github.com/robolens/simpub/internal/monitoring"
)

// Publisher is the transport boundary. Implementations own their own retry
// and error policy; the dispatcher only counts and logs failures.
type Publisher interface {
	Publish(msg *jointstate.Message) error
}

// DefaultQueueSize bounds the dispatcher queue. When the transport falls
// behind, the oldest queued snapshot is dropped first so the published
// stream stays live rather than delayed.
const DefaultQueueSize = 256

// defaultLogInterval spaces out the dispatcher's error and drop log lines.
const defaultLogInterval = 10 * time.Second

// Dispatcher schedules snapshot publication on its own worker goroutine.
// Submit never blocks. The dispatcher must outlive the producer's last
// tick: call Stop only after the simulation loop can no longer call Submit.
type Dispatcher struct {
	pub   Publisher
	runID string
	queue chan jointstate.Snapshot

	submitted atomic.Uint64
	published atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64

	logInterval time.Duration
	running     atomic.Bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewDispatcher creates a dispatcher that publishes through pub, stamping
// every message with runID. An empty runID gets a fresh UUID so each
// process run is distinguishable downstream. queueSize <= 0 selects
// DefaultQueueSize.
func NewDispatcher(pub Publisher, runID string, queueSize int) *Dispatcher {
	if runID == "" {
		runID = uuid.NewString()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		pub:         pub,
		runID:       runID,
		queue:       make(chan jointstate.Snapshot, queueSize),
		logInterval: defaultLogInterval,
		stopCh:      make(chan struct{}),
	}
}

// RunID returns the identity stamped on every message this dispatcher
// publishes.
func (d *Dispatcher) RunID() string { return d.runID }

// Start launches the worker goroutine. Submit calls before Start queue up
// to the queue bound but are not delivered until the worker runs.
func (d *Dispatcher) Start() {
	if !d.running.CompareAndSwap(false, true) {
		return
	}
	d.wg.Add(1)
	go d.run()
}

// Stop shuts the worker down. The message in flight finishes; anything
// still queued is abandoned. Safe to call more than once; a stopped
// dispatcher cannot be restarted.
func (d *Dispatcher) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}
	close(d.stopCh)
	d.wg.Wait()
}

// Submit hands a snapshot to the worker. It never blocks: if the queue is
// full the oldest queued snapshot is discarded to make room. Ownership of
// the snapshot transfers to the dispatcher at call time.
func (d *Dispatcher) Submit(snap jointstate.Snapshot) {
	d.submitted.Add(1)
	select {
	case d.queue <- snap:
		return
	default:
	}

	// Queue full: drop the oldest entry. The worker may race us for it, in
	// which case the queue has room again and nothing is lost.
	select {
	case <-d.queue:
		d.dropped.Add(1)
	default:
	}
	select {
	case d.queue <- snap:
	default:
		d.dropped.Add(1)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.logInterval)
	defer ticker.Stop()

	var failSinceLog uint64
	var lastErr error
	var dropsAtLastLog uint64

	for {
		select {
		case <-d.stopCh:
			return
		case snap := <-d.queue:
			if err := d.pub.Publish(d.buildMessage(snap)); err != nil {
				d.failed.Add(1)
				failSinceLog++
				lastErr = err
			} else {
				d.published.Add(1)
			}
		case <-ticker.C:
			if failSinceLog > 0 {
				monitoring.Logf("[Dispatcher] %d publish failures (latest: %v)", failSinceLog, lastErr)
				failSinceLog = 0
				lastErr = nil
			}
			if drops := d.dropped.Load(); drops > dropsAtLastLog {
				monitoring.Logf("[Dispatcher] queue overflow, dropped %d snapshots (total %d)",
					drops-dropsAtLastLog, drops)
				dropsAtLastLog = drops
			}
		}
	}
}

// buildMessage converts a snapshot into the wire message. Runs on the
// worker goroutine, off the simulation tick path.
func (d *Dispatcher) buildMessage(snap jointstate.Snapshot) *jointstate.Message {
	return &jointstate.Message{
		RunID:  d.runID,
		Tick:   snap.Tick,
		Joints: snap.Samples,
	}
}

// Stats is a point-in-time view of dispatcher counters.
type Stats struct {
	Submitted uint64 `json:"submitted"`
	Published uint64 `json:"published"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
	Running   bool   `json:"running"`
}

// Stats returns current dispatcher counters. Safe from any goroutine.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Submitted: d.submitted.Load(),
		Published: d.published.Load(),
		Dropped:   d.dropped.Load(),
		Failed:    d.failed.Load(),
		Running:   d.running.Load(),
	}
}

// Package sim provides the simulation engine boundary and a synthetic
// engine implementation for demos and tests.
//
// The real physics engine lives outside this module; the publisher only
// depends on the Engine interface. Synthetic steps deterministic sinusoid
// joint trajectories through the same buffer/sensor-slot shape a real
// engine exposes.
package sim

import (
	"fmt"
	"math"

	"github.com/robolens/simpub/internal/binding"
)

// Engine is the capability surface the publisher consumes from the
// simulation engine. ResolveSlot is a setup-time lookup; ReadBufferValue is
// the O(1) per-tick accessor and must be safe to call from the producer
// goroutine at tick boundaries; CurrentTickRate is fixed for the process
// lifetime.
type Engine interface {
	binding.Resolver
	ReadBufferValue(slot int) float64
	CurrentTickRate() int
}

// SyntheticJoint configures one joint of the synthetic engine: a sinusoid
// position trajectory with the given amplitude (radians), frequency (Hz)
// and phase offset.
type SyntheticJoint struct {
	Name      string
	Amplitude float64
	Frequency float64
	Phase     float64
}

// Synthetic is a deterministic stand-in engine. Each joint occupies two
// adjacent buffer slots (position, then velocity), and its sensors are
// registered as "<name>_pos" and "<name>_vel".
type Synthetic struct {
	tickRate int
	dt       float64
	tick     uint64

	joints   []SyntheticJoint
	buffer   []float64
	posSlots map[string]int
	velSlots map[string]int
}

// NewSynthetic creates a synthetic engine stepping at tickRate Hz.
func NewSynthetic(tickRate int, joints []SyntheticJoint) *Synthetic {
	s := &Synthetic{
		tickRate: tickRate,
		dt:       1.0 / float64(tickRate),
		joints:   joints,
		buffer:   make([]float64, 2*len(joints)),
		posSlots: make(map[string]int, len(joints)),
		velSlots: make(map[string]int, len(joints)),
	}
	for i, j := range joints {
		s.posSlots[fmt.Sprintf("%s_pos", j.Name)] = 2 * i
		s.velSlots[fmt.Sprintf("%s_vel", j.Name)] = 2*i + 1
	}
	s.fillBuffer(0)
	return s
}

// Step advances the simulation by one tick and refreshes the sensor buffer.
func (s *Synthetic) Step() {
	s.tick++
	s.fillBuffer(float64(s.tick) * s.dt)
}

func (s *Synthetic) fillBuffer(t float64) {
	for i, j := range s.joints {
		omega := 2 * math.Pi * j.Frequency
		s.buffer[2*i] = j.Amplitude * math.Sin(omega*t+j.Phase)
		s.buffer[2*i+1] = j.Amplitude * omega * math.Cos(omega*t+j.Phase)
	}
}

// ResolveSlot implements binding.Resolver.
func (s *Synthetic) ResolveSlot(kind binding.Kind, name string) (int, bool) {
	m := s.posSlots
	if kind == binding.KindVelocity {
		m = s.velSlots
	}
	slot, ok := m[name]
	return slot, ok
}

// ReadBufferValue returns the current value at a sensor slot.
func (s *Synthetic) ReadBufferValue(slot int) float64 {
	return s.buffer[slot]
}

// CurrentTickRate returns the fixed stepping frequency in Hz.
func (s *Synthetic) CurrentTickRate() int {
	return s.tickRate
}

// Tick returns the number of steps taken so far.
func (s *Synthetic) Tick() uint64 {
	return s.tick
}

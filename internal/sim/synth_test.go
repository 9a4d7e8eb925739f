package sim

import (
	"math"
	"testing"

	"github.com/robolens/simpub/internal/binding"
)

func testEngine() *Synthetic {
	return NewSynthetic(1000, []SyntheticJoint{
		{Name: "shoulder", Amplitude: 1.0, Frequency: 0.5},
		{Name: "elbow", Amplitude: 0.5, Frequency: 1.0, Phase: math.Pi / 2},
	})
}

func TestSyntheticResolveSlot(t *testing.T) {
	s := testEngine()

	slot, ok := s.ResolveSlot(binding.KindPosition, "shoulder_pos")
	if !ok || slot != 0 {
		t.Errorf("shoulder_pos = %d/%v, want 0/true", slot, ok)
	}
	slot, ok = s.ResolveSlot(binding.KindVelocity, "elbow_vel")
	if !ok || slot != 3 {
		t.Errorf("elbow_vel = %d/%v, want 3/true", slot, ok)
	}
	if _, ok := s.ResolveSlot(binding.KindPosition, "missing"); ok {
		t.Error("expected unknown sensor to not resolve")
	}
	// Kind matters: a position sensor name is not a velocity sensor.
	if _, ok := s.ResolveSlot(binding.KindVelocity, "shoulder_pos"); ok {
		t.Error("expected position sensor to not resolve as velocity")
	}
}

func TestSyntheticStepAdvancesBuffer(t *testing.T) {
	s := testEngine()

	if got := s.ReadBufferValue(0); got != 0 {
		t.Errorf("shoulder position at t=0 = %v, want 0", got)
	}

	// At t=0 the elbow (phase pi/2) sits at full amplitude.
	if got := s.ReadBufferValue(2); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("elbow position at t=0 = %v, want 0.5", got)
	}

	before := s.ReadBufferValue(1)
	for i := 0; i < 100; i++ {
		s.Step()
	}
	if s.Tick() != 100 {
		t.Errorf("tick = %d, want 100", s.Tick())
	}
	if s.ReadBufferValue(0) == 0 {
		t.Error("shoulder position did not move after 100 steps")
	}
	if s.ReadBufferValue(1) == before {
		t.Error("shoulder velocity did not change after 100 steps")
	}
}

func TestSyntheticIsDeterministic(t *testing.T) {
	a, b := testEngine(), testEngine()
	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}
	for slot := 0; slot < 4; slot++ {
		if a.ReadBufferValue(slot) != b.ReadBufferValue(slot) {
			t.Errorf("slot %d diverged between identical engines", slot)
		}
	}
}

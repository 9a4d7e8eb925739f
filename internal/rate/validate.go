// Package rate converts a fixed simulation tick rate into an arbitrary
// lower publish rate without drift.
//
// The package has two halves: Validate, run once at setup, rejects target
// frequencies the engine cannot honour; Divider, run once per simulation
// tick, makes the emit-or-skip decision with integer accumulation so the
// long-run emit rate converges exactly on the target.
package rate

import (
	"errors"
	"fmt"
	"math"
)

// MaxTickRate is the engine-imposed ceiling on simulation stepping
// frequency, in Hz.
const MaxTickRate = 1000

// DefaultTolerance is the default relative error allowed on an individual
// emit interval when the tick rate is not evenly divisible by the target
// frequency. Kept as a named policy value so callers can override it.
const DefaultTolerance = 0.05

var (
	// ErrExceedsTickRate indicates the requested publish frequency is
	// higher than the simulation tick rate (or the engine ceiling).
	ErrExceedsTickRate = errors.New("target frequency exceeds tick rate")

	// ErrUnachievablePrecision indicates the tick rate cannot approximate
	// the requested frequency within the interval tolerance.
	ErrUnachievablePrecision = errors.New("target frequency unachievable within tolerance")
)

// FrequencyError is a setup-fatal frequency validation failure. It carries
// the offending values so misconfiguration is diagnosable from the error
// text alone.
type FrequencyError struct {
	TickRate  int
	Target    int
	Tolerance float64
	reason    error
}

func (e *FrequencyError) Error() string {
	if errors.Is(e.reason, ErrUnachievablePrecision) {
		return fmt.Sprintf("invalid target frequency %d Hz: interval error exceeds tolerance %.2f at tick rate %d Hz",
			e.Target, e.Tolerance, e.TickRate)
	}
	return fmt.Sprintf("invalid target frequency %d Hz: exceeds tick rate (%d Hz)", e.Target, e.TickRate)
}

func (e *FrequencyError) Unwrap() error { return e.reason }

// Interval returns the ideal (possibly fractional) number of ticks between
// emissions for the given rates.
func Interval(tickRate, target int) float64 {
	return float64(tickRate) / float64(target)
}

// Cadence returns the two interval lengths, in ticks, that the divider
// alternates between for the given rates. Both values are equal when the
// tick rate divides evenly.
func Cadence(tickRate, target int) (lower, upper int) {
	lower = tickRate / target
	if tickRate%target == 0 {
		return lower, lower
	}
	return lower, lower + 1
}

// Validate checks a requested publish frequency against the simulation tick
// rate and returns the interval base (ticks per emission). tolerance bounds
// the relative error of each individual interval; pass DefaultTolerance
// unless a publisher has reason to loosen it.
//
// Validation is deterministic and side-effect free. Failures are
// setup-fatal: they reflect a static configuration defect, never a
// transient condition.
func Validate(tickRate, target int, tolerance float64) (float64, error) {
	if tickRate <= 0 || tickRate > MaxTickRate {
		return 0, fmt.Errorf("invalid tick rate %d Hz: must be in (0, %d]", tickRate, MaxTickRate)
	}
	if target <= 0 {
		return 0, fmt.Errorf("invalid target frequency %d Hz: must be positive", target)
	}
	if target > tickRate {
		return 0, &FrequencyError{TickRate: tickRate, Target: target, Tolerance: tolerance, reason: ErrExceedsTickRate}
	}

	interval := Interval(tickRate, target)
	if tickRate%target == 0 {
		return interval, nil
	}

	// The divider alternates between floor and ceil of the interval base.
	// The dominant interval (whichever of the two sits nearer the ideal)
	// must be within tolerance; if neither is, every single interval the
	// divider can produce deviates too far and the output cadence would be
	// visibly irregular. 3 Hz on a 7 Hz engine is the canonical reject.
	lower, upper := Cadence(tickRate, target)
	lowerErr := math.Abs(float64(lower)-interval) / interval
	upperErr := math.Abs(float64(upper)-interval) / interval
	if lowerErr > tolerance && upperErr > tolerance {
		return 0, &FrequencyError{TickRate: tickRate, Target: target, Tolerance: tolerance, reason: ErrUnachievablePrecision}
	}

	return interval, nil
}

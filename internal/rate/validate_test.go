package rate

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidateEvenDivision(t *testing.T) {
	interval, err := Validate(1000, 250, DefaultTolerance)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if interval != 4.0 {
		t.Errorf("expected interval 4.0, got %v", interval)
	}
}

func TestValidateFractionalInterval(t *testing.T) {
	interval, err := Validate(1000, 333, DefaultTolerance)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if math.Abs(interval-3.003003) > 1e-6 {
		t.Errorf("expected interval ~3.003003, got %v", interval)
	}
}

func TestValidateExceedsTickRate(t *testing.T) {
	_, err := Validate(1000, 1001, DefaultTolerance)
	if !errors.Is(err, ErrExceedsTickRate) {
		t.Fatalf("expected ErrExceedsTickRate, got %v", err)
	}

	var ferr *FrequencyError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FrequencyError, got %T", err)
	}
	if ferr.Target != 1001 {
		t.Errorf("expected Target=1001, got %d", ferr.Target)
	}
	if !strings.Contains(err.Error(), "1001") {
		t.Errorf("error should name the offending frequency: %q", err.Error())
	}
}

func TestValidateUnachievablePrecision(t *testing.T) {
	// 1000/300 = 3.333: the 3-tick interval is 10% short and the 4-tick
	// interval 20% long, so neither side of the cadence is within the
	// default 5% tolerance.
	_, err := Validate(1000, 300, DefaultTolerance)
	if !errors.Is(err, ErrUnachievablePrecision) {
		t.Fatalf("expected ErrUnachievablePrecision, got %v", err)
	}

	var ferr *FrequencyError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FrequencyError, got %T", err)
	}
	if ferr.Tolerance != DefaultTolerance {
		t.Errorf("expected Tolerance=%v, got %v", DefaultTolerance, ferr.Tolerance)
	}
}

func TestValidateThreeOnSevenRejected(t *testing.T) {
	// 7/3 = 2.333: both achievable intervals (2 and 3 ticks) deviate by
	// more than 14%, so no cadence stays near the ideal spacing.
	_, err := Validate(7, 3, DefaultTolerance)
	if !errors.Is(err, ErrUnachievablePrecision) {
		t.Fatalf("expected ErrUnachievablePrecision, got %v", err)
	}
}

func TestValidateSevenHzBoundary(t *testing.T) {
	// 1000/7 = 142.857. Alternating 142/143-tick intervals are within 0.6%
	// and 0.1% of ideal, so this passes despite the awkward ratio.
	interval, err := Validate(1000, 7, DefaultTolerance)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if math.Abs(interval-142.857142) > 1e-5 {
		t.Errorf("expected interval ~142.857, got %v", interval)
	}
}

func TestValidateToleranceOverride(t *testing.T) {
	if _, err := Validate(1000, 300, 0.25); err != nil {
		t.Errorf("loosened tolerance should accept 300 Hz: %v", err)
	}
	if _, err := Validate(1000, 333, 0.0001); !errors.Is(err, ErrUnachievablePrecision) {
		t.Errorf("tightened tolerance should reject 333 Hz, got %v", err)
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	if _, err := Validate(1000, 0, DefaultTolerance); err == nil {
		t.Error("expected error for zero frequency")
	}
	if _, err := Validate(1000, -5, DefaultTolerance); err == nil {
		t.Error("expected error for negative frequency")
	}
	if _, err := Validate(0, 10, DefaultTolerance); err == nil {
		t.Error("expected error for zero tick rate")
	}
	if _, err := Validate(2000, 10, DefaultTolerance); err == nil {
		t.Error("expected error for tick rate above engine ceiling")
	}
}

func TestCadence(t *testing.T) {
	lower, upper := Cadence(1000, 250)
	if lower != 4 || upper != 4 {
		t.Errorf("expected cadence 4/4, got %d/%d", lower, upper)
	}

	lower, upper = Cadence(1000, 333)
	if lower != 3 || upper != 4 {
		t.Errorf("expected cadence 3/4, got %d/%d", lower, upper)
	}

	lower, upper = Cadence(1000, 7)
	if lower != 142 || upper != 143 {
		t.Errorf("expected cadence 142/143, got %d/%d", lower, upper)
	}
}

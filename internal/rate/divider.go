package rate

// renormModulus bounds the accumulator counters. It must be large relative
// to any interval base so renormalization stays rare; 2^20 ticks is over
// 17 minutes between renormalizations at the maximum tick rate.
const renormModulus = 1 << 20

// Divider is a fractional Bresenham-style rate divider. Called once per
// simulation tick, it decides whether this tick emits a sample such that
// over any window of N ticks the emit count is within one of
// N*target/tickRate, and consecutive emit gaps take only the two values
// floor and ceil of the interval base.
//
// The accumulator is kept in integer units of 1/target ticks: the divider
// emits when tickCount*target has reached the threshold, and the threshold
// advances by tickRate per emission. This is exact arithmetic, so the
// periodic renormalization (subtracting the same modulus from both sides of
// the comparison) provably never perturbs the emit sequence.
//
// A Divider is owned by a single publisher and must only be ticked from the
// producer goroutine; it needs no synchronization.
type Divider struct {
	tickRate uint64
	target   uint64

	tickCount uint64
	threshold uint64 // numerator in units of 1/target ticks
}

// NewDivider returns a divider for the given rates. The pair must already
// have passed Validate; NewDivider does not re-check it.
func NewDivider(tickRate, target int) *Divider {
	return &Divider{
		tickRate: uint64(tickRate),
		target:   uint64(target),
	}
}

// ShouldEmit advances the divider by one tick and reports whether this tick
// emits. The very first tick always emits. Call exactly once per simulation
// tick, before any other per-tick publisher work.
func (d *Divider) ShouldEmit() bool {
	emit := d.tickCount*d.target >= d.threshold
	d.tickCount++
	if emit {
		d.threshold += d.tickRate
	}

	// Renormalize after the decision, never mid-comparison. Subtracting the
	// modulus from the tick count and modulus*target from the threshold
	// reduces both sides of the emit comparison by the same amount, so the
	// phase between them is preserved exactly.
	if d.tickCount > renormModulus {
		d.tickCount -= renormModulus
		d.threshold -= renormModulus * d.target
	}
	return emit
}

// Interval returns the ideal fractional tick interval between emissions.
func (d *Divider) Interval() float64 {
	return float64(d.tickRate) / float64(d.target)
}

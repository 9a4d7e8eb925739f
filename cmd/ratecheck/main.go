// Command ratecheck validates a target publish frequency against a
// simulation tick rate and prints the resulting cadence.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/robolens/simpub/internal/rate"
)

var (
	tickRate  = flag.Int("tick", 1000, "Simulation tick rate in Hz")
	target    = flag.Int("freq", 0, "Target publish frequency in Hz")
	tolerance = flag.Float64("tolerance", rate.DefaultTolerance, "Relative interval error tolerance")
)

func main() {
	flag.Parse()

	if *target <= 0 {
		log.Fatal("a target frequency is required (-freq)")
	}

	interval, err := rate.Validate(*tickRate, *target, *tolerance)
	if err != nil {
		log.Fatalf("rejected: %v", err)
	}

	lower, upper := rate.Cadence(*tickRate, *target)
	fmt.Printf("%d Hz on a %d Hz engine: interval base %.6f ticks\n", *target, *tickRate, interval)
	if lower == upper {
		fmt.Printf("even division: one emit every %d ticks\n", lower)
		return
	}
	fmt.Printf("alternating cadence: %d and %d ticks (tolerance %.2f)\n", lower, upper, *tolerance)
}

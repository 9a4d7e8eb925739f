// Command simpub runs a joint-state publisher against the synthetic
// simulation engine: it steps the engine at the configured tick rate,
// downsamples to the target publish frequency and ships JSON datagrams to
// the configured endpoint, with an HTTP monitor on the side.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robolens/simpub/internal/archive"
	"github.com/robolens/simpub/internal/config"
	"github.com/robolens/simpub/internal/monitor"
	"github.com/robolens/simpub/internal/publish"
	"github.com/robolens/simpub/internal/publisher"
	"github.com/robolens/simpub/internal/sim"
	"github.com/robolens/simpub/internal/transport"
	"github.com/robolens/simpub/internal/version"
)

var (
	configPath = flag.String("config", "publisher.json", "Path to the publisher config file")
	tickRate   = flag.Int("tick", 1000, "Synthetic engine tick rate in Hz")
)

func main() {
	flag.Parse()

	log.Printf("simpub %s (%s)", version.Version, version.GitSHA)

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if len(settings.Joints) == 0 {
		log.Fatal("config declares no joints")
	}

	engine := buildEngine(*tickRate, settings)

	udp, err := transport.NewUDPPublisher(settings.PublishAddr, settings.PublishPort)
	if err != nil {
		log.Fatalf("failed to open transport: %v", err)
	}
	defer udp.Close()
	sinks := publish.MultiPublisher{udp}

	if settings.ArchivePath != "" {
		arch, err := archive.Open(settings.ArchivePath)
		if err != nil {
			log.Fatalf("failed to open archive: %v", err)
		}
		defer arch.Close()
		sinks = append(sinks, arch)
		log.Printf("Archiving joint states to %s", settings.ArchivePath)
	}

	disp := publish.NewDispatcher(sinks, "", settings.QueueSize)
	disp.Start()
	defer disp.Stop()

	pub, err := publisher.New(publisher.Config{
		TargetHz:  settings.TargetFrequencyHz,
		Tolerance: settings.IntervalTolerance,
		Joints:    settings.Joints,
	}, engine, disp)
	if err != nil {
		log.Fatalf("publisher setup failed: %v", err)
	}

	mon := monitor.NewServer(settings.MonitorAddr, pub, disp, settings)
	if err := mon.Start(); err != nil {
		log.Fatalf("failed to start monitor: %v", err)
	}

	log.Printf("Publishing %v at %d Hz (run %s) to %s",
		pub.JointNames(), settings.TargetFrequencyHz, disp.RunID(), udp.Address())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runSim(ctx, engine, pub)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := mon.Stop(shutdownCtx); err != nil {
		log.Printf("monitor shutdown: %v", err)
	}

	s := pub.Stats()
	log.Printf("Stopped after %d emits (achieved %.2f Hz)", s.EmitCount, s.AchievedHz)
}

// buildEngine derives a synthetic joint per configured joint, with slightly
// different trajectories so published streams are distinguishable.
func buildEngine(tickRate int, settings config.Settings) *sim.Synthetic {
	joints := make([]sim.SyntheticJoint, len(settings.Joints))
	for i, j := range settings.Joints {
		joints[i] = sim.SyntheticJoint{
			Name:      j.Name,
			Amplitude: 1.0,
			Frequency: 0.2 + 0.1*float64(i),
			Phase:     0.3 * float64(i),
		}
	}
	return sim.NewSynthetic(tickRate, joints)
}

// runSim steps the engine in wall-clock-paced slices until ctx is
// cancelled. Pacing lives here in the outer glue; the publisher core never
// touches the wall clock.
func runSim(ctx context.Context, engine *sim.Synthetic, pub *publisher.Publisher) {
	const sliceInterval = 10 * time.Millisecond
	stepsPerSlice := engine.CurrentTickRate() / int(time.Second/sliceInterval)
	if stepsPerSlice < 1 {
		stepsPerSlice = 1
	}

	ticker := time.NewTicker(sliceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := 0; i < stepsPerSlice; i++ {
				engine.Step()
				pub.OnSimStep()
			}
		}
	}
}

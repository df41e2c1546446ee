package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/driftfield/internal/sim"
)

// Sweep returns move events tracing one full circle of the given radius
// around (cx, cy), one event every stride frames starting at start, and
// a closing leave event.
func Sweep(cx, cy, radius float64, start, steps, stride int) []Event {
	if steps <= 0 {
		return nil
	}
	if stride < 1 {
		stride = 1
	}
	events := make([]Event, 0, steps+1)
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		events = append(events, Event{
			Frame: start + i*stride,
			Type:  EventMove,
			X:     cx + radius*math.Cos(theta),
			Y:     cy + radius*math.Sin(theta),
		})
	}
	events = append(events, Event{Frame: start + steps*stride, Type: EventLeave})
	return events
}

// TrialResult summarizes one seed of a multi-seed run.
type TrialResult struct {
	Seed        int64
	Particles   int
	LinkDensity float64
	Finite      bool
}

// RunTrials replays a scenario under numTrials consecutive seeds starting
// at the scenario's own seed.
func RunTrials(ctx context.Context, s *Scenario, numTrials int) ([]TrialResult, error) {
	if numTrials < 1 {
		return nil, fmt.Errorf("trials must be at least 1, got %d", numTrials)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	build := func(seed int64) (*sim.Simulator, error) {
		simulator, _, _, err := s.build(seed)
		return simulator, err
	}

	results, err := sim.NewEnsemble(build, numTrials, s.Seed).Run(ctx, s.simConfig())
	if err != nil {
		return nil, err
	}

	trials := make([]TrialResult, len(results))
	for i, r := range results {
		tr := TrialResult{
			Seed:        s.Seed + int64(i),
			LinkDensity: r.Metrics["link_density"],
			Finite:      len(r.Errors) == 0 && r.Metrics["finite"] == 1,
		}
		if len(r.Frames) > 0 {
			tr.Particles = r.Frames[len(r.Frames)-1].Particles
		}
		trials[i] = tr
	}
	return trials, nil
}

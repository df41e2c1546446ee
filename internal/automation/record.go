package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/driftfield/internal/render"
	"github.com/san-kum/driftfield/internal/sim"
)

// RecordScenario replays s like RunScenario and rasterizes every nth
// drawn frame into rec.
func RecordScenario(ctx context.Context, s *Scenario, rec *render.GIFRecorder, every int) (*Run, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if every < 1 {
		every = 1
	}

	simulator, tape, f, err := s.build(s.Seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	simulator.AddObserver(&frameCapture{tape: tape, rec: rec, every: every})

	result, err := simulator.Run(ctx, s.simConfig())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &Run{Scenario: s, Result: result, Tape: tape, Field: f}, nil
}

type frameCapture struct {
	tape  *render.Tape
	rec   *render.GIFRecorder
	every int
}

func (c *frameCapture) OnFrame(fr sim.Frame) {
	if fr.Index%c.every != 0 {
		return
	}
	c.rec.Capture(c.tape.Raster(fr.Mode.Palette().Background))
}

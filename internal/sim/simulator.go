package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/driftfield/internal/field"
)

var (
	ErrNoField   = errors.New("sim: no field attached")
	ErrNoRuns    = errors.New("sim: ensemble needs at least one run")
	ErrNonFinite = errors.New("sim: non-finite particle state")
)

type scheduled struct {
	frame  int
	action Action
}

// Simulator steps a field without a display, applying scheduled actions
// and feeding every frame to metrics and observers.
type Simulator struct {
	field     *field.Field
	metrics   []Metric
	observers []Observer
	schedule  []scheduled
}

func New(f *field.Field) *Simulator {
	return &Simulator{
		field:     f,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Schedule applies a before the given frame is stepped. Actions for the
// same frame run in the order they were scheduled.
func (s *Simulator) Schedule(frame int, a Action) {
	s.schedule = append(s.schedule, scheduled{frame: frame, action: a})
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]FrameStat, 0, cfg.Frames),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sched := make([]scheduled, len(s.schedule))
	copy(sched, s.schedule)
	sort.SliceStable(sched, func(i, j int) bool { return sched[i].frame < sched[j].frame })
	next := 0

	rc := field.RenderConfig{Mode: cfg.Mode}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for next < len(sched) && sched[next].frame <= i {
			sched[next].action.Apply(s.field, &rc)
			next++
		}

		st := s.field.Step(rc)
		w, h := s.field.Size()
		fr := Frame{
			Index:     i,
			Stats:     st,
			Particles: s.field.Particles(),
			Pointer:   s.field.Pointer(),
			Width:     w,
			Height:    h,
			Mode:      rc.Mode,
		}

		if cfg.ValidateState && !allFinite(fr.Particles) {
			result.Errors = append(result.Errors, &FrameError{Frame: i, Wrapped: ErrNonFinite})
			break
		}

		for _, m := range s.metrics {
			m.Observe(fr)
		}
		for _, obs := range s.observers {
			obs.OnFrame(fr)
		}

		result.Frames = append(result.Frames, FrameStat{
			Frame:            i,
			Particles:        st.Particles,
			Links:            st.Links,
			Repelled:         st.Repelled,
			MeanDisplacement: meanDisplacement(fr.Particles),
			PointerActive:    fr.Pointer.Active,
		})
		result.FramesRun++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.field == nil {
		return ErrNoField
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	return nil
}

func allFinite(ps []field.Particle) bool {
	for _, p := range ps {
		if !p.Finite() {
			return false
		}
	}
	return true
}

func meanDisplacement(ps []field.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Displacement()
	}
	return sum / float64(len(ps))
}

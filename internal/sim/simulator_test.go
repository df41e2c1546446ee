package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

func newTestSim(t *testing.T, w, h int, seed int64) (*Simulator, *render.Tape) {
	t.Helper()
	tape := render.NewTape(w, h)
	f, err := field.Attach(tape, field.WithSeed(seed))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return New(f), tape
}

type countingMetric struct {
	frames int
}

func (c *countingMetric) Name() string     { return "count" }
func (c *countingMetric) Observe(fr Frame) { c.frames++ }
func (c *countingMetric) Value() float64   { return float64(c.frames) }
func (c *countingMetric) Reset()           { c.frames = 0 }

type recorder struct {
	modes    []field.Mode
	pointers []bool
}

func (r *recorder) OnFrame(fr Frame) {
	r.modes = append(r.modes, fr.Mode)
	r.pointers = append(r.pointers, fr.Pointer.Active)
}

func TestSimulatorRun(t *testing.T) {
	s, tape := newTestSim(t, 800, 600, 1)
	m := &countingMetric{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), Config{Frames: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.FramesRun != 10 {
		t.Errorf("expected 10 frames, got %d", result.FramesRun)
	}
	if len(result.Frames) != 10 {
		t.Errorf("expected 10 frame stats, got %d", len(result.Frames))
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("expected metric 10, got %v", result.Metrics["count"])
	}
	if tape.Frames != 10 {
		t.Errorf("expected 10 drawn frames, got %d", tape.Frames)
	}
	for _, fs := range result.Frames {
		if fs.Particles != 32 {
			t.Fatalf("frame %d: expected 32 particles, got %d", fs.Frame, fs.Particles)
		}
	}
}

func TestSimulatorMetricsReset(t *testing.T) {
	s, _ := newTestSim(t, 800, 600, 1)
	m := &countingMetric{}
	s.AddMetric(m)

	for i := 0; i < 2; i++ {
		result, err := s.Run(context.Background(), Config{Frames: 5})
		if err != nil {
			t.Fatal(err)
		}
		if result.Metrics["count"] != 5 {
			t.Errorf("run %d: expected 5, got %v", i, result.Metrics["count"])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s, _ := newTestSim(t, 800, 600, 1)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero frames", Config{Frames: 0}},
		{"negative frames", Config{Frames: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestSimulatorNoField(t *testing.T) {
	s := New(nil)
	if _, err := s.Run(context.Background(), Config{Frames: 1}); !errors.Is(err, ErrNoField) {
		t.Errorf("expected ErrNoField, got %v", err)
	}
}

func TestSimulatorCancel(t *testing.T) {
	s, _ := newTestSim(t, 800, 600, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Frames: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.FramesRun != 0 {
		t.Errorf("expected no frames after cancel, got %d", result.FramesRun)
	}
}

func TestSimulatorSchedule(t *testing.T) {
	s, tape := newTestSim(t, 800, 600, 1)
	rec := &recorder{}
	s.AddObserver(rec)

	s.Schedule(4, Leave{})
	p0 := s.field.Particles()[0]
	s.Schedule(2, Move{X: p0.X, Y: p0.Y})
	s.Schedule(3, SetMode{Mode: field.Dark})
	s.Schedule(5, Resize{Surface: tape, Width: 390, Height: 844})

	result, err := s.Run(context.Background(), Config{Frames: 6})
	if err != nil {
		t.Fatal(err)
	}

	wantActive := []bool{false, false, true, true, false, false}
	for i, want := range wantActive {
		if rec.pointers[i] != want {
			t.Errorf("frame %d: pointer active %v, want %v", i, rec.pointers[i], want)
		}
	}
	if rec.modes[2] != field.Light || rec.modes[3] != field.Dark {
		t.Errorf("mode switch not applied at frame 3: %v", rec.modes)
	}
	if got := result.Frames[5].Particles; got != 21 {
		t.Errorf("expected 21 particles after resize, got %d", got)
	}
	if result.Frames[2].Repelled == 0 {
		t.Error("expected the particle under the pointer to be repelled")
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*Simulator, error) {
		tape := render.NewTape(800, 600)
		f, err := field.Attach(tape, field.WithSeed(seed))
		if err != nil {
			return nil, err
		}
		s := New(f)
		s.AddMetric(&countingMetric{})
		return s, nil
	}

	results, err := NewEnsemble(build, 4, 10).Run(context.Background(), Config{Frames: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Metrics["count"] != 3 {
			t.Errorf("run %d: expected 3 frames, got %v", i, r.Metrics["count"])
		}
	}
}

func TestEnsembleRejectsNoRuns(t *testing.T) {
	build := func(int64) (*Simulator, error) { return New(nil), nil }
	for _, n := range []int{0, -1} {
		if _, err := NewEnsemble(build, n, 1).Run(context.Background(), Config{Frames: 1}); !errors.Is(err, ErrNoRuns) {
			t.Errorf("numRuns=%d: expected ErrNoRuns, got %v", n, err)
		}
	}
}

func TestSimulatorStopsOnNonFiniteState(t *testing.T) {
	params := field.DefaultParams()
	params.Drift = math.NaN()
	f, err := field.Attach(render.NewTape(800, 600), field.WithParams(params), field.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}

	result, err := New(f).Run(context.Background(), Config{Frames: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	if !errors.Is(result.Errors[0], ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", result.Errors[0])
	}
	var fe *FrameError
	if !errors.As(result.Errors[0], &fe) || fe.Frame != 0 {
		t.Errorf("expected a FrameError at frame 0, got %v", result.Errors[0])
	}
	if result.FramesRun != 0 {
		t.Errorf("expected no completed frames, got %d", result.FramesRun)
	}
}

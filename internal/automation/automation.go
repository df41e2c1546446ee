package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/metrics"
	"github.com/san-kum/driftfield/internal/render"
	"github.com/san-kum/driftfield/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted headless run: a surface, a seed and a timeline
// of host events.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	Seed        int64        `yaml:"seed"`
	Mode        field.Mode   `yaml:"mode"`
	Frames      int          `yaml:"frames"`
	Params      field.Params `yaml:"params"`
	Events      []Event      `yaml:"events"`
}

// Event is one timed host event. Only the fields relevant to Type are read.
type Event struct {
	Frame  int     `yaml:"frame"`
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  int     `yaml:"width,omitempty"`
	Height int     `yaml:"height,omitempty"`
	Mode   string  `yaml:"mode,omitempty"`
}

const (
	EventMove   = "move"
	EventLeave  = "leave"
	EventResize = "resize"
	EventMode   = "mode"
)

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("scenario %q: negative surface size %dx%d", s.Name, s.Width, s.Height)
	}
	if s.Frames <= 0 {
		return fmt.Errorf("scenario %q: frames must be positive, got %d", s.Name, s.Frames)
	}
	for i, ev := range s.Events {
		if ev.Frame < 0 || ev.Frame >= s.Frames {
			return fmt.Errorf("event %d: frame %d outside [0, %d)", i+1, ev.Frame, s.Frames)
		}
		switch ev.Type {
		case EventMove, EventLeave:
		case EventResize:
			if ev.Width < 0 || ev.Height < 0 {
				return fmt.Errorf("event %d: negative resize %dx%d", i+1, ev.Width, ev.Height)
			}
		case EventMode:
			if _, err := field.ParseMode(ev.Mode); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		default:
			return fmt.Errorf("event %d: unknown type %q", i+1, ev.Type)
		}
	}
	return nil
}

// Run is the outcome of a scenario: the simulator result plus the tape
// holding the last drawn frame.
type Run struct {
	Scenario *Scenario
	Result   *sim.Result
	Tape     *render.Tape
	Field    *field.Field
}

// RunScenario replays a scenario against a fresh headless field.
func RunScenario(ctx context.Context, s *Scenario, observers ...sim.Observer) (*Run, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	simulator, tape, f, err := s.build(s.Seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for _, o := range observers {
		simulator.AddObserver(o)
	}

	result, err := simulator.Run(ctx, s.simConfig())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	return &Run{Scenario: s, Result: result, Tape: tape, Field: f}, nil
}

// build wires a headless field, the default metrics and the event
// timeline into a simulator.
func (s *Scenario) build(seed int64) (*sim.Simulator, *render.Tape, *field.Field, error) {
	tape := render.NewTape(s.Width, s.Height)
	f, err := field.Attach(tape,
		field.WithParams(field.DefaultParams().Merge(s.Params)),
		field.WithSeed(seed),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	simulator := sim.New(f)
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}
	if err := schedule(simulator, tape, s.Events); err != nil {
		return nil, nil, nil, err
	}
	return simulator, tape, f, nil
}

func (s *Scenario) simConfig() sim.Config {
	return sim.Config{
		Frames:        s.Frames,
		Mode:          s.Mode,
		ValidateState: true,
	}
}

func schedule(s *sim.Simulator, tape *render.Tape, events []Event) error {
	for i, ev := range events {
		var a sim.Action
		switch ev.Type {
		case EventMove:
			a = sim.Move{X: ev.X, Y: ev.Y}
		case EventLeave:
			a = sim.Leave{}
		case EventResize:
			a = sim.Resize{Surface: tape, Width: ev.Width, Height: ev.Height}
		case EventMode:
			m, err := field.ParseMode(ev.Mode)
			if err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
			a = sim.SetMode{Mode: m}
		default:
			return fmt.Errorf("event %d: unknown type %q", i+1, ev.Type)
		}
		s.Schedule(ev.Frame, a)
	}
	return nil
}

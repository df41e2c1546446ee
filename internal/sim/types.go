package sim

import (
	"fmt"

	"github.com/san-kum/driftfield/internal/field"
)

// Frame is what metrics and observers see after each step.
type Frame struct {
	Index         int
	Stats         field.Stats
	Particles     []field.Particle
	Pointer       field.Pointer
	Width, Height float64
	Mode          field.Mode
}

type Metric interface {
	Name() string
	Observe(fr Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(fr Frame)
}

// Action is a host event applied to the field between frames.
type Action interface {
	Apply(f *field.Field, rc *field.RenderConfig)
}

// Resizable is a surface whose rendered size can be changed by a script.
type Resizable interface {
	SetSize(width, height int)
}

type Config struct {
	Frames        int
	Mode          field.Mode
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		Mode:          field.Light,
		ValidateState: true,
	}
}

// FrameStat is the per-frame record kept in a Result.
type FrameStat struct {
	Frame            int     `json:"frame"`
	Particles        int     `json:"particles"`
	Links            int     `json:"links"`
	Repelled         int     `json:"repelled"`
	MeanDisplacement float64 `json:"mean_displacement"`
	PointerActive    bool    `json:"pointer_active"`
}

type Result struct {
	Frames    []FrameStat
	Metrics   map[string]float64
	FramesRun int
	Errors    []error
}

// FrameError ties a failure to the frame it was detected on.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

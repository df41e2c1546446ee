package field

import (
	"context"
	"time"
)

// Event is a host notification delivered to an Animator.
type Event interface {
	apply(f *Field)
}

// PointerMoved carries pointer coordinates relative to the surface origin.
type PointerMoved struct{ X, Y float64 }

// PointerLeft clears the pointer.
type PointerLeft struct{}

// Resized asks the field to re-measure its surface and regenerate.
type Resized struct{}

func (e PointerMoved) apply(f *Field) { f.PointerMove(e.X, e.Y) }
func (PointerLeft) apply(f *Field)    { f.PointerLeave() }
func (Resized) apply(f *Field)        { f.Resize() }

// Animator is the frame loop. Run consumes frame ticks and host events on
// the calling goroutine, so the field never sees concurrent access.
type Animator struct {
	Field  *Field
	Frames <-chan time.Time
	Events <-chan Event
	// Config supplies the render configuration for each frame. Nil means
	// light mode with its default palette.
	Config  func() RenderConfig
	OnFrame func(frame int, st Stats)
}

// Run animates until ctx is cancelled or Frames is closed. It returns
// ctx.Err() on cancellation and nil when the frames run out. An inert
// (nil) field returns immediately.
func (a *Animator) Run(ctx context.Context) error {
	if a.Field == nil {
		return nil
	}
	frames, events := a.Frames, a.Events
	frame := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			ev.apply(a.Field)
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			cfg := RenderConfig{}
			if a.Config != nil {
				cfg = a.Config()
			}
			st := a.Field.Step(cfg)
			frame++
			if a.OnFrame != nil {
				a.OnFrame(frame, st)
			}
		}
	}
}

// Ticker returns a frame channel firing fps times a second and a stop
// function. Non-positive fps falls back to 60.
func Ticker(fps int) (<-chan time.Time, func()) {
	if fps <= 0 {
		fps = 60
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	return t.C, t.Stop
}

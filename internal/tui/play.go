package tui

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

type PlayOptions struct {
	Cols, Rows int
	Scale      float64
	Params     field.Params
	Seed       int64
	Mode       field.Mode
	FPS        int
	// Frames stops playback after this many frames; zero plays until the
	// context ends.
	Frames int
	// Orbit moves the pointer around the centre of the surface.
	Orbit  bool
	Title  string
	Logger *log.Logger
}

// Play runs a field in a plain terminal through field.Animator until ctx
// ends or the frame limit is reached.
func Play(ctx context.Context, out io.Writer, opts PlayOptions) error {
	if opts.Cols <= 0 {
		opts.Cols = 70
	}
	if opts.Rows <= 0 {
		opts.Rows = 20
	}
	if opts.Params == (field.Params{}) {
		opts.Params = field.DefaultParams()
	}
	if opts.Title == "" {
		opts.Title = "driftfield"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	surface := render.NewBrailleSurface(opts.Cols, opts.Rows, opts.Scale, opts.Mode.Palette().Background)
	f, err := field.Attach(surface, field.WithParams(opts.Params), field.WithSeed(opts.Seed))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames, stop := field.Ticker(opts.FPS)
	defer stop()

	events := make(chan field.Event, 1)
	if opts.Orbit {
		go orbit(ctx, events, f, opts.FPS)
	}

	renderer := NewLiveRenderer(out, surface, opts.Title, opts.FPS)
	renderer.Start()
	defer renderer.Stop()

	rc := field.RenderConfig{Mode: opts.Mode}
	limitReached := false
	anim := &field.Animator{
		Field:  f,
		Frames: frames,
		Events: events,
		Config: func() field.RenderConfig { return rc },
		OnFrame: func(frame int, st field.Stats) {
			renderer.OnFrame(frame, st)
			if opts.Frames > 0 && frame >= opts.Frames {
				limitReached = true
				cancel()
			}
		},
	}

	logger.Debug("play started", "cols", opts.Cols, "rows", opts.Rows, "particles", len(f.Particles()))
	err = anim.Run(ctx)
	logger.Debug("play stopped", "printed", renderer.Printed(), "err", err)
	if limitReached {
		return nil
	}
	return err
}

// orbit feeds pointer events tracing a circle around the surface centre.
// Size is sampled once; it only changes on resize events, which play
// never sends.
func orbit(ctx context.Context, events chan<- field.Event, f *field.Field, fps int) {
	if fps <= 0 {
		fps = 60
	}
	w, h := f.Size()
	cx, cy := w/2, h/2
	radius := math.Min(w, h) / 3

	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()

	theta := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			theta += 2 * math.Pi / float64(fps*4)
			ev := field.PointerMoved{X: cx + radius*math.Cos(theta), Y: cy + radius*math.Sin(theta)}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

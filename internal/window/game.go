package window

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/driftfield/internal/field"
)

type Options struct {
	Width, Height int
	Params        field.Params
	Seed          int64
	Mode          field.Mode
	TPS           int
	Title         string
	ShowStats     bool
	Logger        *log.Logger
}

// Game runs a field in a resizable desktop window.
type Game struct {
	ctx     context.Context
	log     *log.Logger
	surface *Surface
	field   *field.Field

	mode          field.Mode
	paused        bool
	showStats     bool
	pendingResize bool
	stats         field.Stats
	repelled      int
}

func NewGame(ctx context.Context, opts Options) (*Game, error) {
	if opts.Params == (field.Params{}) {
		opts.Params = field.DefaultParams()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	surface := NewSurface(opts.Width, opts.Height, opts.Mode.Palette().Background)
	f, err := field.Attach(surface, field.WithParams(opts.Params), field.WithSeed(opts.Seed))
	if err != nil {
		return nil, err
	}
	return &Game{
		ctx:       ctx,
		log:       logger,
		surface:   surface,
		field:     f,
		mode:      opts.Mode,
		showStats: opts.ShowStats,
	}, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.pendingResize {
		g.pendingResize = false
		g.field.Resize()
		w, h := g.field.Size()
		g.log.Debug("resized", "width", w, "height", h, "particles", len(g.field.Particles()))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.mode = g.mode.Toggle()
		g.surface.Background = g.mode.Palette().Background
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.field.Resize()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.showStats = !g.showStats
	}

	g.trackPointer()

	if !g.paused {
		g.field.Update()
	}
	return nil
}

// trackPointer follows the cursor while the window has focus and the
// cursor is inside it.
func (g *Game) trackPointer() {
	cx, cy := ebiten.CursorPosition()
	w, h := g.surface.RenderedSize()
	if !ebiten.IsFocused() || cx < 0 || cy < 0 || cx >= w || cy >= h {
		if g.field.Pointer().Active {
			g.field.PointerLeave()
		}
		return
	}
	g.field.PointerMove(float64(cx), float64(cy))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.bind(screen)
	g.stats = g.field.Draw(field.RenderConfig{Mode: g.mode})
	g.surface.bind(nil)

	if g.showStats {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("particles %d  links %d  tps %.0f  [T]mode [Space]pause [R]regen [Esc]quit",
			g.stats.Particles, g.stats.Links, ebiten.ActualTPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := g.surface.RenderedSize(); w != outsideWidth || h != outsideHeight {
		g.surface.SetSize(outsideWidth, outsideHeight)
		g.pendingResize = true
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed, Esc is pressed or
// ctx ends.
func Run(ctx context.Context, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Title == "" {
		opts.Title = "driftfield"
	}

	g, err := NewGame(ctx, opts)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}

	g.log.Info("window opened", "width", opts.Width, "height", opts.Height, "particles", len(g.field.Particles()))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

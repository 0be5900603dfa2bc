// Command fractal-ebiten shows an exploration session in an Ebitengine window
// with a text overlay.
//
// Left click zooms in, r resets, p cycles through the programs, h toggles the
// overlay and q or escape quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"slices"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/explorer"
	"github.com/stewi1014/fractalexplorer/programs"
	"github.com/tinne26/etxt"
	"github.com/tinne26/etxt/font"
	"golang.org/x/image/font/gofont/goregular"
)

type Game struct {
	session *explorer.Session
	frame   *ebiten.Image
	text    *etxt.Renderer
	hud     bool

	ctx   context.Context
	stop  context.CancelFunc
	ops   chan func(context.Context) error
	dirty atomic.Bool
	busy  atomic.Bool
	err   atomic.Pointer[error]
}

func NewGame(session *explorer.Session) (*Game, error) {
	hudFont, _, err := font.ParseFromBytes(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing HUD font: %w", err)
	}

	text := etxt.NewRenderer()
	text.Utils().SetCache8MiB()
	text.SetFont(hudFont)
	text.SetSize(14)
	text.SetAlign(etxt.Top | etxt.Left)
	text.SetColor(color.RGBA{255, 255, 255, 255})

	ctx, stop := context.WithCancel(context.Background())
	g := &Game{
		session: session,
		frame:   ebiten.NewImage(session.ScreenWidth(), session.ScreenWidth()),
		text:    text,
		hud:     true,
		ctx:     ctx,
		stop:    stop,
		ops:     make(chan func(context.Context) error, 16),
	}
	go g.work()

	g.queue(session.Render)
	return g, nil
}

// queue hands op to the pass worker, blocking once the queue is full.
func (g *Game) queue(op func(context.Context) error) {
	select {
	case g.ops <- op:
	case <-g.ctx.Done():
	}
}

func (g *Game) work() {
	for {
		select {
		case op := <-g.ops:
			g.busy.Store(true)
			err := op(g.ctx)
			g.busy.Store(false)

			if err != nil {
				g.err.Store(&err)
				continue
			}
			g.dirty.Store(true)
		case <-g.ctx.Done():
			return
		}
	}
}

func (g *Game) Update() error {
	if err := g.err.Load(); err != nil {
		return *err
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w := g.session.ScreenWidth()
		if x >= 0 && y >= 0 && x < w && y < w {
			g.queue(func(ctx context.Context) error {
				return g.session.Click(ctx, float64(x), float64(y))
			})
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.queue(g.session.Reset)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		next := nextProgram(g.session.State().Program)
		g.queue(func(ctx context.Context) error {
			return g.session.SetProgram(ctx, next)
		})
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.hud = !g.hud
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	return nil
}

func nextProgram(current string) string {
	names := programs.Names()
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty.Swap(false) {
		g.session.ViewFrame(func(img *image.RGBA) {
			g.frame.WritePixels(img.Pix)
		})
	}
	screen.DrawImage(g.frame, nil)

	if !g.hud {
		return
	}

	state := g.session.State()
	hud := fmt.Sprintf(
		"%s  %d iterations\nzoom %v^%d\n(%.17g, %.17g)\npass %v on %d workers",
		state.Program, state.Iterations,
		state.Viewport.ZoomFactor, state.Viewport.ZoomSteps,
		state.Viewport.Center[0], state.Viewport.Center[1],
		state.LastPass.Duration, state.LastPass.Workers,
	)
	if g.busy.Load() {
		hud += fmt.Sprintf("\nrendering %.0f%%", g.session.Progress()*100)
	}
	if state.PrecisionExhausted {
		hud += "\nfloat64 precision exhausted"
	}
	g.text.Draw(screen, hud, 8, 8)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.ScreenWidth(), g.session.ScreenWidth()
}

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fractal-ebiten: %v", err)
	}
}

func run(cfg config.Config) error {
	session, err := explorer.New(cfg)
	if err != nil {
		return err
	}

	game, err := NewGame(session)
	if err != nil {
		return err
	}
	defer game.stop()

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenWidth)
	ebiten.SetWindowTitle("Fractal Explorer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

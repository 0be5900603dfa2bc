// Package explorer ties a viewport, a field scheduler and a palette together
// into the state behind one interactive window.
//
// All mutating calls are serialised: a click that arrives while a pass is
// running waits for that pass to finish, and the frame is only repainted once
// the pass has joined.
package explorer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"sync"

	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/field"
	"github.com/stewi1014/fractalexplorer/palette"
	"github.com/stewi1014/fractalexplorer/programs"
	"github.com/stewi1014/fractalexplorer/viewport"
)

// State is a snapshot of a session for display.
type State struct {
	Viewport           viewport.Viewport
	Program            string
	Iterations         int
	LastPass           field.Stats
	PrecisionExhausted bool
}

type Session struct {
	// width never changes, so it is read without the lock.
	width int

	mu sync.Mutex

	cfg       config.Config
	viewport  viewport.Viewport
	scheduler *field.Scheduler
	palette   palette.Palette
	grid      *field.Grid
	canvas    *image.RGBA

	// frame and published describe the last finished pass. They have their
	// own lock so front-ends can read them while the next pass is running.
	frameMu   sync.RWMutex
	frame     *image.RGBA
	published State

	lastPass      field.Stats
	warnedPrecise bool
}

func New(cfg config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eval, err := newEvaluator(cfg.Program, cfg.Iterations, cfg.EscapeRadius)
	if err != nil {
		return nil, err
	}

	scheduler, err := field.NewScheduler(cfg.Workers, eval)
	if err != nil {
		return nil, err
	}

	pal, err := palette.Lookup(cfg.Palette)
	if err != nil {
		return nil, err
	}

	log.Printf("using %d workers for fractal computation", cfg.Workers)

	s := &Session{
		width:     cfg.ScreenWidth,
		cfg:       cfg,
		viewport:  viewport.New(cfg.ZoomFactor),
		scheduler: scheduler,
		palette:   pal,
		grid:      field.NewGrid(cfg.ScreenWidth, cfg.ScreenWidth),
		canvas:    image.NewRGBA(image.Rect(0, 0, cfg.ScreenWidth, cfg.ScreenWidth)),
		frame:     image.NewRGBA(image.Rect(0, 0, cfg.ScreenWidth, cfg.ScreenWidth)),
	}
	s.published = s.snapshot()
	return s, nil
}

func newEvaluator(name string, iterations int, escapeRadius float64) (programs.Evaluator, error) {
	p, err := programs.Lookup(name)
	if err != nil {
		return programs.Evaluator{}, err
	}
	return programs.NewEvaluator(p, iterations, escapeRadius)
}

func (s *Session) ScreenWidth() int {
	return s.width
}

// Render recomputes the frame for the current view.
func (s *Session) Render(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx)
}

func (s *Session) render(ctx context.Context) error {
	stats, err := s.scheduler.RunPass(ctx, s.viewport, s.grid)
	if err != nil {
		return err
	}

	palette.Paint(s.palette, s.grid, s.canvas)
	s.lastPass = stats

	s.frameMu.Lock()
	copy(s.frame.Pix, s.canvas.Pix)
	s.published = s.snapshot()
	s.frameMu.Unlock()

	log.Printf(
		"pass: %dx%d %s in %v, workers=%d bounded=%d",
		s.grid.Width, s.grid.Height,
		s.scheduler.Evaluator().Name,
		stats.Duration, stats.Workers, stats.Bounded,
	)
	return nil
}

// Click zooms in on pixel (px, py) and renders the new view.
func (s *Session) Click(ctx context.Context, px, py float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevWarned := s.viewport, s.warnedPrecise
	s.viewport.ZoomIn(px, py, s.cfg.ScreenWidth)

	log.Printf("zoom magnitude: %v^%d = %g", s.cfg.ZoomFactor, s.viewport.ZoomSteps, s.viewport.Magnification())
	log.Printf("coordinates: (%.17g, %.17g)", s.viewport.Center[0], s.viewport.Center[1])

	if !s.warnedPrecise && s.viewport.PrecisionExhausted(s.cfg.ScreenWidth) {
		s.warnedPrecise = true
		log.Printf("float64 precision exhausted after %d zoom steps, further zooming will look flat", s.viewport.ZoomSteps)
	}

	if err := s.render(ctx); err != nil {
		s.viewport, s.warnedPrecise = prev, prevWarned
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

// Reset returns to the starting view and renders it.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport.Reset()
	s.warnedPrecise = false
	return s.render(ctx)
}

// SetProgram switches fractal and renders the current view with it.
func (s *Session) SetProgram(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eval, err := newEvaluator(name, s.cfg.Iterations, s.cfg.EscapeRadius)
	if err != nil {
		return fmt.Errorf("set program: %w", err)
	}
	return s.swapEvaluator(ctx, eval, func(cfg *config.Config) { cfg.Program = name })
}

// SetIterations changes the iteration cap and renders the current view.
func (s *Session) SetIterations(ctx context.Context, iterations int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eval, err := newEvaluator(s.cfg.Program, iterations, s.cfg.EscapeRadius)
	if err != nil {
		return fmt.Errorf("set iterations: %w", err)
	}
	return s.swapEvaluator(ctx, eval, func(cfg *config.Config) { cfg.Iterations = iterations })
}

// swapEvaluator renders with eval, keeping the old evaluator if the pass fails.
func (s *Session) swapEvaluator(ctx context.Context, eval programs.Evaluator, update func(*config.Config)) error {
	prevEval, prevCfg := s.scheduler.Evaluator(), s.cfg
	s.scheduler.SetEvaluator(eval)
	update(&s.cfg)

	if err := s.render(ctx); err != nil {
		s.scheduler.SetEvaluator(prevEval)
		s.cfg = prevCfg
		return err
	}
	return nil
}

// ViewFrame calls fn with the last rendered image. fn must not keep img; a
// finishing pass waits for fn to return before publishing its picture.
func (s *Session) ViewFrame(fn func(img *image.RGBA)) {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	fn(s.frame)
}

// State describes the last finished pass. It does not wait for a running one.
func (s *Session) State() State {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.published
}

func (s *Session) snapshot() State {
	return State{
		Viewport:           s.viewport,
		Program:            s.cfg.Program,
		Iterations:         s.cfg.Iterations,
		LastPass:           s.lastPass,
		PrecisionExhausted: s.viewport.PrecisionExhausted(s.cfg.ScreenWidth),
	}
}

// Progress reports how far the running pass has got. It does not wait for
// the pass.
func (s *Session) Progress() float64 {
	return s.scheduler.Progress()
}

// EncodePNG writes the last rendered frame as a PNG.
func (s *Session) EncodePNG(w io.Writer) error {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()

	if err := png.Encode(w, s.frame); err != nil {
		return fmt.Errorf("png.Encode: %w", err)
	}
	return nil
}

package explorer

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/field"
	"github.com/stewi1014/fractalexplorer/palette"
	"github.com/stewi1014/fractalexplorer/programs"
	"github.com/stewi1014/fractalexplorer/viewport"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ScreenWidth = 64
	cfg.Iterations = 100
	cfg.Workers = 3
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 0
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("New err = %v, want config.ErrInvalid", err)
	}
}

func TestRenderPaintsGrid(t *testing.T) {
	s := newTestSession(t)

	grid, frame := s.grid, s.frame
	for _, p := range [][2]int{{0, 0}, {32, 32}, {63, 20}} {
		want := (palette.Classic{}).Color(grid.At(p[0], p[1]))
		if got := frame.RGBAAt(p[0], p[1]); got != want {
			t.Errorf("frame %v = %v, want %v", p, got, want)
		}
	}

	// Pixel (32, 32) is c = -0.5.
	if grid.At(32, 32) != programs.Bounded {
		t.Errorf("centre = %d, want Bounded", grid.At(32, 32))
	}
	if s.State().LastPass.Rows != 64 {
		t.Errorf("LastPass = %+v", s.State().LastPass)
	}
}

func TestClickZoomsAndRenders(t *testing.T) {
	s := newTestSession(t)
	before := s.State().Viewport
	wantX, wantY := before.PixelToComplex(10, 50, 64)

	if err := s.Click(context.Background(), 10, 50); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if st.Viewport.Scale != 0.5 || st.Viewport.ZoomSteps != 1 {
		t.Errorf("viewport = %+v", st.Viewport)
	}
	if st.Viewport.Center != (mgl64.Vec2{wantX, wantY}) {
		t.Errorf("centre = %v, want (%g, %g)", st.Viewport.Center, wantX, wantY)
	}

	// The grid must match an independent pass over the new view.
	p, _ := programs.Lookup("mandelbrot")
	eval, _ := programs.NewEvaluator(p, 100, 2)
	sched, _ := field.NewScheduler(1, eval)
	want := field.NewGrid(64, 64)
	if _, err := sched.RunPass(context.Background(), st.Viewport, want); err != nil {
		t.Fatal(err)
	}
	if !s.grid.Equal(want) {
		t.Error("session grid differs from a single-worker pass over the same view")
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	if err := s.Click(context.Background(), 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.State().Viewport; got != viewport.New(2) {
		t.Errorf("viewport after reset = %+v", got)
	}
}

func TestSetProgramAndIterations(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if err := s.SetProgram(ctx, "burningship"); err != nil {
		t.Fatal(err)
	}
	if got := s.State().Program; got != "burningship" {
		t.Errorf("Program = %q, want burningship", got)
	}

	if err := s.SetProgram(ctx, "nope"); !errors.Is(err, programs.ErrUnknownProgram) {
		t.Errorf("SetProgram(nope) err = %v, want ErrUnknownProgram", err)
	}
	if got := s.State().Program; got != "burningship" {
		t.Errorf("Program after failed switch = %q", got)
	}

	if err := s.SetIterations(ctx, 0); !errors.Is(err, programs.ErrInvalidEvaluator) {
		t.Errorf("SetIterations(0) err = %v, want ErrInvalidEvaluator", err)
	}
	if err := s.SetIterations(ctx, 20); err != nil {
		t.Fatal(err)
	}
	if got := s.State().Iterations; got != 20 {
		t.Errorf("Iterations = %d, want 20", got)
	}
}

func TestConcurrentClicksAreSerialised(t *testing.T) {
	s := newTestSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Click(context.Background(), 32, 32); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	st := s.State()
	if st.Viewport.ZoomSteps != 8 {
		t.Errorf("ZoomSteps = %d, want 8", st.Viewport.ZoomSteps)
	}
	if st.Viewport.Scale != 1.0/256 {
		t.Errorf("Scale = %g, want %g", st.Viewport.Scale, 1.0/256)
	}
}

func TestEncodePNG(t *testing.T) {
	s := newTestSession(t)

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestCancelledClickKeepsView(t *testing.T) {
	s := newTestSession(t)
	before := s.State()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Click(ctx, 5, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("Click err = %v, want context.Canceled", err)
	}
	if err := s.SetProgram(ctx, "tricorn"); !errors.Is(err, context.Canceled) {
		t.Fatalf("SetProgram err = %v, want context.Canceled", err)
	}

	after := s.State()
	if after.Viewport != before.Viewport || after.Program != before.Program {
		t.Errorf("state after cancelled passes = %+v, want %+v", after, before)
	}
}

func TestCancelledClickKeepsPrecisionWarning(t *testing.T) {
	s := newTestSession(t)

	// One more zoom from here leaves adjacent pixels closer than float64
	// can resolve around the centre.
	s.viewport.Center = mgl64.Vec2{-0.75, 0.1}
	s.viewport.Scale = 2e-14
	if s.viewport.PrecisionExhausted(64) {
		t.Fatal("precision already exhausted before the click")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Click(ctx, 32, 32); !errors.Is(err, context.Canceled) {
		t.Fatalf("Click err = %v, want context.Canceled", err)
	}
	if s.warnedPrecise {
		t.Error("cancelled click left the precision warning marked as shown")
	}

	if err := s.Click(context.Background(), 32, 32); err != nil {
		t.Fatal(err)
	}
	if !s.warnedPrecise || !s.State().PrecisionExhausted {
		t.Errorf("warned = %v, state = %+v after the retried click", s.warnedPrecise, s.State())
	}
}

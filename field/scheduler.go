// Package field evaluates a fractal over a whole raster using a fixed pool of
// goroutines.
//
// Rows are dealt out by stride: worker i owns rows i, i+n, i+2n, ... for a pool
// of n workers. Row ownership is disjoint, so workers never synchronise until
// the pass joins.
package field

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/stewi1014/fractalexplorer/programs"
	"github.com/stewi1014/fractalexplorer/viewport"
	"golang.org/x/sync/errgroup"
)

var ErrNoWorkers = errors.New("worker count must be positive")

var defaultWorkers = runtime.NumCPU()

// DefaultWorkers is the number of CPUs available when the process started.
func DefaultWorkers() int {
	return defaultWorkers
}

// Stats describes a finished pass.
type Stats struct {
	Duration time.Duration
	Rows     int
	Bounded  int
	Workers  int
}

type Scheduler struct {
	workers int
	eval    programs.Evaluator

	rowsDone  atomic.Int64
	rowsTotal atomic.Int64
}

func NewScheduler(workers int, eval programs.Evaluator) (*Scheduler, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, workers)
	}
	if eval.Rule == nil {
		return nil, fmt.Errorf("%w: no rule", programs.ErrInvalidEvaluator)
	}

	return &Scheduler{
		workers: workers,
		eval:    eval,
	}, nil
}

func (s *Scheduler) Workers() int {
	return s.workers
}

func (s *Scheduler) Evaluator() programs.Evaluator {
	return s.eval
}

// SetEvaluator replaces the evaluator used by later passes. It must not be
// called while a pass is running.
func (s *Scheduler) SetEvaluator(eval programs.Evaluator) {
	s.eval = eval
}

// Progress is the fraction of rows finished in the current or last pass.
func (s *Scheduler) Progress() float64 {
	total := s.rowsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(s.rowsDone.Load()) / float64(total)
}

// RunPass fills every cell of grid for the view vp and returns once all
// workers have finished.
//
// The context is checked between rows. A cancelled pass leaves the grid
// partly stale and returns the context error; its contents must not be shown.
func (s *Scheduler) RunPass(ctx context.Context, vp viewport.Viewport, grid *Grid) (Stats, error) {
	start := time.Now()
	s.rowsDone.Store(0)
	s.rowsTotal.Store(int64(grid.Height))

	eval := s.eval
	var bounded atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < s.workers; id++ {
		id := id
		g.Go(func() error {
			n := 0
			for y := id; y < grid.Height; y += s.workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				row := grid.Row(y)
				py := float64(y)
				for x := range row {
					cx, cy := vp.PixelToComplex(float64(x), py, grid.Width)
					r := eval.Evaluate(cx, cy)
					if !r.Escaped() {
						n++
					}
					row[x] = r
				}
				s.rowsDone.Add(1)
			}
			bounded.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("field pass: %w", err)
	}

	return Stats{
		Duration: time.Since(start),
		Rows:     grid.Height,
		Bounded:  int(bounded.Load()),
		Workers:  s.workers,
	}, nil
}

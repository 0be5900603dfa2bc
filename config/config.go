// Package config holds the settings shared by every fractalexplorer front-end.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/stewi1014/fractalexplorer/field"
	"github.com/stewi1014/fractalexplorer/palette"
	"github.com/stewi1014/fractalexplorer/programs"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	ScreenWidth  int
	Iterations   int
	EscapeRadius float64
	ZoomFactor   float64
	Program      string
	Workers      int
	Palette      string
}

func Default() Config {
	return Config{
		ScreenWidth:  800,
		Iterations:   1000,
		EscapeRadius: 2,
		ZoomFactor:   2,
		Program:      "mandelbrot",
		Workers:      field.DefaultWorkers(),
		Palette:      "classic",
	}
}

// RegisterFlags binds every setting to a command line flag, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.ScreenWidth, "width", c.ScreenWidth, "width and height of the square raster in pixels")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "iteration cap per pixel")
	fs.Float64Var(&c.EscapeRadius, "escape-radius", c.EscapeRadius, "modulus at which an orbit counts as escaped")
	fs.Float64Var(&c.ZoomFactor, "zoom-factor", c.ZoomFactor, "scale divisor applied by each click")
	fs.StringVar(&c.Program, "program", c.Program, "fractal program: "+strings.Join(programs.Names(), ", "))
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of worker goroutines per pass")
	fs.StringVar(&c.Palette, "palette", c.Palette, "colour palette: "+strings.Join(palette.Names(), ", "))
}

// Validate rejects settings the evaluator cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.ScreenWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: screen width %d", ErrInvalid, c.ScreenWidth))
	}
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: iteration cap %d", ErrInvalid, c.Iterations))
	}
	if c.EscapeRadius <= 0 {
		errs = append(errs, fmt.Errorf("%w: escape radius %v", ErrInvalid, c.EscapeRadius))
	}
	if c.ZoomFactor <= 1 {
		errs = append(errs, fmt.Errorf("%w: zoom factor %v must be greater than 1", ErrInvalid, c.ZoomFactor))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: worker count %d", ErrInvalid, c.Workers))
	}
	if _, err := programs.Lookup(c.Program); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := palette.Lookup(c.Palette); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

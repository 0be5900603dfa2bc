// Command fractal-render renders a view to a PNG without opening a window.
//
// Each -zoom replays a click at a raster pixel, in order:
//
//	fractal-render -width 1024 -zoom 300,512 -zoom 512,512 -out deep.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/explorer"
)

type point struct{ x, y float64 }

// zoomList collects repeated -zoom x,y flags.
type zoomList []point

func (z *zoomList) String() string {
	parts := make([]string, len(*z))
	for i, p := range *z {
		parts[i] = fmt.Sprintf("%g,%g", p.x, p.y)
	}
	return strings.Join(parts, " ")
}

func (z *zoomList) Set(s string) error {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}
	*z = append(*z, point{x, y})
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("fractal-render: %v", err)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("fractal-render", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := config.Default()
	cfg.RegisterFlags(fs)
	var zooms zoomList
	fs.Var(&zooms, "zoom", "zoom in on raster pixel `x,y`; repeatable")
	out := fs.String("out", "fractal.png", "output PNG file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := explorer.New(cfg)
	if err != nil {
		return err
	}

	if err := session.Render(ctx); err != nil {
		return err
	}
	for _, p := range zooms {
		if err := session.Click(ctx, p.x, p.y); err != nil {
			return err
		}
	}

	file, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if err := session.EncodePNG(file); err != nil {
		return err
	}

	st := session.State()
	log.Printf(
		"wrote %s: %s at (%.17g, %.17g), scale %g",
		*out, st.Program, st.Viewport.Center[0], st.Viewport.Center[1], st.Viewport.Scale,
	)
	return nil
}

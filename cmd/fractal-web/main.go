// Command fractal-web serves the explorer to browsers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/webview"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	addr := flag.String("addr", ":8080", "http listen address")
	origins := flag.String("origins", "", "comma separated websocket origin patterns accepted besides the page's own host")
	maxIterations := flag.Int("max-iterations", 0, "largest iteration cap a browser may set (default the larger of -iterations and 10000)")
	flag.Parse()

	handler, err := webview.New(cfg)
	if err != nil {
		return err
	}
	if *origins != "" {
		handler.OriginPatterns = strings.Split(*origins, ",")
	}
	if *maxIterations > 0 {
		handler.MaxIterations = *maxIterations
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on http://%s", *addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

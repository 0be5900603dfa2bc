package main

import (
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/explorer"
)

func init() {
	gob.Register(&Settings{})
	gob.Register(&explorer.State{})
}

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	debug := flag.Bool("debug", false, "enable OpenGL debug output")
	flag.Parse()

	session, err := explorer.New(cfg)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	mainContext, mainQuit := context.WithCancelCause(context.Background())

	go func() {
		mainQuit(gtkMain(mainContext, session, *debug))
	}()

	<-mainContext.Done()
	if err := context.Cause(mainContext); err != nil && err != context.Canceled {
		log.Println(err)
	}
}

func gtkMain(ctx context.Context, session *explorer.Session, debug bool) error {
	runtime.LockOSThread()

	gtk.Init(&os.Args)
	app, err := gtk.ApplicationNew("com.github.stewi1014.fractalexplorer", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		client, listener := NewPipeListener(appContext)

		renderWindow := NewRenderWindow(app, session, client, appContext, appQuit, debug)
		if renderWindow == nil {
			return
		}
		renderWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		renderWindow.SetTitle("Fractal Explorer")

		configWindow := NewConfigWindow(app, listener, appContext, appQuit)
		if configWindow == nil {
			return
		}
		configWindow.Connect("destroy", func() {
			appQuit(nil)
		})
		configWindow.SetTitle("Fractal Explorer Config")
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)
	return context.Cause(appContext)
}

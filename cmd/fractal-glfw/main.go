// Command fractal-glfw is a minimal GLFW window onto an exploration session.
// Click to zoom in, r to reset, q or escape to quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/fractalexplorer/config"
	"github.com/stewi1014/fractalexplorer/explorer"
	"github.com/stewi1014/fractalexplorer/present"
	"github.com/stewi1014/fractalexplorer/viewport"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	debug := flag.Bool("debug", false, "enable OpenGL debug output")
	flag.Parse()

	if err := run(cfg, *debug); err != nil {
		log.Fatalf("fractal-glfw: %v", err)
	}
}

type viewer struct {
	window    *glfw.Window
	presenter *present.Presenter
	session   *explorer.Session

	ctx   context.Context
	fail  context.CancelCauseFunc
	dirty atomic.Bool
	ops   chan func(context.Context) error
}

func run(cfg config.Config, debug bool) error {
	session, err := explorer.New(cfg)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(
		cfg.ScreenWidth,
		cfg.ScreenWidth,
		"Fractal Explorer",
		nil,
		nil,
	)
	if err != nil {
		return fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	presenter, err := present.New(debug)
	if err != nil {
		return err
	}
	defer presenter.Delete()

	ctx, fail := context.WithCancelCause(context.Background())
	defer fail(nil)

	v := &viewer{
		window:    window,
		presenter: presenter,
		session:   session,
		ctx:       ctx,
		fail:      fail,
		ops:       make(chan func(context.Context) error, 16),
	}
	go v.work()

	presenter.Resize(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		presenter.Resize(width, height)
	})
	window.SetMouseButtonCallback(v.mouseButton)
	window.SetKeyCallback(v.key)

	v.pass(session.Render)

	for !window.ShouldClose() {
		if v.dirty.Swap(false) {
			session.ViewFrame(presenter.Upload)
		}
		presenter.Draw()
		window.SwapBuffers()
		glfw.WaitEvents()

		if ctx.Err() != nil {
			break
		}
	}

	if err := context.Cause(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// pass queues op for the worker. Once the queue is full the event loop
// blocks until the running pass has finished.
func (v *viewer) pass(op func(context.Context) error) {
	select {
	case v.ops <- op:
	case <-v.ctx.Done():
	}
}

// work runs queued passes one at a time and wakes the event loop after each.
func (v *viewer) work() {
	for {
		select {
		case op := <-v.ops:
			if err := op(v.ctx); err != nil {
				v.fail(err)
			} else {
				v.dirty.Store(true)
			}
			glfw.PostEmptyEvent()
		case <-v.ctx.Done():
			return
		}
	}
}

func (v *viewer) mouseButton(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Release {
		return
	}

	width, height := w.GetSize()
	x, y := w.GetCursorPos()
	box := viewport.Letterbox{WindowWidth: width, WindowHeight: height, Size: v.session.ScreenWidth()}

	px, py, ok := box.ToRaster(x, y)
	if !ok {
		return
	}
	v.pass(func(ctx context.Context) error {
		return v.session.Click(ctx, px, py)
	})
}

type command int

const (
	commandNone command = iota
	commandReset
	commandQuit
)

func keyCommand(key glfw.Key) command {
	switch key {
	case glfw.KeyR:
		return commandReset
	case glfw.KeyQ, glfw.KeyEscape:
		return commandQuit
	}
	return commandNone
}

func (v *viewer) key(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch keyCommand(key) {
	case commandReset:
		v.pass(v.session.Reset)
	case commandQuit:
		w.SetShouldClose(true)
	}
}

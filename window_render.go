package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"net"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/fractalexplorer/explorer"
	"github.com/stewi1014/fractalexplorer/present"
	"github.com/stewi1014/fractalexplorer/viewport"
)

// Passes shorter than this finish without a progress dialog.
const progressDelay = 300 * time.Millisecond

func NewRenderWindow(
	app *gtk.Application,
	session *explorer.Session,
	conn net.Conn,
	ctx context.Context,
	quit context.CancelCauseFunc,
	debug bool,
) *RenderWindow {
	var err error
	w := &RenderWindow{
		session:     session,
		ctx:         ctx,
		quit:        quit,
		debug:       debug,
		sendMessage: make(chan interface{}, 1),
		passes:      make(chan pass, 16),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(getWindowSize(session.ScreenWidth()))

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)
	w.gla.Connect("resize", w.resize)

	w.gla.SetEvents(int(gdk.BUTTON_PRESS_MASK) | int(gdk.BUTTON_RELEASE_MASK))
	w.gla.Connect("button-release-event", w.button)
	w.Connect("key-press-event", w.key)

	w.Add(w.gla)
	w.ShowAll()

	go w.handleSend(conn)
	go w.handleReceive(conn)
	go w.work()

	w.runPass("Rendering", w.session.Render)

	return w
}

// getWindowSize picks a window that shows the raster at its native size when
// the monitor allows it.
func getWindowSize(screenWidth int) (width, height int) {
	width, height = screenWidth, screenWidth

	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return
	}

	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return
	}

	limit := min(monitor.GetGeometry().GetWidth(), monitor.GetGeometry().GetHeight()) * 9 / 10
	if width > limit {
		width, height = limit, limit
	}
	return
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	gla       *gtk.GLArea
	presenter *present.Presenter
	debug     bool

	session    *explorer.Session
	frameDirty atomic.Bool

	ctx  context.Context
	quit context.CancelCauseFunc

	sendMessage chan interface{}
	passes      chan pass
}

type pass struct {
	title string
	op    func(context.Context) error
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	presenter, err := present.New(w.debug)
	if err != nil {
		w.quit(err)
		return
	}
	w.presenter = presenter
	w.frameDirty.Store(true)
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	if w.presenter == nil {
		return false
	}

	if w.frameDirty.Swap(false) {
		w.session.ViewFrame(w.presenter.Upload)
	}

	w.presenter.Draw()
	return true
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	if w.presenter == nil {
		return
	}
	gla.MakeCurrent()
	w.presenter.Delete()
	w.presenter = nil
}

// resize receives the drawable size in device pixels.
func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	if w.presenter != nil {
		w.presenter.Resize(width, height)
	}
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	button := gdk.EventButtonNewFromEvent(event)
	if button.Type() != gdk.EVENT_BUTTON_RELEASE {
		return
	}

	// Events are in logical pixels, so map them against the allocation
	// rather than the drawable.
	box := viewport.Letterbox{
		WindowWidth:  gla.GetAllocatedWidth(),
		WindowHeight: gla.GetAllocatedHeight(),
		Size:         w.session.ScreenWidth(),
	}
	px, py, ok := box.ToRaster(button.X(), button.Y())
	if !ok {
		return
	}

	w.runPass("Zooming", func(ctx context.Context) error {
		return w.session.Click(ctx, px, py)
	})
}

type command int

const (
	commandNone command = iota
	commandReset
	commandSave
	commandQuit
)

// keyCommand maps a key to what the render window does with it. Keys without
// a command are left to GTK.
func keyCommand(keyval uint) command {
	switch keyval {
	case gdk.KEY_r:
		return commandReset
	case gdk.KEY_s:
		return commandSave
	case gdk.KEY_q, gdk.KEY_Escape:
		return commandQuit
	}
	return commandNone
}

func (w *RenderWindow) key(win *gtk.ApplicationWindow, event *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(event)

	switch keyCommand(key.KeyVal()) {
	case commandReset:
		w.runPass("Resetting", w.session.Reset)
	case commandSave:
		saveDialog(w.ApplicationWindow, w.session)
	case commandQuit:
		w.quit(nil)
	default:
		return false
	}
	return true
}

// runPass queues op for the pass worker. Events arriving while the queue is
// full block until a pass finishes.
func (w *RenderWindow) runPass(title string, op func(context.Context) error) {
	select {
	case w.passes <- pass{title: title, op: op}:
	case <-w.ctx.Done():
	}
}

// work runs queued passes in order, off the main loop. Long passes get a
// progress dialog whose cancel button abandons the pass.
func (w *RenderWindow) work() {
	defer CatchPanicToContext(w.quit)

	for {
		select {
		case p := <-w.passes:
			w.runOne(p)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *RenderWindow) runOne(p pass) {
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()

	timer := time.AfterFunc(progressDelay, func() {
		glib.IdleAdd(func() {
			if ctx.Err() != nil {
				return
			}
			if err := newProgressDialog(ctx, w.ApplicationWindow, p.title, w.session.Progress, cancel); err != nil {
				log.Println(err)
			}
		})
	})

	err := p.op(ctx)
	timer.Stop()
	if err != nil {
		ShowError(w.ApplicationWindow, err)
		return
	}

	w.frameDirty.Store(true)
	glib.IdleAdd(w.gla.QueueRender)

	select {
	case w.sendMessage <- w.session.State():
	case <-w.ctx.Done():
	}
}

func (w *RenderWindow) handleSend(conn net.Conn) {
	enc := gob.NewEncoder(conn)
	defer conn.Close()

	for {
		select {
		case msg := <-w.sendMessage:
			if state, ok := msg.(explorer.State); ok {
				msg = &state
			}
			if err := enc.Encode(&msg); err != nil {
				w.quit(fmt.Errorf("sending state: %w", err))
				return
			}
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *RenderWindow) handleReceive(conn net.Conn) {
	dec := gob.NewDecoder(conn)

	for {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			if w.ctx.Err() == nil {
				w.quit(fmt.Errorf("receiving settings: %w", err))
			}
			return
		}

		switch msg := v.(type) {
		case *Settings:
			w.apply(*msg)
		default:
			log.Println("unknown message received", reflect.TypeOf(v))
		}
	}
}

func (w *RenderWindow) apply(settings Settings) {
	state := w.session.State()

	switch {
	case settings.Reset:
		w.runPass("Resetting", w.session.Reset)
	case settings.Program != "" && settings.Program != state.Program:
		w.runPass("Switching program", func(ctx context.Context) error {
			return w.session.SetProgram(ctx, settings.Program)
		})
	case settings.Iterations != 0 && settings.Iterations != state.Iterations:
		w.runPass("Changing iterations", func(ctx context.Context) error {
			return w.session.SetIterations(ctx, settings.Iterations)
		})
	}
}

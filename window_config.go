package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"net"
	"reflect"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/fractalexplorer/explorer"
	"github.com/stewi1014/fractalexplorer/programs"
)

// Settings is sent from the config window to the render window. Zero fields
// are left unchanged.
type Settings struct {
	Program    string
	Iterations int
	Reset      bool
}

func NewConfigWindow(
	app *gtk.Application,
	listener net.Listener,
	ctx context.Context,
	quit context.CancelCauseFunc,
) *ConfigWindow {
	var err error
	w := &ConfigWindow{
		ctx:         ctx,
		quit:        quit,
		sendMessage: make(chan interface{}, 16),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(280, 240)

	grid, _ := gtk.GridNew()
	grid.SetRowSpacing(6)
	grid.SetColumnSpacing(6)
	grid.SetBorderWidth(8)

	programLabel, _ := gtk.LabelNew("Program")
	w.program, _ = gtk.ComboBoxTextNew()
	for i := 0; i < programs.NumPrograms(); i++ {
		w.program.AppendText(programs.GetProgram(i).Name)
	}
	w.program.Connect("changed", func(cb *gtk.ComboBoxText) {
		w.send(Settings{Program: cb.GetActiveText()})
	})

	iterationsLabel, _ := gtk.LabelNew("Iterations")
	w.iterations, _ = gtk.SpinButtonNewWithRange(1, 1<<20, 50)
	w.iterations.Connect("value-changed", func(sb *gtk.SpinButton) {
		w.send(Settings{Iterations: sb.GetValueAsInt()})
	})

	resetButton, _ := gtk.ButtonNewWithLabel("Reset view")
	resetButton.Connect("clicked", func() {
		w.send(Settings{Reset: true})
	})

	w.status, _ = gtk.LabelNew("")
	w.status.SetSelectable(true)
	w.status.SetXAlign(0)

	grid.Attach(programLabel, 0, 0, 1, 1)
	grid.Attach(w.program, 1, 0, 1, 1)
	grid.Attach(iterationsLabel, 0, 1, 1, 1)
	grid.Attach(w.iterations, 1, 1, 1, 1)
	grid.Attach(resetButton, 0, 2, 2, 1)
	grid.Attach(w.status, 0, 3, 2, 1)

	w.Add(grid)
	w.ShowAll()

	go w.serve(listener)

	return w
}

type ConfigWindow struct {
	*gtk.ApplicationWindow
	program    *gtk.ComboBoxText
	iterations *gtk.SpinButton
	status     *gtk.Label

	// updating is set while widgets are being filled from a received state so
	// their change signals are not echoed back.
	updating bool

	ctx         context.Context
	quit        context.CancelCauseFunc
	sendMessage chan interface{}
}

// send queues settings for the encoder in serve, keeping the order the user
// made the changes in. A full queue blocks the main loop until the render
// window catches up.
func (w *ConfigWindow) send(settings Settings) {
	if w.updating {
		return
	}
	select {
	case w.sendMessage <- &settings:
	case <-w.ctx.Done():
	}
}

func (w *ConfigWindow) serve(listener net.Listener) {
	conn, err := listener.Accept()
	if err != nil {
		w.quit(fmt.Errorf("accepting render window: %w", err))
		return
	}
	defer conn.Close()

	go func() {
		enc := gob.NewEncoder(conn)
		for {
			select {
			case msg := <-w.sendMessage:
				if err := enc.Encode(&msg); err != nil {
					w.quit(fmt.Errorf("sending settings: %w", err))
					return
				}
			case <-w.ctx.Done():
				return
			}
		}
	}()

	dec := gob.NewDecoder(conn)
	for {
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			if w.ctx.Err() == nil {
				w.quit(fmt.Errorf("receiving state: %w", err))
			}
			return
		}

		switch msg := v.(type) {
		case *explorer.State:
			state := *msg
			glib.IdleAdd(func() {
				w.showState(state)
			})
		default:
			log.Println("unknown message received", reflect.TypeOf(v))
		}
	}
}

func (w *ConfigWindow) showState(state explorer.State) {
	w.updating = true
	defer func() { w.updating = false }()

	for i := 0; i < programs.NumPrograms(); i++ {
		if programs.GetProgram(i).Name == state.Program {
			w.program.SetActive(i)
		}
	}
	w.iterations.SetValue(float64(state.Iterations))

	text := fmt.Sprintf(
		"zoom: %v^%d (%g×)\ncentre: (%.17g, %.17g)\nlast pass: %v on %d workers",
		state.Viewport.ZoomFactor, state.Viewport.ZoomSteps, state.Viewport.Magnification(),
		state.Viewport.Center[0], state.Viewport.Center[1],
		state.LastPass.Duration, state.LastPass.Workers,
	)
	if state.PrecisionExhausted {
		text += "\nfloat64 precision exhausted"
	}
	w.status.SetText(text)
}

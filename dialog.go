package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		ctxCancel(fmt.Errorf("%w\n%s", err, debug.Stack()))
	}
}

// ShowError logs err and reports it in a dialog on the main loop.
// Cancelled passes are only logged.
func ShowError(parent gtk.IWindow, err error) {
	log.Println(err)
	if errors.Is(err, context.Canceled) {
		return
	}

	glib.IdleAdd(func() {
		dialog := gtk.MessageDialogNew(
			parent,
			gtk.DIALOG_DESTROY_WITH_PARENT,
			gtk.MESSAGE_ERROR,
			gtk.BUTTONS_CLOSE,
			"%s",
			err.Error(),
		)
		dialog.Connect("response", dialog.Destroy)
		dialog.Show()
	})
}

// newProgressDialog shows how far progress has got until ctx is done.
// The cancel button calls onCancel.
func newProgressDialog(
	ctx context.Context,
	parent gtk.IWindow,
	title string,
	progress func() float64,
	onCancel func(),
) error {
	dialog, err := gtk.DialogNewWithButtons(
		title,
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"Cancel", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return fmt.Errorf("gtk.DialogNewWithButtons: %w", err)
	}
	dialog.Connect("response", func(_ *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_CANCEL {
			onCancel()
		}
	})

	content, err := dialog.GetContentArea()
	if err != nil {
		dialog.Destroy()
		return fmt.Errorf("GetContentArea: %w", err)
	}
	bar, _ := gtk.ProgressBarNew()
	bar.SetShowText(true)
	bar.SetSizeRequest(400, 40)
	content.Add(bar)
	dialog.ShowAll()

	go func() {
		ticker := time.NewTicker(time.Second / 10)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fraction := progress()
				glib.IdleAdd(func() { bar.SetFraction(fraction) })
			case <-ctx.Done():
				glib.IdleAdd(dialog.Destroy)
				return
			}
		}
	}()
	return nil
}

// showSavedImage previews a saved picture. Choosing delete calls onDelete.
func showSavedImage(parent gtk.IWindow, title string, pixbuf *gdk.Pixbuf, onDelete func()) error {
	dialog, err := gtk.DialogNewWithButtons(
		title,
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"Delete", gtk.RESPONSE_REJECT},
		[]interface{}{"Keep", gtk.RESPONSE_ACCEPT},
	)
	if err != nil {
		return fmt.Errorf("gtk.DialogNewWithButtons: %w", err)
	}
	dialog.Connect("response", func(_ *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_REJECT {
			onDelete()
		}
		dialog.Destroy()
	})

	content, err := dialog.GetContentArea()
	if err != nil {
		dialog.Destroy()
		return fmt.Errorf("GetContentArea: %w", err)
	}
	image, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		dialog.Destroy()
		return fmt.Errorf("gtk.ImageNewFromPixbuf: %w", err)
	}
	content.Add(image)
	dialog.ShowAll()
	return nil
}

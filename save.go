package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/fractalexplorer/explorer"
)

// saveDialog asks for a file name and writes the current frame there as a
// PNG. It runs on the GTK main loop.
func saveDialog(window *gtk.ApplicationWindow, session *explorer.Session) {
	chooser, err := gtk.FileChooserDialogNewWith2Buttons(
		"Save Image",
		window,
		gtk.FILE_CHOOSER_ACTION_SAVE,
		"Cancel", gtk.RESPONSE_CANCEL,
		"Save", gtk.RESPONSE_ACCEPT,
	)
	if err != nil {
		ShowError(window, fmt.Errorf("gtk.FileChooserDialogNewWith2Buttons: %w", err))
		return
	}
	defer chooser.Destroy()

	chooser.SetDoOverwriteConfirmation(true)
	chooser.SetCurrentName(fmt.Sprintf("fractal-%d.png", session.State().Viewport.ZoomSteps))

	if chooser.Run() != gtk.RESPONSE_ACCEPT {
		return
	}
	name := chooser.GetFilename()

	if err := savePNG(name, session); err != nil {
		ShowError(window, err)
		return
	}
	log.Printf("saved %v", name)

	pixbuf, err := gdk.PixbufNewFromFile(name)
	if err != nil {
		ShowError(window, err)
		return
	}

	err = showSavedImage(window, name, pixbuf, func() {
		if err := os.Remove(name); err != nil {
			ShowError(window, err)
		}
	})
	if err != nil {
		ShowError(window, err)
	}
}

func savePNG(name string, session *explorer.Session) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
		if err != nil {
			os.Remove(name)
		}
	}()

	return session.EncodePNG(file)
}

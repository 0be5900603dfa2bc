package main

import (
	"testing"

	"github.com/gotk3/gotk3/gdk"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		keyval uint
		want   command
	}{
		{gdk.KEY_r, commandReset},
		{gdk.KEY_s, commandSave},
		{gdk.KEY_q, commandQuit},
		{gdk.KEY_Escape, commandQuit},
		{gdk.KEY_a, commandNone},
		{gdk.KEY_Shift_L, commandNone},
	}

	for _, tt := range tests {
		if got := keyCommand(tt.keyval); got != tt.want {
			t.Errorf("keyCommand(%#x) = %v, want %v", tt.keyval, got, tt.want)
		}
	}
}

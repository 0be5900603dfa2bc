package main

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		want command
	}{
		{glfw.KeyR, commandReset},
		{glfw.KeyQ, commandQuit},
		{glfw.KeyEscape, commandQuit},
		{glfw.KeyA, commandNone},
		{glfw.KeyLeftShift, commandNone},
		{glfw.KeySpace, commandNone},
	}

	for _, tt := range tests {
		if got := keyCommand(tt.key); got != tt.want {
			t.Errorf("keyCommand(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

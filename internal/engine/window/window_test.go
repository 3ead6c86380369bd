package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestConfigFlags(t *testing.T) {
	visible := Config{Width: 640, Height: 480}.Flags()
	if visible&sdl.WINDOW_OPENGL == 0 {
		t.Error("window should request an OpenGL context")
	}
	if visible&sdl.WINDOW_HIDDEN != 0 {
		t.Error("visible window should not be hidden")
	}

	hidden := Config{Width: 640, Height: 480, Hidden: true}.Flags()
	if hidden&sdl.WINDOW_HIDDEN == 0 {
		t.Error("hidden window should set WINDOW_HIDDEN")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(Config{Width: 0, Height: 480}); err == nil {
		t.Error("expected error for zero width")
	}
}

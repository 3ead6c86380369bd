package gpu_test

import (
	"testing"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/gpu/gputest"
)

func TestWithViewportRestores(t *testing.T) {
	dev := gputest.New(800, 600)

	restore := gpu.WithViewport(dev, gpu.Viewport(64, 1))
	if got := dev.Viewport(); got != gpu.Viewport(64, 1) {
		t.Errorf("viewport = %v, want 64x1", got)
	}
	restore()
	if got := dev.Viewport(); got != gpu.Viewport(800, 600) {
		t.Errorf("viewport after restore = %v, want 800x600", got)
	}
}

func TestDisabledRestoresPriorState(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		dev := gputest.New(1, 1)
		if enabled {
			dev.Enable(gpu.DepthTest)
		}

		restore := gpu.Disabled(dev, gpu.DepthTest)
		if dev.IsEnabled(gpu.DepthTest) {
			t.Error("depth test should be disabled inside the scope")
		}
		dev.Enable(gpu.DepthTest) // a callee flipping state must not leak out
		restore()

		if got := dev.IsEnabled(gpu.DepthTest); got != enabled {
			t.Errorf("depth test after restore = %v, want %v", got, enabled)
		}
	}
}

func TestRestoreRunsOnPanic(t *testing.T) {
	dev := gputest.New(320, 240)

	func() {
		defer func() { _ = recover() }()
		defer gpu.WithViewport(dev, gpu.Viewport(16, 16))()
		defer gpu.WithClearColor(dev, [4]float32{1, 1, 1, 1})()
		panic("draw failed")
	}()

	if got := dev.Viewport(); got != gpu.Viewport(320, 240) {
		t.Errorf("viewport = %v, want 320x240", got)
	}
	if got := dev.ClearColor(); got != [4]float32{0, 0, 0, 1} {
		t.Errorf("clear color = %v, want black", got)
	}
}

func TestFormatComponents(t *testing.T) {
	tests := []struct {
		format gpu.Format
		want   int
	}{
		{gpu.FormatR32F, 1},
		{gpu.FormatRG32F, 2},
		{gpu.FormatRGBA8, 4},
		{gpu.FormatDepth32F, 1},
	}
	for _, tt := range tests {
		if got := tt.format.Components(); got != tt.want {
			t.Errorf("Format(%d).Components() = %d, want %d", tt.format, got, tt.want)
		}
	}
	if d := (gpu.TextureDesc{Width: 4, Height: 2, Format: gpu.FormatRG32F}); d.Len() != 16 {
		t.Errorf("Len() = %d, want 16", d.Len())
	}
}

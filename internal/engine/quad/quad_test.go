package quad

import (
	"testing"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/gpu/gputest"
	"github.com/Faultbox/umbra/internal/engine/renderpass"
	"github.com/Faultbox/umbra/internal/engine/texture"
)

func TestQuadGeometry(t *testing.T) {
	if len(Vertices) != 12 {
		t.Fatalf("expected 4 vertices of 3 floats, got %d floats", len(Vertices))
	}
	for i := 0; i < 4; i++ {
		x, y, z := Vertices[i*3], Vertices[i*3+1], Vertices[i*3+2]
		if (x != 1 && x != -1) || (y != 1 && y != -1) || z != 0 {
			t.Errorf("vertex %d = (%v, %v, %v), want (±1, ±1, 0)", i, x, y, z)
		}
	}

	if len(Indices) != 6 {
		t.Fatalf("expected 6 indices, got %d", len(Indices))
	}
	for tri := 0; tri < 2; tri++ {
		a, b, c := Indices[tri*3], Indices[tri*3+1], Indices[tri*3+2]
		ax, ay := Vertices[a*3], Vertices[a*3+1]
		bx, by := Vertices[b*3], Vertices[b*3+1]
		cx, cy := Vertices[c*3], Vertices[c*3+1]
		area := (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
		if area <= 0 {
			t.Errorf("triangle %d is not counter-clockwise (signed area %v)", tri, area)
		}
	}
}

func newQuad(t *testing.T, dev *gputest.Device, mode Mode) (*Pass, *texture.Texture) {
	t.Helper()
	out, err := texture.New(dev, 16, 16, gpu.FormatR32F)
	if err != nil {
		t.Fatalf("texture.New: %v", err)
	}
	q, err := New(dev, "test_quad", "frag", []*texture.Texture{out}, nil, mode)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q, out
}

func TestRenderSamplesViewport(t *testing.T) {
	dev := gputest.New(1280, 720)
	dev.Enable(gpu.DepthTest)
	q, _ := newQuad(t, dev, Samples)

	if err := q.Render(1280, 720, 16, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(dev.Draws) != 1 {
		t.Fatalf("expected one draw, got %d", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Count != 6 {
		t.Errorf("draw count = %d, want 6", d.Count)
	}
	if d.Viewport != gpu.Viewport(16, 1) {
		t.Errorf("draw viewport = %v, want 16x1", d.Viewport)
	}
	if d.DepthTest {
		t.Error("depth test should be disabled during the quad draw")
	}
	if d.IndexBuffer == 0 || d.VertexArray == 0 {
		t.Error("quad mesh should be bound for the draw")
	}
	if got := dev.Viewport(); got != gpu.Viewport(1280, 720) {
		t.Errorf("viewport after Render = %v, want 1280x720", got)
	}
	if !dev.IsEnabled(gpu.DepthTest) {
		t.Error("depth test should be re-enabled after Render")
	}
}

func TestRenderFullViewport(t *testing.T) {
	dev := gputest.New(640, 480)
	q, out := newQuad(t, dev, Full)

	kernel, _ := texture.New(dev, 4, 1, gpu.FormatRG32F)
	if err := q.Render(640, 480, 512, renderpass.Inputs{"u_kernel": kernel}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	d := dev.Draws[0]
	if d.Viewport != gpu.Viewport(512, 512) {
		t.Errorf("draw viewport = %v, want 512x512", d.Viewport)
	}
	if d.TextureUnits[0] != kernel.Handle() {
		t.Error("input texture should be bound during the draw")
	}
	if fb := dev.Framebuffers[d.Framebuffer]; fb == nil || fb.Colors[0] != out.Handle() {
		t.Error("draw should target the output texture")
	}
	if dev.IsEnabled(gpu.DepthTest) {
		t.Error("depth test should stay disabled when it was disabled before")
	}
}

func TestQuadMeshAttribute(t *testing.T) {
	dev := gputest.New(1, 1)
	q, _ := newQuad(t, dev, Full)
	if got := dev.Attribute(q.mesh.VAO.Handle(), 0); got != 3 {
		t.Errorf("position attribute size = %d, want 3", got)
	}
}

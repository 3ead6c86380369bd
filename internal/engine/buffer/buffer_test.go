package buffer

import (
	"testing"

	"github.com/Faultbox/umbra/internal/engine/gpu/gputest"
	"github.com/Faultbox/umbra/internal/engine/shader"
)

func TestLayoutStride(t *testing.T) {
	l := Layout{{"position", 3}, {"normal", 3}, {"uv", 2}}
	if got := l.Stride(); got != 8 {
		t.Errorf("Stride() = %d, want 8", got)
	}
}

func TestNewMeshWiresPosition(t *testing.T) {
	dev := gputest.New(1, 1)
	prog, err := shader.New(dev, "test", "vert", "frag")
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}

	layout := Layout{{"position", 3}, {"unused", 1}}
	vertices := []float32{
		0, 0, 0, 9,
		1, 0, 0, 9,
		0, 1, 0, 9,
	}
	m := NewMesh(dev, prog, layout, vertices, []uint32{0, 1, 2})

	if m.VBO.Len() != 3 {
		t.Errorf("VBO.Len() = %d, want 3", m.VBO.Len())
	}
	if got := dev.Attribute(m.VAO.Handle(), 0); got != 3 {
		t.Errorf("position attribute size = %d, want 3", got)
	}

	m.Draw(dev)
	if len(dev.Draws) != 1 || dev.Draws[0].Count != 3 {
		t.Fatalf("draws = %+v, want one draw of 3 indices", dev.Draws)
	}
	if dev.Draws[0].VertexArray != m.VAO.Handle() {
		t.Error("draw should use the mesh vertex array")
	}

	m.Bind()
	dev.DrawElements(2)
	m.Release()
	dev.DrawElements(1)
	if got := dev.Draws[1].VertexArray; got != m.VAO.Handle() {
		t.Errorf("got vertex array %d after Bind, want %d", got, m.VAO.Handle())
	}
	if got := dev.Draws[2]; got.VertexArray != 0 || got.IndexBuffer != 0 {
		t.Errorf("got vertex array %d and index buffer %d after Release, want 0 and 0", got.VertexArray, got.IndexBuffer)
	}

	m.Destroy()
	if len(dev.Buffers) != 0 || len(dev.VertexArrays) != 0 {
		t.Error("Destroy should release all buffers")
	}
}

func TestNewVertexBufferBadLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for ragged vertex data")
		}
	}()
	NewVertexBuffer(gputest.New(1, 1), Layout{{"position", 3}}, []float32{1, 2})
}

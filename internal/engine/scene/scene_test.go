package scene

import (
	"testing"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/gpu/gputest"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/pkg/math"
)

func vertex(i uint32) math.Vec3 {
	return math.Vec3{X: CubeVertices[i*3], Y: CubeVertices[i*3+1], Z: CubeVertices[i*3+2]}
}

func TestCubeWinding(t *testing.T) {
	if len(CubeIndices) != 36 {
		t.Fatalf("got %d indices, want 36", len(CubeIndices))
	}
	for tri := 0; tri < 12; tri++ {
		a, b, c := vertex(CubeIndices[tri*3]), vertex(CubeIndices[tri*3+1]), vertex(CubeIndices[tri*3+2])
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Errorf("triangle %d faces inwards", tri)
		}
	}
}

func TestBoxModel(t *testing.T) {
	b := Box{Min: math.Vec3{X: 1, Y: 2, Z: 3}, Max: math.Vec3{X: 3, Y: 6, Z: 4}}
	m := b.Model()
	if p := m.TransformPoint(math.Vec3{X: -1, Y: -1, Z: -1}); p != b.Min {
		t.Errorf("min corner maps to %v, want %v", p, b.Min)
	}
	if p := m.TransformPoint(math.Vec3{X: 1, Y: 1, Z: 1}); p != b.Max {
		t.Errorf("max corner maps to %v, want %v", p, b.Max)
	}
}

func TestSceneBounds(t *testing.T) {
	s := New(gputest.New(1, 1), nil)
	if !s.Bounds().IsEmpty() {
		t.Error("empty scene should have empty bounds")
	}

	s.Add(Box{Min: math.Vec3{X: -1, Y: -1, Z: 0}, Max: math.Vec3{X: 1, Y: 1, Z: 2}})
	s.Add(Box{Min: math.Vec3{X: 3, Y: -4, Z: 0}, Max: math.Vec3{X: 5, Y: -2, Z: 4}})
	b := s.Bounds()
	if want := (math.Vec3{X: -1, Y: -4, Z: 0}); b.Min != want {
		t.Errorf("Min = %v, want %v", b.Min, want)
	}
	if want := (math.Vec3{X: 5, Y: 1, Z: 4}); b.Max != want {
		t.Errorf("Max = %v, want %v", b.Max, want)
	}
}

func TestDrawGeometry(t *testing.T) {
	dev := gputest.New(1, 1)
	prog, err := shader.New(dev, "shadow", "vs", "fs")
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	s := New(dev, Demo())

	var models []any
	dev.OnDraw = func(d *gputest.Device, _ gputest.Draw) {
		m, _ := d.Uniform(prog.Handle(), "model")
		models = append(models, m)
	}

	for range 2 {
		if err := s.DrawGeometry(prog, shadow.GeometryPass); err != nil {
			t.Fatalf("DrawGeometry: %v", err)
		}
	}

	if want := 2 * len(Demo()); len(dev.Draws) != want {
		t.Fatalf("got %d draws, want %d", len(dev.Draws), want)
	}
	for i, d := range dev.Draws {
		if d.Count != 36 {
			t.Errorf("draw %d count = %d, want 36", i, d.Count)
		}
		if want := Demo()[i%len(Demo())].Model(); models[i] != want {
			t.Errorf("draw %d model = %v, want %v", i, models[i], want)
		}
	}
	if len(s.meshes) != 1 {
		t.Errorf("got %d meshes, want one shared mesh", len(s.meshes))
	}
	if dev.Attribute(dev.Draws[0].VertexArray, 0) != 3 {
		t.Error("position attribute should be wired")
	}

	s.Destroy()
	if len(dev.Buffers) != 0 || len(dev.VertexArrays) != 0 {
		t.Error("Destroy should release the mesh")
	}
}

func TestDrawGeometryIntoShadowPass(t *testing.T) {
	dev := gputest.New(800, 600)
	s := New(dev, Demo())
	p, err := shadow.NewPass(dev, 256, 8)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}

	p.Update(s.Bounds(), math.Vec3{X: 1, Y: 1, Z: 1})
	if err := p.Render(s, 800, 600, 4.0/3); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// One clear quad plus one draw per box.
	if want := 1 + len(Demo()); len(dev.Draws) != want {
		t.Errorf("got %d draws, want %d", len(dev.Draws), want)
	}
	for _, d := range dev.Draws[1:] {
		if !d.DepthTest {
			t.Error("boxes should be drawn with depth testing")
		}
		if d.Viewport != gpu.Viewport(256, 256) {
			t.Errorf("box viewport = %v, want 256x256", d.Viewport)
		}
	}
}

func TestDrawGeometryEnablesDepthTest(t *testing.T) {
	dev := gputest.New(1, 1)
	prog, err := shader.New(dev, "shadow", "vs", "fs")
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	s := New(dev, Demo())

	if dev.IsEnabled(gpu.DepthTest) {
		t.Fatal("depth test should start disabled")
	}
	if err := s.DrawGeometry(prog, shadow.GeometryPass); err != nil {
		t.Fatalf("DrawGeometry: %v", err)
	}

	for i, d := range dev.Draws {
		if !d.DepthTest {
			t.Errorf("draw %d: got DepthTest %v, want true", i, d.DepthTest)
		}
		if d.IndexBuffer == 0 {
			t.Errorf("draw %d has no index buffer bound", i)
		}
	}

	// The mesh is unbound once the scene is drawn.
	dev.DrawElements(1)
	last := dev.Draws[len(dev.Draws)-1]
	if last.VertexArray != 0 || last.IndexBuffer != 0 {
		t.Errorf("got vertex array %d and index buffer %d bound, want none", last.VertexArray, last.IndexBuffer)
	}
}

func TestDrawGeometryUnsupportedPass(t *testing.T) {
	dev := gputest.New(1, 1)
	prog, err := shader.New(dev, "shadow", "vs", "fs")
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	if err := New(dev, Demo()).DrawGeometry(prog, shadow.PassKind(0)); err == nil {
		t.Error("expected an error for an unknown pass kind")
	}
	if len(dev.Draws) != 0 {
		t.Errorf("got %d draws, want 0", len(dev.Draws))
	}
}

// Package scene provides a box scene that draws itself into shadow passes.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/buffer"
	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Box is an axis-aligned box occluder.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

// Model returns the transform mapping the unit cube [-1, 1]³ onto the box.
func (b Box) Model() math.Mat4 {
	c := b.Min.Add(b.Max).Scale(0.5)
	h := b.Max.Sub(b.Min).Scale(0.5)
	return math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(h.X, h.Y, h.Z))
}

// Bounds returns the box as a shadow.AABB.
func (b Box) Bounds() shadow.AABB {
	return shadow.AABB{Min: b.Min, Max: b.Max}
}

// Demo returns a ground slab with a few boxes standing on it.
func Demo() []Box {
	return []Box{
		{Min: math.Vec3{X: -10, Y: -10, Z: -0.5}, Max: math.Vec3{X: 10, Y: 10, Z: 0}},
		{Min: math.Vec3{X: -1, Y: -1, Z: 0}, Max: math.Vec3{X: 1, Y: 1, Z: 2}},
		{Min: math.Vec3{X: 3, Y: -4, Z: 0}, Max: math.Vec3{X: 5, Y: -2, Z: 4}},
		{Min: math.Vec3{X: -6, Y: 2, Z: 0}, Max: math.Vec3{X: -3, Y: 3, Z: 1}},
	}
}

// Scene holds boxes and the cube meshes used to draw them.
type Scene struct {
	dev    gpu.Device
	log    *zap.Logger
	boxes  []Box
	meshes map[gpu.Handle]*buffer.Mesh
}

// New creates a scene drawing boxes with dev.
func New(dev gpu.Device, boxes []Box) *Scene {
	return &Scene{
		dev:    dev,
		log:    logger.Named("scene"),
		boxes:  append([]Box(nil), boxes...),
		meshes: make(map[gpu.Handle]*buffer.Mesh),
	}
}

// Add appends a box.
func (s *Scene) Add(b Box) {
	s.boxes = append(s.boxes, b)
}

// Boxes returns the boxes in draw order.
func (s *Scene) Boxes() []Box {
	return s.boxes
}

// Bounds returns the box enclosing all boxes, or an empty box for an
// empty scene.
func (s *Scene) Bounds() shadow.AABB {
	b := shadow.EmptyAABB()
	for _, box := range s.boxes {
		b = b.Union(box.Bounds())
	}
	return b
}

// DrawGeometry implements shadow.Drawer. It binds the shared cube mesh once,
// then sets "model" and draws it with depth testing for each box.
func (s *Scene) DrawGeometry(program *shader.Program, kind shadow.PassKind) error {
	if kind != shadow.GeometryPass {
		return fmt.Errorf("scene: unsupported pass %s", kind)
	}
	if len(s.boxes) == 0 {
		return nil
	}

	mesh := s.mesh(program)
	mesh.Bind()
	defer mesh.Release()
	for _, b := range s.boxes {
		program.SetMat4("model", b.Model())
		shadow.DrawIndexed(s.dev, mesh.IBO.Len())
	}
	s.log.Debug("scene drawn", zap.Stringer("pass", kind), zap.Int("boxes", len(s.boxes)))
	return nil
}

// mesh returns the cube mesh wired against program's attributes, building
// it on first use.
func (s *Scene) mesh(program *shader.Program) *buffer.Mesh {
	if m, ok := s.meshes[program.Handle()]; ok {
		return m
	}
	m := buffer.NewMesh(s.dev, program, CubeLayout, CubeVertices, CubeIndices)
	s.meshes[program.Handle()] = m
	return m
}

// Destroy releases the meshes.
func (s *Scene) Destroy() {
	for h, m := range s.meshes {
		m.Destroy()
		delete(s.meshes, h)
	}
}

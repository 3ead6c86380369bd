// Package quad provides render passes that draw a single screen-filling quad
// instead of scene geometry, for clears and per-texel passes.
package quad

import (
	_ "embed"
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/buffer"
	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/renderpass"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/texture"
)

// VertexShader is the pass-through vertex shader for quad passes. It emits
// a uv varying in [0, 1].
//
//go:embed full_quad.vert
var VertexShader string

// Vertices are the quad corners at (±1, ±1, 0).
var Vertices = []float32{
	-1, -1, 0,
	1, -1, 0,
	1, 1, 0,
	-1, 1, 0,
}

// Indices form two counter-clockwise triangles covering the quad.
var Indices = []uint32{
	0, 1, 2,
	0, 2, 3,
}

// Layout is the single position attribute of Vertices.
var Layout = buffer.Layout{{Name: "position", Components: 3}}

// Mode selects how the draw extent maps to the viewport.
type Mode int

const (
	// Full draws into an extent×extent viewport.
	Full Mode = iota
	// Samples draws into an extent×1 viewport, one texel per kernel sample.
	Samples
)

// Pass is a render pass whose draw is always the quad.
type Pass struct {
	dev  gpu.Device
	pass *renderpass.Pass
	mesh *buffer.Mesh
	mode Mode
}

// New compiles fragmentSrc against VertexShader and builds a quad pass
// writing to outputs. depth may be nil.
func New(dev gpu.Device, name, fragmentSrc string, outputs []*texture.Texture, depth *texture.Texture, mode Mode) (*Pass, error) {
	rp, err := renderpass.NewFromSource(dev, name, VertexShader, fragmentSrc, outputs, depth)
	if err != nil {
		return nil, fmt.Errorf("quad pass: %w", err)
	}
	return &Pass{
		dev:  dev,
		pass: rp,
		mesh: buffer.NewMesh(dev, rp.Program(), Layout, Vertices, Indices),
		mode: mode,
	}, nil
}

// Program returns the pass program.
func (q *Pass) Program() *shader.Program {
	return q.pass.Program()
}

// Mode returns the viewport mode.
func (q *Pass) Mode() Mode {
	return q.mode
}

// Viewport returns the viewport used to draw an extent.
func (q *Pass) Viewport(extent int) gpu.Rect {
	if q.mode == Samples {
		return gpu.Viewport(extent, 1)
	}
	return gpu.Viewport(extent, extent)
}

// Render draws the quad once with depth testing disabled, then sets the
// viewport to width×height. The prior depth-test state is restored on
// every exit path.
func (q *Pass) Render(width, height, extent int, inputs renderpass.Inputs) error {
	defer q.dev.SetViewport(gpu.Viewport(width, height))

	return q.pass.Render(func(*shader.Program) error {
		q.dev.SetViewport(q.Viewport(extent))
		q.mesh.Draw(q.dev)
		return nil
	}, inputs, true)
}

// Destroy releases the mesh and the pass.
func (q *Pass) Destroy() {
	q.mesh.Destroy()
	q.pass.Destroy()
}

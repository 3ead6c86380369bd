// Package renderpass executes a shader program into a set of offscreen
// output textures.
package renderpass

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/internal/logger"
)

// Inputs maps sampler uniform names to the textures bound to them.
type Inputs map[string]*texture.Texture

// DrawFunc issues the draw calls of a pass with its program bound.
type DrawFunc func(program *shader.Program) error

// Pass is a program plus the framebuffer made of its output textures and an
// optional depth attachment.
type Pass struct {
	dev     gpu.Device
	program *shader.Program
	outputs []*texture.Texture
	depth   *texture.Texture
	fbo     gpu.Handle
}

// New builds a pass around program, taking ownership of it. depth may be nil.
func New(dev gpu.Device, program *shader.Program, outputs []*texture.Texture, depth *texture.Texture) (*Pass, error) {
	colors := make([]gpu.Handle, len(outputs))
	for i, t := range outputs {
		colors[i] = t.Handle()
	}
	var depthHandle gpu.Handle
	if depth != nil {
		depthHandle = depth.Handle()
	}

	fbo, err := dev.CreateFramebuffer(colors, depthHandle)
	if err != nil {
		return nil, fmt.Errorf("creating %s framebuffer: %w", program.Name(), err)
	}

	logger.Debug("render pass created",
		zap.String("program", program.Name()),
		zap.Int("outputs", len(outputs)),
		zap.Bool("depth", depth != nil),
	)
	return &Pass{dev: dev, program: program, outputs: outputs, depth: depth, fbo: fbo}, nil
}

// NewFromSource compiles a program and builds a pass around it.
func NewFromSource(dev gpu.Device, name, vertexSrc, fragmentSrc string, outputs []*texture.Texture, depth *texture.Texture) (*Pass, error) {
	program, err := shader.New(dev, name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	p, err := New(dev, program, outputs, depth)
	if err != nil {
		program.Destroy()
		return nil, err
	}
	return p, nil
}

// Program returns the pass program.
func (p *Pass) Program() *shader.Program {
	return p.program
}

// Outputs returns the color attachments.
func (p *Pass) Outputs() []*texture.Texture {
	return p.outputs
}

// Framebuffer returns the device framebuffer handle.
func (p *Pass) Framebuffer() gpu.Handle {
	return p.fbo
}

// Render binds the outputs and inputs, runs draw with the program bound and
// unbinds everything again. With disableDepth, depth testing is off for the
// duration of draw and its prior state is restored afterwards. The
// framebuffer binding and input textures are released even if draw fails
// or panics; draw's error is returned as is.
func (p *Pass) Render(draw DrawFunc, inputs Inputs, disableDepth bool) error {
	p.dev.BindFramebuffer(p.fbo)
	defer p.dev.BindFramebuffer(0)

	if disableDepth {
		defer gpu.Disabled(p.dev, gpu.DepthTest)()
	}

	p.program.Use()
	units := p.bindInputs(inputs)
	defer func() {
		for unit := range units {
			p.dev.BindTexture(uint32(unit), 0)
		}
	}()

	if draw == nil {
		return nil
	}
	return draw(p.program)
}

// bindInputs binds inputs to consecutive texture units in name order and
// returns how many units were used.
func (p *Pass) bindInputs(inputs Inputs) int {
	names := slices.Sorted(maps.Keys(inputs))
	for unit, name := range names {
		inputs[name].Bind(uint32(unit))
		p.program.SetInt(name, int32(unit))
	}
	return len(names)
}

// Destroy releases the framebuffer and program. Output and depth textures
// belong to the caller.
func (p *Pass) Destroy() {
	if p.fbo != 0 {
		p.dev.DeleteFramebuffer(p.fbo)
		p.fbo = 0
	}
	p.program.Destroy()
}

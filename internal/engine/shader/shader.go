// Package shader provides GLSL program objects with cached uniform lookup.
package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Program is a linked vertex+fragment program.
type Program struct {
	dev       gpu.Device
	handle    gpu.Handle
	name      string
	locations map[string]int32
}

// New compiles and links a program. name is used in logs and errors only.
func New(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	h, err := dev.CreateProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}

	logger.Debug("shader program created", zap.String("name", name), zap.Uint32("program", uint32(h)))
	return &Program{
		dev:       dev,
		handle:    h,
		name:      name,
		locations: make(map[string]int32),
	}, nil
}

// Handle returns the device handle.
func (p *Program) Handle() gpu.Handle {
	return p.handle
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// Use binds the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// Uniform returns the location of a uniform, or -1 if it is inactive.
// Inactive uniforms are not an error: the compiler strips unused ones.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	p.locations[name] = loc
	return loc
}

// MustUniform returns the location of a uniform.
// Panics if the uniform is not found (useful for required uniforms).
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %s", name, p.name))
	}
	return loc
}

// Attrib returns the location of a vertex attribute, or -1.
func (p *Program) Attrib(name string) int32 {
	return p.dev.AttribLocation(p.handle, name)
}

// SetMat4 binds the program and sets a matrix uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	p.Use()
	p.dev.UniformMat4(p.Uniform(name), m)
}

// SetFloat binds the program and sets a scalar uniform.
func (p *Program) SetFloat(name string, v float32) {
	p.Use()
	p.dev.Uniform1f(p.Uniform(name), v)
}

// SetInt binds the program and sets an integer or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	p.Use()
	p.dev.Uniform1i(p.Uniform(name), v)
}

// SetVec2Array binds the program and sets a vec2[] uniform from packed
// x,y pairs. An odd-length slice is a programming error and panics.
func (p *Program) SetVec2Array(name string, xy []float32) {
	if len(xy)%2 != 0 {
		panic(fmt.Sprintf("shader: vec2 array %q has odd length %d", name, len(xy)))
	}
	p.Use()
	p.dev.Uniform2fv(p.Uniform(name), xy)
}

// Destroy releases the program. It is safe to call more than once.
func (p *Program) Destroy() {
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// Package gputest provides an in-memory gpu.Device for tests.
//
// The fake tracks the context state the engine is responsible for (viewport,
// clear color, capabilities, bindings) and records every draw together with
// the state it was issued under. Clears write the clear value into the color
// and depth attachments of the bound framebuffer, so tests can read textures
// back the same way they would on a real context.
package gputest

import (
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/pkg/math"
)

// Draw is one recorded DrawElements call.
type Draw struct {
	Count        int32
	Viewport     gpu.Rect
	DepthTest    bool
	Program      gpu.Handle
	Framebuffer  gpu.Handle
	VertexArray  gpu.Handle
	IndexBuffer  gpu.Handle
	TextureUnits map[uint32]gpu.Handle
}

// Texture is the fake storage behind a texture handle.
type Texture struct {
	Desc gpu.TextureDesc
	Data []float32
}

// Framebuffer is the fake storage behind a framebuffer handle.
type Framebuffer struct {
	Colors []gpu.Handle
	Depth  gpu.Handle
}

// Program is the fake storage behind a program handle.
type Program struct {
	VertexSrc   string
	FragmentSrc string
	Uniforms    map[string]any
	locations   map[string]int32
}

type attrib struct {
	Size, Stride, Offset int32
	Buffer               gpu.Handle
}

// Device is a recording gpu.Device. The zero value is not usable; call New.
type Device struct {
	viewport   gpu.Rect
	clearColor [4]float32
	caps       map[gpu.Capability]bool

	next         gpu.Handle
	Textures     map[gpu.Handle]*Texture
	Framebuffers map[gpu.Handle]*Framebuffer
	Programs     map[gpu.Handle]*Program
	VertexArrays map[gpu.Handle]map[uint32]attrib
	Buffers      map[gpu.Handle]int

	boundFBO     gpu.Handle
	boundProgram gpu.Handle
	boundVAO     gpu.Handle
	boundArray   gpu.Handle
	boundIndex   gpu.Handle
	units        map[uint32]gpu.Handle

	// Calls is the ordered log of state-changing calls.
	Calls []string
	// Draws lists every DrawElements call in submission order.
	Draws []Draw
	// OnDraw, when set, runs after a draw is recorded. Tests use it to emulate
	// fragment output.
	OnDraw func(d *Device, draw Draw)

	// FailProgram and FailFramebuffer make the matching Create call fail.
	FailProgram     error
	FailFramebuffer error
}

// New returns a fake device with a width×height default viewport, depth
// testing disabled and a black clear color.
func New(width, height int) *Device {
	return &Device{
		viewport:     gpu.Viewport(width, height),
		clearColor:   [4]float32{0, 0, 0, 1},
		caps:         make(map[gpu.Capability]bool),
		Textures:     make(map[gpu.Handle]*Texture),
		Framebuffers: make(map[gpu.Handle]*Framebuffer),
		Programs:     make(map[gpu.Handle]*Program),
		VertexArrays: make(map[gpu.Handle]map[uint32]attrib),
		Buffers:      make(map[gpu.Handle]int),
		units:        make(map[uint32]gpu.Handle),
	}
}

func (d *Device) handle() gpu.Handle {
	d.next++
	return d.next
}

func (d *Device) logf(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Viewport returns the current viewport.
func (d *Device) Viewport() gpu.Rect { return d.viewport }

// SetViewport sets the viewport.
func (d *Device) SetViewport(r gpu.Rect) {
	d.viewport = r
	d.logf("viewport %d %d %d %d", r.X, r.Y, r.Width, r.Height)
}

// IsEnabled reports whether c is enabled.
func (d *Device) IsEnabled(c gpu.Capability) bool { return d.caps[c] }

// Enable enables c.
func (d *Device) Enable(c gpu.Capability) {
	d.caps[c] = true
	d.logf("enable %s", c)
}

// Disable disables c.
func (d *Device) Disable(c gpu.Capability) {
	d.caps[c] = false
	d.logf("disable %s", c)
}

// ClearColor returns the current clear color.
func (d *Device) ClearColor() [4]float32 { return d.clearColor }

// SetClearColor sets the clear color.
func (d *Device) SetClearColor(rgba [4]float32) {
	d.clearColor = rgba
	d.logf("clear_color %g %g %g %g", rgba[0], rgba[1], rgba[2], rgba[3])
}

// Clear fills the attachments of the bound framebuffer.
func (d *Device) Clear(mask gpu.ClearMask) {
	d.logf("clear %d", mask)
	fb, ok := d.Framebuffers[d.boundFBO]
	if !ok {
		return
	}
	if mask&gpu.ColorBuffer != 0 {
		for _, h := range fb.Colors {
			d.Fill(h, d.clearColor[0])
		}
	}
	if mask&gpu.DepthBuffer != 0 && fb.Depth != 0 {
		d.Fill(fb.Depth, 1)
	}
}

// Fill sets every component of a texture to v.
func (d *Device) Fill(h gpu.Handle, v float32) {
	tex, ok := d.Textures[h]
	if !ok {
		return
	}
	for i := range tex.Data {
		tex.Data[i] = v
	}
}

// CreateTexture allocates a zeroed texture.
func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Handle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	h := d.handle()
	d.Textures[h] = &Texture{Desc: desc, Data: make([]float32, desc.Len())}
	d.logf("create_texture %d %dx%d", h, desc.Width, desc.Height)
	return h, nil
}

// UploadTexture replaces texture contents.
func (d *Device) UploadTexture(h gpu.Handle, desc gpu.TextureDesc, data []float32) {
	tex := d.Textures[h]
	copy(tex.Data, data)
	d.logf("upload_texture %d", h)
}

// ReadTexture copies texture contents into dst.
func (d *Device) ReadTexture(h gpu.Handle, desc gpu.TextureDesc, dst []float32) {
	copy(dst, d.Textures[h].Data)
}

// BindTexture binds h to a unit.
func (d *Device) BindTexture(unit uint32, h gpu.Handle) {
	if h == 0 {
		delete(d.units, unit)
	} else {
		d.units[unit] = h
	}
	d.logf("bind_texture %d %d", unit, h)
}

// DeleteTexture releases a texture.
func (d *Device) DeleteTexture(h gpu.Handle) {
	delete(d.Textures, h)
	d.logf("delete_texture %d", h)
}

// CreateFramebuffer records the attachments.
func (d *Device) CreateFramebuffer(colors []gpu.Handle, depth gpu.Handle) (gpu.Handle, error) {
	if d.FailFramebuffer != nil {
		return 0, d.FailFramebuffer
	}
	for _, c := range colors {
		if tex, ok := d.Textures[c]; !ok || tex.Desc.Format.IsDepth() {
			return 0, fmt.Errorf("%w: bad color attachment %d", gpu.ErrIncompleteFramebuffer, c)
		}
	}
	if depth != 0 {
		if tex, ok := d.Textures[depth]; !ok || !tex.Desc.Format.IsDepth() {
			return 0, fmt.Errorf("%w: bad depth attachment %d", gpu.ErrIncompleteFramebuffer, depth)
		}
	}
	h := d.handle()
	d.Framebuffers[h] = &Framebuffer{Colors: append([]gpu.Handle(nil), colors...), Depth: depth}
	d.logf("create_framebuffer %d", h)
	return h, nil
}

// BindFramebuffer binds a render target.
func (d *Device) BindFramebuffer(h gpu.Handle) {
	d.boundFBO = h
	d.logf("bind_framebuffer %d", h)
}

// DeleteFramebuffer releases a framebuffer.
func (d *Device) DeleteFramebuffer(h gpu.Handle) {
	delete(d.Framebuffers, h)
	d.logf("delete_framebuffer %d", h)
}

// CreateProgram stores the sources; it never compiles anything.
func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (gpu.Handle, error) {
	if d.FailProgram != nil {
		return 0, d.FailProgram
	}
	h := d.handle()
	d.Programs[h] = &Program{
		VertexSrc:   vertexSrc,
		FragmentSrc: fragmentSrc,
		Uniforms:    make(map[string]any),
		locations:   make(map[string]int32),
	}
	d.logf("create_program %d", h)
	return h, nil
}

// UseProgram binds a program.
func (d *Device) UseProgram(h gpu.Handle) {
	d.boundProgram = h
	d.logf("use_program %d", h)
}

// UniformLocation assigns locations in lookup order. Each location encodes
// its program so uniform writes land in the right map.
func (d *Device) UniformLocation(program gpu.Handle, name string) int32 {
	p, ok := d.Programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := int32(program)<<16 | int32(len(p.locations))
	p.locations[name] = loc
	return loc
}

// AttribLocation returns 0 for "position" and -1 otherwise.
func (d *Device) AttribLocation(program gpu.Handle, name string) int32 {
	if name == "position" {
		return 0
	}
	return -1
}

func (d *Device) setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	program := gpu.Handle(loc >> 16)
	if program != d.boundProgram {
		panic(fmt.Sprintf("gputest: uniform for program %d set while %d is bound", program, d.boundProgram))
	}
	p := d.Programs[program]
	for name, l := range p.locations {
		if l == loc {
			p.Uniforms[name] = v
			return
		}
	}
}

// UniformMat4 records a matrix uniform.
func (d *Device) UniformMat4(loc int32, m math.Mat4) { d.setUniform(loc, m) }

// Uniform1f records a scalar uniform.
func (d *Device) Uniform1f(loc int32, v float32) { d.setUniform(loc, v) }

// Uniform1i records an integer uniform.
func (d *Device) Uniform1i(loc int32, v int32) { d.setUniform(loc, v) }

// Uniform2fv records a vec2 array uniform.
func (d *Device) Uniform2fv(loc int32, v []float32) {
	d.setUniform(loc, append([]float32(nil), v...))
}

// DeleteProgram releases a program.
func (d *Device) DeleteProgram(h gpu.Handle) {
	delete(d.Programs, h)
	d.logf("delete_program %d", h)
}

// CreateVertexArray creates an empty vertex array.
func (d *Device) CreateVertexArray() gpu.Handle {
	h := d.handle()
	d.VertexArrays[h] = make(map[uint32]attrib)
	d.logf("create_vertex_array %d", h)
	return h
}

// BindVertexArray binds a vertex array.
func (d *Device) BindVertexArray(h gpu.Handle) {
	d.boundVAO = h
	d.logf("bind_vertex_array %d", h)
}

// DeleteVertexArray releases a vertex array.
func (d *Device) DeleteVertexArray(h gpu.Handle) {
	delete(d.VertexArrays, h)
	d.logf("delete_vertex_array %d", h)
}

// CreateVertexBuffer records a vertex buffer and leaves it bound.
func (d *Device) CreateVertexBuffer(data []float32) gpu.Handle {
	h := d.handle()
	d.Buffers[h] = len(data)
	d.boundArray = h
	d.logf("create_vertex_buffer %d %d", h, len(data))
	return h
}

// CreateIndexBuffer records an index buffer and leaves it bound.
func (d *Device) CreateIndexBuffer(data []uint32) gpu.Handle {
	h := d.handle()
	d.Buffers[h] = len(data)
	d.boundIndex = h
	d.logf("create_index_buffer %d %d", h, len(data))
	return h
}

// BindBuffer binds a buffer to target.
func (d *Device) BindBuffer(target gpu.BufferTarget, h gpu.Handle) {
	if target == gpu.ElementArrayBuffer {
		d.boundIndex = h
	} else {
		d.boundArray = h
	}
	d.logf("bind_buffer %d %d", target, h)
}

// DeleteBuffer releases a buffer.
func (d *Device) DeleteBuffer(h gpu.Handle) {
	delete(d.Buffers, h)
	d.logf("delete_buffer %d", h)
}

// VertexAttribPointer records an attribute of the bound vertex array.
func (d *Device) VertexAttribPointer(loc uint32, size, stride, offset int32) {
	if attrs, ok := d.VertexArrays[d.boundVAO]; ok {
		attrs[loc] = attrib{Size: size, Stride: stride, Offset: offset, Buffer: d.boundArray}
	}
	d.logf("vertex_attrib %d %d %d %d", loc, size, stride, offset)
}

// Attribute returns the size of attribute loc in vertex array vao, or 0.
func (d *Device) Attribute(vao gpu.Handle, loc uint32) int32 {
	return d.VertexArrays[vao][loc].Size
}

// DrawElements records a draw with the current state.
func (d *Device) DrawElements(count int32) {
	units := make(map[uint32]gpu.Handle, len(d.units))
	for u, h := range d.units {
		units[u] = h
	}
	draw := Draw{
		Count:        count,
		Viewport:     d.viewport,
		DepthTest:    d.caps[gpu.DepthTest],
		Program:      d.boundProgram,
		Framebuffer:  d.boundFBO,
		VertexArray:  d.boundVAO,
		IndexBuffer:  d.boundIndex,
		TextureUnits: units,
	}
	d.Draws = append(d.Draws, draw)
	d.logf("draw %d", count)
	if d.OnDraw != nil {
		d.OnDraw(d, draw)
	}
}

// Uniform returns the last value written to a named uniform of program.
func (d *Device) Uniform(program gpu.Handle, name string) (any, bool) {
	p, ok := d.Programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.Uniforms[name]
	return v, ok
}

// BoundFramebuffer returns the bound render target.
func (d *Device) BoundFramebuffer() gpu.Handle { return d.boundFBO }

// BoundProgram returns the bound program.
func (d *Device) BoundProgram() gpu.Handle { return d.boundProgram }

var _ gpu.Device = (*Device)(nil)

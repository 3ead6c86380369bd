package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// GL is a Device backed by an OpenGL 4.1 core context.
type GL struct{}

// NewGL loads the OpenGL entry points for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created and made
// current on the calling thread.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return &GL{}, nil
}

func glCapability(c Capability) uint32 {
	switch c {
	case DepthTest:
		return gl.DEPTH_TEST
	case CullFace:
		return gl.CULL_FACE
	case PolygonOffsetFill:
		return gl.POLYGON_OFFSET_FILL
	case Blend:
		return gl.BLEND
	}
	panic(fmt.Sprintf("gpu: unknown capability %d", c))
}

// glFormat returns internal format, pixel format and pixel type.
func glFormat(f Format) (int32, uint32, uint32) {
	switch f {
	case FormatR32F:
		return gl.R32F, gl.RED, gl.FLOAT
	case FormatRG32F:
		return gl.RG32F, gl.RG, gl.FLOAT
	case FormatRGBA8:
		return gl.RGBA8, gl.RGBA, gl.FLOAT
	case FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	}
	panic(fmt.Sprintf("gpu: unknown texture format %d", f))
}

func glTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

// Viewport returns the current viewport.
func (*GL) Viewport() Rect {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	return Rect{X: vp[0], Y: vp[1], Width: vp[2], Height: vp[3]}
}

// SetViewport sets the viewport.
func (*GL) SetViewport(r Rect) {
	gl.Viewport(r.X, r.Y, r.Width, r.Height)
}

// IsEnabled reports whether c is enabled.
func (*GL) IsEnabled(c Capability) bool {
	return gl.IsEnabled(glCapability(c))
}

// Enable enables c.
func (*GL) Enable(c Capability) {
	gl.Enable(glCapability(c))
}

// Disable disables c.
func (*GL) Disable(c Capability) {
	gl.Disable(glCapability(c))
}

// ClearColor returns the current clear color.
func (*GL) ClearColor() [4]float32 {
	var rgba [4]float32
	gl.GetFloatv(gl.COLOR_CLEAR_VALUE, &rgba[0])
	return rgba
}

// SetClearColor sets the clear color.
func (*GL) SetClearColor(rgba [4]float32) {
	gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
}

// Clear clears the selected buffers of the bound framebuffer.
func (*GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// CreateTexture allocates storage for a 2D texture.
func (*GL) CreateTexture(desc TextureDesc) (Handle, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	internal, format, xtype := glFormat(desc.Format)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, desc.Width, desc.Height, 0, format, xtype, nil)

	// Nearest sampling; reads outside the texture see the far value 1.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return Handle(tex), nil
}

// UploadTexture replaces the texture contents.
func (*GL) UploadTexture(h Handle, desc TextureDesc, data []float32) {
	_, format, xtype := glFormat(desc.Format)
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, desc.Width, desc.Height, format, xtype, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadTexture reads the texture contents back into dst.
func (*GL) ReadTexture(h Handle, desc TextureDesc, dst []float32) {
	_, format, xtype := glFormat(desc.Format)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	gl.GetTexImage(gl.TEXTURE_2D, 0, format, xtype, gl.Ptr(dst))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// BindTexture binds h to the given texture unit index.
func (*GL) BindTexture(unit uint32, h Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
}

// DeleteTexture releases a texture.
func (*GL) DeleteTexture(h Handle) {
	tex := uint32(h)
	gl.DeleteTextures(1, &tex)
}

// CreateFramebuffer builds a framebuffer with the given color attachments
// and optional depth attachment.
func (*GL) CreateFramebuffer(colors []Handle, depth Handle) (Handle, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	drawBuffers := make([]uint32, len(colors))
	for i, tex := range colors {
		attachment := gl.COLOR_ATTACHMENT0 + uint32(i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, uint32(tex), 0)
		drawBuffers[i] = attachment
	}
	if depth != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, uint32(depth), 0)
	}

	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, fmt.Errorf("%w: status=0x%X", ErrIncompleteFramebuffer, status)
	}
	return Handle(fbo), nil
}

// BindFramebuffer makes h the render target; 0 selects the default framebuffer.
func (*GL) BindFramebuffer(h Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(h))
}

// DeleteFramebuffer releases a framebuffer.
func (*GL) DeleteFramebuffer(h Handle) {
	fbo := uint32(h)
	gl.DeleteFramebuffers(1, &fbo)
}

// CreateProgram compiles vertex and fragment shaders and links them.
func (*GL) CreateProgram(vertexSrc, fragmentSrc string) (Handle, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}

	return Handle(program), nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

// UseProgram binds a program for subsequent uniform and draw calls.
func (*GL) UseProgram(h Handle) {
	gl.UseProgram(uint32(h))
}

// UniformLocation returns the location of a uniform, or -1 if inactive.
func (*GL) UniformLocation(program Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

// AttribLocation returns the location of a vertex attribute, or -1.
func (*GL) AttribLocation(program Handle, name string) int32 {
	return gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
}

// UniformMat4 uploads a column-major matrix to the bound program.
func (*GL) UniformMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
}

// Uniform1f uploads a scalar to the bound program.
func (*GL) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

// Uniform1i uploads an integer (or sampler unit) to the bound program.
func (*GL) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

// Uniform2fv uploads an array of vec2 packed as x0,y0,x1,y1,...
func (*GL) Uniform2fv(loc int32, v []float32) {
	if len(v) == 0 {
		return
	}
	gl.Uniform2fv(loc, int32(len(v)/2), &v[0])
}

// DeleteProgram releases a program.
func (*GL) DeleteProgram(h Handle) {
	gl.DeleteProgram(uint32(h))
}

// CreateVertexArray creates an empty vertex array object.
func (*GL) CreateVertexArray() Handle {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return Handle(vao)
}

// BindVertexArray binds a vertex array; 0 unbinds.
func (*GL) BindVertexArray(h Handle) {
	gl.BindVertexArray(uint32(h))
}

// DeleteVertexArray releases a vertex array.
func (*GL) DeleteVertexArray(h Handle) {
	vao := uint32(h)
	gl.DeleteVertexArrays(1, &vao)
}

// CreateVertexBuffer uploads static vertex data. The buffer is left bound to
// GL_ARRAY_BUFFER so attribute pointers can be set up right away.
func (*GL) CreateVertexBuffer(data []float32) Handle {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return Handle(vbo)
}

// CreateIndexBuffer uploads static uint32 index data and leaves it bound.
func (*GL) CreateIndexBuffer(data []uint32) Handle {
	var ibo uint32
	gl.GenBuffers(1, &ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return Handle(ibo)
}

// BindBuffer binds a buffer to target; 0 unbinds.
func (*GL) BindBuffer(target BufferTarget, h Handle) {
	gl.BindBuffer(glTarget(target), uint32(h))
}

// DeleteBuffer releases a buffer.
func (*GL) DeleteBuffer(h Handle) {
	buf := uint32(h)
	gl.DeleteBuffers(1, &buf)
}

// VertexAttribPointer describes a float attribute of the bound array buffer
// and enables it. stride and offset are in bytes.
func (*GL) VertexAttribPointer(loc uint32, size, stride, offset int32) {
	gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, stride, uintptr(offset))
	gl.EnableVertexAttribArray(loc)
}

// DrawElements draws count uint32 indices as triangles.
func (*GL) DrawElements(count int32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

var _ Device = (*GL)(nil)

// Package gpu defines the graphics device the engine renders through.
//
// A Device is the single owner of mutable GPU context state (viewport, clear
// color, enabled capabilities and resource bindings). It is created once at
// startup on the thread that owns the GL context and passed explicitly to
// every pass; nothing in the engine touches ambient GL state directly.
// Devices are not safe for concurrent use.
package gpu

import (
	"errors"

	"github.com/Faultbox/umbra/pkg/math"
)

// Handle names a GPU object (texture, framebuffer, program, buffer or
// vertex array). Zero is never a valid object and denotes the default
// framebuffer when bound as a render target.
type Handle uint32

// Rect is a viewport rectangle in pixels.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

// Capability is a toggleable piece of fixed-function state.
type Capability uint32

const (
	DepthTest Capability = iota + 1
	CullFace
	PolygonOffsetFill
	Blend
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "depth_test"
	case CullFace:
		return "cull_face"
	case PolygonOffsetFill:
		return "polygon_offset_fill"
	case Blend:
		return "blend"
	default:
		return "unknown"
	}
}

// ClearMask selects the buffers affected by Clear.
type ClearMask uint32

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// Format is a texture storage format.
type Format int

const (
	FormatR32F Format = iota + 1
	FormatRG32F
	FormatRGBA8
	FormatDepth32F
)

// Components returns the number of float values per texel when the texture
// is uploaded or read back.
func (f Format) Components() int {
	switch f {
	case FormatR32F, FormatDepth32F:
		return 1
	case FormatRG32F:
		return 2
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// IsDepth reports whether the format can only be used as a depth attachment.
func (f Format) IsDepth() bool {
	return f == FormatDepth32F
}

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Width, Height int32
	Format        Format
}

// Len returns the number of float values covering the whole texture.
func (d TextureDesc) Len() int {
	return int(d.Width) * int(d.Height) * d.Format.Components()
}

// BufferTarget selects the binding point of a buffer object.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota + 1
	ElementArrayBuffer
)

// ErrIncompleteFramebuffer is returned when a framebuffer's attachments do
// not form a renderable target.
var ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")

// Device is the graphics context used by every render pass.
type Device interface {
	Viewport() Rect
	SetViewport(r Rect)
	IsEnabled(c Capability) bool
	Enable(c Capability)
	Disable(c Capability)
	ClearColor() [4]float32
	SetClearColor(rgba [4]float32)
	Clear(mask ClearMask)

	CreateTexture(desc TextureDesc) (Handle, error)
	UploadTexture(h Handle, desc TextureDesc, data []float32)
	ReadTexture(h Handle, desc TextureDesc, dst []float32)
	BindTexture(unit uint32, h Handle)
	DeleteTexture(h Handle)

	CreateFramebuffer(colors []Handle, depth Handle) (Handle, error)
	BindFramebuffer(h Handle)
	DeleteFramebuffer(h Handle)

	CreateProgram(vertexSrc, fragmentSrc string) (Handle, error)
	UseProgram(h Handle)
	UniformLocation(program Handle, name string) int32
	AttribLocation(program Handle, name string) int32
	UniformMat4(loc int32, m math.Mat4)
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2fv(loc int32, v []float32)
	DeleteProgram(h Handle)

	CreateVertexArray() Handle
	BindVertexArray(h Handle)
	DeleteVertexArray(h Handle)
	CreateVertexBuffer(data []float32) Handle
	CreateIndexBuffer(data []uint32) Handle
	BindBuffer(target BufferTarget, h Handle)
	DeleteBuffer(h Handle)
	VertexAttribPointer(loc uint32, size, stride, offset int32)

	// DrawElements draws count uint32 indices from the bound element
	// buffer as triangles.
	DrawElements(count int32)
}

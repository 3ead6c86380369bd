// Package buffer provides vertex array, vertex buffer and index buffer
// objects built from raw float32/uint32 data.
package buffer

import (
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/shader"
)

// Attribute is one named float attribute of an interleaved vertex.
type Attribute struct {
	Name       string
	Components int32
}

// Layout lists the attributes of an interleaved vertex in order.
type Layout []Attribute

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int32 {
	var n int32
	for _, a := range l {
		n += a.Components
	}
	return n
}

// VertexArray is a vertex array object.
type VertexArray struct {
	dev    gpu.Device
	handle gpu.Handle
}

// NewVertexArray creates an empty vertex array.
func NewVertexArray(dev gpu.Device) *VertexArray {
	return &VertexArray{dev: dev, handle: dev.CreateVertexArray()}
}

// Handle returns the device handle.
func (va *VertexArray) Handle() gpu.Handle { return va.handle }

// Bind binds the vertex array.
func (va *VertexArray) Bind() { va.dev.BindVertexArray(va.handle) }

// Release unbinds any vertex array.
func (va *VertexArray) Release() { va.dev.BindVertexArray(0) }

// Destroy releases the vertex array.
func (va *VertexArray) Destroy() {
	if va.handle != 0 {
		va.dev.DeleteVertexArray(va.handle)
		va.handle = 0
	}
}

// VertexBuffer holds interleaved float vertices.
type VertexBuffer struct {
	dev    gpu.Device
	handle gpu.Handle
	layout Layout
	count  int
}

// NewVertexBuffer uploads interleaved vertex data. len(data) must be a
// multiple of the layout stride; anything else panics.
func NewVertexBuffer(dev gpu.Device, layout Layout, data []float32) *VertexBuffer {
	stride := int(layout.Stride())
	if stride == 0 || len(data)%stride != 0 {
		panic(fmt.Sprintf("buffer: %d floats do not fit a layout of stride %d", len(data), stride))
	}
	return &VertexBuffer{
		dev:    dev,
		handle: dev.CreateVertexBuffer(data),
		layout: layout,
		count:  len(data) / stride,
	}
}

// Len returns the number of vertices.
func (vb *VertexBuffer) Len() int { return vb.count }

// BindToArray wires the layout's attributes to the bound vertex array using
// the attribute locations of program. Attributes the program does not use
// are skipped.
func (vb *VertexBuffer) BindToArray(program *shader.Program) {
	vb.dev.BindBuffer(gpu.ArrayBuffer, vb.handle)

	strideBytes := vb.layout.Stride() * 4
	var offset int32
	for _, a := range vb.layout {
		if loc := program.Attrib(a.Name); loc >= 0 {
			vb.dev.VertexAttribPointer(uint32(loc), a.Components, strideBytes, offset*4)
		}
		offset += a.Components
	}
}

// Destroy releases the buffer.
func (vb *VertexBuffer) Destroy() {
	if vb.handle != 0 {
		vb.dev.DeleteBuffer(vb.handle)
		vb.handle = 0
	}
}

// IndexBuffer holds uint32 triangle indices.
type IndexBuffer struct {
	dev    gpu.Device
	handle gpu.Handle
	count  int32
}

// NewIndexBuffer uploads index data.
func NewIndexBuffer(dev gpu.Device, indices []uint32) *IndexBuffer {
	return &IndexBuffer{
		dev:    dev,
		handle: dev.CreateIndexBuffer(indices),
		count:  int32(len(indices)),
	}
}

// Len returns the number of indices.
func (ib *IndexBuffer) Len() int32 { return ib.count }

// Bind binds the buffer as the element array.
func (ib *IndexBuffer) Bind() { ib.dev.BindBuffer(gpu.ElementArrayBuffer, ib.handle) }

// Release unbinds the element array.
func (ib *IndexBuffer) Release() { ib.dev.BindBuffer(gpu.ElementArrayBuffer, 0) }

// Destroy releases the buffer.
func (ib *IndexBuffer) Destroy() {
	if ib.handle != 0 {
		ib.dev.DeleteBuffer(ib.handle)
		ib.handle = 0
	}
}

// Mesh bundles a vertex array with its buffers for indexed drawing.
type Mesh struct {
	VAO *VertexArray
	VBO *VertexBuffer
	IBO *IndexBuffer
}

// NewMesh builds a vertex array from vertices and indices and wires its
// attributes against program.
func NewMesh(dev gpu.Device, program *shader.Program, layout Layout, vertices []float32, indices []uint32) *Mesh {
	m := &Mesh{VAO: NewVertexArray(dev)}
	m.VAO.Bind()
	m.VBO = NewVertexBuffer(dev, layout, vertices)
	m.VBO.BindToArray(program)
	m.IBO = NewIndexBuffer(dev, indices)
	m.VAO.Release()
	return m
}

// Draw binds the mesh and issues one indexed draw of all its indices.
func (m *Mesh) Draw(dev gpu.Device) {
	m.Bind()
	dev.DrawElements(m.IBO.Len())
	m.Release()
}

// Bind binds the vertex array and index buffer for repeated draws.
func (m *Mesh) Bind() {
	m.VAO.Bind()
	m.IBO.Bind()
}

// Release unbinds what Bind bound.
func (m *Mesh) Release() {
	m.IBO.Release()
	m.VAO.Release()
}

// Destroy releases all buffers.
func (m *Mesh) Destroy() {
	m.IBO.Destroy()
	m.VBO.Destroy()
	m.VAO.Destroy()
}

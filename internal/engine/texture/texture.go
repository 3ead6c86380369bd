// Package texture provides fixed-size 2D textures on a gpu.Device.
package texture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/logger"
)

// Texture is an owned 2D texture. Its size and format never change after
// creation.
type Texture struct {
	dev    gpu.Device
	handle gpu.Handle
	desc   gpu.TextureDesc
}

// New allocates a width×height texture of the given format.
func New(dev gpu.Device, width, height int, format gpu.Format) (*Texture, error) {
	desc := gpu.TextureDesc{Width: int32(width), Height: int32(height), Format: format}
	h, err := dev.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("creating texture: %w", err)
	}

	logger.Debug("texture created",
		zap.Uint32("handle", uint32(h)),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("format", int(format)),
	)
	return &Texture{dev: dev, handle: h, desc: desc}, nil
}

// NewDepth allocates a 32-bit float depth texture.
func NewDepth(dev gpu.Device, width, height int) (*Texture, error) {
	return New(dev, width, height, gpu.FormatDepth32F)
}

// Handle returns the device handle.
func (t *Texture) Handle() gpu.Handle {
	return t.handle
}

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) {
	return int(t.desc.Width), int(t.desc.Height)
}

// Format returns the storage format.
func (t *Texture) Format() gpu.Format {
	return t.desc.Format
}

// Upload replaces the texture contents. data must cover the whole texture;
// anything else is a programming error and panics.
func (t *Texture) Upload(data []float32) {
	if len(data) != t.desc.Len() {
		panic(fmt.Sprintf("texture: upload of %d values into %dx%d texture expecting %d",
			len(data), t.desc.Width, t.desc.Height, t.desc.Len()))
	}
	t.dev.UploadTexture(t.handle, t.desc, data)
}

// ReadFloats reads the texture back, row by row from the bottom.
func (t *Texture) ReadFloats() []float32 {
	data := make([]float32, t.desc.Len())
	t.dev.ReadTexture(t.handle, t.desc, data)
	return data
}

// Bind binds the texture to a texture unit index.
func (t *Texture) Bind(unit uint32) {
	t.dev.BindTexture(unit, t.handle)
}

// Destroy releases the texture. It is safe to call more than once.
func (t *Texture) Destroy() {
	if t.handle != 0 {
		t.dev.DeleteTexture(t.handle)
		t.handle = 0
	}
}

package bake

import (
	_ "embed"
	"fmt"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/quad"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/pkg/math"
)

//go:embed kernel_preview.frag
var kernelPreviewShader string

// kernelPreview draws the shadow kernel into an N×1 RGBA texture, one texel
// per sample: offsets scaled into [0, 1] in red and green, distance from the
// center in blue.
type kernelPreview struct {
	out  *texture.Texture
	quad *quad.Pass
}

func newKernelPreview(dev gpu.Device, samples int) (*kernelPreview, error) {
	out, err := texture.New(dev, samples, 1, gpu.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("kernel preview texture: %w", err)
	}
	q, err := quad.New(dev, "kernel_preview", kernelPreviewShader, []*texture.Texture{out}, nil, quad.Samples)
	if err != nil {
		out.Destroy()
		return nil, err
	}
	return &kernelPreview{out: out, quad: q}, nil
}

// Render draws the kernel of pass and reads the texels back as RGBA
// floats. width×height is the viewport restored afterwards.
func (k *kernelPreview) Render(pass *shadow.Pass, width, height int) ([]float32, error) {
	kernel := pass.Kernel()
	prog := k.quad.Program()
	pass.SetShadingUniforms(prog)
	prog.SetFloat("kernel_scale", kernelScale(kernel))

	if err := k.quad.Render(width, height, len(kernel), pass.Inputs()); err != nil {
		return nil, fmt.Errorf("kernel preview pass: %w", err)
	}
	return k.out.ReadFloats(), nil
}

func (k *kernelPreview) Destroy() {
	k.quad.Destroy()
	k.out.Destroy()
}

// kernelScale maps the farthest sample onto the unit circle. An empty or
// all-zero kernel keeps scale 1.
func kernelScale(kernel []math.Vec2) float32 {
	var r float32
	for _, s := range kernel {
		r = max(r, s.Length())
	}
	if r == 0 {
		return 1
	}
	return 1 / r
}

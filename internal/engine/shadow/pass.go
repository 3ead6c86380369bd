// Package shadow renders directional-light shadow maps and provides the
// Poisson-disk kernel used to soften them.
//
// A Pass owns one light's shadow texture. Update fits an orthographic light
// frustum around the scene bounds; Render fills the texture with linear
// light depth (normalized by Far) by running a clear quad pass followed by
// the caller's geometry. Shading stages read the result through
// ShadowTexture, Transform, Far and Kernel.
package shadow

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/quad"
	"github.com/Faultbox/umbra/internal/engine/renderpass"
	"github.com/Faultbox/umbra/internal/engine/shader"
	"github.com/Faultbox/umbra/internal/engine/texture"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// ErrNotUpdated is returned by Render before the first Update.
var ErrNotUpdated = errors.New("shadow: render before update")

// degenerateRadius is the scene radius below which Update warns.
const degenerateRadius float32 = 1e-6

var clearWhite = [4]float32{1, 1, 1, 1}

type options struct {
	rng            *rand.Rand
	sampleRadius   float32
	rejectionLimit int
}

// Option configures NewPass.
type Option func(*options)

// WithRand sets the random source for kernel generation. Without it the
// kernel is seeded from the clock.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSampleRadius sets the minimum kernel point separation (default 1).
func WithSampleRadius(r float32) Option {
	return func(o *options) { o.sampleRadius = r }
}

// WithRejectionLimit sets the candidates tried per active kernel point.
func WithRejectionLimit(k int) Option {
	return func(o *options) { o.rejectionLimit = k }
}

// Pass is the shadow map of one directional light.
type Pass struct {
	dev         gpu.Device
	log         *zap.Logger
	resolution  int
	sampleCount int

	tex       *texture.Texture
	depthTex  *texture.Texture
	kernelTex *texture.Texture

	geometry *renderpass.Pass
	clear    *quad.Pass

	frustum Frustum
	updated bool
	kernel  []math.Vec2
}

// NewPass allocates a resolution×resolution shadow map and generates a
// kernel of up to sampleCount points. A non-positive resolution or a
// negative sample count is a programming error and panics.
func NewPass(dev gpu.Device, resolution, sampleCount int, opts ...Option) (*Pass, error) {
	if resolution <= 0 {
		panic(fmt.Sprintf("shadow: resolution must be positive, got %d", resolution))
	}
	if sampleCount < 0 {
		panic(fmt.Sprintf("shadow: sample count must not be negative, got %d", sampleCount))
	}

	o := options{sampleRadius: 1, rejectionLimit: DefaultRejectionLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		seed := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	p := &Pass{
		dev:         dev,
		log:         logger.Named("shadow"),
		resolution:  resolution,
		sampleCount: sampleCount,
	}
	if err := p.create(); err != nil {
		p.Destroy()
		return nil, err
	}

	p.kernel = PoissonDisk(o.rng, sampleCount, o.sampleRadius, o.rejectionLimit)
	if len(p.kernel) > 0 {
		tex, err := texture.New(dev, len(p.kernel), 1, gpu.FormatRG32F)
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("creating kernel texture: %w", err)
		}
		tex.Upload(KernelData(p.kernel))
		p.kernelTex = tex
	}

	p.log.Info("shadow map created",
		zap.Int("resolution", resolution),
		zap.Int("samples_requested", sampleCount),
		zap.Int("samples", len(p.kernel)),
	)
	return p, nil
}

func (p *Pass) create() error {
	var err error
	if p.tex, err = texture.New(p.dev, p.resolution, p.resolution, gpu.FormatR32F); err != nil {
		return fmt.Errorf("creating shadow texture: %w", err)
	}
	if p.depthTex, err = texture.NewDepth(p.dev, p.resolution, p.resolution); err != nil {
		return fmt.Errorf("creating shadow depth attachment: %w", err)
	}

	outputs := []*texture.Texture{p.tex}
	p.geometry, err = renderpass.NewFromSource(p.dev, "shadow", GeometryVertexShader, GeometryFragmentShader, outputs, p.depthTex)
	if err != nil {
		return fmt.Errorf("creating shadow pass: %w", err)
	}
	p.clear, err = quad.New(p.dev, "clear_shadowmap", ClearFragmentShader, outputs, nil, quad.Full)
	if err != nil {
		return fmt.Errorf("creating shadow clear pass: %w", err)
	}
	return nil
}

// Update fits the light frustum around bounds for a light shining from
// lightDir (pointing from the scene towards the light). It must be called
// at least once before Render. Degenerate bounds are logged and stored as
// they are.
func (p *Pass) Update(bounds AABB, lightDir math.Vec3) {
	p.frustum = Fit(bounds, lightDir)
	p.updated = true

	if p.frustum.Radius < degenerateRadius {
		p.log.Warn("degenerate shadow bounds, projection is singular",
			zap.Float32("radius", p.frustum.Radius),
		)
	}
	forward := p.frustum.Forward.Array()
	p.log.Debug("shadow frustum updated",
		zap.Float32("radius", p.frustum.Radius),
		zap.Float32("far", p.frustum.Far),
		zap.Float32s("forward", forward[:]),
	)
}

// Render redraws the shadow texture: a clear quad pass followed by one call
// to drawer for GeometryPass. width×height is the viewport restored
// afterwards and aspect is forwarded to the geometry program as "vp_ratio".
//
// The depth-test flag and clear color are restored to their values before
// the call and the viewport is set to width×height on every exit path,
// including errors and panics from drawer. A nil drawer draws nothing.
func (p *Pass) Render(drawer Drawer, width, height int, aspect float32) error {
	if !p.updated {
		return ErrNotUpdated
	}

	prog := p.geometry.Program()
	prog.SetMat4("shadow_view", p.frustum.View)
	prog.SetMat4("shadow_proj", p.frustum.Proj)
	prog.SetFloat("shadow_far", p.frustum.Far)
	prog.SetFloat("vp_ratio", aspect)

	defer p.dev.SetViewport(gpu.Viewport(width, height))
	defer gpu.SaveCapability(p.dev, gpu.DepthTest)()
	defer gpu.WithClearColor(p.dev, clearWhite)()
	defer gpu.SaveCapability(p.dev, gpu.PolygonOffsetFill)()

	p.dev.SetViewport(gpu.Viewport(p.resolution, p.resolution))

	if err := p.clear.Render(p.resolution, p.resolution, p.resolution, nil); err != nil {
		return fmt.Errorf("shadow clear pass: %w", err)
	}

	err := p.geometry.Render(func(program *shader.Program) error {
		p.dev.Clear(gpu.DepthBuffer)
		p.dev.Enable(gpu.DepthTest)
		if drawer == nil {
			return nil
		}
		return drawer.DrawGeometry(program, GeometryPass)
	}, nil, false)
	if err != nil {
		return fmt.Errorf("shadow geometry pass: %w", err)
	}
	return nil
}

// Resolution returns the shadow map size in texels per side.
func (p *Pass) Resolution() int {
	return p.resolution
}

// SampleCount returns the requested kernel size.
func (p *Pass) SampleCount() int {
	return p.sampleCount
}

// ShadowTexture returns the R32F texture holding normalized light depth.
func (p *Pass) ShadowTexture() *texture.Texture {
	return p.tex
}

// Program returns the geometry pass program.
func (p *Pass) Program() *shader.Program {
	return p.geometry.Program()
}

// Updated reports whether Update has been called.
func (p *Pass) Updated() bool {
	return p.updated
}

// Frustum returns the last fitted light frustum.
func (p *Pass) Frustum() Frustum {
	return p.frustum
}

// View returns the light view transform.
func (p *Pass) View() math.Mat4 {
	return p.frustum.View
}

// Projection returns the light projection transform.
func (p *Pass) Projection() math.Mat4 {
	return p.frustum.Proj
}

// Transform returns the light-space transform (projection × view).
func (p *Pass) Transform() math.Mat4 {
	return p.frustum.Transform()
}

// Far returns the far plane distance used to normalize stored depth.
func (p *Pass) Far() float32 {
	return p.frustum.Far
}

// Kernel returns a copy of the zero-mean Poisson-disk kernel.
func (p *Pass) Kernel() []math.Vec2 {
	return append([]math.Vec2(nil), p.kernel...)
}

// KernelData returns the kernel flattened to x0, y0, x1, y1, ...
func (p *Pass) KernelData() []float32 {
	return KernelData(p.kernel)
}

// KernelTexture returns the kernel as an N×1 RG32F texture, or nil when the
// kernel is empty.
func (p *Pass) KernelTexture() *texture.Texture {
	return p.kernelTex
}

// Inputs returns the textures a shading pass samples, keyed by the sampler
// names used in shading programs.
func (p *Pass) Inputs() renderpass.Inputs {
	in := renderpass.Inputs{"shadow_map": p.tex}
	if p.kernelTex != nil {
		in["shadow_kernel_tex"] = p.kernelTex
	}
	return in
}

// SetShadingUniforms uploads the light transform, far plane and kernel to a
// program that samples this shadow map.
func (p *Pass) SetShadingUniforms(program *shader.Program) {
	program.SetMat4("shadow_transform", p.Transform())
	program.SetFloat("shadow_far", p.frustum.Far)
	program.SetInt("shadow_kernel_size", int32(len(p.kernel)))
	if len(p.kernel) > 0 {
		program.SetVec2Array("shadow_kernel", p.KernelData())
	}
}

// Destroy releases all GPU resources of the pass.
func (p *Pass) Destroy() {
	if p.clear != nil {
		p.clear.Destroy()
		p.clear = nil
	}
	if p.geometry != nil {
		p.geometry.Destroy()
		p.geometry = nil
	}
	for _, t := range []*texture.Texture{p.kernelTex, p.depthTex, p.tex} {
		if t != nil {
			t.Destroy()
		}
	}
}

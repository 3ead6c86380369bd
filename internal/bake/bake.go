// Package bake renders a scene's shadow map offline and writes the depth
// image and soft-shadow kernel to disk.
package bake

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/config"
	"github.com/Faultbox/umbra/internal/engine/debug"
	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/lighting"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/shadow"
	"github.com/Faultbox/umbra/internal/logger"
	"github.com/Faultbox/umbra/pkg/math"
)

// Result is the outcome of one bake.
type Result struct {
	Resolution int
	Depth      []float32
	LightDir   math.Vec3
	Transform  math.Mat4
	Far        float32
	Kernel     []math.Vec2
	// KernelPreview holds RGBA floats per kernel sample, nil when the
	// preview is off or the kernel is empty.
	KernelPreview []float32
}

// Artifacts lists the files written for a Result.
type Artifacts struct {
	DepthPNG   string
	DepthTIFF  string // empty when not configured
	KernelYAML string
	KernelPNG  string // empty when no preview was rendered
}

// Baker owns the shadow pass and scene for one configuration.
type Baker struct {
	cfg     *config.Config
	log     *zap.Logger
	scene   *scene.Scene
	pass    *shadow.Pass
	preview *kernelPreview
}

// New builds the shadow pass on dev and a scene from boxes.
func New(cfg *config.Config, dev gpu.Device, boxes []scene.Box) (*Baker, error) {
	opts := []shadow.Option{
		shadow.WithSampleRadius(cfg.Shadow.SampleRadius),
		shadow.WithRejectionLimit(cfg.Shadow.RejectionLimit),
	}
	if seed := cfg.Shadow.Seed; seed != 0 {
		opts = append(opts, shadow.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	pass, err := shadow.NewPass(dev, cfg.Shadow.Resolution, cfg.Shadow.SampleCount, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating shadow pass: %w", err)
	}

	b := &Baker{
		cfg:   cfg,
		log:   logger.Named("bake"),
		scene: scene.New(dev, boxes),
		pass:  pass,
	}
	if cfg.Output.KernelPNG != "" && pass.KernelTexture() != nil {
		b.preview, err = newKernelPreview(dev, len(pass.Kernel()))
		if err != nil {
			pass.Destroy()
			return nil, fmt.Errorf("creating kernel preview: %w", err)
		}
	}
	return b, nil
}

// Pass returns the shadow pass.
func (b *Baker) Pass() *shadow.Pass {
	return b.pass
}

// LightDirection returns the configured light direction.
func (b *Baker) LightDirection() math.Vec3 {
	l := b.cfg.Light
	return lighting.Direction(l.Direction, l.Longitude, l.Latitude)
}

// Bake fits the light to the scene, renders the shadow map and reads it
// back. width×height is the viewport restored after rendering.
func (b *Baker) Bake(width, height int, aspect float32) (*Result, error) {
	bounds := b.scene.Bounds()
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("scene has no geometry")
	}

	dir := b.LightDirection()
	b.pass.Update(bounds, dir)
	if err := b.pass.Render(b.scene, width, height, aspect); err != nil {
		return nil, err
	}

	res := &Result{
		Resolution: b.pass.Resolution(),
		Depth:      b.pass.ShadowTexture().ReadFloats(),
		LightDir:   dir,
		Transform:  b.pass.Transform(),
		Far:        b.pass.Far(),
		Kernel:     b.pass.Kernel(),
	}
	if b.preview != nil {
		preview, err := b.preview.Render(b.pass, width, height)
		if err != nil {
			return nil, err
		}
		res.KernelPreview = preview
	}
	b.log.Info("shadow map baked",
		zap.Int("resolution", res.Resolution),
		zap.Float32("far", res.Far),
		zap.Int("kernel_size", len(res.Kernel)),
	)
	return res, nil
}

// Write stores the depth image and kernel under the configured output
// directory.
func (b *Baker) Write(res *Result) (Artifacts, error) {
	out := b.cfg.Output
	a := Artifacts{
		DepthPNG:   filepath.Join(out.Dir, out.DepthPNG),
		KernelYAML: filepath.Join(out.Dir, out.KernelYAML),
	}

	if err := debug.SaveDepthPNG(a.DepthPNG, res.Depth, res.Resolution, res.Resolution); err != nil {
		return Artifacts{}, fmt.Errorf("writing depth image: %w", err)
	}
	if out.DepthTIFF != "" {
		a.DepthTIFF = filepath.Join(out.Dir, out.DepthTIFF)
		if err := debug.SaveDepthTIFF(a.DepthTIFF, res.Depth, res.Resolution, res.Resolution); err != nil {
			return Artifacts{}, fmt.Errorf("writing depth TIFF: %w", err)
		}
	}

	if len(res.KernelPreview) > 0 {
		a.KernelPNG = filepath.Join(out.Dir, out.KernelPNG)
		if err := debug.SaveColorPNG(a.KernelPNG, res.KernelPreview, len(res.Kernel), 1); err != nil {
			return Artifacts{}, fmt.Errorf("writing kernel preview: %w", err)
		}
	}

	kf := NewKernelFile(res, b.cfg.Shadow)
	if err := kf.Save(a.KernelYAML); err != nil {
		return Artifacts{}, fmt.Errorf("writing kernel: %w", err)
	}

	b.log.Info("artifacts written",
		zap.String("depth_png", a.DepthPNG),
		zap.String("depth_tiff", a.DepthTIFF),
		zap.String("kernel_yaml", a.KernelYAML),
		zap.String("kernel_png", a.KernelPNG),
	)
	return a, nil
}

// Close releases the scene, the kernel preview and the shadow pass.
func (b *Baker) Close() {
	if b.preview != nil {
		b.preview.Destroy()
	}
	b.scene.Destroy()
	b.pass.Destroy()
}

package bake

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/umbra/internal/config"
	"github.com/Faultbox/umbra/pkg/math"
)

// KernelFile is the YAML form of a baked kernel and the light transform it
// is used with.
type KernelFile struct {
	SampleCount  int          `yaml:"sample_count"`
	SampleRadius float32      `yaml:"sample_radius"`
	Seed         uint64       `yaml:"seed,omitempty"`
	LightDir     [3]float32   `yaml:"light_dir,flow"`
	Far          float32      `yaml:"far"`
	Transform    [16]float32  `yaml:"transform,flow"`
	Points       [][2]float32 `yaml:"points"`
}

// NewKernelFile captures res together with the shadow settings it was baked
// with.
func NewKernelFile(res *Result, shadowCfg config.ShadowConfig) KernelFile {
	points := make([][2]float32, len(res.Kernel))
	for i, p := range res.Kernel {
		points[i] = [2]float32{p.X, p.Y}
	}
	return KernelFile{
		SampleCount:  shadowCfg.SampleCount,
		SampleRadius: shadowCfg.SampleRadius,
		Seed:         shadowCfg.Seed,
		LightDir:     res.LightDir.Array(),
		Far:          res.Far,
		Transform:    res.Transform,
		Points:       points,
	}
}

// Kernel returns the points as vectors.
func (kf KernelFile) Kernel() []math.Vec2 {
	k := make([]math.Vec2, len(kf.Points))
	for i, p := range kf.Points {
		k[i] = math.Vec2{X: p[0], Y: p[1]}
	}
	return k
}

// Save writes the kernel file to path.
func (kf KernelFile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	data, err := yaml.Marshal(kf)
	if err != nil {
		return fmt.Errorf("marshaling kernel: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadKernelFile reads a kernel file written by Save.
func LoadKernelFile(path string) (KernelFile, error) {
	var kf KernelFile
	data, err := os.ReadFile(path)
	if err != nil {
		return kf, err
	}
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return kf, fmt.Errorf("parsing %s: %w", path, err)
	}
	return kf, nil
}

package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/umbra/pkg/math"
)

// Margin is the gap kept between the bounding sphere and the near plane,
// and again behind the far side of the sphere.
const Margin float32 = 0.01

// parallelEpsilon widens the parallel test so directions within float
// precision of the reference axis take the fallback.
const parallelEpsilon float32 = 1e-5

// Basis is an orthonormal light frame. Forward points from the scene
// towards the light.
type Basis struct {
	Right, Up, Forward math.Vec3
}

// LightBasis builds the light frame for a light direction. +Z is the
// reference up axis; when the direction is (nearly) parallel to it, +Y is
// used instead. Up is orthogonalized against forward and right = up × forward,
// so the basis is right-handed.
func LightBasis(lightDir math.Vec3) Basis {
	forward := lightDir.Normalize()

	up := math.UnitZ
	if math32.Abs(up.Dot(forward))+parallelEpsilon > 1 {
		up = math.UnitY
	}
	up = up.Sub(forward.Scale(up.Dot(forward))).Normalize()

	return Basis{
		Right:   up.Cross(forward),
		Up:      up,
		Forward: forward,
	}
}

// Frustum is an orthographic light frustum fitted around a scene.
type Frustum struct {
	Basis
	Center math.Vec3
	Radius float32
	// Position is the virtual light position the view transform looks from.
	Position math.Vec3
	View     math.Mat4
	Proj     math.Mat4
	// Far is the far plane distance, also used to normalize stored depth.
	Far float32
}

// Fit frames the bounding sphere of bounds from the direction lightDir,
// which points from the scene towards the light.
//
// A box with zero radius produces a singular projection. Fit does not
// guard against it; callers must not feed degenerate scenes.
func Fit(bounds AABB, lightDir math.Vec3) Frustum {
	center := bounds.Center()
	radius := bounds.Radius()
	basis := LightBasis(lightDir)

	pos := center.Add(basis.Forward.Scale(radius + Margin))
	translation := math.Vec3{
		X: -basis.Right.Dot(pos),
		Y: -basis.Up.Dot(pos),
		Z: -basis.Forward.Dot(pos),
	}
	far := 2*radius + 2*Margin

	return Frustum{
		Basis:    basis,
		Center:   center,
		Radius:   radius,
		Position: pos,
		View:     math.FromRows(basis.Right, basis.Up, basis.Forward, translation),
		Proj:     math.Ortho(-radius, radius, -radius, radius, Margin, far),
		Far:      far,
	}
}

// Transform returns the light-space transform (projection × view).
func (f Frustum) Transform() math.Mat4 {
	return f.Proj.Mul(f.View)
}

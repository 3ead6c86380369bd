package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I = %v, want %v", result, m)
	}
}

func TestOrthoMatchesMathGL(t *testing.T) {
	got := Ortho(-2, 2, -1.5, 1.5, 0.01, 4.02)
	want := mgl32.Ortho(-2, 2, -1.5, 1.5, 0.01, 4.02)
	for i := range got {
		if abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("Ortho[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestMulMatchesMathGL(t *testing.T) {
	a := Ortho(-1, 1, -1, 1, 0.5, 10)
	b := Translate(3, -2, 7)
	got := a.Mul(b)
	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))
	for i := range got {
		if abs(got[i]-want[i]) > 1e-5 {
			t.Errorf("Mul[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestFromRows(t *testing.T) {
	m := FromRows(UnitY, UnitZ, UnitX, Vec3{4, 5, 6})
	if m.Row3(0) != UnitY || m.Row3(1) != UnitZ || m.Row3(2) != UnitX {
		t.Errorf("rows = %v %v %v", m.Row3(0), m.Row3(1), m.Row3(2))
	}
	if m.Translation() != (Vec3{4, 5, 6}) {
		t.Errorf("Translation() = %v, want (4, 5, 6)", m.Translation())
	}
	if m.At(3, 3) != 1 || m.At(3, 0) != 0 {
		t.Error("last row should be (0, 0, 0, 1)")
	}
	// Row 0 picks Y.
	p := m.TransformPoint(Vec3{1, 2, 3})
	if p != (Vec3{6, 8, 7}) {
		t.Errorf("TransformPoint = %v, want (6, 8, 7)", p)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(5, 10, 15)
	tr := m.Transpose()
	if tr.At(0, 3) != 0 || tr.At(3, 0) != 5 || tr.At(3, 2) != 15 {
		t.Errorf("Transpose() = %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(Vec3{1, 2, 3})
	if result != (Vec3{11, 22, 33}) {
		t.Errorf("TransformPoint: got %v, want (11, 22, 33)", result)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestScaleMatchesMathGL(t *testing.T) {
	got := Translate(1, 2, 3).Mul(Scale(2, 0.5, 4))
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 0.5, 4))
	if got != Mat4(want) {
		t.Errorf("T*S = %v, want %v", got, want)
	}
	if p := got.TransformPoint(Vec3{1, 1, 1}); p != (Vec3{3, 2.5, 7}) {
		t.Errorf("TransformPoint = %v, want (3, 2.5, 7)", p)
	}
}

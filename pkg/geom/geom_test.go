package geom

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -2, Y: 0.5, Z: 4}

	if got := a.Add(b); got != (Vec3{X: -1, Y: 2.5, Z: 7}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Vec3{X: 3, Y: 1.5, Z: -1}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Dot(b); got != -2+1+12 {
		t.Errorf("Dot = %f", got)
	}
	if got := a.Scale(2); got != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Errorf("Scale = %+v", got)
	}
	if got := (Vec3{X: 3, Y: 4}).Length(); got != 5 {
		t.Errorf("Length = %f", got)
	}
	if got := a.LengthSq(); got != 14 {
		t.Errorf("LengthSq = %f", got)
	}
	if got := (Vec3{X: 1}).Cross(Vec3{Y: 1}); got != (Vec3{Z: 1}) {
		t.Errorf("Cross = %+v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{X: 0, Y: 3, Z: 4}.Normalize()
	if math.Abs(v.Length()-1) > 1e-15 {
		t.Errorf("normalized length = %f", v.Length())
	}
	if v != (Vec3{X: 0, Y: 0.6, Z: 0.8}) {
		t.Errorf("Normalize = %+v", v)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector normalized to %+v", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{X: 1, Y: -2, Z: 0}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	inf := math.Inf(1)
	for _, v := range []Vec3{{X: inf}, {Y: -inf}, {Z: inf}, {X: math.NaN()}} {
		if v.IsFinite() {
			t.Errorf("%+v reported finite", v)
		}
	}
}

func TestBox3Corners(t *testing.T) {
	b := NewBox3(0, 1, 10, 20, 100, 200)

	if got := b.Corner(0); got != (Vec3{X: 0, Y: 10, Z: 100}) {
		t.Errorf("corner 0 = %+v", got)
	}
	if got := b.Corner(7); got != (Vec3{X: 1, Y: 20, Z: 200}) {
		t.Errorf("corner 7 = %+v", got)
	}
	if got := b.Corner(5); got != (Vec3{X: 1, Y: 10, Z: 200}) {
		t.Errorf("corner 5 = %+v", got)
	}
	if got := b.Center(); got != (Vec3{X: 0.5, Y: 15, Z: 150}) {
		t.Errorf("center = %+v", got)
	}
}

func TestBox3EnlargeContains(t *testing.T) {
	b := NewBox3(0, 1, 0, 1, 0, 1)

	b = b.Enlarge(Vec3{X: 2, Y: -1, Z: 0.5})
	want := NewBox3(0, 2, -1, 1, 0, 1)
	if b != want {
		t.Errorf("Enlarge = %+v, want %+v", b, want)
	}

	if !b.Contains(Vec3{X: 1, Y: 0, Z: 0.5}) {
		t.Error("Contains missed an inside point")
	}
	if b.Contains(Vec3{X: 3, Y: 0, Z: 0.5}) {
		t.Error("Contains accepted an outside point")
	}

	// Non-finite points have no local representation and are skipped.
	if got := b.Enlarge(Vec3{X: math.Inf(1)}); got != b {
		t.Errorf("Enlarge with infinite point changed the box to %+v", got)
	}
}

func TestDistanceToInterval(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 0},
		{0, 0, 10, 0},
		{10, 0, 10, 0},
		{-3, 0, 10, 3},
		{14, 0, 10, 4},
	}
	for _, tt := range tests {
		if got := DistanceToInterval(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("DistanceToInterval(%f, %f, %f) = %f, want %f",
				tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestPlaneSignedDistance(t *testing.T) {
	// z = 5 plane with +z inside.
	p := PlaneFromPointNormal(Vec3{Z: 5}, Vec3{Z: 1})

	if got := p.SignedDistance(Vec3{Z: 8}); got != 3 {
		t.Errorf("inside distance = %f, want 3", got)
	}
	if got := p.SignedDistance(Vec3{Z: 2}); got != -3 {
		t.Errorf("outside distance = %f, want -3", got)
	}
	if got := p.SignedDistance(Vec3{X: 100, Y: -7, Z: 5}); got != 0 {
		t.Errorf("boundary distance = %f, want 0", got)
	}
}

func TestMat3(t *testing.T) {
	if got := Identity3().MulVec(Vec3{X: 1, Y: 2, Z: 3}); got != (Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("identity moved the vector: %+v", got)
	}

	c0 := Vec3{X: 1, Y: 2, Z: 3}
	c1 := Vec3{X: 0, Y: 1, Z: 0}
	c2 := Vec3{X: 0, Y: 0, Z: 2}
	m := Mat3FromColumns(c0, c1, c2)

	for i, want := range []Vec3{c0, c1, c2} {
		if got := m.Column(i); got != want {
			t.Errorf("column %d = %+v, want %+v", i, got, want)
		}
	}

	// m * e_x picks out the first column.
	if got := m.MulVec(Vec3{X: 1}); got != c0 {
		t.Errorf("MulVec(e_x) = %+v, want %+v", got, c0)
	}

	if got := m.MaxColumnNorm(); math.Abs(got-c0.Length()) > 1e-15 {
		t.Errorf("MaxColumnNorm = %f, want %f", got, c0.Length())
	}
	if got := m.MinColumnNorm(); got != 1 {
		t.Errorf("MinColumnNorm = %f, want 1", got)
	}
}

func TestFrustumFromLookAt(t *testing.T) {
	// Camera at the origin looking down -z, 90 degree square frustum.
	f := FrustumFromLookAt(Vec3{}, Vec3{Z: -1}, Vec3{Y: 1}, math.Pi/2, 1, 1, 100)

	inside := func(p Vec3) bool {
		for _, pl := range f {
			if pl.SignedDistance(p) < 0 {
				return false
			}
		}
		return true
	}

	if !inside(Vec3{Z: -50}) {
		t.Error("point on the view axis must be inside")
	}
	if inside(Vec3{Z: 50}) {
		t.Error("point behind the camera must be outside")
	}
	if inside(Vec3{Z: -0.5}) {
		t.Error("point before the near plane must be outside")
	}
	if inside(Vec3{Z: -200}) {
		t.Error("point past the far plane must be outside")
	}

	// With tan(45 degrees) = 1 the side boundaries are |x| = |z|, |y| = |z|.
	if !inside(Vec3{X: 40, Z: -50}) || !inside(Vec3{Y: -40, Z: -50}) {
		t.Error("point within the half-angle must be inside")
	}
	if inside(Vec3{X: 60, Z: -50}) || inside(Vec3{Y: -60, Z: -50}) {
		t.Error("point beyond the half-angle must be outside")
	}
}

func TestFrustumFarPlaneDisabled(t *testing.T) {
	f := FrustumFromLookAt(Vec3{}, Vec3{Z: -1}, Vec3{Y: 1}, math.Pi/2, 1, 1, 0)
	if f[5] != (Plane{}) {
		t.Errorf("far plane must stay zero when disabled, got %+v", f[5])
	}
	// A very distant point on the axis is still inside.
	p := Vec3{Z: -1e12}
	for i, pl := range f[:5] {
		if pl.SignedDistance(p) < 0 {
			t.Errorf("plane %d rejects a distant on-axis point", i)
		}
	}
}

package terrain

import (
	"math"

	"github.com/Faultbox/terralod/pkg/geom"
)

// SphericalDeformation maps a flat terrain square onto one face of a cube
// sphere of radius R: the local square is treated as the z = R face of a
// cube, projected onto the sphere, with local z becoming altitude above the
// surface. Adjacent cube faces unfold into the local coordinate planes, so
// DeformedToLocal is defined everywhere except the antipodal face.
type SphericalDeformation struct {
	// R is the planet radius at zero elevation.
	R float64
}

// LocalToDeformed projects the local point onto the sphere.
func (d SphericalDeformation) LocalToDeformed(p geom.Vec3) geom.Vec3 {
	return geom.Vec3{X: p.X, Y: p.Y, Z: d.R}.Normalize().Scale(d.R + p.Z)
}

// DeformedToLocal maps a deformed point back to local coordinates. Six
// mutually exclusive branches select the dominant cube face; the opposite
// pole has no local representation and maps to +Inf components.
func (d SphericalDeformation) DeformedToLocal(p geom.Vec3) geom.Vec3 {
	r := d.R
	alt := p.Length() - r
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)

	switch {
	case p.Z >= ax && p.Z >= ay:
		return geom.Vec3{X: p.X / p.Z * r, Y: p.Y / p.Z * r, Z: alt}
	case p.Z <= -ax && p.Z <= -ay:
		inf := math.Inf(1)
		return geom.Vec3{X: inf, Y: inf, Z: inf}
	case p.Y >= ax && p.Y >= az:
		return geom.Vec3{X: p.X / p.Y * r, Y: (2 - p.Z/p.Y) * r, Z: alt}
	case p.Y <= -ax && p.Y <= -az:
		return geom.Vec3{X: -p.X / p.Y * r, Y: (-2 - p.Z/p.Y) * r, Z: alt}
	case p.X >= ay && p.X >= az:
		return geom.Vec3{X: (2 - p.Z/p.X) * r, Y: p.Y / p.X * r, Z: alt}
	default:
		return geom.Vec3{X: (-2 - p.Z/p.X) * r, Y: -p.Y / p.X * r, Z: alt}
	}
}

// Differential returns the Jacobian of LocalToDeformed at p.
func (d SphericalDeformation) Differential(p geom.Vec3) geom.Mat3 {
	q := geom.Vec3{X: p.X, Y: p.Y, Z: d.R}
	l := q.Length()
	u := q.Scale(1 / l)
	s := (d.R + p.Z) / l

	// d(u*(R+z))/dx = (e_x - u*u.x)*(R+z)/l, same for y; d/dz = u.
	c0 := geom.Vec3{X: 1, Y: 0, Z: 0}.Sub(u.Scale(u.X)).Scale(s)
	c1 := geom.Vec3{X: 0, Y: 1, Z: 0}.Sub(u.Scale(u.Y)).Scale(s)
	return geom.Mat3FromColumns(c0, c1, u)
}

// DistFactor returns the largest stretch of the mapping at p. Local
// distances multiplied by this bound the corresponding deformed distances.
func (d SphericalDeformation) DistFactor(p geom.Vec3) float64 {
	if !p.IsFinite() {
		return 1
	}
	return d.Differential(p).MaxColumnNorm()
}

// Visibility classifies the deformed image of a local box against the
// frustum. A box that is axis-aligned in local space is curved after the
// spherical mapping, so the test uses the deformed bottom corners plus the
// same corners pushed to the top elevation, and adds a horizon check
// rejecting boxes entirely on the far side of the planet.
func (d SphericalDeformation) Visibility(n *Node, localBox geom.Box3) Visibility {
	if localBox.ZMin <= -d.R {
		// Degenerate elevation bounds, cannot scale from the bottom
		// shell; treat as potentially visible.
		return Partially
	}

	var pts [8]geom.Vec3
	pts[0] = d.LocalToDeformed(geom.Vec3{X: localBox.XMin, Y: localBox.YMin, Z: localBox.ZMin})
	pts[1] = d.LocalToDeformed(geom.Vec3{X: localBox.XMax, Y: localBox.YMin, Z: localBox.ZMin})
	pts[2] = d.LocalToDeformed(geom.Vec3{X: localBox.XMin, Y: localBox.YMax, Z: localBox.ZMin})
	pts[3] = d.LocalToDeformed(geom.Vec3{X: localBox.XMax, Y: localBox.YMax, Z: localBox.ZMin})

	// The top corners lie on the same rays, scaled to the top elevation.
	a := (d.R + localBox.ZMax) / (d.R + localBox.ZMin)
	for i := 0; i < 4; i++ {
		pts[i+4] = pts[i].Scale(a)
	}

	v := frustumVisibility(n.Frustum(), pts[:])
	if v == Invisible {
		return Invisible
	}
	if d.allBehindHorizon(n, pts[:]) {
		return Invisible
	}
	return v
}

// allBehindHorizon reports whether every point is hidden by the planet body
// from the current camera. The occluding sphere uses the terrain's global
// minimum elevation so valleys elsewhere can never be wrongly culled. The
// test compares squared distances only.
func (d SphericalDeformation) allBehindHorizon(n *Node, pts []geom.Vec3) bool {
	rb := d.R + n.Root.ZMin
	if rb <= 0 {
		return false
	}
	cam := n.DeformedCamera().Scale(1 / rb)
	cc := cam.LengthSq()
	if cc <= 1 {
		// Camera at or below the occluding sphere: no horizon.
		return false
	}
	for _, p := range pts {
		vt := p.Scale(1 / rb).Sub(cam)
		dot := -vt.Dot(cam)
		if dot <= cc-1 || dot*dot <= (cc-1)*vt.LengthSq() {
			return false
		}
	}
	return true
}

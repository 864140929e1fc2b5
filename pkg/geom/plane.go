package geom

// Plane is a half-space boundary ax + by + cz + d >= 0. The normal (a,b,c)
// points toward the inside of the half-space.
type Plane struct {
	A, B, C, D float64
}

// PlaneFromPointNormal builds the plane containing p with inward normal n.
func PlaneFromPointNormal(p, n Vec3) Plane {
	return Plane{n.X, n.Y, n.Z, -n.Dot(p)}
}

// SignedDistance returns the signed distance from p to the plane boundary,
// positive on the inside.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return pl.A*p.X + pl.B*p.Y + pl.C*p.Z + pl.D
}

// Frustum is the set of half-space planes bounding a view volume, in the
// deformed (world) coordinate space. Order: left, right, bottom, top, near,
// far. The far plane may be disabled by leaving it zero.
type Frustum [6]Plane

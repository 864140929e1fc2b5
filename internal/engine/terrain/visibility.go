// Package terrain implements the view-dependent LOD quadtree: quads that
// subdivide by camera distance, per-frame frustum and horizon occlusion
// culling, the flat-to-sphere deformations, and the tile samplers that keep
// the tile pipeline in sync with the quadtree.
package terrain

import "github.com/Faultbox/terralod/pkg/geom"

// Visibility classifies a bounding volume against the view frustum.
type Visibility int

const (
	// Invisible volumes are entirely outside the frustum or hidden
	// behind the horizon.
	Invisible Visibility = iota
	// Partially visible volumes intersect a frustum boundary; children
	// must be re-tested.
	Partially
	// Fully visible volumes are entirely inside the frustum; children
	// inherit the verdict without re-testing.
	Fully
)

func (v Visibility) String() string {
	switch v {
	case Invisible:
		return "invisible"
	case Partially:
		return "partially"
	case Fully:
		return "fully"
	}
	return "unknown"
}

// planeActive reports whether the plane carries a usable normal. A zero
// plane disables the test (commonly the far plane).
func planeActive(p geom.Plane) bool {
	return p.A != 0 || p.B != 0 || p.C != 0
}

// pointsVisibility classifies a point set against one half-space plane.
func pointsVisibility(p geom.Plane, pts []geom.Vec3) Visibility {
	inside, outside := 0, 0
	for _, pt := range pts {
		if p.SignedDistance(pt) >= 0 {
			inside++
		} else {
			outside++
		}
	}
	if outside == 0 {
		return Fully
	}
	if inside == 0 {
		return Invisible
	}
	return Partially
}

// frustumVisibility classifies a point hull against every active frustum
// plane.
func frustumVisibility(f geom.Frustum, pts []geom.Vec3) Visibility {
	result := Fully
	for _, p := range f {
		if !planeActive(p) {
			continue
		}
		switch pointsVisibility(p, pts) {
		case Invisible:
			return Invisible
		case Partially:
			result = Partially
		}
	}
	return result
}

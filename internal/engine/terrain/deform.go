package terrain

import "github.com/Faultbox/terralod/pkg/geom"

// Deformation maps logical (flat) terrain coordinates to the deformed space
// terrain is rendered in. Local x/y span the terrain extent and local z is
// the elevation above the reference surface.
type Deformation interface {
	// LocalToDeformed maps a local point to deformed space.
	LocalToDeformed(p geom.Vec3) geom.Vec3

	// DeformedToLocal maps a deformed point back to local space. Points
	// with no local representation (the far side of a sphere) map to
	// +Inf components; callers must check with IsFinite.
	DeformedToLocal(p geom.Vec3) geom.Vec3

	// Differential returns the linear approximation (Jacobian) of
	// LocalToDeformed at the given local point.
	Differential(p geom.Vec3) geom.Mat3

	// DistFactor returns the local-to-deformed distance correction at
	// the given local point, so subdivision thresholds measured in local
	// space stay visually consistent under a nonlinear mapping.
	DistFactor(p geom.Vec3) float64

	// Visibility classifies a local-space bounding box against the
	// node's current frustum, accounting for the deformation.
	Visibility(n *Node, localBox geom.Box3) Visibility
}

// IdentityDeformation renders terrain flat: local space is deformed space.
type IdentityDeformation struct{}

// LocalToDeformed returns p unchanged.
func (IdentityDeformation) LocalToDeformed(p geom.Vec3) geom.Vec3 { return p }

// DeformedToLocal returns p unchanged.
func (IdentityDeformation) DeformedToLocal(p geom.Vec3) geom.Vec3 { return p }

// Differential returns the identity matrix.
func (IdentityDeformation) Differential(geom.Vec3) geom.Mat3 { return geom.Identity3() }

// DistFactor returns 1: flat terrain needs no correction.
func (IdentityDeformation) DistFactor(geom.Vec3) float64 { return 1 }

// Visibility performs a plain box-versus-frustum test: with no deformation a
// local box stays an axis-aligned box.
func (IdentityDeformation) Visibility(n *Node, localBox geom.Box3) Visibility {
	var corners [8]geom.Vec3
	for i := range corners {
		corners[i] = localBox.Corner(i)
	}
	return frustumVisibility(n.Frustum(), corners[:])
}

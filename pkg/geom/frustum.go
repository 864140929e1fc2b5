package geom

import "math"

// FrustumFromLookAt builds the six frustum planes for a perspective camera
// at pos looking at target. fovY is the vertical field of view in radians,
// aspect the width/height ratio. far <= 0 disables the far plane.
func FrustumFromLookAt(pos, target, up Vec3, fovY, aspect, near, far float64) Frustum {
	f := target.Sub(pos).Normalize()
	r := f.Cross(up).Normalize()
	u := r.Cross(f)

	tanY := math.Tan(fovY / 2)
	tanX := tanY * aspect

	var fr Frustum
	// Side planes pass through the camera position; inward normals tilt
	// toward the view direction by the corresponding half-angle tangent.
	fr[0] = PlaneFromPointNormal(pos, r.Add(f.Scale(tanX)).Normalize())          // left
	fr[1] = PlaneFromPointNormal(pos, r.Scale(-1).Add(f.Scale(tanX)).Normalize()) // right
	fr[2] = PlaneFromPointNormal(pos, u.Add(f.Scale(tanY)).Normalize())          // bottom
	fr[3] = PlaneFromPointNormal(pos, u.Scale(-1).Add(f.Scale(tanY)).Normalize()) // top
	fr[4] = PlaneFromPointNormal(pos.Add(f.Scale(near)), f) // near
	if far > 0 {
		fr[5] = PlaneFromPointNormal(pos.Add(f.Scale(far)), f.Scale(-1)) // far
	}
	return fr
}

package geom

import "math"

// Box3 is an axis-aligned box in 3D space.
type Box3 struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// NewBox3 returns the box spanning the two corner points.
func NewBox3(xmin, xmax, ymin, ymax, zmin, zmax float64) Box3 {
	return Box3{xmin, xmax, ymin, ymax, zmin, zmax}
}

// Center returns the box center point.
func (b Box3) Center() Vec3 {
	return Vec3{(b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2, (b.ZMin + b.ZMax) / 2}
}

// Corner returns the i-th corner (i in [0,8)), bit 0 selecting X, bit 1 Y, bit 2 Z.
func (b Box3) Corner(i int) Vec3 {
	c := Vec3{b.XMin, b.YMin, b.ZMin}
	if i&1 != 0 {
		c.X = b.XMax
	}
	if i&2 != 0 {
		c.Y = b.YMax
	}
	if i&4 != 0 {
		c.Z = b.ZMax
	}
	return c
}

// Enlarge returns the smallest box containing both b and p. Points with
// non-finite components leave the box unchanged (no local representation).
func (b Box3) Enlarge(p Vec3) Box3 {
	if !p.IsFinite() {
		return b
	}
	return Box3{
		math.Min(b.XMin, p.X), math.Max(b.XMax, p.X),
		math.Min(b.YMin, p.Y), math.Max(b.YMax, p.Y),
		math.Min(b.ZMin, p.Z), math.Max(b.ZMax, p.Z),
	}
}

// Contains reports whether p lies inside the box.
func (b Box3) Contains(p Vec3) bool {
	return p.X >= b.XMin && p.X <= b.XMax &&
		p.Y >= b.YMin && p.Y <= b.YMax &&
		p.Z >= b.ZMin && p.Z <= b.ZMax
}

// DistanceToInterval returns the distance from v to the interval [lo, hi],
// zero when v lies inside it.
func DistanceToInterval(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

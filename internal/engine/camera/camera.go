// Package camera provides the interactive view controller for the terrain
// viewer.
package camera

import (
	"math"

	"github.com/Faultbox/terralod/pkg/geom"
)

// Orbit orbits around a center point, usually the planet center or the middle
// of a flat terrain. Mouse drag changes yaw and pitch, the wheel changes the
// distance multiplicatively so zooming feels uniform from orbit down to the
// surface.
type Orbit struct {
	// Center point to orbit around
	Center geom.Vec3

	// Spherical coordinates
	Distance float64 // Distance from center
	Pitch    float64 // Vertical angle (radians)
	Yaw      float64 // Horizontal angle (radians)

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbit creates an orbit camera at the given distance with default
// constraints and sensitivities.
func NewOrbit(center geom.Vec3, distance, minDistance, maxDistance float64) *Orbit {
	return &Orbit{
		Center:          center,
		Distance:        distance,
		Pitch:           0.5,
		Yaw:             0.0,
		MinDistance:     minDistance,
		MaxDistance:     maxDistance,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() geom.Vec3 {
	x := c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw)
	y := c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw)
	z := c.Distance * math.Sin(c.Pitch)
	return c.Center.Add(geom.Vec3{X: x, Y: y, Z: z})
}

// Up returns the camera up direction. The pitch clamp keeps the view axis
// away from the +Z pole, so a constant up is always valid.
func (c *Orbit) Up() geom.Vec3 {
	return geom.Vec3{Z: 1}
}

// HandleDrag updates yaw and pitch based on mouse drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float64) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Orbit) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the center point in the view's ground directions.
func (c *Orbit) HandleMovement(forward, right float64) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := math.Cos(c.Yaw)
	dirY := math.Sin(c.Yaw)

	c.Center.X += (-dirX*forward - dirY*right) * speed
	c.Center.Y += (-dirY*forward + dirX*right) * speed
}

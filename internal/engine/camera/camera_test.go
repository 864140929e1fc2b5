package camera

import (
	"math"
	"testing"

	"github.com/Faultbox/terralod/pkg/geom"
)

func TestOrbitPosition(t *testing.T) {
	c := NewOrbit(geom.Vec3{}, 1000, 100, 10000)
	c.Pitch = math.Pi / 2 // straight up (beyond the clamp, set directly)
	c.Yaw = 0

	p := c.Position()
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z-1000) > 1e-9 {
		t.Errorf("position at pitch pi/2 = %+v, want (0,0,1000)", p)
	}

	c.Pitch = 0
	p = c.Position()
	if math.Abs(p.X-1000) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("position at pitch 0 = %+v, want (1000,0,0)", p)
	}

	// Distance from the center is always the configured one.
	c.Pitch, c.Yaw = 0.7, 2.3
	c.Center = geom.Vec3{X: 50, Y: -20, Z: 5}
	if d := c.Position().Distance(c.Center); math.Abs(d-1000) > 1e-9 {
		t.Errorf("distance to center = %f, want 1000", d)
	}
}

func TestOrbitDragClampsPitch(t *testing.T) {
	c := NewOrbit(geom.Vec3{}, 1000, 100, 10000)

	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %f, want clamped to %f", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("pitch = %f, want clamped to %f", c.Pitch, c.MinPitch)
	}
}

func TestOrbitZoomClamps(t *testing.T) {
	c := NewOrbit(geom.Vec3{}, 1000, 100, 10000)

	c.HandleZoom(1)
	if c.Distance >= 1000 {
		t.Errorf("zooming in did not reduce distance: %f", c.Distance)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != 100 {
		t.Errorf("distance = %f, want clamped to 100", c.Distance)
	}
	for i := 0; i < 200; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != 10000 {
		t.Errorf("distance = %f, want clamped to 10000", c.Distance)
	}
}

func TestOrbitPan(t *testing.T) {
	c := NewOrbit(geom.Vec3{}, 1000, 100, 10000)
	c.Yaw = 0

	// Forward at yaw 0 moves the center along -X; altitude never changes.
	c.HandleMovement(1, 0)
	if c.Center.X >= 0 || c.Center.Y != 0 || c.Center.Z != 0 {
		t.Errorf("center after forward pan = %+v", c.Center)
	}

	x := c.Center.X
	c.HandleMovement(0, 1)
	if c.Center.X != x || c.Center.Y <= 0 {
		t.Errorf("center after right pan = %+v", c.Center)
	}
}

package terrain

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/terralod/pkg/geom"
)

// horizonSize is the azimuth resolution of the per-frame horizon buffer.
const horizonSize = 256

// Params configure a terrain node.
type Params struct {
	// RootSize is the edge length of the terrain square in local space.
	RootSize float64
	// RootOX, RootOY place the square's lower corner; a cube-sphere face
	// is centered on the origin with RootOX = RootOY = -RootSize/2.
	RootOX, RootOY float64
	// ZMin, ZMax bound all elevations the producers may synthesize.
	ZMin, ZMax float64
	// SplitDist is the subdivision threshold factor: a quad splits while
	// the camera is closer than SplitDist times its edge length.
	SplitDist float64
	// MaxLevel caps quadtree depth.
	MaxLevel int
	// SplitInvisibleQuads keeps refining outside the frustum, trading
	// memory for instant detail when the camera turns.
	SplitInvisibleQuads bool
	// HorizonCulling enables the per-azimuth horizon occlusion test.
	HorizonCulling bool
}

// Node owns one terrain quadtree and orchestrates a frame: it receives the
// camera and frustum, updates the quadtree, and runs its tile samplers in
// priority order so producers with dependencies always find them created.
//
// All shared state is passed explicitly at construction; a node never
// discovers collaborators at runtime.
type Node struct {
	SplitDist           float64
	MaxLevel            int
	SplitInvisibleQuads bool

	Root *Quad

	deform   Deformation
	samplers []Sampler
	log      *zap.Logger

	frame          int
	deformedCamera geom.Vec3
	localCamera    geom.Vec3
	distFactor     float64
	frustum        geom.Frustum

	useHorizon     bool
	horizonActive  bool
	horizon        [horizonSize]float64
}

// NewNode builds a terrain node over the given deformation.
func NewNode(deform Deformation, p Params, log *zap.Logger) *Node {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Node{
		SplitDist:           p.SplitDist,
		MaxLevel:            p.MaxLevel,
		SplitInvisibleQuads: p.SplitInvisibleQuads,
		deform:              deform,
		log:                 log,
		distFactor:          1,
		useHorizon:          p.HorizonCulling,
	}
	n.Root = newQuad(n, nil, 0, 0, 0, p.RootOX, p.RootOY, p.RootSize, p.ZMin, p.ZMax)
	return n
}

// Deformation returns the node's coordinate mapping.
func (n *Node) Deformation() Deformation {
	return n.deform
}

// AddSampler registers a tile sampler. Samplers run each frame in ascending
// priority order; a producer depending on another producer's tiles must use
// a sampler with a strictly higher priority value than its dependency's.
func (n *Node) AddSampler(s Sampler) {
	n.samplers = append(n.samplers, s)
	sort.SliceStable(n.samplers, func(i, j int) bool {
		return n.samplers[i].Priority() < n.samplers[j].Priority()
	})
}

// Frustum returns the frustum of the current frame.
func (n *Node) Frustum() geom.Frustum {
	return n.frustum
}

// DeformedCamera returns the camera position in deformed space.
func (n *Node) DeformedCamera() geom.Vec3 {
	return n.deformedCamera
}

// LocalCamera returns the camera position mapped to local space. Components
// are +Inf when the camera has no local representation.
func (n *Node) LocalCamera() geom.Vec3 {
	return n.localCamera
}

// Frame returns the number of completed updates.
func (n *Node) Frame() int {
	return n.frame
}

// Update runs one frame: quadtree subdivision and culling for the given
// viewpoint, then every sampler's release and request passes. Sampler errors
// are fatal (capacity or ordering defects) and abort the frame.
func (n *Node) Update(camera geom.Vec3, frustum geom.Frustum) error {
	n.deformedCamera = camera
	n.frustum = frustum
	n.localCamera = n.deform.DeformedToLocal(camera)

	n.distFactor = 1
	if n.localCamera.IsFinite() {
		n.distFactor = n.deform.DistFactor(n.localCamera)
	}

	// The horizon buffer is rebuilt from scratch every frame; it is only
	// meaningful while the camera is below the highest terrain.
	n.horizonActive = n.useHorizon && n.localCamera.IsFinite() &&
		n.localCamera.Z <= n.Root.ZMax
	if n.horizonActive {
		for i := range n.horizon {
			n.horizon[i] = math.Inf(-1)
		}
	}

	n.Root.update()

	for _, s := range n.samplers {
		if err := s.Update(n.Root); err != nil {
			n.log.Error("sampler update failed", zap.Error(err))
			return err
		}
	}
	n.frame++
	return nil
}

// DrawableLeaves visits every quad flagged drawable this frame.
func (n *Node) DrawableLeaves(fn func(*Quad)) {
	n.Root.walk(func(q *Quad) {
		if q.Drawable {
			fn(q)
		}
	})
}

// QuadCount returns the number of live quads.
func (n *Node) QuadCount() int {
	count := 0
	n.Root.walk(func(*Quad) { count++ })
	return count
}

// cameraDist returns the deformation-corrected distance from the camera to a
// local-space box, measured with the Chebyshev metric the split criterion
// uses.
func (n *Node) cameraDist(box geom.Box3) float64 {
	cam := n.localCamera
	if !cam.IsFinite() {
		return math.Inf(1)
	}
	dx := geom.DistanceToInterval(cam.X, box.XMin, box.XMax)
	dy := geom.DistanceToInterval(cam.Y, box.YMin, box.YMax)
	dz := geom.DistanceToInterval(cam.Z, box.ZMin, box.ZMax)
	return math.Max(dx, math.Max(dy, dz)) * n.distFactor
}

// horizonSpan projects a box onto the horizon buffer: the bucket interval
// its azimuth range covers and its top slopes as seen from the camera.
// minTop is the largest slope guaranteed blocked by the box, maxTop the
// largest slope any part of the box reaches. ok is false when the camera is
// over the box or the span is too wide to be useful.
func (n *Node) horizonSpan(box geom.Box3) (lo, hi int, minTop, maxTop float64, ok bool) {
	cam := n.localCamera
	var angles [4]float64
	minTop = math.Inf(1)
	maxTop = math.Inf(-1)

	for i := 0; i < 4; i++ {
		x := box.XMin
		if i&1 != 0 {
			x = box.XMax
		}
		y := box.YMin
		if i&2 != 0 {
			y = box.YMax
		}
		dx := x - cam.X
		dy := y - cam.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			return 0, 0, 0, 0, false
		}
		angles[i] = math.Atan2(dy, dx)
		top := (box.ZMax - cam.Z) / d
		minTop = math.Min(minTop, top)
		maxTop = math.Max(maxTop, top)
	}

	// Wrap-safe interval: widen from the first corner's azimuth.
	ref := angles[0]
	minD, maxD := 0.0, 0.0
	for _, a := range angles[1:] {
		delta := math.Mod(a-ref+3*math.Pi, 2*math.Pi) - math.Pi
		minD = math.Min(minD, delta)
		maxD = math.Max(maxD, delta)
	}
	if maxD-minD >= math.Pi {
		// Box surrounds the camera; no meaningful azimuth span.
		return 0, 0, 0, 0, false
	}

	toBucket := func(a float64) int {
		f := (a + math.Pi) / (2 * math.Pi)
		b := int(f*horizonSize) % horizonSize
		if b < 0 {
			b += horizonSize
		}
		return b
	}
	return toBucket(ref + minD), toBucket(ref + maxD), minTop, maxTop, true
}

// addOccluder registers a visible quad's box in the horizon buffer and
// reports whether the box itself is hidden by previously added, nearer
// occluders. Quads must be added front to back.
func (n *Node) addOccluder(box geom.Box3) bool {
	if !n.horizonActive {
		return false
	}
	lo, hi, minTop, maxTop, ok := n.horizonSpan(box)
	if !ok {
		return false
	}
	occluded := true
	i := lo
	for {
		if n.horizon[i] < maxTop {
			occluded = false
		}
		n.horizon[i] = math.Max(n.horizon[i], minTop)
		if i == hi {
			break
		}
		i = (i + 1) % horizonSize
	}
	return occluded
}

// isOccluded reports whether the box lies entirely below the horizon built
// from the occluders added so far this frame.
func (n *Node) isOccluded(box geom.Box3) bool {
	if !n.horizonActive {
		return false
	}
	lo, hi, _, maxTop, ok := n.horizonSpan(box)
	if !ok {
		return false
	}
	i := lo
	for {
		if n.horizon[i] < maxTop {
			return false
		}
		if i == hi {
			break
		}
		i = (i + 1) % horizonSize
	}
	return true
}

package terrain

import "github.com/Faultbox/terralod/pkg/geom"

// Quad is a node of the view-dependent terrain quadtree. Logical coordinates
// (Level, TX, TY) follow the tile addressing scheme; the physical extent is
// the square [OX, OX+Length] x [OY, OY+Length] in local space with elevation
// bounds [ZMin, ZMax].
//
// Children exist only while the split criterion holds: Update subdivides and
// merges as the camera moves. A subtree is always released as a whole.
type Quad struct {
	owner  *Node
	parent *Quad

	Level int
	TX    int
	TY    int

	OX     float64
	OY     float64
	Length float64
	ZMin   float64
	ZMax   float64

	children [4]*Quad

	// Visible is the frustum verdict of the current frame.
	Visible Visibility
	// Occluded is the horizon occlusion verdict. It is re-tested only
	// while it holds; a quad that was visible last frame is assumed
	// still unoccluded until it registers as an occluder again.
	Occluded bool
	// Drawable marks leaves the renderer should draw this frame.
	Drawable bool
}

func newQuad(owner *Node, parent *Quad, level, tx, ty int, ox, oy, length, zmin, zmax float64) *Quad {
	return &Quad{
		owner:  owner,
		parent: parent,
		Level:  level,
		TX:     tx,
		TY:     ty,
		OX:     ox,
		OY:     oy,
		Length: length,
		ZMin:   zmin,
		ZMax:   zmax,
	}
}

// IsLeaf reports whether the quad currently has no children.
func (q *Quad) IsLeaf() bool {
	return q.children[0] == nil
}

// Child returns the i-th child: 0 = (2tx, 2ty), 1 = (2tx+1, 2ty),
// 2 = (2tx, 2ty+1), 3 = (2tx+1, 2ty+1). Nil on leaves.
func (q *Quad) Child(i int) *Quad {
	return q.children[i]
}

// Box returns the quad's local-space bounding box.
func (q *Quad) Box() geom.Box3 {
	return geom.NewBox3(q.OX, q.OX+q.Length, q.OY, q.OY+q.Length, q.ZMin, q.ZMax)
}

// update recomputes visibility, occlusion and the subdivision state for this
// quad and its subtree.
func (q *Quad) update() {
	if q.parent == nil {
		q.Visible = q.owner.deform.Visibility(q.owner, q.Box())
	} else {
		switch q.parent.Visible {
		case Invisible:
			q.Visible = Invisible
		case Fully:
			q.Visible = Fully
		default:
			q.Visible = q.owner.deform.Visibility(q.owner, q.Box())
		}
	}

	// Reuse last frame's occlusion verdict: re-test only quads that were
	// occluded, so a quad stays hidden until proven visible again.
	if q.Visible != Invisible && q.Occluded {
		q.Occluded = q.owner.isOccluded(q.Box())
		if q.Occluded {
			q.Visible = Invisible
		}
	}

	dist := q.owner.cameraDist(q.Box())

	split := (q.owner.SplitInvisibleQuads || q.Visible != Invisible) &&
		dist < q.Length*q.owner.SplitDist &&
		q.Level < q.owner.MaxLevel

	if split {
		if q.IsLeaf() {
			q.subdivide()
		}
		q.Drawable = false
		for _, i := range q.childOrder() {
			q.children[i].update()
		}
		// A more precise verdict for next frame: the quad is occluded
		// iff all its children are.
		q.Occluded = q.children[0].Occluded && q.children[1].Occluded &&
			q.children[2].Occluded && q.children[3].Occluded
		return
	}

	if q.Visible != Invisible {
		// Occluders accumulate front to back: the quad can only be
		// hidden by previously added, nearer terrain.
		q.Occluded = q.owner.addOccluder(q.Box())
		if q.Occluded {
			q.Visible = Invisible
		}
	}
	q.Drawable = q.Visible != Invisible
	if !q.IsLeaf() {
		q.release()
	}
}

// subdivide creates the four children, inheriting the parent's elevation
// bounds until a producer refines them.
func (q *Quad) subdivide() {
	half := q.Length / 2
	level := q.Level + 1
	q.children[0] = newQuad(q.owner, q, level, 2*q.TX, 2*q.TY, q.OX, q.OY, half, q.ZMin, q.ZMax)
	q.children[1] = newQuad(q.owner, q, level, 2*q.TX+1, 2*q.TY, q.OX+half, q.OY, half, q.ZMin, q.ZMax)
	q.children[2] = newQuad(q.owner, q, level, 2*q.TX, 2*q.TY+1, q.OX, q.OY+half, half, q.ZMin, q.ZMax)
	q.children[3] = newQuad(q.owner, q, level, 2*q.TX+1, 2*q.TY+1, q.OX+half, q.OY+half, half, q.ZMin, q.ZMax)
}

// release destroys the whole subtree below this quad.
func (q *Quad) release() {
	for i, c := range q.children {
		if c != nil {
			c.release()
			q.children[i] = nil
		}
	}
}

// childOrder returns the near-to-far traversal order of the children, picked
// by which quadrant of the quad the camera's local XY position falls into.
// The order matters twice: occluders must accumulate front to back, and LOD
// refinement should reach the nearest terrain first.
func (q *Quad) childOrder() [4]int {
	cam := q.owner.LocalCamera()
	cx := q.OX + q.Length/2
	cy := q.OY + q.Length/2
	if cam.Y < cy {
		if cam.X < cx {
			return [4]int{0, 1, 2, 3}
		}
		return [4]int{1, 0, 3, 2}
	}
	if cam.X < cx {
		return [4]int{2, 3, 0, 1}
	}
	return [4]int{3, 2, 1, 0}
}

// walk visits the quad and its live descendants depth-first.
func (q *Quad) walk(fn func(*Quad)) {
	fn(q)
	for _, c := range q.children {
		if c != nil {
			c.walk(fn)
		}
	}
}

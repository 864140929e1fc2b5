package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terralod/internal/engine/tile"
)

// Sampler is the per-frame contract a terrain node drives: release tiles no
// longer needed, then request and create the tiles the current quadtree
// shape requires. Samplers with different payload types share this
// interface; the node runs them in ascending Priority order.
type Sampler interface {
	Priority() int
	Update(root *Quad) error
}

// SamplerOptions tune which quads a sampler keeps tiles for.
type SamplerOptions struct {
	// Priority orders samplers within a frame. A sampler whose producer
	// depends on another producer's tiles needs a higher value than the
	// dependency's sampler.
	Priority int
	// StoreLeaf keeps tiles for leaf quads (the common case).
	StoreLeaf bool
	// StoreParent keeps tiles for subdivided quads too, e.g. for
	// cross-level blending.
	StoreParent bool
	// StoreInvisible keeps tiles for quads culled this frame.
	StoreInvisible bool
}

// DefaultSamplerOptions store tiles for leaf and parent quads.
func DefaultSamplerOptions(priority int) SamplerOptions {
	return SamplerOptions{Priority: priority, StoreLeaf: true, StoreParent: true}
}

// shadowNode mirrors a terrain quad in a sampler's internal tree, holding
// the tile reference for that quad. The shadow tree only exists where tiles
// are needed and is always a subset of the live quadtree.
type shadowNode[T any] struct {
	tile     *tile.Tile[T]
	children [4]*shadowNode[T]
}

// TileSampler reconciles its shadow tree against the live quadtree every
// frame, releasing tiles of deleted or unneeded quads and creating tiles for
// new ones. Tile creation is eager and synchronous: a requested tile is
// always ready before the frame renders.
type TileSampler[T any] struct {
	producer *tile.Producer[T]
	opts     SamplerOptions
	root     *shadowNode[T]
	log      *zap.Logger
}

// NewTileSampler creates a sampler over the given producer. A nil logger
// disables logging.
func NewTileSampler[T any](p *tile.Producer[T], opts SamplerOptions, log *zap.Logger) *TileSampler[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &TileSampler[T]{
		producer: p,
		opts:     opts,
		root:     &shadowNode[T]{},
		log:      log,
	}
}

// Priority implements Sampler.
func (s *TileSampler[T]) Priority() int {
	return s.opts.Priority
}

// Producer returns the tile producer this sampler drives.
func (s *TileSampler[T]) Producer() *tile.Producer[T] {
	return s.producer
}

// Update implements Sampler: the release pass first, so freed tiles can be
// evicted for the tiles the request pass creates.
func (s *TileSampler[T]) Update(root *Quad) error {
	s.putTiles(s.root, root)
	return s.getTiles(s.root, root)
}

// needTile decides whether the quad should hold a tile this frame. The root
// tile is always kept: every consumer falls back to it.
func (s *TileSampler[T]) needTile(q *Quad) bool {
	need := q.Level == 0 ||
		(s.opts.StoreLeaf && q.IsLeaf()) ||
		(s.opts.StoreParent && !q.IsLeaf())
	if need && !s.opts.StoreInvisible && q.Visible == Invisible {
		need = q.Level == 0
	}
	return need && s.producer.HasTile(q.Level, q.TX, q.TY)
}

// putTiles walks the shadow tree in lock-step with the live quadtree,
// releasing tiles for quads that no longer need one and deleting shadow
// subtrees below quads that merged.
func (s *TileSampler[T]) putTiles(t *shadowNode[T], q *Quad) {
	if t.tile != nil && !s.needTile(q) {
		s.producer.PutTile(t.tile)
		t.tile = nil
	}
	if q.IsLeaf() {
		for i, c := range t.children {
			if c != nil {
				s.recursiveDelete(c)
				t.children[i] = nil
			}
		}
		return
	}
	for i := range t.children {
		qc := q.Child(i)
		if !s.producer.HasTile(qc.Level, qc.TX, qc.TY) {
			if t.children[i] != nil {
				s.recursiveDelete(t.children[i])
				t.children[i] = nil
			}
			continue
		}
		if t.children[i] == nil {
			t.children[i] = &shadowNode[T]{}
		}
		s.putTiles(t.children[i], qc)
	}
}

// getTiles requests every tile the shadow tree still needs and runs pending
// creation tasks inline.
func (s *TileSampler[T]) getTiles(t *shadowNode[T], q *Quad) error {
	if t.tile == nil && s.needTile(q) {
		tt, err := s.producer.GetTile(q.Level, q.TX, q.TY)
		if err != nil {
			return fmt.Errorf("sampler %s: quad %d/%d/%d: %w",
				s.producer.Name(), q.Level, q.TX, q.TY, err)
		}
		t.tile = tt
	}
	if t.tile != nil && !t.tile.Done() {
		if err := t.tile.CreateTile(); err != nil {
			return fmt.Errorf("sampler %s: creating %s: %w",
				s.producer.Name(), t.tile.Key, err)
		}
	}
	for i, c := range t.children {
		if c == nil {
			continue
		}
		if err := s.getTiles(c, q.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

// recursiveDelete returns the subtree's tiles to the producer and drops the
// nodes.
func (s *TileSampler[T]) recursiveDelete(t *shadowNode[T]) {
	if t.tile != nil {
		s.producer.PutTile(t.tile)
		t.tile = nil
	}
	for i, c := range t.children {
		if c != nil {
			s.recursiveDelete(c)
			t.children[i] = nil
		}
	}
}

// TileAt returns the tile bound to the given quad coordinates, walking down
// the shadow tree, or nil when the sampler holds none. Falls back to the
// deepest ancestor tile when exact is false.
func (s *TileSampler[T]) TileAt(level, tx, ty int, exact bool) *tile.Tile[T] {
	t := s.root
	best := t.tile
	for l := level - 1; l >= 0; l-- {
		i := (tx>>uint(l))&1 + 2*((ty>>uint(l))&1)
		if t.children[i] == nil {
			t = nil
			break
		}
		t = t.children[i]
		if t.tile != nil {
			best = t.tile
		}
	}
	if t != nil && t.tile != nil {
		return t.tile
	}
	if exact {
		return nil
	}
	return best
}

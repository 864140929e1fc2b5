package tile

import (
	"errors"
	"fmt"
)

// Producer errors.
var (
	// ErrMissingDependency is returned when a producer needs another
	// producer's tile that should already exist but does not. This is an
	// ordering contract violation (wrong sampler priority), not a
	// transient condition, and must not be retried.
	ErrMissingDependency = errors.New("dependency tile not created")

	// ErrStorageMismatch is returned at construction when a producer's
	// tile layout does not fit the storage it is bound to.
	ErrStorageMismatch = errors.New("producer layout does not match storage slot size")
)

// Filler is the producer-specific data generation strategy. Fill writes the
// content of tile (level, tx, ty) into the given slots; the engine does not
// interpret the content. TileSize is the number of usable samples per tile
// edge and Border the number of duplicated neighbor samples padded around
// them, so dependent producers can sample across tile edges without loading
// neighbor tiles. SlotSize is the payload size Fill expects per slot, checked
// against the storage at construction.
type Filler[T any] interface {
	TileSize() int
	Border() int
	SlotSize() int
	Fill(level, tx, ty int, slots []*Slot[T]) error
}

// Coverage is an optional Filler extension for producers that do not have
// data everywhere (bounded extent, maximum level).
type Coverage interface {
	HasTile(level, tx, ty int) bool
}

// Producer binds a Filler to a Cache and forwards tile operations under the
// producer id the cache assigned. Concrete producers (elevation, normals,
// imagery) are Fillers; Producer carries everything they share.
type Producer[T any] struct {
	id     int
	name   string
	cache  *Cache[T]
	filler Filler[T]
}

// NewProducer registers the filler with the cache and validates its layout
// against the cache's storage. A mismatch is fatal at initialization: no
// tile may be produced into slots of the wrong size.
func NewProducer[T any](name string, cache *Cache[T], f Filler[T]) (*Producer[T], error) {
	if f.SlotSize() != cache.Storage().SlotSize() {
		return nil, fmt.Errorf("producer %s: %w: need %d, storage has %d",
			name, ErrStorageMismatch, f.SlotSize(), cache.Storage().SlotSize())
	}
	return &Producer[T]{
		id:     cache.InsertProducer(f),
		name:   name,
		cache:  cache,
		filler: f,
	}, nil
}

// ID returns the producer id assigned by the cache.
func (p *Producer[T]) ID() int {
	return p.id
}

// Name returns the producer name used in logs and errors.
func (p *Producer[T]) Name() string {
	return p.name
}

// Cache returns the tile cache this producer is bound to.
func (p *Producer[T]) Cache() *Cache[T] {
	return p.cache
}

// TileSize returns the filler's usable tile edge size.
func (p *Producer[T]) TileSize() int {
	return p.filler.TileSize()
}

// Border returns the filler's border sample count.
func (p *Producer[T]) Border() int {
	return p.filler.Border()
}

// HasTile reports whether this producer can create the given tile. Producers
// with bounded coverage implement Coverage on their filler; everyone else
// has data everywhere.
func (p *Producer[T]) HasTile(level, tx, ty int) bool {
	if cov, ok := p.filler.(Coverage); ok {
		return cov.HasTile(level, tx, ty)
	}
	return true
}

// HasChildren reports whether the four child tiles of (level, tx, ty) can be
// created.
func (p *Producer[T]) HasChildren(level, tx, ty int) bool {
	return p.HasTile(level+1, 2*tx, 2*ty) &&
		p.HasTile(level+1, 2*tx+1, 2*ty) &&
		p.HasTile(level+1, 2*tx, 2*ty+1) &&
		p.HasTile(level+1, 2*tx+1, 2*ty+1)
}

// GetTile fetches or creates the tile, incrementing its user count.
func (p *Producer[T]) GetTile(level, tx, ty int) (*Tile[T], error) {
	t, err := p.cache.GetTile(p.id, level, tx, ty)
	if err != nil {
		return nil, fmt.Errorf("producer %s: %w", p.name, err)
	}
	return t, nil
}

// PutTile releases one reference to the tile.
func (p *Producer[T]) PutTile(t *Tile[T]) {
	p.cache.PutTile(t)
}

// FindTile looks a tile up without touching reference counts.
func (p *Producer[T]) FindTile(level, tx, ty int, includeUnused bool) *Tile[T] {
	return p.cache.FindTile(p.id, level, tx, ty, includeUnused)
}

// FindDoneTile returns the tile only if it exists and its data has been
// generated. Producers depending on another producer's output use this and
// treat a nil result as ErrMissingDependency.
func (p *Producer[T]) FindDoneTile(level, tx, ty int) (*Tile[T], error) {
	t := p.cache.FindTile(p.id, level, tx, ty, true)
	if t == nil || !t.Done() {
		return nil, fmt.Errorf("producer %s: tile %d/%d/%d: %w",
			p.name, level, tx, ty, ErrMissingDependency)
	}
	return t, nil
}

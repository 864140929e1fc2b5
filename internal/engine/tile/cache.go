package tile

import (
	"container/list"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Cache errors.
var (
	// ErrCacheSaturated is returned when a new tile is needed, the slot
	// pool is exhausted and every existing tile is still referenced. This
	// is a configuration defect (too many concurrently visible tiles for
	// the pool size), never a transient condition.
	ErrCacheSaturated = errors.New("tile cache saturated: no free slot and no evictable tile")

	// ErrUnknownProducer is returned when a tile is requested for a
	// producer id that was never registered with the cache.
	ErrUnknownProducer = errors.New("unknown producer id")
)

// Cache owns a slot storage and the tiles built from it. Used tiles (users
// > 0) live in a map; unused tiles are kept valid in LRU order and are
// reclaimed one at a time when a new tile is needed and no free slot
// remains. The cache never holds more live tiles than slots exist.
type Cache[T any] struct {
	name         string
	storage      *Storage[T]
	slotsPerTile int

	used       map[Key]*Tile[T]
	unused     map[Key]*list.Element
	unusedList *list.List // front = most recently unused, back = eviction candidate

	fillers []Filler[T]

	created  int
	evicted  int
	maxUsed  int
	log      *zap.Logger
}

// NewCache creates a tile cache over the given storage. slotsPerTile is the
// number of slots bound to each tile (one per storage use a producer makes).
// A nil logger disables logging.
func NewCache[T any](name string, storage *Storage[T], slotsPerTile int, log *zap.Logger) *Cache[T] {
	if log == nil {
		log = zap.NewNop()
	}
	if slotsPerTile < 1 {
		slotsPerTile = 1
	}
	return &Cache[T]{
		name:         name,
		storage:      storage,
		slotsPerTile: slotsPerTile,
		used:         make(map[Key]*Tile[T]),
		unused:       make(map[Key]*list.Element),
		unusedList:   list.New(),
		log:          log,
	}
}

// Name returns the cache name used in logs and errors.
func (c *Cache[T]) Name() string {
	return c.name
}

// Storage returns the slot pool backing this cache.
func (c *Cache[T]) Storage() *Storage[T] {
	return c.storage
}

// InsertProducer registers a filler and returns its producer id, scoped to
// this cache. Multiple producers may share one cache; tile keys embed the
// producer id so their tiles never collide.
func (c *Cache[T]) InsertProducer(f Filler[T]) int {
	c.fillers = append(c.fillers, f)
	return len(c.fillers) - 1
}

// GetTile returns the tile for the given key, incrementing its user count.
// A tile found in the unused list is revived. A missing tile is built from
// free slots, evicting the least recently unused tile when the pool is
// exhausted. When no tile is evictable either, ErrCacheSaturated is
// returned and no live tile is disturbed.
func (c *Cache[T]) GetTile(producer, level, tx, ty int) (*Tile[T], error) {
	key := Key{Producer: producer, ID: ID{Level: level, TX: tx, TY: ty}}

	if t, ok := c.used[key]; ok {
		t.users++
		return t, nil
	}
	if e, ok := c.unused[key]; ok {
		t := e.Value.(*Tile[T])
		c.unusedList.Remove(e)
		delete(c.unused, key)
		t.users = 1
		c.used[key] = t
		return t, nil
	}

	if producer < 0 || producer >= len(c.fillers) {
		return nil, fmt.Errorf("cache %s: %w: %d", c.name, ErrUnknownProducer, producer)
	}

	slots, err := c.takeSlots(key)
	if err != nil {
		return nil, err
	}

	f := c.fillers[producer]
	task := &CreateTask[T]{run: func() error {
		return f.Fill(level, tx, ty, slots)
	}}
	t := newTile(key, slots, task)
	t.users = 1
	c.used[key] = t
	c.created++
	if len(c.used) > c.maxUsed {
		c.maxUsed = len(c.used)
	}
	return t, nil
}

// takeSlots allocates slotsPerTile slots, evicting unused tiles as needed.
func (c *Cache[T]) takeSlots(key Key) ([]*Slot[T], error) {
	slots := make([]*Slot[T], 0, c.slotsPerTile)
	for len(slots) < c.slotsPerTile {
		slot := c.storage.NewSlot()
		if slot == nil {
			if err := c.evictOne(); err != nil {
				// Return what we took so a failed request cannot
				// leak slots.
				for _, s := range slots {
					c.storage.DeleteSlot(s)
				}
				return nil, fmt.Errorf("cache %s: creating tile %s: %w", c.name, key, err)
			}
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// evictOne reclaims the least recently unused tile's slots.
func (c *Cache[T]) evictOne() error {
	e := c.unusedList.Back()
	if e == nil {
		return ErrCacheSaturated
	}
	t := e.Value.(*Tile[T])
	c.unusedList.Remove(e)
	delete(c.unused, t.Key)
	for _, s := range t.slots {
		s.owner.DeleteSlot(s)
	}
	t.slots = nil
	c.evicted++
	c.log.Debug("evicted tile", zap.String("cache", c.name), zap.Stringer("key", t.Key))
	return nil
}

// PutTile releases one reference to the tile. At zero users the tile moves
// to the unused list, most recently unused first; its data stays valid until
// its slots are reclaimed by a future miss.
func (c *Cache[T]) PutTile(t *Tile[T]) {
	if t.users <= 0 {
		c.log.Error("put of unreferenced tile", zap.String("cache", c.name), zap.Stringer("key", t.Key))
		return
	}
	t.users--
	if t.users > 0 {
		return
	}
	delete(c.used, t.Key)
	c.unused[t.Key] = c.unusedList.PushFront(t)
}

// FindTile looks a tile up without touching reference counts. Tiles sitting
// in the unused list are only visible when includeUnused is set.
func (c *Cache[T]) FindTile(producer, level, tx, ty int, includeUnused bool) *Tile[T] {
	key := Key{Producer: producer, ID: ID{Level: level, TX: tx, TY: ty}}
	if t, ok := c.used[key]; ok {
		return t
	}
	if includeUnused {
		if e, ok := c.unused[key]; ok {
			return e.Value.(*Tile[T])
		}
	}
	return nil
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	Used    int
	Unused  int
	Free    int
	Created int
	Evicted int
	MaxUsed int
}

// Stats returns current occupancy counters.
func (c *Cache[T]) Stats() Stats {
	return Stats{
		Used:    len(c.used),
		Unused:  len(c.unused),
		Free:    c.storage.FreeCount(),
		Created: c.created,
		Evicted: c.evicted,
		MaxUsed: c.maxUsed,
	}
}

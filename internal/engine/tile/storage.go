package tile

// Slot is one fixed-size storage unit inside a Storage pool. A slot is lent
// to at most one tile at a time; ownership moves only through NewSlot and
// DeleteSlot on the owning storage.
type Slot[T any] struct {
	// Data is the pooled resource: a CPU sample array, a GPU texture
	// handle, or whatever payload the storage was built for.
	Data T

	owner *Storage[T]
}

// Owner returns the storage this slot belongs to.
func (s *Slot[T]) Owner() *Storage[T] {
	return s.owner
}

// Storage is a fixed-capacity pool of equally sized slots. The payload type
// is fixed at construction, so producers bound to a storage never need
// runtime type checks on slot data.
type Storage[T any] struct {
	slots    []*Slot[T]
	free     []*Slot[T]
	slotSize int
}

// NewStorage creates a pool of capacity slots, each holding a payload built
// by alloc. slotSize records the payload size (in samples, texels or bytes,
// as the producers using this storage define it) and is used to validate
// producer configurations against the pool.
func NewStorage[T any](capacity, slotSize int, alloc func() T) *Storage[T] {
	s := &Storage[T]{
		slots:    make([]*Slot[T], 0, capacity),
		free:     make([]*Slot[T], 0, capacity),
		slotSize: slotSize,
	}
	for i := 0; i < capacity; i++ {
		slot := &Slot[T]{Data: alloc(), owner: s}
		s.slots = append(s.slots, slot)
		s.free = append(s.free, slot)
	}
	return s
}

// NewSlot removes and returns a slot from the free list, or nil when the
// pool is exhausted. The caller must evict elsewhere before retrying.
func (s *Storage[T]) NewSlot() *Slot[T] {
	n := len(s.free)
	if n == 0 {
		return nil
	}
	slot := s.free[n-1]
	s.free = s.free[:n-1]
	return slot
}

// DeleteSlot returns a slot to the free list. The slot must have been issued
// by this storage and must not be returned twice.
func (s *Storage[T]) DeleteSlot(slot *Slot[T]) {
	s.free = append(s.free, slot)
}

// Capacity returns the total number of slots in the pool.
func (s *Storage[T]) Capacity() int {
	return len(s.slots)
}

// FreeCount returns the number of slots currently in the free list.
func (s *Storage[T]) FreeCount() int {
	return len(s.free)
}

// SlotSize returns the payload size each slot was allocated with.
func (s *Storage[T]) SlotSize() int {
	return s.slotSize
}

// Release disposes every slot's payload at teardown, free or not. The pool
// must not be used afterwards.
func (s *Storage[T]) Release(dispose func(T)) {
	if dispose != nil {
		for _, slot := range s.slots {
			dispose(slot.Data)
		}
	}
	s.slots = nil
	s.free = nil
}

package tile

import (
	"errors"
	"testing"
)

// countFiller counts Fill calls and stamps the slot so tests can check which
// fill wrote last.
type countFiller struct {
	size  int
	fills int
	stamp float32
}

func (f *countFiller) TileSize() int { return f.size }
func (f *countFiller) Border() int   { return 0 }
func (f *countFiller) SlotSize() int { return f.size * f.size }

func (f *countFiller) Fill(level, tx, ty int, slots []*Slot[[]float32]) error {
	f.fills++
	slots[0].Data[0] = f.stamp + float32(f.fills)
	return nil
}

func newTestCache(capacity int) (*Cache[[]float32], *countFiller, int) {
	c := NewCache("test", newTestStorage(capacity, 16*16), 1, nil)
	f := &countFiller{size: 16}
	id := c.InsertProducer(f)
	return c, f, id
}

func TestGetTileCreatesAndRefs(t *testing.T) {
	c, f, id := newTestCache(4)

	tl, err := c.GetTile(id, 0, 0, 0)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if tl.Users() != 1 {
		t.Errorf("expected users=1, got %d", tl.Users())
	}
	if tl.Done() {
		t.Error("tile must not be done before CreateTile")
	}
	if err := tl.CreateTile(); err != nil {
		t.Fatalf("CreateTile: %v", err)
	}
	if !tl.Done() {
		t.Error("tile must be done after CreateTile")
	}
	if f.fills != 1 {
		t.Errorf("expected 1 fill, got %d", f.fills)
	}

	// Same id again: same tile, users bumped, no new fill.
	again, err := c.GetTile(id, 0, 0, 0)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if again != tl {
		t.Error("expected the same tile instance")
	}
	if again.Users() != 2 {
		t.Errorf("expected users=2, got %d", again.Users())
	}
}

func TestTaskIdempotence(t *testing.T) {
	c, f, id := newTestCache(1)

	tl, err := c.GetTile(id, 2, 1, 1)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if err := tl.CreateTile(); err != nil {
		t.Fatalf("CreateTile: %v", err)
	}
	first := tl.Slots()[0].Data[0]

	// Second run must not change content or the done flag.
	if err := tl.CreateTile(); err != nil {
		t.Fatalf("CreateTile (second): %v", err)
	}
	if f.fills != 1 {
		t.Errorf("expected 1 fill after two CreateTile calls, got %d", f.fills)
	}
	if got := tl.Slots()[0].Data[0]; got != first {
		t.Errorf("content changed on second run: %f != %f", got, first)
	}
	if !tl.Done() {
		t.Error("done flag must stay true")
	}
}

func TestPutTileMovesToUnused(t *testing.T) {
	c, _, id := newTestCache(2)

	tl, _ := c.GetTile(id, 0, 0, 0)
	c.PutTile(tl)

	if tl.Users() != 0 {
		t.Errorf("expected users=0, got %d", tl.Users())
	}
	s := c.Stats()
	if s.Used != 0 || s.Unused != 1 {
		t.Errorf("expected 0 used / 1 unused, got %d/%d", s.Used, s.Unused)
	}

	// Invisible to FindTile without includeUnused.
	if c.FindTile(id, 0, 0, 0, false) != nil {
		t.Error("unused tile visible to FindTile(includeUnused=false)")
	}
	if c.FindTile(id, 0, 0, 0, true) != tl {
		t.Error("unused tile not found with includeUnused=true")
	}

	// FindTile never mutates reference counts.
	if tl.Users() != 0 {
		t.Errorf("FindTile changed users to %d", tl.Users())
	}

	// Data stays valid until the slots are reclaimed.
	if tl.Slots() == nil {
		t.Error("unused tile lost its slots")
	}
}

// Capacity 4, tile size 16: filling the pool, releasing one tile and asking
// for two more exercises eviction and saturation in one pass.
func TestEvictionScenario(t *testing.T) {
	c, _, id := newTestCache(4)

	tiles := make([]*Tile[[]float32], 0, 4)
	for i := 0; i < 4; i++ {
		tl, err := c.GetTile(id, 1, i, 0)
		if err != nil {
			t.Fatalf("tile %d: %v", i, err)
		}
		if tl.Users() != 1 {
			t.Fatalf("tile %d: users=%d, want 1", i, tl.Users())
		}
		tiles = append(tiles, tl)
	}

	t1 := tiles[0]
	t1Slot := t1.Slots()[0]
	c.PutTile(t1)

	s := c.Stats()
	if s.Used != 3 || s.Unused != 1 {
		t.Fatalf("expected 3 used / 1 unused, got %d/%d", s.Used, s.Unused)
	}

	// Requesting a 5th tile must evict T1 and reuse its slot.
	t5, err := c.GetTile(id, 1, 4, 0)
	if err != nil {
		t.Fatalf("tile 5: %v", err)
	}
	if t5.Key.TX != 4 {
		t.Errorf("unexpected key %s", t5.Key)
	}
	if t5.Slots()[0] != t1Slot {
		t.Error("expected T5 to reuse T1's slot")
	}
	if c.FindTile(id, 1, 0, 0, true) != nil {
		t.Error("evicted tile still findable")
	}

	// All four tiles referenced: a 6th request is a fatal capacity error.
	_, err = c.GetTile(id, 1, 5, 0)
	if !errors.Is(err, ErrCacheSaturated) {
		t.Fatalf("expected ErrCacheSaturated, got %v", err)
	}

	// The failure must not corrupt live tiles or leak slots.
	s = c.Stats()
	if s.Used != 4 || s.Unused != 0 || s.Free != 0 {
		t.Errorf("after saturation: used=%d unused=%d free=%d", s.Used, s.Unused, s.Free)
	}
	if s.Used+s.Unused > c.Storage().Capacity() {
		t.Error("capacity invariant violated")
	}
}

func TestEvictionOrderLRU(t *testing.T) {
	c, _, id := newTestCache(3)

	a, _ := c.GetTile(id, 0, 0, 0)
	b, _ := c.GetTile(id, 0, 1, 0)
	d, _ := c.GetTile(id, 0, 2, 0)

	// A unused longest, then B, then D most recently unused.
	c.PutTile(a)
	c.PutTile(b)
	c.PutTile(d)

	if _, err := c.GetTile(id, 1, 0, 0); err != nil {
		t.Fatalf("new tile: %v", err)
	}
	if c.FindTile(id, 0, 0, 0, true) != nil {
		t.Error("expected A (unused longest) evicted first")
	}
	if c.FindTile(id, 0, 1, 0, true) == nil || c.FindTile(id, 0, 2, 0, true) == nil {
		t.Error("B and C must survive the first eviction")
	}

	if _, err := c.GetTile(id, 1, 1, 0); err != nil {
		t.Fatalf("new tile: %v", err)
	}
	if c.FindTile(id, 0, 1, 0, true) != nil {
		t.Error("expected B evicted second")
	}
}

func TestReviveUnusedTile(t *testing.T) {
	c, f, id := newTestCache(2)

	tl, _ := c.GetTile(id, 0, 0, 0)
	_ = tl.CreateTile()
	c.PutTile(tl)

	revived, err := c.GetTile(id, 0, 0, 0)
	if err != nil {
		t.Fatalf("GetTile: %v", err)
	}
	if revived != tl {
		t.Error("expected the unused tile revived, not rebuilt")
	}
	if revived.Users() != 1 {
		t.Errorf("expected users=1 after revive, got %d", revived.Users())
	}
	if f.fills != 1 {
		t.Errorf("revive must not refill: %d fills", f.fills)
	}
	s := c.Stats()
	if s.Used != 1 || s.Unused != 0 {
		t.Errorf("expected 1 used / 0 unused, got %d/%d", s.Used, s.Unused)
	}
}

func TestCapacityInvariantUnderChurn(t *testing.T) {
	c, _, id := newTestCache(4)

	live := make([]*Tile[[]float32], 0)
	for i := 0; i < 32; i++ {
		tl, err := c.GetTile(id, 3, i%6, i/6)
		if err != nil {
			// Saturation can legitimately occur while 4 tiles are
			// held; release one and continue.
			if !errors.Is(err, ErrCacheSaturated) {
				t.Fatalf("step %d: %v", i, err)
			}
			c.PutTile(live[0])
			live = live[1:]
			continue
		}
		live = append(live, tl)
		if len(live) > 3 {
			c.PutTile(live[0])
			live = live[1:]
		}

		s := c.Stats()
		if s.Used+s.Unused > c.Storage().Capacity() {
			t.Fatalf("step %d: used(%d)+unused(%d) > capacity", i, s.Used, s.Unused)
		}
	}
}

func TestSharedCacheTwoProducers(t *testing.T) {
	c := NewCache("shared", newTestStorage(4, 16*16), 1, nil)
	f1 := &countFiller{size: 16, stamp: 100}
	f2 := &countFiller{size: 16, stamp: 200}
	id1 := c.InsertProducer(f1)
	id2 := c.InsertProducer(f2)

	if id1 == id2 {
		t.Fatal("producer ids must be distinct")
	}

	a, err := c.GetTile(id1, 0, 0, 0)
	if err != nil {
		t.Fatalf("GetTile p1: %v", err)
	}
	b, err := c.GetTile(id2, 0, 0, 0)
	if err != nil {
		t.Fatalf("GetTile p2: %v", err)
	}
	if a == b {
		t.Fatal("same coordinates from different producers must be distinct tiles")
	}
	_ = a.CreateTile()
	_ = b.CreateTile()
	if f1.fills != 1 || f2.fills != 1 {
		t.Errorf("expected one fill each, got %d/%d", f1.fills, f2.fills)
	}
	if a.Slots()[0] == b.Slots()[0] {
		t.Error("two live tiles share a slot")
	}
}

func TestUnknownProducer(t *testing.T) {
	c, _, _ := newTestCache(2)
	if _, err := c.GetTile(7, 0, 0, 0); !errors.Is(err, ErrUnknownProducer) {
		t.Errorf("expected ErrUnknownProducer, got %v", err)
	}
}

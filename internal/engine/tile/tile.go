package tile

// CreateTask wraps the one-shot data generation call for a tile. The done
// latch flips irreversibly on the first Run; later Runs are no-ops. There is
// no deferred scheduling: Run executes inline the moment a sampler discovers
// it needs a tile that is not ready.
type CreateTask[T any] struct {
	run  func() error
	done bool
	err  error
}

// Run executes the generation call once. After the first call the task is
// done and Run returns the recorded result without re-executing; generation
// failures are configuration or ordering defects and are never retried.
func (t *CreateTask[T]) Run() error {
	if t.done {
		return t.err
	}
	t.err = t.run()
	t.done = true
	return t.err
}

// Done reports whether the task has run.
func (t *CreateTask[T]) Done() bool {
	return t.done
}

// Tile is a cache entry binding a tile key to the storage slots holding its
// data and the task that fills them. The users count tracks how many
// consumers currently hold the tile; the cache, not the tile, decides what
// happens when it reaches zero.
type Tile[T any] struct {
	Key   Key
	slots []*Slot[T]
	task  *CreateTask[T]
	users int
}

func newTile[T any](key Key, slots []*Slot[T], task *CreateTask[T]) *Tile[T] {
	return &Tile[T]{Key: key, slots: slots, task: task}
}

// Slots returns the storage slots bound to this tile.
func (t *Tile[T]) Slots() []*Slot[T] {
	return t.slots
}

// CreateTile runs the tile's generation task if it has not run yet.
func (t *Tile[T]) CreateTile() error {
	return t.task.Run()
}

// Done reports whether the tile's data has been generated.
func (t *Tile[T]) Done() bool {
	return t.task.Done()
}

// Users returns the current consumer reference count.
func (t *Tile[T]) Users() int {
	return t.users
}

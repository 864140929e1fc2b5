// Package tile implements the terrain tile production pipeline: fixed
// capacity slot storage, tiles bound to storage slots, an LRU cache of
// produced tiles, and the producer contract that fills tile data on demand.
package tile

import "fmt"

// ID identifies a tile within one producer's namespace: a quadtree level and
// the tile's logical coordinates at that level.
type ID struct {
	Level int
	TX    int
	TY    int
}

// String returns "level/tx/ty".
func (id ID) String() string {
	return fmt.Sprintf("%d/%d/%d", id.Level, id.TX, id.TY)
}

// Less orders IDs coarse-to-fine, then by row, then by column.
func (id ID) Less(other ID) bool {
	if id.Level != other.Level {
		return id.Level < other.Level
	}
	if id.TY != other.TY {
		return id.TY < other.TY
	}
	return id.TX < other.TX
}

// Key identifies a tile globally across all producers sharing a cache. The
// producer id disambiguates tiles with equal coordinates.
type Key struct {
	Producer int
	ID
}

// String returns "producer:level/tx/ty".
func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.Producer, k.ID)
}

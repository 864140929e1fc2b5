package producer

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/terralod/internal/engine/tile"
)

// Normal produces surface normals derived from elevation tiles. Each output
// sample holds two float32 components (nx, ny); consumers reconstruct
// nz = sqrt(1 - nx^2 - ny^2) since normals always point away from the
// surface.
//
// Normal depends on the elevation tile at the same coordinates. Its sampler
// must therefore run at a higher priority value than the elevation sampler,
// so the dependency is already created within the same frame; a missing
// elevation tile is a scheduling bug, not a recoverable condition.
type Normal struct {
	tileSize  int
	elevation *tile.Producer[[]float32]
	rootSize  float64
}

// NewNormal creates a normal producer strategy over the given elevation
// producer. The layouts must agree: same tile size, and the elevation tiles
// need at least one border sample for the finite differences at tile edges.
func NewNormal(elevation *tile.Producer[[]float32], rootSize float64) (*Normal, error) {
	if elevation.Border() < 1 {
		return nil, fmt.Errorf("normal: %w: elevation border %d, need >= 1",
			tile.ErrStorageMismatch, elevation.Border())
	}
	return &Normal{
		tileSize:  elevation.TileSize(),
		elevation: elevation,
		rootSize:  rootSize,
	}, nil
}

// TileSize returns the usable samples per tile edge.
func (n *Normal) TileSize() int { return n.tileSize }

// Border returns zero: normal tiles carry no padding of their own.
func (n *Normal) Border() int { return 0 }

// SlotSize returns the float32 count per slot: two components per sample.
func (n *Normal) SlotSize() int {
	w := n.tileSize + 1
	return 2 * w * w
}

// HasTile matches the elevation producer's coverage, since a normal tile
// cannot exist without its source heights.
func (n *Normal) HasTile(level, tx, ty int) bool {
	return n.elevation.HasTile(level, tx, ty)
}

// Fill computes normals for tile (level, tx, ty) from the elevation tile at
// the same coordinates using central differences.
func (n *Normal) Fill(level, tx, ty int, slots []*tile.Slot[[]float32]) error {
	if len(slots) == 0 {
		return fmt.Errorf("normal: tile %d/%d/%d: no destination slot", level, tx, ty)
	}
	dep, err := n.elevation.FindDoneTile(level, tx, ty)
	if err != nil {
		return fmt.Errorf("normal: tile %d/%d/%d: %w", level, tx, ty, err)
	}
	heights := dep.Slots()[0].Data

	border := n.elevation.Border()
	ew := n.tileSize + 2*border + 1
	w := n.tileSize + 1
	dst := slots[0].Data
	if len(dst) < 2*w*w {
		return fmt.Errorf("normal: tile %d/%d/%d: slot holds %d samples, need %d",
			level, tx, ty, len(dst), 2*w*w)
	}

	l := n.rootSize / float64(uint64(1)<<uint(level))
	cell := float32(l / float64(n.tileSize))

	for j := 0; j < w; j++ {
		for i := 0; i < w; i++ {
			ei := i + border
			ej := j + border
			dzdx := (heights[ei+1+ej*ew] - heights[ei-1+ej*ew]) / (2 * cell)
			dzdy := (heights[ei+(ej+1)*ew] - heights[ei+(ej-1)*ew]) / (2 * cell)

			// Unnormalized normal is (-dzdx, -dzdy, 1).
			inv := 1 / math32.Sqrt(dzdx*dzdx+dzdy*dzdy+1)
			dst[2*(i+j*w)] = -dzdx * inv
			dst[2*(i+j*w)+1] = -dzdy * inv
		}
	}
	return nil
}

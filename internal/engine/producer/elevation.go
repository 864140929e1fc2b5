// Package producer contains the concrete tile producers: fractal elevation,
// elevation-derived normals, and ortho imagery. Each producer is a tile
// Filler strategy; the shared cache/forwarding logic lives in the tile
// package.
package producer

import (
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/terralod/internal/engine/tile"
)

// Noise frequencies in world units. The base layer shapes continents, the
// detail layer adds relief that survives at deep LOD levels.
const (
	baseFrequency   = 1.0 / 40000.0
	detailFrequency = 1.0 / 2500.0

	// DetailWeight is the detail octave's share of the base amplitude;
	// synthesized heights stay within amplitude * (1 + 2*DetailWeight).
	DetailWeight = 0.2
)

// heightField is the deterministic fractal height function. The same world
// coordinate yields the same height at every LOD level, so parent and child
// tiles agree where they overlap.
type heightField struct {
	base      *perlin.Perlin
	detail    *perlin.Perlin
	amplitude float64
}

func newHeightField(seed int64, amplitude float64) heightField {
	return heightField{
		base:      perlin.NewPerlin(1.5, 2.0, 4, seed),
		detail:    perlin.NewPerlin(2.5, 3.0, 4, seed+1),
		amplitude: amplitude,
	}
}

func (f heightField) at(x, y float64) float64 {
	h := f.base.Noise2D(x*baseFrequency, y*baseFrequency)
	h += DetailWeight * f.detail.Noise2D(x*detailFrequency, y*detailFrequency)
	return h * f.amplitude
}

// Elevation produces height tiles as float32 sample grids. A tile holds
// (tileSize + 2*border + 1)^2 samples: a vertex grid with border rows and
// columns duplicated from logical neighbors, so consumers such as the normal
// producer can take differences without loading neighbor tiles.
type Elevation struct {
	tileSize int
	border   int
	maxLevel int

	rootOX   float64
	rootOY   float64
	rootSize float64

	field heightField
}

// NewElevation creates an elevation producer strategy covering the square
// [rootOX, rootOX+rootSize] x [rootOY, rootOY+rootSize] down to maxLevel.
func NewElevation(tileSize, border, maxLevel int, rootOX, rootOY, rootSize, amplitude float64, seed int64) (*Elevation, error) {
	if tileSize < 1 || border < 0 {
		return nil, fmt.Errorf("elevation: invalid layout %dx%d border %d", tileSize, tileSize, border)
	}
	return &Elevation{
		tileSize: tileSize,
		border:   border,
		maxLevel: maxLevel,
		rootOX:   rootOX,
		rootOY:   rootOY,
		rootSize: rootSize,
		field:    newHeightField(seed, amplitude),
	}, nil
}

// TileSize returns the usable samples per tile edge.
func (e *Elevation) TileSize() int { return e.tileSize }

// Border returns the duplicated neighbor samples around the tile.
func (e *Elevation) Border() int { return e.border }

// SlotSize returns the samples per slot this producer fills.
func (e *Elevation) SlotSize() int {
	w := e.width()
	return w * w
}

// HasTile bounds coverage to the configured maximum level.
func (e *Elevation) HasTile(level, tx, ty int) bool {
	return level <= e.maxLevel
}

func (e *Elevation) width() int {
	return e.tileSize + 2*e.border + 1
}

// Fill synthesizes the height grid for tile (level, tx, ty) into slots[0].
func (e *Elevation) Fill(level, tx, ty int, slots []*tile.Slot[[]float32]) error {
	if len(slots) == 0 {
		return fmt.Errorf("elevation: tile %d/%d/%d: no destination slot", level, tx, ty)
	}
	dst := slots[0].Data
	w := e.width()
	if len(dst) < w*w {
		return fmt.Errorf("elevation: tile %d/%d/%d: slot holds %d samples, need %d",
			level, tx, ty, len(dst), w*w)
	}

	l := e.rootSize / float64(uint64(1)<<uint(level))
	step := l / float64(e.tileSize)
	ox := e.rootOX + float64(tx)*l - float64(e.border)*step
	oy := e.rootOY + float64(ty)*l - float64(e.border)*step

	for j := 0; j < w; j++ {
		y := oy + float64(j)*step
		for i := 0; i < w; i++ {
			x := ox + float64(i)*step
			dst[i+j*w] = float32(e.field.at(x, y))
		}
	}
	return nil
}

package producer

import (
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/terralod/internal/engine/tile"
)

// Terrain color bands keyed on synthesized height, RGBA.
var (
	colorDeepWater = [4]byte{12, 36, 84, 255}
	colorWater     = [4]byte{24, 68, 128, 255}
	colorSand      = [4]byte{194, 178, 128, 255}
	colorGrass     = [4]byte{66, 110, 48, 255}
	colorRock      = [4]byte{110, 104, 96, 255}
	colorSnow      = [4]byte{236, 240, 244, 255}
)

// Ortho produces ground imagery tiles as RGBA pixel grids of
// (tileSize + 2*border)^2 pixels. Colors follow the same height function the
// elevation producer uses (same seed and amplitude give matching coastlines)
// with a low-amplitude jitter noise to break up the bands.
type Ortho struct {
	tileSize int
	border   int
	maxLevel int

	rootOX   float64
	rootOY   float64
	rootSize float64

	field  heightField
	jitter *perlin.Perlin
}

// NewOrtho creates an ortho imagery producer strategy.
func NewOrtho(tileSize, border, maxLevel int, rootOX, rootOY, rootSize, amplitude float64, seed int64) (*Ortho, error) {
	if tileSize < 1 || border < 0 {
		return nil, fmt.Errorf("ortho: invalid layout %dx%d border %d", tileSize, tileSize, border)
	}
	return &Ortho{
		tileSize: tileSize,
		border:   border,
		maxLevel: maxLevel,
		rootOX:   rootOX,
		rootOY:   rootOY,
		rootSize: rootSize,
		field:    newHeightField(seed, amplitude),
		jitter:   perlin.NewPerlin(2.0, 2.5, 3, seed+7),
	}, nil
}

// TileSize returns the usable pixels per tile edge.
func (o *Ortho) TileSize() int { return o.tileSize }

// Border returns the duplicated neighbor pixels around the tile.
func (o *Ortho) Border() int { return o.border }

// SlotSize returns the byte count per slot: four bytes per pixel.
func (o *Ortho) SlotSize() int {
	w := o.tileSize + 2*o.border
	return 4 * w * w
}

// HasTile bounds coverage to the configured maximum level.
func (o *Ortho) HasTile(level, tx, ty int) bool {
	return level <= o.maxLevel
}

// Fill synthesizes the RGBA pixels for tile (level, tx, ty) into slots[0].
func (o *Ortho) Fill(level, tx, ty int, slots []*tile.Slot[[]byte]) error {
	if len(slots) == 0 {
		return fmt.Errorf("ortho: tile %d/%d/%d: no destination slot", level, tx, ty)
	}
	dst := slots[0].Data
	w := o.tileSize + 2*o.border
	if len(dst) < 4*w*w {
		return fmt.Errorf("ortho: tile %d/%d/%d: slot holds %d bytes, need %d",
			level, tx, ty, len(dst), 4*w*w)
	}

	l := o.rootSize / float64(uint64(1)<<uint(level))
	step := l / float64(o.tileSize)
	ox := o.rootOX + (float64(tx)*l) - (float64(o.border)+0.5)*step
	oy := o.rootOY + (float64(ty)*l) - (float64(o.border)+0.5)*step

	amp := o.field.amplitude
	for j := 0; j < w; j++ {
		y := oy + float64(j)*step
		for i := 0; i < w; i++ {
			x := ox + float64(i)*step
			h := o.field.at(x, y)
			h += 0.03 * amp * o.jitter.Noise2D(x*detailFrequency*2, y*detailFrequency*2)

			c := colorFor(h / amp)
			copy(dst[4*(i+j*w):], c[:])
		}
	}
	return nil
}

// colorFor maps a height in [-1, 1] (relative to the noise amplitude) to a
// terrain color band.
func colorFor(h float64) [4]byte {
	switch {
	case h < -0.35:
		return colorDeepWater
	case h < 0:
		return colorWater
	case h < 0.04:
		return colorSand
	case h < 0.45:
		return colorGrass
	case h < 0.7:
		return colorRock
	default:
		return colorSnow
	}
}

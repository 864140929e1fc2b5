// Package engine assembles the terrain pipeline from configuration: slot
// storages, tile caches, the elevation/normal/ortho producers, their
// samplers, and the terrain node that drives them each frame.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terralod/internal/config"
	"github.com/Faultbox/terralod/internal/engine/producer"
	"github.com/Faultbox/terralod/internal/engine/terrain"
	"github.com/Faultbox/terralod/internal/engine/tile"
	"github.com/Faultbox/terralod/pkg/geom"
)

// Sampler priorities. Normals read elevation tiles, so the normal sampler
// must run after the elevation sampler within a frame.
const (
	priorityElevation = 0
	priorityNormal    = 1
	priorityOrtho     = 2
)

// Engine owns one terrain node and its tile pipeline.
type Engine struct {
	Node *terrain.Node

	Elevation *tile.Producer[[]float32]
	Normal    *tile.Producer[[]float32]
	Ortho     *tile.Producer[[]byte]

	ElevationSampler *terrain.TileSampler[[]float32]
	NormalSampler    *terrain.TileSampler[[]float32]
	OrthoSampler     *terrain.TileSampler[[]byte]

	elevationCache *tile.Cache[[]float32]
	normalCache    *tile.Cache[[]float32]
	orthoCache     *tile.Cache[[]byte]

	log *zap.Logger
}

// New builds the engine from configuration. Configuration mismatches
// (producer layouts versus storage sizes) fail here, before any tile is
// produced.
func New(cfg *config.Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	radius := cfg.Terrain.Radius
	rootSize := 2 * radius
	// The detail octave can overshoot the base amplitude slightly.
	zmax := cfg.Terrain.Amplitude * (1 + 2*producer.DetailWeight)
	zmin := -zmax

	var deform terrain.Deformation = terrain.IdentityDeformation{}
	if cfg.Terrain.Spherical {
		deform = terrain.SphericalDeformation{R: radius}
	}

	e := &Engine{log: log}
	e.Node = terrain.NewNode(deform, terrain.Params{
		RootSize:            rootSize,
		RootOX:              -radius,
		RootOY:              -radius,
		ZMin:                zmin,
		ZMax:                zmax,
		SplitDist:           cfg.Terrain.SplitFactor,
		MaxLevel:            cfg.Terrain.MaxLevel,
		SplitInvisibleQuads: cfg.Terrain.SplitInvisibleQuads,
		HorizonCulling:      cfg.Terrain.HorizonCulling,
	}, log.Named("terrain"))

	elevFiller, err := producer.NewElevation(
		cfg.Cache.TileSize, cfg.Cache.Border, cfg.Terrain.MaxLevel,
		-radius, -radius, rootSize, cfg.Terrain.Amplitude, cfg.Terrain.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.elevationCache = tile.NewCache("elevation",
		newFloatStorage(cfg.Cache.ElevationCapacity, elevFiller.SlotSize()), 1, log.Named("cache"))
	e.Elevation, err = tile.NewProducer("elevation", e.elevationCache, elevFiller)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	normalFiller, err := producer.NewNormal(e.Elevation, rootSize)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.normalCache = tile.NewCache("normal",
		newFloatStorage(cfg.Cache.NormalCapacity, normalFiller.SlotSize()), 1, log.Named("cache"))
	e.Normal, err = tile.NewProducer("normal", e.normalCache, normalFiller)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	orthoFiller, err := producer.NewOrtho(
		cfg.Cache.TileSize, cfg.Cache.Border, cfg.Terrain.MaxLevel,
		-radius, -radius, rootSize, cfg.Terrain.Amplitude, cfg.Terrain.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.orthoCache = tile.NewCache("ortho",
		newByteStorage(cfg.Cache.OrthoCapacity, orthoFiller.SlotSize()), 1, log.Named("cache"))
	e.Ortho, err = tile.NewProducer("ortho", e.orthoCache, orthoFiller)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e.ElevationSampler = terrain.NewTileSampler(e.Elevation,
		terrain.DefaultSamplerOptions(priorityElevation), log.Named("sampler"))
	e.NormalSampler = terrain.NewTileSampler(e.Normal,
		terrain.DefaultSamplerOptions(priorityNormal), log.Named("sampler"))
	e.OrthoSampler = terrain.NewTileSampler(e.Ortho,
		terrain.DefaultSamplerOptions(priorityOrtho), log.Named("sampler"))
	e.Node.AddSampler(e.ElevationSampler)
	e.Node.AddSampler(e.NormalSampler)
	e.Node.AddSampler(e.OrthoSampler)

	log.Info("engine assembled",
		zap.Bool("spherical", cfg.Terrain.Spherical),
		zap.Float64("radius", radius),
		zap.Int("tile_size", cfg.Cache.TileSize),
		zap.Int("max_level", cfg.Terrain.MaxLevel),
	)
	return e, nil
}

// Update runs one frame for the given viewpoint.
func (e *Engine) Update(camera geom.Vec3, frustum geom.Frustum) error {
	return e.Node.Update(camera, frustum)
}

// CacheStats sums occupancy counters across the engine's caches.
func (e *Engine) CacheStats() tile.Stats {
	var total tile.Stats
	for _, s := range []tile.Stats{
		e.elevationCache.Stats(),
		e.normalCache.Stats(),
		e.orthoCache.Stats(),
	} {
		total.Used += s.Used
		total.Unused += s.Unused
		total.Free += s.Free
		total.Created += s.Created
		total.Evicted += s.Evicted
		total.MaxUsed += s.MaxUsed
	}
	return total
}

// Close releases the slot pools.
func (e *Engine) Close() {
	e.elevationCache.Storage().Release(nil)
	e.normalCache.Storage().Release(nil)
	e.orthoCache.Storage().Release(nil)
}

func newFloatStorage(capacity, slotSize int) *tile.Storage[[]float32] {
	return tile.NewStorage(capacity, slotSize, func() []float32 {
		return make([]float32, slotSize)
	})
}

func newByteStorage(capacity, slotSize int) *tile.Storage[[]byte] {
	return tile.NewStorage(capacity, slotSize, func() []byte {
		return make([]byte, slotSize)
	})
}

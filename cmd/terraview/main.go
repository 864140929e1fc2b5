// Package main is the terralod demo viewer: it flies a camera down toward a
// synthesized planet, running the LOD quadtree and tile pipeline each frame,
// and optionally uploads the produced tiles to GL textures in a window.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terralod/internal/config"
	"github.com/Faultbox/terralod/internal/engine"
	"github.com/Faultbox/terralod/internal/engine/camera"
	"github.com/Faultbox/terralod/internal/engine/render"
	"github.com/Faultbox/terralod/internal/engine/stats"
	"github.com/Faultbox/terralod/internal/engine/terrain"
	"github.com/Faultbox/terralod/internal/engine/window"
	"github.com/Faultbox/terralod/internal/logger"
	"github.com/Faultbox/terralod/pkg/geom"
)

const defaultHeadlessFrames = 300

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("=== terraview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	eng, err := engine.New(cfg, logger.Named("engine"))
	if err != nil {
		logger.Log.Error("failed to assemble engine", zap.Error(err))
		os.Exit(1)
	}
	defer eng.Close()

	if err := run(cfg, eng); err != nil {
		logger.Log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Log.Info("closed normally")
}

func run(cfg *config.Config, eng *engine.Engine) error {
	var rec *stats.Recorder
	if cfg.Stats.Path != "" {
		var err error
		rec, err = stats.NewRecorder(cfg.Stats.Path)
		if err != nil {
			return fmt.Errorf("opening stats file: %w", err)
		}
		defer rec.Close()
	}

	var win *window.Window
	var textures *render.TileTextures
	if !cfg.Graphics.Headless {
		var err error
		win, err = window.New(window.Config{
			Title:  "terraview",
			Width:  cfg.Graphics.Width,
			Height: cfg.Graphics.Height,
			VSync:  cfg.Graphics.VSync,
		})
		if err != nil {
			return err
		}
		defer win.Close()
		textures = render.NewTileTextures()
		defer textures.Close()
	}

	maxFrames := cfg.Graphics.Frames
	if maxFrames == 0 && cfg.Graphics.Headless {
		maxFrames = defaultHeadlessFrames
	}

	aspect := float64(cfg.Graphics.Width) / float64(cfg.Graphics.Height)
	deform := eng.Node.Deformation()

	var orbit *camera.Orbit
	if win != nil {
		orbit = newOrbit(cfg)
	}

	prevCreated, prevEvicted := 0, 0
	for frame := 0; maxFrames == 0 || frame < maxFrames; frame++ {
		start := time.Now()

		var cam, target, up geom.Vec3
		if orbit != nil {
			in := win.PollInput()
			if in.Quit {
				break
			}
			orbit.HandleDrag(in.DragX, in.DragY)
			orbit.HandleZoom(in.Wheel)
			orbit.HandleMovement(in.Forward, in.Right)
			cam, target, up = orbit.Position(), orbit.Center, orbit.Up()
		} else {
			camLocal, targetLocal := flightPath(cfg, frame)
			cam = deform.LocalToDeformed(camLocal)
			target = deform.LocalToDeformed(targetLocal)
			up = upVector(cfg, cam)
		}

		frustum := geom.FrustumFromLookAt(cam, target, up,
			80*math.Pi/180, aspect, 1, 0)

		if err := eng.Update(cam, frustum); err != nil {
			return err
		}

		if rec != nil {
			alt := deform.DeformedToLocal(cam).Z
			if math.IsInf(alt, 0) || math.IsNaN(alt) {
				alt = -1
			}
			cs := eng.CacheStats()
			if err := rec.Record(stats.Frame{
				Frame:        frame,
				Quads:        eng.Node.QuadCount(),
				Drawable:     countDrawable(eng.Node),
				CameraAlt:    alt,
				TilesCreated: cs.Created - prevCreated,
				TilesEvicted: cs.Evicted - prevEvicted,
				TilesUsed:    cs.Used,
				TilesUnused:  cs.Unused,
				SlotsFree:    cs.Free,
				FrameMillis:  float64(time.Since(start).Microseconds()) / 1000,
			}); err != nil {
				return fmt.Errorf("recording stats: %w", err)
			}
			prevCreated = cs.Created
			prevEvicted = cs.Evicted
		}

		if win != nil {
			uploadTiles(cfg, eng, textures)
			win.SwapBuffers()
		}
	}
	return nil
}

// newOrbit places the interactive camera in deformed space: orbiting the
// planet center on a sphere, or above the middle of a flat terrain.
func newOrbit(cfg *config.Config) *camera.Orbit {
	r := cfg.Terrain.Radius
	a := cfg.Terrain.Amplitude
	if cfg.Terrain.Spherical {
		return camera.NewOrbit(geom.Vec3{}, 2.5*r, r+3*a, 20*r)
	}
	c := camera.NewOrbit(geom.Vec3{}, 0.5*r, 3*a, 10*r)
	c.Pitch = 1.2
	return c
}

// flightPath is a slow spiral descent over the terrain: from well above the
// surface down to a few times the relief amplitude.
func flightPath(cfg *config.Config, frame int) (cam, target geom.Vec3) {
	r := cfg.Terrain.Radius
	t := float64(frame) / 600

	alt := r*0.5*math.Exp(-t) + cfg.Terrain.Amplitude*3
	angle := t * 2 * math.Pi
	drift := 0.2 * r * t

	cam = geom.Vec3{
		X: 0.1*r*math.Cos(angle) + drift - 0.4*r,
		Y: 0.1 * r * math.Sin(angle),
		Z: alt,
	}
	target = geom.Vec3{X: cam.X + 0.05*r, Y: cam.Y, Z: 0}
	return cam, target
}

// upVector picks the camera up direction: radial on a sphere, +Z on a flat
// terrain.
func upVector(cfg *config.Config, cam geom.Vec3) geom.Vec3 {
	if cfg.Terrain.Spherical {
		return cam.Normalize()
	}
	return geom.Vec3{Z: 1}
}

func countDrawable(n *terrain.Node) int {
	count := 0
	n.DrawableLeaves(func(*terrain.Quad) { count++ })
	return count
}

// uploadTiles pushes the tiles of every drawable leaf into GL textures. The
// demo stops at uploads: material binding and draw calls belong to a host
// renderer.
func uploadTiles(cfg *config.Config, eng *engine.Engine, textures *render.TileTextures) {
	elevW := cfg.Cache.TileSize + 2*cfg.Cache.Border + 1
	normalW := cfg.Cache.TileSize + 1
	orthoW := cfg.Cache.TileSize + 2*cfg.Cache.Border

	eng.Node.DrawableLeaves(func(q *terrain.Quad) {
		if t := eng.ElevationSampler.TileAt(q.Level, q.TX, q.TY, false); t != nil && t.Done() {
			textures.UploadR32F(t.Key, elevW, t.Slots()[0].Data)
		}
		if t := eng.NormalSampler.TileAt(q.Level, q.TX, q.TY, false); t != nil && t.Done() {
			textures.UploadRG32F(t.Key, normalW, t.Slots()[0].Data)
		}
		if t := eng.OrthoSampler.TileAt(q.Level, q.TX, q.TY, false); t != nil && t.Done() {
			textures.UploadRGBA8(t.Key, orthoW, t.Slots()[0].Data)
		}
	})
}

package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagHeadless = flag.Bool("headless", false, "Run without a window")
	flagFrames   = flag.Int("frames", 0, "Stop after this many frames (0 = unbounded)")
	flagRadius   = flag.Float64("radius", 0, "Planet radius override")
	flagMaxLevel = flag.Int("max-level", 0, "Maximum quadtree level override")
	flagStats    = flag.String("stats", "", "Write per-frame stats to this JSONL file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeadless {
		cfg.Graphics.Headless = true
	}
	if *flagFrames > 0 {
		cfg.Graphics.Frames = *flagFrames
	}
	if *flagRadius > 0 {
		cfg.Terrain.Radius = *flagRadius
	}
	if *flagMaxLevel > 0 {
		cfg.Terrain.MaxLevel = *flagMaxLevel
	}
	if *flagStats != "" {
		cfg.Stats.Path = *flagStats
	}
}

// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Terrain  TerrainConfig  `yaml:"terrain"`
	Cache    CacheConfig    `yaml:"cache"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Stats    StatsConfig    `yaml:"stats"`
}

// TerrainConfig holds quadtree and deformation settings.
type TerrainConfig struct {
	// Spherical maps the terrain onto a planet of Radius; otherwise the
	// terrain is flat with edge length 2*Radius.
	Spherical bool    `yaml:"spherical"`
	Radius    float64 `yaml:"radius"`
	// Amplitude is the elevation range of the synthesized heights.
	Amplitude float64 `yaml:"amplitude"`
	Seed      int64   `yaml:"seed"`
	MaxLevel  int     `yaml:"max_level"`
	// SplitFactor is the subdivision threshold: a quad splits while the
	// camera is closer than SplitFactor times its edge length.
	SplitFactor         float64 `yaml:"split_factor"`
	SplitInvisibleQuads bool    `yaml:"split_invisible_quads"`
	HorizonCulling      bool    `yaml:"horizon_culling"`
}

// CacheConfig holds tile layout and slot pool capacities.
type CacheConfig struct {
	TileSize int `yaml:"tile_size"`
	Border   int `yaml:"border"`
	// Per-pipeline slot pool capacities.
	ElevationCapacity int `yaml:"elevation_capacity"`
	NormalCapacity    int `yaml:"normal_capacity"`
	OrthoCapacity     int `yaml:"ortho_capacity"`
}

// GraphicsConfig holds the demo viewer's display settings.
type GraphicsConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	Headless bool `yaml:"headless"`
	// Frames bounds the demo run; 0 means run until the window closes.
	Frames int `yaml:"frames"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// StatsConfig holds the frame statistics output settings.
type StatsConfig struct {
	// Path of the JSON-lines stats file; empty disables recording.
	Path string `yaml:"path"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Spherical:           true,
			Radius:              6360000,
			Amplitude:           5000,
			Seed:                1234,
			MaxLevel:            16,
			SplitFactor:         1.1,
			SplitInvisibleQuads: false,
			HorizonCulling:      true,
		},
		Cache: CacheConfig{
			TileSize:          96,
			Border:            2,
			ElevationCapacity: 512,
			NormalCapacity:    512,
			OrthoCapacity:     512,
		},
		Graphics: GraphicsConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			Headless: false,
			Frames:   0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Stats: StatsConfig{
			Path: "",
		},
	}
}

// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ModelConfig places one mesh in the scene. Rotate is degrees around Y,
// applied after Translate.
type ModelConfig struct {
	Path      string     `yaml:"path"`
	Translate [3]float32 `yaml:"translate"`
	Rotate    float32    `yaml:"rotate"`
	Scale     float32    `yaml:"scale"`
}

// SceneConfig lists the meshes to show. The last model is the ground: it
// receives shadows but does not cast them.
type SceneConfig struct {
	Models      []ModelConfig `yaml:"models"`
	SpinDegrees float32       `yaml:"spin_degrees"` // scene rotation per frame
}

// ShadowConfig holds shadow-map settings.
type ShadowConfig struct {
	Enabled    bool  `yaml:"enabled"`
	Resolution int32 `yaml:"resolution"`
}

// CaptureConfig holds frame-capture settings.
type CaptureConfig struct {
	Dir         string `yaml:"dir"`
	Format      string `yaml:"format"`      // png, webp or tga
	Supersample int    `yaml:"supersample"` // render scale before downsampling
	Path        string `yaml:"-"`           // one-shot capture target, set by -capture
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      600,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
		},
		Scene: SceneConfig{
			Models: []ModelConfig{
				{Path: "assets/bike.obj", Translate: [3]float32{-2, 0, 0}, Rotate: 20, Scale: 1},
				{Path: "assets/bike.obj", Translate: [3]float32{2, 0, 0}, Rotate: -20, Scale: 1},
				{Path: "assets/platform.obj", Scale: 1},
			},
			SpinDegrees: 3,
		},
		Shadow: ShadowConfig{
			Enabled:    true,
			Resolution: 2048,
		},
		Capture: CaptureConfig{
			Dir:         "captures",
			Format:      "png",
			Supersample: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

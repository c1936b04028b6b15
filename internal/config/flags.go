package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable the shadow pass")
	flagCapture    = flag.String("capture", "", "Render one frame to this image file and exit")
	flagSaveConfig = flag.String("save-config", "", "Write the merged config to this file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
// Positional arguments replace the configured model list.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the -save-config target, or "" when not given.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagNoShadows {
		cfg.Shadow.Enabled = false
	}
	if *flagCapture != "" {
		cfg.Capture.Path = *flagCapture
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Scene.Models = modelsFromPaths(args)
	}
}

// modelsFromPaths lays meshes out side by side; the last path is the ground.
func modelsFromPaths(paths []string) []ModelConfig {
	models := make([]ModelConfig, len(paths))
	casters := len(paths) - 1
	for i, p := range paths {
		models[i] = ModelConfig{Path: p, Scale: 1}
		if i < casters {
			models[i].Translate[0] = 4 * (float32(i) - float32(casters-1)/2)
		}
	}
	return models
}

// Package viewer runs the interactive loop and one-shot captures.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/internal/capture"
	"github.com/Faultbox/shadowview/internal/config"
	"github.com/Faultbox/shadowview/internal/engine/camera"
	"github.com/Faultbox/shadowview/internal/engine/framebuffer"
	"github.com/Faultbox/shadowview/internal/engine/gpu/opengl"
	"github.com/Faultbox/shadowview/internal/engine/input"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/renderer"
	"github.com/Faultbox/shadowview/internal/engine/scene"
	"github.com/Faultbox/shadowview/internal/engine/shadow"
	"github.com/Faultbox/shadowview/internal/engine/window"
	"github.com/Faultbox/shadowview/internal/logger"
	"github.com/Faultbox/shadowview/pkg/math"
)

const title = "shadowview"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	frame    *scene.Frame
	models   []*model.Model
	rig      *camera.Rig
	spin     scene.Spin
	controls input.Controls
	log      *zap.Logger
}

// New creates the window, GL state, render passes and loads the scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:  cfg,
		rig:  camera.NewRig(),
		spin: scene.Spin{Step: cfg.Scene.SpinDegrees},
		log:  logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("models", len(cfg.Scene.Models)),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Hidden:     cfg.Capture.Path != "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var shadowMap *shadow.Map
	shadowMap, err = shadow.NewMap(&opengl.DepthBackend{}, cfg.Shadow.Resolution)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create shadow map: %w", err)
	}
	v.frame = scene.NewFrame(v.renderer.Device(), shadowMap)
	v.frame.ShadowsEnabled = cfg.Shadow.Enabled
	if err := v.frame.Initialize(); err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to initialize render passes: %w", err)
	}

	v.models, err = scene.LoadModels(cfg.Scene.Models, v.renderer.Device())
	if err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run renders until the window closes. With a capture path configured it
// renders a single frame to that file and returns.
func (v *Viewer) Run() error {
	if v.cfg.Capture.Path != "" {
		return v.captureTo(v.cfg.Capture.Path)
	}

	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		v.handle(v.controls.Process(v.window.PollEvents()))
		if !v.running {
			break
		}

		// 2. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 3. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handle(a input.Actions) {
	if a.Quit {
		v.running = false
		return
	}
	if a.Resized {
		v.renderer.Resize(a.Width, a.Height)
	}
	if a.ToggleShadows {
		v.frame.ShadowsEnabled = !v.frame.ShadowsEnabled
		v.log.Info("shadows toggled", zap.Bool("enabled", v.frame.ShadowsEnabled))
	}
	if a.TogglePause {
		v.spin.Paused = !v.spin.Paused
		v.log.Info("spin toggled", zap.Bool("paused", v.spin.Paused), zap.Float32("angle", v.spin.Angle()))
	}
	if a.ResetView {
		v.rig.Reset()
		v.spin.Reset()
	}
	if a.DragX != 0 || a.DragY != 0 {
		v.rig.HandleDrag(a.DragX, a.DragY)
	}
	if a.Zoom != 0 {
		v.rig.HandleZoom(a.Zoom)
	}
	if a.Capture {
		path := capture.NextPath(v.cfg.Capture.Dir, v.cfg.Capture.Format, time.Now())
		if err := v.captureTo(path); err != nil {
			v.log.Error("capture failed", zap.String("path", path), zap.Error(err))
		}
	}
}

// render draws one frame to the screen, advancing the spin.
func (v *Viewer) render() error {
	v.renderer.BindScreen()
	return v.draw(v.spin.Advance(), v.renderer.Aspect())
}

func (v *Viewer) draw(sceneMatrix math.Mat4, aspect float32) error {
	scene.Apply(v.models, sceneMatrix)
	cam := v.rig.Fit(scene.SceneBounds(v.models), aspect)
	return v.frame.Render(v.models, cam)
}

// captureTo renders the current frame offscreen at the configured
// supersample factor and writes it to path.
func (v *Viewer) captureTo(path string) error {
	if _, err := capture.FormatOf(path); err != nil {
		return err
	}

	factor := v.cfg.Capture.Supersample
	if factor < 1 {
		factor = 1
	}
	width, height := v.renderer.Size()
	fb, err := framebuffer.New(int32(width*factor), int32(height*factor))
	if err != nil {
		return err
	}
	defer fb.Destroy()

	pixels, err := fb.Capture(func() error {
		return v.draw(v.spin.Matrix(), fb.Aspect())
	})
	if err != nil {
		return err
	}

	fw, fh := fb.Size()
	img, err := capture.FromPixels(pixels, int(fw), int(fh))
	if err != nil {
		return err
	}
	img = capture.Downsample(img, factor)
	if err := capture.Save(path, img); err != nil {
		return fmt.Errorf("save capture: %w", err)
	}

	v.log.Info("frame captured",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return nil
}

// Close releases all viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	scene.DestroyModels(v.models)
	v.models = nil
	if v.frame != nil {
		v.frame.Destroy()
		v.frame = nil
	}
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}

// Package renderer initializes OpenGL and owns the default pipeline state.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/internal/engine/gpu/opengl"
	"github.com/Faultbox/shadowview/internal/logger"
)

// ClearColor is the sky blue behind the scene.
var ClearColor = [4]float32{0.25, 0.45, 0.65, 1.0}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the GL device and the screen viewport.
type Renderer struct {
	config Config
	device *opengl.Device
}

// New loads GL function pointers and sets up depth testing, blending and
// culling. Must be called AFTER the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	gl.Enable(gl.POLYGON_OFFSET_LINE)
	gl.PolygonOffset(-0.03125, -0.03125)

	// Parts are sorted opaque first so translucent ones blend over them.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	r := &Renderer{
		config: cfg,
		device: opengl.NewDevice(),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Device returns the GL device used by the render passes.
func (r *Renderer) Device() *opengl.Device {
	return r.device
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.device.Destroy()
}

// Resize sets the screen viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the screen viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns width/height of the screen viewport.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// BindScreen makes the default framebuffer current with the screen viewport.
func (r *Renderer) BindScreen() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
}

package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/internal/engine/camera"
	"github.com/Faultbox/shadowview/internal/engine/gpu"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/shadow"
	"github.com/Faultbox/shadowview/internal/logger"
	"github.com/Faultbox/shadowview/pkg/formats"
)

// Frame owns both passes and the depth target and runs the two-pass
// protocol once per frame. The last model in a frame is the receiver: it is
// lit and shadowed but casts no shadow.
type Frame struct {
	dev       gpu.Device
	scene     *ScenePass
	shadow    *ShadowPass
	shadowMap *shadow.Map

	// ShadowsEnabled toggles the depth pass. It has no effect without a map.
	ShadowsEnabled bool

	log *zap.Logger
}

// NewFrame creates a frame renderer. shadowMap may be nil to render without
// shadows.
func NewFrame(dev gpu.Device, shadowMap *shadow.Map) *Frame {
	return &Frame{
		dev:            dev,
		scene:          NewScenePass(dev),
		shadow:         NewShadowPass(dev),
		shadowMap:      shadowMap,
		ShadowsEnabled: shadowMap != nil,
		log:            logger.Named("frame"),
	}
}

// Initialize compiles the shaders of both passes.
func (f *Frame) Initialize() error {
	if err := f.shadow.Initialize(); err != nil {
		return err
	}
	if err := f.scene.Initialize(); err != nil {
		return err
	}
	fields := []zap.Field{zap.Bool("shadows", f.ShadowsEnabled)}
	if f.shadowMap != nil {
		fields = append(fields, zap.Int32("resolution", f.shadowMap.Resolution()))
	}
	f.log.Debug("render passes ready", fields...)
	return nil
}

// Renderers returns the pass pair models dispatch to.
func (f *Frame) Renderers() model.Renderers {
	return model.Renderers{Scene: f.scene, Shadow: f.shadow}
}

// Render draws models into the currently bound framebuffer.
func (f *Frame) Render(models []*model.Model, cam camera.Frame) error {
	if !f.shadow.Initialized() || !f.scene.Initialized() {
		return ErrNotInitialized
	}
	if len(models) == 0 {
		f.dev.Clear()
		return nil
	}

	params := model.FrameParams{
		View:            cam.View,
		Projection:      cam.Projection,
		LightProjection: cam.Projection,
		LightDirection:  cam.LightDirection,
		Eye:             cam.Eye,
	}
	params.LightView = shadow.LightView(cam.LightPosition, SceneBounds(models).Center(), cam.LightUp)

	renderers := f.Renderers()

	// Pass 1: depth from the light.
	var tex shadow.Texture
	for _, m := range models {
		m.SetShadowTexture(shadow.Texture{})
	}
	if f.ShadowsEnabled && f.shadowMap != nil {
		rec := f.shadowMap.Begin()
		for _, m := range models[:len(models)-1] {
			m.SetRenderMode(model.ModeShadow)
			if err := m.Render(renderers, params); err != nil {
				rec.Finish()
				return fmt.Errorf("shadow pass %s: %w", m.Path, err)
			}
		}
		tex = rec.Finish()
	}

	// Pass 2: lit scene from the camera.
	f.dev.Clear()
	for i := len(models) - 1; i >= 0; i-- {
		m := models[i]
		m.SetShadowTexture(tex)
		m.SetRenderMode(model.ModeScene)
		if err := m.Render(renderers, params); err != nil {
			return fmt.Errorf("scene pass %s: %w", m.Path, err)
		}
	}
	return nil
}

// Destroy releases the passes and the depth target.
func (f *Frame) Destroy() {
	f.scene.Destroy()
	f.shadow.Destroy()
	if f.shadowMap != nil {
		f.shadowMap.Destroy()
		f.shadowMap = nil
	}
}

// SceneBounds unites the bounds of every model except the last, which is
// the ground. Empty models are ignored. A single model frames itself.
func SceneBounds(models []*model.Model) formats.BoundingBox {
	if len(models) == 0 {
		return formats.BoundingBox{}
	}
	casters := models
	if len(models) > 1 {
		casters = models[:len(models)-1]
	}

	var bounds formats.BoundingBox
	found := false
	for _, m := range casters {
		if m.Empty() {
			continue
		}
		if !found {
			bounds = m.Bounds()
			found = true
			continue
		}
		bounds = bounds.Unite(m.Bounds())
	}
	if !found {
		return models[len(models)-1].Bounds()
	}
	return bounds
}

package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/internal/config"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/logger"
	"github.com/Faultbox/shadowview/pkg/math"
)

var yAxis = math.Vec3{Y: 1}

// LoadModels loads and places every configured model in order. On failure
// the models loaded so far are destroyed.
func LoadModels(configs []config.ModelConfig, alloc model.BufferAllocator) ([]*model.Model, error) {
	models := make([]*model.Model, 0, len(configs))
	for _, mc := range configs {
		m, err := model.Load(mc.Path, alloc)
		if err != nil {
			DestroyModels(models)
			return nil, fmt.Errorf("load scene: %w", err)
		}
		Place(m, mc)
		models = append(models, m)
	}
	logger.Info("scene loaded", zap.Int("models", len(models)))
	return models, nil
}

// Place applies translate, then rotate about Y, then scale. A zero scale
// means 1.
func Place(m *model.Model, mc config.ModelConfig) {
	scale := mc.Scale
	if scale == 0 {
		scale = 1
	}
	m.Translate(mc.Translate[0], mc.Translate[1], mc.Translate[2]).
		Rotate(mc.Rotate, yAxis).
		Scale(scale)
}

// DestroyModels releases the GPU storage of every model.
func DestroyModels(models []*model.Model) {
	for _, m := range models {
		m.Destroy()
	}
}

// Spin turns the whole scene about Y by a fixed step per frame.
type Spin struct {
	Step   float32 // degrees per frame
	Paused bool

	angle float32
}

// Advance steps the spin unless paused and returns the scene matrix.
func (s *Spin) Advance() math.Mat4 {
	if !s.Paused {
		s.angle += s.Step
		for s.angle >= 360 {
			s.angle -= 360
		}
		for s.angle < 0 {
			s.angle += 360
		}
	}
	return s.Matrix()
}

// Matrix returns the current scene matrix without stepping.
func (s *Spin) Matrix() math.Mat4 {
	return math.Rotate(s.angle, yAxis)
}

// Angle returns the current angle in degrees.
func (s *Spin) Angle() float32 { return s.angle }

// Reset returns the spin to zero.
func (s *Spin) Reset() { s.angle = 0 }

// Apply sets the scene matrix on every model.
func Apply(models []*model.Model, sceneMatrix math.Mat4) {
	for _, m := range models {
		m.SetSceneMatrix(sceneMatrix)
	}
}

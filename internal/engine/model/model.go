// Package model ties a parsed OBJ mesh to its GPU buffers and transforms.
package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowview/internal/engine/shadow"
	"github.com/Faultbox/shadowview/internal/logger"
	"github.com/Faultbox/shadowview/pkg/formats"
	"github.com/Faultbox/shadowview/pkg/math"
)

// RenderMode selects which renderer draws a model.
type RenderMode int

const (
	ModeScene RenderMode = iota
	ModeShadow
)

func (m RenderMode) String() string {
	switch m {
	case ModeScene:
		return "scene"
	case ModeShadow:
		return "shadow"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// FrameParams carries the per-frame camera and light state shared by all models.
type FrameParams struct {
	View            math.Mat4
	Projection      math.Mat4
	LightView       math.Mat4
	LightProjection math.Mat4
	LightDirection  math.Vec3
	Eye             math.Vec3
}

// View is the read-only face of a model that renderers draw from.
type View interface {
	Store() MeshStore
	NormalOffset() int
	Parts() []formats.Part
	ModelMatrix() math.Mat4
	SceneMatrix() math.Mat4
	ShadowTexture() shadow.Texture
}

// Renderer draws one model for the current frame.
type Renderer interface {
	Render(v View, p FrameParams) error
}

// Renderers pairs the two renderer variants a model dispatches to.
type Renderers struct {
	Scene  Renderer
	Shadow Renderer
}

// Model is a loaded mesh placed in the scene.
type Model struct {
	Path string

	store        MeshStore
	normalOffset int
	parts        []formats.Part
	bounds       formats.BoundingBox

	matrix      math.Mat4
	sceneMatrix math.Mat4
	mode        RenderMode
	shadowTex   shadow.Texture
}

// Load parses the OBJ file at path and uploads its geometry through alloc.
// A missing or empty file yields a model that renders nothing; only a
// failed upload is reported as an error.
func Load(path string, alloc BufferAllocator) (*Model, error) {
	log := logger.Named("model")
	obj := formats.ParseOBJFile(path, formats.OBJOptions{Logger: log})

	m := &Model{
		Path:        path,
		parts:       obj.Parts,
		bounds:      obj.Bounds,
		matrix:      math.Identity(),
		sceneMatrix: math.Identity(),
	}

	if obj.VertexCount() == 0 || len(obj.Indices) == 0 {
		log.Warn("model has no geometry", zap.String("path", path))
		return m, nil
	}

	store, err := alloc.CreateMesh(obj.VertexData(), obj.Indices)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	m.store = store
	m.normalOffset = obj.NormalOffset()

	log.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", obj.VertexCount()),
		zap.Int("triangles", len(obj.Indices)/3),
		zap.Int("parts", len(obj.Parts)),
		zap.Int("skippedFaces", obj.Skipped))

	return m, nil
}

// Translate post-multiplies a translation onto the model matrix.
func (m *Model) Translate(x, y, z float32) *Model {
	m.matrix = m.matrix.Mul(math.Translate(x, y, z))
	return m
}

// Rotate post-multiplies a rotation of degrees around axis.
func (m *Model) Rotate(degrees float32, axis math.Vec3) *Model {
	m.matrix = m.matrix.Mul(math.Rotate(degrees, axis))
	return m
}

// Scale post-multiplies a uniform scale.
func (m *Model) Scale(s float32) *Model {
	return m.ScaleXYZ(s, s, s)
}

// ScaleXYZ post-multiplies a per-axis scale.
func (m *Model) ScaleXYZ(x, y, z float32) *Model {
	m.matrix = m.matrix.Mul(math.Scale(x, y, z))
	return m
}

// SetSceneMatrix sets the transform applied on top of the model matrix.
func (m *Model) SetSceneMatrix(s math.Mat4) { m.sceneMatrix = s }

// SetRenderMode selects the renderer used by the next Render call.
func (m *Model) SetRenderMode(mode RenderMode) { m.mode = mode }

// RenderMode returns the current render mode.
func (m *Model) RenderMode() RenderMode { return m.mode }

// SetShadowTexture attaches a finished depth map. The zero Texture detaches it.
func (m *Model) SetShadowTexture(t shadow.Texture) { m.shadowTex = t }

// Bounds returns the object-space bounding box.
func (m *Model) Bounds() formats.BoundingBox { return m.bounds }

// Empty reports whether the model has nothing to draw.
func (m *Model) Empty() bool { return m.store == nil || len(m.parts) == 0 }

func (m *Model) Store() MeshStore { return m.store }
func (m *Model) NormalOffset() int { return m.normalOffset }
func (m *Model) Parts() []formats.Part { return m.parts }
func (m *Model) ModelMatrix() math.Mat4 { return m.matrix }
func (m *Model) SceneMatrix() math.Mat4 { return m.sceneMatrix }
func (m *Model) ShadowTexture() shadow.Texture { return m.shadowTex }

// Render hands the model to the renderer matching its mode. Empty models are
// skipped.
func (m *Model) Render(r Renderers, p FrameParams) error {
	if m.Empty() {
		return nil
	}
	var target Renderer
	switch m.mode {
	case ModeScene:
		target = r.Scene
	case ModeShadow:
		target = r.Shadow
	}
	if target == nil {
		return fmt.Errorf("no renderer for %s mode", m.mode)
	}
	return target.Render(m, p)
}

// Destroy releases the GPU buffers.
func (m *Model) Destroy() {
	if m.store != nil {
		m.store.Destroy()
		m.store = nil
	}
}

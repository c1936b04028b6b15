// Package scene renders models with two-pass shadow mapping.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/shadowview/internal/engine/gpu"
	"github.com/Faultbox/shadowview/internal/engine/lighting"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/scene/shaders"
	"github.com/Faultbox/shadowview/pkg/math"
)

// ErrNotInitialized is returned when a pass renders before Initialize.
var ErrNotInitialized = errors.New("scene: pass not initialized")

// shadowUnit is the texture unit the depth map is sampled from.
const shadowUnit = 0

// ScenePass draws models with per-pixel lighting, sampling an attached
// shadow map.
type ScenePass struct {
	// Light supplies the light colors; its direction comes from the frame.
	Light lighting.Light

	dev     gpu.Device
	program uint32

	// Transform uniforms
	locView           int32
	locNormalMatrix   int32
	locModel          int32
	locModelView      int32
	locProjection     int32
	locMVP            int32
	locLightMatrix    int32
	locLightModelView int32
	locLightMVP       int32

	// Shadow uniforms
	locShadowMap     int32
	locShadowEnabled int32

	// Light uniforms
	locLightAmbient   int32
	locLightDiffuse   int32
	locLightSpecular  int32
	locLightDirection int32
	locLightEye       int32

	// Material uniforms
	locMatAmbient       int32
	locMatDiffuse       int32
	locMatSpecular      int32
	locMatSpecularPower int32
	locMatBrightness    int32
	locMatOpacity       int32
}

// NewScenePass returns an uninitialized scene pass bound to dev.
func NewScenePass(dev gpu.Device) *ScenePass {
	return &ScenePass{dev: dev, Light: lighting.Default()}
}

// Initialize compiles the scene shaders and caches uniform locations.
// Calling it again is a no-op.
func (p *ScenePass) Initialize() error {
	if p.program != 0 {
		return nil
	}
	program, err := p.dev.CompileProgram(shaders.SceneVertexShader, shaders.SceneFragmentShader)
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}
	p.program = program

	loc := func(name string) int32 { return p.dev.UniformLocation(program, name) }

	p.locView = loc("uView")
	p.locNormalMatrix = loc("uNormalMatrix")
	p.locModel = loc("uModel")
	p.locModelView = loc("uModelView")
	p.locProjection = loc("uProjection")
	p.locMVP = loc("uMVP")
	p.locLightMatrix = loc("uLightMatrix")
	p.locLightModelView = loc("uLightModelView")
	p.locLightMVP = loc("uLightMVP")

	p.locShadowMap = loc("uShadowMap")
	p.locShadowEnabled = loc("uShadowEnabled")

	p.locLightAmbient = loc("uLight.ambient")
	p.locLightDiffuse = loc("uLight.diffuse")
	p.locLightSpecular = loc("uLight.specular")
	p.locLightDirection = loc("uLight.direction")
	p.locLightEye = loc("uLight.eye")

	p.locMatAmbient = loc("uMaterial.ambient")
	p.locMatDiffuse = loc("uMaterial.diffuse")
	p.locMatSpecular = loc("uMaterial.specular")
	p.locMatSpecularPower = loc("uMaterial.specularPower")
	p.locMatBrightness = loc("uMaterial.brightness")
	p.locMatOpacity = loc("uMaterial.opacity")

	return nil
}

// Initialized reports whether Initialize has succeeded.
func (p *ScenePass) Initialized() bool { return p.program != 0 }

// Render draws every part of v.
func (p *ScenePass) Render(v model.View, f model.FrameParams) error {
	if p.program == 0 {
		return ErrNotInitialized
	}
	store := v.Store()
	if store == nil {
		return nil
	}

	dev := p.dev
	dev.UseProgram(p.program)
	dev.BindMesh(store.VertexBuffer(), store.IndexBuffer())

	modelMatrix := worldMatrix(v)
	modelView := f.View.Mul(modelMatrix)
	mvp := f.Projection.Mul(modelView)
	lightModelView := f.LightView.Mul(modelMatrix)
	lightMVP := f.LightProjection.Mul(lightModelView)

	dev.EnableAttribute(gpu.AttribPosition, 0)
	dev.EnableAttribute(gpu.AttribNormal, v.NormalOffset())

	dev.SetMat4(p.locView, f.View)
	dev.SetMat4(p.locNormalMatrix, modelMatrix.NormalMatrix())
	dev.SetMat4(p.locModel, modelMatrix)
	dev.SetMat4(p.locModelView, modelView)
	dev.SetMat4(p.locProjection, f.Projection)
	dev.SetMat4(p.locMVP, mvp)
	dev.SetMat4(p.locLightMatrix, f.LightView)
	dev.SetMat4(p.locLightModelView, lightModelView)
	dev.SetMat4(p.locLightMVP, lightMVP)

	shadowTex := v.ShadowTexture()
	if shadowTex.Valid() {
		dev.BindTexture(shadowUnit, shadowTex.Handle())
		dev.SetInt(p.locShadowMap, shadowUnit)
		dev.SetBool(p.locShadowEnabled, true)
	} else {
		dev.SetBool(p.locShadowEnabled, false)
	}

	dev.SetColor(p.locLightAmbient, p.Light.Ambient)
	dev.SetColor(p.locLightDiffuse, p.Light.Diffuse)
	dev.SetColor(p.locLightSpecular, p.Light.Specular)
	dev.SetVec3(p.locLightDirection, f.LightDirection)
	dev.SetVec3(p.locLightEye, f.Eye)

	for _, part := range v.Parts() {
		mat := part.Material
		dev.SetColor(p.locMatAmbient, mat.EffectiveAmbient())
		dev.SetColor(p.locMatDiffuse, mat.EffectiveDiffuse())
		// The ambient color doubles as the specular tint.
		dev.SetColor(p.locMatSpecular, mat.Ambient)
		dev.SetFloat(p.locMatSpecularPower, mat.SpecularIntensity)
		dev.SetFloat(p.locMatBrightness, mat.Brightness)
		dev.SetFloat(p.locMatOpacity, mat.Opacity)

		dev.DrawElements(part.Type, part.Length, part.ByteOffset())
	}

	if shadowTex.Valid() {
		dev.BindTexture(shadowUnit, 0)
	}
	dev.UnbindMesh()
	dev.UseProgram(0)
	return nil
}

// Destroy deletes the shader program.
func (p *ScenePass) Destroy() {
	if p.program != 0 {
		p.dev.DeleteProgram(p.program)
		p.program = 0
	}
}

// worldMatrix applies the scene transform on top of the model transform.
func worldMatrix(v model.View) math.Mat4 {
	return v.SceneMatrix().Mul(v.ModelMatrix())
}

package scene

import (
	"fmt"

	"github.com/Faultbox/shadowview/internal/engine/gpu"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/scene/shaders"
)

// ShadowPass writes model depth as seen from the light.
type ShadowPass struct {
	dev     gpu.Device
	program uint32

	locLightMVP int32
}

// NewShadowPass returns an uninitialized shadow pass bound to dev.
func NewShadowPass(dev gpu.Device) *ShadowPass {
	return &ShadowPass{dev: dev}
}

// Initialize compiles the depth-only shaders. Calling it again is a no-op.
func (p *ShadowPass) Initialize() error {
	if p.program != 0 {
		return nil
	}
	program, err := p.dev.CompileProgram(shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
	if err != nil {
		return fmt.Errorf("shadow shader: %w", err)
	}
	p.program = program
	p.locLightMVP = p.dev.UniformLocation(program, "uLightMVP")
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (p *ShadowPass) Initialized() bool { return p.program != 0 }

// Render draws the depth of every part of v.
func (p *ShadowPass) Render(v model.View, f model.FrameParams) error {
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
	dev.EnableAttribute(gpu.AttribPosition, 0)

	lightMVP := f.LightProjection.Mul(f.LightView).Mul(worldMatrix(v))
	dev.SetMat4(p.locLightMVP, lightMVP)

	for _, part := range v.Parts() {
		dev.DrawElements(part.Type, part.Length, part.ByteOffset())
	}

	dev.UnbindMesh()
	dev.UseProgram(0)
	return nil
}

// Destroy deletes the shader program.
func (p *ShadowPass) Destroy() {
	if p.program != 0 {
		p.dev.DeleteProgram(p.program)
		p.program = 0
	}
}

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowview/internal/engine/shadow"
)

// DepthBackend implements shadow.Backend.
type DepthBackend struct {
	prevViewport [4]int32
	prevFBO      int32
}

func (b *DepthBackend) CreateDepthTarget(resolution int32) (uint32, uint32, error) {
	var fbo, tex uint32

	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, resolution, resolution, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Outside the light frustum counts as lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)

	// Depth only
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return 0, 0, fmt.Errorf("%w: status 0x%x", shadow.ErrIncomplete, status)
	}
	return fbo, tex, nil
}

func (b *DepthBackend) BeginDepth(fbo uint32, resolution int32) {
	gl.GetIntegerv(gl.VIEWPORT, &b.prevViewport[0])
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &b.prevFBO)

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, resolution, resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

func (b *DepthBackend) EndDepth() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(b.prevFBO))
	gl.Viewport(b.prevViewport[0], b.prevViewport[1], b.prevViewport[2], b.prevViewport[3])
	gl.CullFace(gl.BACK)
}

func (b *DepthBackend) DeleteDepthTarget(fbo, texture uint32) {
	if fbo != 0 {
		gl.DeleteFramebuffers(1, &fbo)
	}
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

var _ shadow.Backend = (*DepthBackend)(nil)

// Package shadow provides the depth target used for shadow mapping.
//
// A Map is recorded into between Begin and Finish. Finish yields a Texture,
// the only form in which the depth map can be handed to the scene pass, so a
// target cannot be sampled while it is still bound for writing.
package shadow

import (
	"errors"
	"fmt"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// ErrIncomplete is returned when the depth framebuffer cannot be completed.
var ErrIncomplete = errors.New("shadow: framebuffer incomplete")

// Backend performs the graphics calls behind a Map.
type Backend interface {
	CreateDepthTarget(resolution int32) (fbo, texture uint32, err error)
	BeginDepth(fbo uint32, resolution int32)
	EndDepth()
	DeleteDepthTarget(fbo, texture uint32)
}

// Texture is a finished depth map ready for sampling. The zero value means
// no shadow map.
type Texture struct {
	handle uint32
}

// Handle returns the texture object name, 0 for none.
func (t Texture) Handle() uint32 { return t.handle }

// Valid reports whether t refers to a depth texture.
func (t Texture) Valid() bool { return t.handle != 0 }

// Map is a square depth-only render target.
type Map struct {
	backend    Backend
	fbo        uint32
	texture    uint32
	resolution int32
	active     *Recording
}

// NewMap creates a depth target on the given backend. A non-positive
// resolution selects DefaultResolution.
func NewMap(b Backend, resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	fbo, tex, err := b.CreateDepthTarget(resolution)
	if err != nil {
		return nil, fmt.Errorf("create %dx%d depth target: %w", resolution, resolution, err)
	}
	return &Map{backend: b, fbo: fbo, texture: tex, resolution: resolution}, nil
}

// Resolution returns the width and height of the depth texture.
func (m *Map) Resolution() int32 { return m.resolution }

// recording reports whether the map is bound for writing.
func (m *Map) recording() bool { return m.active != nil }

// Begin binds the map for writing, clears depth and switches to front-face
// culling. Calling Begin while recording returns the active Recording.
func (m *Map) Begin() *Recording {
	if m.active != nil {
		return m.active
	}
	m.backend.BeginDepth(m.fbo, m.resolution)
	m.active = &Recording{m: m}
	return m.active
}

// Destroy releases the framebuffer and texture.
func (m *Map) Destroy() {
	if m.active != nil {
		m.active.Finish()
	}
	if m.fbo != 0 || m.texture != 0 {
		m.backend.DeleteDepthTarget(m.fbo, m.texture)
		m.fbo, m.texture = 0, 0
	}
}

// Recording is a depth map currently bound as the render target.
type Recording struct {
	m    *Map
	done bool
}

// Finish unbinds the target, restores the previous viewport and back-face
// culling, and returns the sampleable texture. Repeated calls return the
// same texture without touching GL state.
func (r *Recording) Finish() Texture {
	if !r.done {
		r.m.backend.EndDepth()
		r.m.active = nil
		r.done = true
	}
	return Texture{handle: r.m.texture}
}

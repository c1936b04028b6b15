// Package opengl implements the gpu and shadow backends on OpenGL 4.1 core.
package opengl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowview/internal/engine/gpu"
	"github.com/Faultbox/shadowview/internal/engine/model"
	"github.com/Faultbox/shadowview/internal/engine/shader"
	"github.com/Faultbox/shadowview/pkg/formats"
	"github.com/Faultbox/shadowview/pkg/math"
)

// ErrEmptyMesh is returned when asked to upload a mesh without data.
var ErrEmptyMesh = errors.New("opengl: empty mesh")

// Device implements gpu.Device and model.BufferAllocator.
// Core profile requires a bound vertex array, so one VAO is shared by all
// meshes and attribute pointers are respecified per draw.
type Device struct {
	vao     uint32
	enabled []uint32
}

// NewDevice creates the shared vertex array. Requires a current GL context.
func NewDevice() *Device {
	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	return d
}

// Destroy deletes the shared vertex array.
func (d *Device) Destroy() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return shader.CompileProgram(vertexSrc, fragmentSrc)
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return shader.GetUniform(program, name)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) BindMesh(vertexBuffer, indexBuffer uint32) {
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vertexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, indexBuffer)
}

func (d *Device) UnbindMesh() {
	for _, loc := range d.enabled {
		gl.DisableVertexAttribArray(loc)
	}
	d.enabled = d.enabled[:0]
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (d *Device) EnableAttribute(location uint32, byteOffset int) {
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, 3, gl.FLOAT, false, 0, uintptr(byteOffset))
	d.enabled = append(d.enabled, location)
}

func (d *Device) SetMat4(location int32, m math.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, m.Ptr())
}

func (d *Device) SetVec3(location int32, v math.Vec3) {
	gl.Uniform3f(location, v.X, v.Y, v.Z)
}

func (d *Device) SetColor(location int32, c formats.Color) {
	gl.Uniform3f(location, c.R, c.G, c.B)
}

func (d *Device) SetFloat(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) SetInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) SetBool(location int32, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(location, i)
}

func (d *Device) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *Device) DrawElements(prim formats.PrimitiveType, count int, byteOffset int) {
	gl.DrawElementsWithOffset(uint32(prim), int32(count), gl.UNSIGNED_INT, uintptr(byteOffset))
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

var (
	_ gpu.Device            = (*Device)(nil)
	_ model.BufferAllocator = (*Device)(nil)
)

// Mesh is a vertex buffer and index buffer pair.
type Mesh struct {
	vbo uint32
	ebo uint32
}

// CreateMesh uploads vertices and indices into static GL buffers.
func (d *Device) CreateMesh(vertices []float32, indices []uint32) (model.MeshStore, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}

	m := &Mesh{}
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		m.Destroy()
		return nil, fmt.Errorf("opengl: buffer upload failed: 0x%x", code)
	}
	return m, nil
}

func (m *Mesh) VertexBuffer() uint32 { return m.vbo }
func (m *Mesh) IndexBuffer() uint32 { return m.ebo }

// Destroy deletes both buffers.
func (m *Mesh) Destroy() {
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
}

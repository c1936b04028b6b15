// Package gpu wraps the OpenGL calls issued by the render passes behind an
// interface so the passes can run against a recording device in tests.
package gpu

import (
	"github.com/Faultbox/shadowview/pkg/formats"
	"github.com/Faultbox/shadowview/pkg/math"
)

// Device is the set of draw-time graphics operations used by the passes.
type Device interface {
	// CompileProgram links a vertex and fragment shader pair.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32

	UseProgram(program uint32)
	BindMesh(vertexBuffer, indexBuffer uint32)
	UnbindMesh()
	// EnableAttribute points location at tightly packed vec3 data starting
	// byteOffset bytes into the bound vertex buffer.
	EnableAttribute(location uint32, byteOffset int)

	SetMat4(location int32, m math.Mat4)
	SetVec3(location int32, v math.Vec3)
	SetColor(location int32, c formats.Color)
	SetFloat(location int32, v float32)
	SetInt(location int32, v int32)
	SetBool(location int32, v bool)

	// BindTexture binds a 2D texture to the given unit; 0 unbinds.
	BindTexture(unit uint32, texture uint32)
	// DrawElements draws count uint32 indices starting byteOffset bytes into
	// the bound index buffer.
	DrawElements(prim formats.PrimitiveType, count int, byteOffset int)

	// Clear clears the color and depth of the bound framebuffer.
	Clear()
}

// Attribute locations shared by the scene and shadow shaders.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
)

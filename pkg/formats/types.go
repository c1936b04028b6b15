package formats

import (
	"github.com/Faultbox/shadowview/pkg/math"
)

// PrimitiveType identifies how a part's indices are assembled.
// Values match the OpenGL primitive enums so they can be passed straight
// to a draw call.
type PrimitiveType uint32

const (
	// PrimitiveNone marks a part that was never opened.
	PrimitiveNone PrimitiveType = 0
	// PrimitiveTriangles is an indexed triangle list (GL_TRIANGLES).
	PrimitiveTriangles PrimitiveType = 0x0004
)

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// White is the default material color.
var White = Color{1, 1, 1}

// Scale returns c with every component multiplied by f.
func (c Color) Scale(f float32) Color {
	return Color{c.R * f, c.G * f, c.B * f}
}

// Vec3 returns the color as a vector for uniform uploads.
func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Material describes how a part is lit.
type Material struct {
	Ambient  Color
	Diffuse  Color
	Specular Color

	AmbientIntensity  float32
	DiffuseIntensity  float32
	SpecularIntensity float32

	Brightness float32
	Opacity    float32 // 0 = fully transparent, 1 = opaque
}

// DefaultMaterial returns the material every part starts with.
func DefaultMaterial() Material {
	return Material{
		Ambient:           White,
		Diffuse:           White,
		Specular:          White,
		AmbientIntensity:  0.1,
		DiffuseIntensity:  1.0,
		SpecularIntensity: 0,
		Brightness:        1,
		Opacity:           1,
	}
}

// EffectiveAmbient returns the ambient color scaled by its intensity.
func (m Material) EffectiveAmbient() Color {
	return m.Ambient.Scale(m.AmbientIntensity)
}

// EffectiveDiffuse returns the diffuse color scaled by its intensity.
func (m Material) EffectiveDiffuse() Color {
	return m.Diffuse.Scale(m.DiffuseIntensity)
}

// Part is a contiguous run of indices drawn with one material.
type Part struct {
	Name     string
	Type     PrimitiveType
	Start    int // first index, -1 until a face is accepted
	Length   int // number of indices
	Material Material
}

// newPart returns an open triangle-list part with no faces yet.
func newPart(name string) Part {
	return Part{
		Name:     name,
		Type:     PrimitiveTriangles,
		Start:    -1,
		Material: DefaultMaterial(),
	}
}

// IsValid reports whether the part covers at least one index.
func (p Part) IsValid() bool {
	return p.Type != PrimitiveNone && p.Start >= 0 && p.Length > 0
}

// ByteOffset returns the part's offset into a uint32 index buffer.
func (p Part) ByteOffset() int {
	return p.Start * 4
}

// Range is a closed interval on one axis.
type Range struct {
	Min, Max float32
}

// BoundingBox is an axis-aligned extent.
type BoundingBox struct {
	X, Y, Z Range
}

// PointBox returns a degenerate box around a single point.
func PointBox(v math.Vec3) BoundingBox {
	return BoundingBox{
		X: Range{v.X, v.X},
		Y: Range{v.Y, v.Y},
		Z: Range{v.Z, v.Z},
	}
}

// Extend grows the box to contain v.
func (b BoundingBox) Extend(v math.Vec3) BoundingBox {
	return b.Unite(PointBox(v))
}

// Unite returns the smallest box containing both boxes.
func (b BoundingBox) Unite(other BoundingBox) BoundingBox {
	return BoundingBox{
		X: Range{min(b.X.Min, other.X.Min), max(b.X.Max, other.X.Max)},
		Y: Range{min(b.Y.Min, other.Y.Min), max(b.Y.Max, other.Y.Max)},
		Z: Range{min(b.Z.Min, other.Z.Min), max(b.Z.Max, other.Z.Max)},
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() math.Vec3 {
	return math.Vec3{
		X: (b.X.Min + b.X.Max) / 2,
		Y: (b.Y.Min + b.Y.Max) / 2,
		Z: (b.Z.Min + b.Z.Max) / 2,
	}
}

// Width returns the extent along X.
func (b BoundingBox) Width() float32 { return b.X.Max - b.X.Min }

// Height returns the extent along Y.
func (b BoundingBox) Height() float32 { return b.Y.Max - b.Y.Min }

// Depth returns the extent along Z.
func (b BoundingBox) Depth() float32 { return b.Z.Max - b.Z.Min }

// Size returns the largest of width, height and depth.
func (b BoundingBox) Size() float32 {
	return max(b.Width(), b.Height(), b.Depth())
}

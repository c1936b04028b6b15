// Package camera frames the scene from its bounding box and places the
// light relative to the camera.
package camera

import (
	"github.com/Faultbox/shadowview/pkg/formats"
	"github.com/Faultbox/shadowview/pkg/math"
)

// Frame is the camera and light state for one frame.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4

	// Light placement; the light looks toward the scene center.
	LightPosition math.Vec3
	LightUp       math.Vec3
	// LightDirection points from the light into the scene.
	LightDirection math.Vec3

	// Eye is the viewer position used for specular highlights.
	Eye math.Vec3
}

// Rig orbits a camera around the scene center. The light rides on the same
// orbit, turned by LightYaw and pulled further out.
type Rig struct {
	// Orbit angles in degrees
	Yaw   float32
	Pitch float32

	LightYaw float32

	// Distances as multiples of the scene size
	CameraDistance float32
	LightDistance  float32
	Zoom           float32

	// Projection
	FovY float32 // degrees
	Near float32
	Far  float32

	// Constraints
	MinPitch float32
	MaxPitch float32
	MinZoom  float32
	MaxZoom  float32

	// Sensitivity
	DragSensitivity float32 // degrees per pixel
	ZoomSensitivity float32
}

// NewRig creates a rig looking down at the scene from the front right.
func NewRig() *Rig {
	return &Rig{
		Yaw:             20,
		Pitch:           -25,
		LightYaw:        45,
		CameraDistance:  1.5,
		LightDistance:   5,
		Zoom:            1,
		FovY:            45,
		Near:            0.1,
		Far:             1000,
		MinPitch:        -89,
		MaxPitch:        89,
		MinZoom:         0.2,
		MaxZoom:         10,
		DragSensitivity: 0.3,
		ZoomSensitivity: 0.1,
	}
}

// Fit computes the frame for a scene with the given bounds and viewport
// aspect ratio.
func (r *Rig) Fit(bounds formats.BoundingBox, aspect float32) Frame {
	center := bounds.Center()
	size := bounds.Size()
	if size <= 0 {
		size = 1
	}
	if aspect <= 0 {
		aspect = 1
	}

	yAxis := math.Vec3{Y: 1}
	base := math.Translate(center.X, center.Y, center.Z).
		Mul(math.Rotate(r.Yaw, yAxis)).
		Mul(math.Rotate(r.Pitch, math.Vec3{X: 1}))

	light := base.
		Mul(math.Rotate(r.LightYaw, yAxis)).
		Mul(math.Translate(0, 0, size*r.LightDistance))
	cam := base.Mul(math.Translate(0, 0, size*r.CameraDistance*r.Zoom))

	origin := math.Vec3{}
	camPos := cam.TransformVec3(origin)
	camUp := cam.TransformDirection(yAxis).Normalize()

	return Frame{
		View:           math.LookAt(camPos, center, camUp),
		Projection:     math.Perspective(math.Radians(r.FovY), aspect, r.Near, r.Far),
		LightPosition:  light.TransformVec3(origin),
		LightUp:        light.TransformDirection(yAxis).Normalize(),
		LightDirection: light.TransformDirection(math.Vec3{Z: -1}).Normalize(),
		Eye:            math.Vec3{X: center.X, Y: center.Y, Z: bounds.Z.Max},
	}
}

// HandleDrag orbits the camera by a mouse drag delta in pixels.
func (r *Rig) HandleDrag(deltaX, deltaY float32) {
	r.Yaw -= deltaX * r.DragSensitivity
	r.Pitch -= deltaY * r.DragSensitivity

	if r.Pitch < r.MinPitch {
		r.Pitch = r.MinPitch
	}
	if r.Pitch > r.MaxPitch {
		r.Pitch = r.MaxPitch
	}
}

// HandleZoom scales the camera distance by a scroll wheel delta.
func (r *Rig) HandleZoom(delta float32) {
	r.Zoom -= delta * r.Zoom * r.ZoomSensitivity
	if r.Zoom < r.MinZoom {
		r.Zoom = r.MinZoom
	}
	if r.Zoom > r.MaxZoom {
		r.Zoom = r.MaxZoom
	}
}

// Reset restores the default orbit.
func (r *Rig) Reset() {
	d := NewRig()
	r.Yaw, r.Pitch, r.Zoom = d.Yaw, d.Pitch, d.Zoom
}

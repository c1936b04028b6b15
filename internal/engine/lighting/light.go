// Package lighting describes the directional light that illuminates the scene.
package lighting

import "github.com/Faultbox/shadowview/pkg/formats"

// Light is a directional light. Its direction comes from the camera rig
// each frame; only the colors live here.
type Light struct {
	Ambient  formats.Color
	Diffuse  formats.Color
	Specular formats.Color
}

// Default returns a white light over a dim grey ambient term.
func Default() Light {
	return Light{
		Ambient:  formats.Color{R: 40.0 / 255, G: 40.0 / 255, B: 40.0 / 255},
		Diffuse:  formats.White,
		Specular: formats.White,
	}
}

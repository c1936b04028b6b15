package shadow

import "github.com/Faultbox/shadowview/pkg/math"

// LightView returns the view matrix of a light at pos looking at target.
// When up is parallel to the view direction a world axis is substituted.
func LightView(pos, target, up math.Vec3) math.Mat4 {
	dir := target.Sub(pos).Normalize()
	up = up.Normalize()
	if up.Length() == 0 || abs32(dir.Dot(up)) > 0.999 {
		up = math.Vec3{X: 0, Y: 1, Z: 0}
		if abs32(dir.Y) > 0.99 {
			up = math.Vec3{X: 0, Y: 0, Z: 1}
		}
	}
	return math.LookAt(pos, target, up)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

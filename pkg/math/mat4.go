package math

import "math"

// Mat4 is a 4x4 matrix stored column by column, the layout glUniformMatrix4fv
// expects. Element (row r, column c) is m[c*4+r]; the translation lives in
// m[12], m[13], m[14].
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scale along the three axes.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Rotate returns a right-handed rotation of degrees about axis. The axis
// does not need to be unit length; a zero axis yields identity.
func Rotate(degrees float32, axis Vec3) Mat4 {
	a := axis.Normalize()
	if a == (Vec3{}) {
		return Identity()
	}
	sin, cos := math.Sincos(float64(Radians(degrees)))
	s, c := float32(sin), float32(cos)
	k := 1 - c

	return Mat4{
		k*a.X*a.X + c, k*a.X*a.Y + s*a.Z, k*a.X*a.Z - s*a.Y, 0,
		k*a.X*a.Y - s*a.Z, k*a.Y*a.Y + c, k*a.Y*a.Z + s*a.X, 0,
		k*a.X*a.Z + s*a.Y, k*a.Y*a.Z - s*a.X, k*a.Z*a.Z + c, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a GL clip-space projection. fovY is in radians and
// aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: (far + near) / depth,
		11: -1,
		14: 2 * far * near / depth,
	}
}

// LookAt returns a view matrix for an eye looking at center, with up
// roughly pointing up on screen.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	side := fwd.Cross(up).Normalize()
	camUp := side.Cross(fwd)

	return Mat4{
		side.X, camUp.X, -fwd.X, 0,
		side.Y, camUp.Y, -fwd.Y, 0,
		side.Z, camUp.Z, -fwd.Z, 0,
		-side.Dot(eye), -camUp.Dot(eye), fwd.Dot(eye), 1,
	}
}

// Radians converts degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * (math.Pi / 180)
}

// Mul returns m * other, so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		col := other[c*4 : c*4+4]
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r]*col[0] + m[4+r]*col[1] + m[8+r]*col[2] + m[12+r]*col[3]
		}
	}
	return out
}

// TransformVec3 maps a point (w = 1), dividing by w when it is not 1.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	p := m.TransformDirection(v).Add(Vec3{m[12], m[13], m[14]})
	if w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]; w != 0 && w != 1 {
		return p.Scale(1 / w)
	}
	return p
}

// TransformDirection maps a direction (w = 0); translation is ignored.
func (m Mat4) TransformDirection(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[r*4+c] = m[c*4+r]
		}
	}
	return out
}

// NormalMatrix returns inverse(m)^T, which keeps normals perpendicular to
// surfaces under non-uniform scale.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}

// Ptr returns a pointer to the first element for GL uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns m^-1, or identity when m is singular. It expands along
// pairs of 2x2 minors from the top and bottom halves.
func (m Mat4) Inverse() Mat4 {
	// a[r][c] in row-major terms
	a := func(r, c int) float32 { return m[c*4+r] }

	s0 := a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1)
	s1 := a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2)
	s2 := a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3)
	s3 := a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2)
	s4 := a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3)
	s5 := a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3)

	c5 := a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3)
	c4 := a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3)
	c3 := a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2)
	c2 := a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3)
	c1 := a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2)
	c0 := a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1)

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	var out Mat4
	set := func(r, c int, v float32) { out[c*4+r] = v * inv }

	set(0, 0, a(1, 1)*c5-a(1, 2)*c4+a(1, 3)*c3)
	set(0, 1, -a(0, 1)*c5+a(0, 2)*c4-a(0, 3)*c3)
	set(0, 2, a(3, 1)*s5-a(3, 2)*s4+a(3, 3)*s3)
	set(0, 3, -a(2, 1)*s5+a(2, 2)*s4-a(2, 3)*s3)

	set(1, 0, -a(1, 0)*c5+a(1, 2)*c2-a(1, 3)*c1)
	set(1, 1, a(0, 0)*c5-a(0, 2)*c2+a(0, 3)*c1)
	set(1, 2, -a(3, 0)*s5+a(3, 2)*s2-a(3, 3)*s1)
	set(1, 3, a(2, 0)*s5-a(2, 2)*s2+a(2, 3)*s1)

	set(2, 0, a(1, 0)*c4-a(1, 1)*c2+a(1, 3)*c0)
	set(2, 1, -a(0, 0)*c4+a(0, 1)*c2-a(0, 3)*c0)
	set(2, 2, a(3, 0)*s4-a(3, 1)*s2+a(3, 3)*s0)
	set(2, 3, -a(2, 0)*s4+a(2, 1)*s2-a(2, 3)*s0)

	set(3, 0, -a(1, 0)*c3+a(1, 1)*c1-a(1, 2)*c0)
	set(3, 1, a(0, 0)*c3-a(0, 1)*c1+a(0, 2)*c0)
	set(3, 2, -a(3, 0)*s3+a(3, 1)*s1-a(3, 2)*s0)
	set(3, 3, a(2, 0)*s3-a(2, 1)*s1+a(2, 2)*s0)

	return out
}

package scenegraph

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ComposeMatrix builds T * R * S.
func ComposeMatrix(position mgl64.Vec3, quaternion mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(position.X(), position.Y(), position.Z())
	r := quaternion.Normalize().Mat4()
	s := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

// DecomposeMatrix splits an affine matrix into translation, rotation and
// scale. A negative determinant is folded into the X scale.
func DecomposeMatrix(m mgl64.Mat4) (position mgl64.Vec3, quaternion mgl64.Quat, scale mgl64.Vec3) {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}

	position = m.Col(3).Vec3()
	scale = mgl64.Vec3{sx, sy, sz}
	quaternion = mgl64.Mat4ToQuat(extractRotation(m, scale)).Normalize()
	return position, quaternion, scale
}

// extractRotation removes the given per-axis scale and the translation.
func extractRotation(m mgl64.Mat4, scale mgl64.Vec3) mgl64.Mat4 {
	r := mgl64.Ident4()
	for col := 0; col < 3; col++ {
		inv := 0.0
		if scale[col] != 0 {
			inv = 1 / scale[col]
		}
		for row := 0; row < 3; row++ {
			r.Set(row, col, m.At(row, col)*inv)
		}
	}
	return r
}

// rotationOf is extractRotation with the column lengths as scale.
func rotationOf(m mgl64.Mat4) mgl64.Mat4 {
	return extractRotation(m, mgl64.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	})
}

// lookAtRotation returns a rotation whose +Z axis points from target to eye.
func lookAtRotation(eye, target, up mgl64.Vec3) mgl64.Mat4 {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z = mgl64.Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// up and z are parallel
		if mgl64.Abs(up.Z()) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}

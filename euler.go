package scenegraph

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerOrder names the axis sequence of an intrinsic Euler rotation.
type EulerOrder uint8

const (
	OrderXYZ EulerOrder = iota
	OrderYXZ
	OrderZXY
	OrderZYX
	OrderYZX
	OrderXZY
)

var eulerOrderNames = [...]string{"XYZ", "YXZ", "ZXY", "ZYX", "YZX", "XZY"}

func (o EulerOrder) String() string {
	if int(o) < len(eulerOrderNames) {
		return eulerOrderNames[o]
	}
	return fmt.Sprintf("EulerOrder(%d)", o)
}

// ParseEulerOrder accepts the three letter names returned by String.
func ParseEulerOrder(s string) (EulerOrder, error) {
	for i, name := range eulerOrderNames {
		if name == s {
			return EulerOrder(i), nil
		}
	}
	return OrderXYZ, fmt.Errorf("scenegraph: unknown euler order %q", s)
}

// Euler holds rotation angles in radians applied in Order.
type Euler struct {
	X, Y, Z float64
	Order   EulerOrder
}

func (e Euler) String() string {
	return fmt.Sprintf("Euler(%.4f, %.4f, %.4f, %s)", e.X, e.Y, e.Z, e.Order)
}

// Quat returns the quaternion for e: the product of the per-axis rotations
// taken in Order.
func (e Euler) Quat() mgl64.Quat {
	qx := mgl64.QuatRotate(e.X, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(e.Y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(e.Z, mgl64.Vec3{0, 0, 1})

	var q mgl64.Quat
	switch e.Order {
	case OrderYXZ:
		q = qy.Mul(qx).Mul(qz)
	case OrderZXY:
		q = qz.Mul(qx).Mul(qy)
	case OrderZYX:
		q = qz.Mul(qy).Mul(qx)
	case OrderYZX:
		q = qy.Mul(qz).Mul(qx)
	case OrderXZY:
		q = qx.Mul(qz).Mul(qy)
	default:
		q = qx.Mul(qy).Mul(qz)
	}
	return q.Normalize()
}

// EulerFromQuat converts a unit quaternion to angles in the given order.
func EulerFromQuat(q mgl64.Quat, order EulerOrder) Euler {
	return EulerFromMatrix(q.Normalize().Mat4(), order)
}

// EulerFromMatrix reads angles from the upper 3x3 of m, which must be an
// unscaled rotation. Near gimbal lock the last angle is pinned to zero.
func EulerFromMatrix(m mgl64.Mat4, order EulerOrder) Euler {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	const lock = 0.9999999
	e := Euler{Order: order}

	switch order {
	case OrderYXZ:
		e.X = math.Asin(-clamp(m23, -1, 1))
		if math.Abs(m23) < lock {
			e.Y = math.Atan2(m13, m33)
			e.Z = math.Atan2(m21, m22)
		} else {
			e.Y = math.Atan2(-m31, m11)
		}
	case OrderZXY:
		e.X = math.Asin(clamp(m32, -1, 1))
		if math.Abs(m32) < lock {
			e.Y = math.Atan2(-m31, m33)
			e.Z = math.Atan2(-m12, m22)
		} else {
			e.Z = math.Atan2(m21, m11)
		}
	case OrderZYX:
		e.Y = math.Asin(-clamp(m31, -1, 1))
		if math.Abs(m31) < lock {
			e.X = math.Atan2(m32, m33)
			e.Z = math.Atan2(m21, m11)
		} else {
			e.Z = math.Atan2(-m12, m22)
		}
	case OrderYZX:
		e.Z = math.Asin(clamp(m21, -1, 1))
		if math.Abs(m21) < lock {
			e.X = math.Atan2(-m23, m22)
			e.Y = math.Atan2(-m31, m11)
		} else {
			e.Y = math.Atan2(m13, m33)
		}
	case OrderXZY:
		e.Z = math.Asin(-clamp(m12, -1, 1))
		if math.Abs(m12) < lock {
			e.X = math.Atan2(m32, m22)
			e.Y = math.Atan2(m13, m11)
		} else {
			e.X = math.Atan2(-m23, m33)
		}
	default:
		e.Y = math.Asin(clamp(m13, -1, 1))
		if math.Abs(m13) < lock {
			e.X = math.Atan2(-m23, m33)
			e.Z = math.Atan2(-m12, m11)
		} else {
			e.X = math.Atan2(m32, m22)
		}
	}
	return e
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

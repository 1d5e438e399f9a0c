package scenegraph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func matApprox(t *testing.T, expected, actual mgl64.Mat4) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], tolerance)
}

func vecApprox(t *testing.T, expected, actual mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], tolerance)
}

// quatApprox compares rotations, so q and -q are equal.
func quatApprox(t *testing.T, expected, actual mgl64.Quat) {
	t.Helper()
	assert.InDelta(t, 1, math.Abs(expected.Normalize().Dot(actual.Normalize())), tolerance)
}

func TestEulerQuatMatchesAxisProduct(t *testing.T) {
	x, y, z := 0.3, -0.7, 1.1
	rx := mgl64.HomogRotate3DX(x)
	ry := mgl64.HomogRotate3DY(y)
	rz := mgl64.HomogRotate3DZ(z)

	tests := []struct {
		order    EulerOrder
		expected mgl64.Mat4
	}{
		{OrderXYZ, rx.Mul4(ry).Mul4(rz)},
		{OrderYXZ, ry.Mul4(rx).Mul4(rz)},
		{OrderZXY, rz.Mul4(rx).Mul4(ry)},
		{OrderZYX, rz.Mul4(ry).Mul4(rx)},
		{OrderYZX, ry.Mul4(rz).Mul4(rx)},
		{OrderXZY, rx.Mul4(rz).Mul4(ry)},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			q := Euler{X: x, Y: y, Z: z, Order: tt.order}.Quat()
			matApprox(t, tt.expected, q.Mat4())
		})
	}
}

func TestEulerRoundTrip(t *testing.T) {
	for order := OrderXYZ; order <= OrderXZY; order++ {
		e := Euler{X: 0.2, Y: 0.4, Z: -0.9, Order: order}
		back := EulerFromQuat(e.Quat(), order)
		assert.InDelta(t, e.X, back.X, 1e-9, order.String())
		assert.InDelta(t, e.Y, back.Y, 1e-9, order.String())
		assert.InDelta(t, e.Z, back.Z, 1e-9, order.String())
	}
}

func TestEulerGimbalLockKeepsRotation(t *testing.T) {
	e := Euler{X: 0.5, Y: math.Pi / 2, Z: 0.25, Order: OrderXYZ}
	back := EulerFromQuat(e.Quat(), OrderXYZ)
	assert.Equal(t, 0.0, back.Z)
	matApprox(t, e.Quat().Mat4(), back.Quat().Mat4())
}

func TestParseEulerOrder(t *testing.T) {
	o, err := ParseEulerOrder("ZYX")
	assert.NoError(t, err)
	assert.Equal(t, OrderZYX, o)

	_, err = ParseEulerOrder("XXY")
	assert.Error(t, err)
}

func TestComposeDecompose(t *testing.T) {
	p := mgl64.Vec3{1, -2, 3}
	q := Euler{X: 0.1, Y: 0.2, Z: 0.3}.Quat()
	s := mgl64.Vec3{2, 3, 4}

	m := ComposeMatrix(p, q, s)
	p2, q2, s2 := DecomposeMatrix(m)
	vecApprox(t, p, p2)
	vecApprox(t, s, s2)
	matApprox(t, m, ComposeMatrix(p2, q2, s2))
}

func TestDecomposeNegativeDeterminantFlipsX(t *testing.T) {
	m := ComposeMatrix(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{-1, 1, 1})
	_, q, s := DecomposeMatrix(m)
	vecApprox(t, mgl64.Vec3{-1, 1, 1}, s)
	quatApprox(t, mgl64.QuatIdent(), q)
}

package gfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a bounding sphere. A negative radius marks it empty.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) IsEmpty() bool { return s.Radius < 0 }

// ApplyMatrix4 transforms the sphere; the radius grows by the largest axis scale.
func (s Sphere) ApplyMatrix4(m mgl64.Mat4) Sphere {
	if s.IsEmpty() {
		return s
	}
	return Sphere{
		Center: mgl64.TransformCoordinate(s.Center, m),
		Radius: s.Radius * mgl64.ExtractMaxScale(m),
	}
}

// Box is an axis-aligned bounding box. Min > Max on any axis marks it empty.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

func (b Box) ExpandByPoint(p mgl64.Vec3) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ApplyMatrix4 returns the box enclosing the eight transformed corners.
func (b Box) ApplyMatrix4(m mgl64.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		c := mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out = out.ExpandByPoint(mgl64.TransformCoordinate(c, m))
	}
	return out
}

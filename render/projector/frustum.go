package projector

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph/gfx"
)

// Plane satisfies Normal.p + D = 0. The normal points into the frustum.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

func (p Plane) Distance(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) + p.D
}

// Frustum planes in order: left, right, bottom, top, near, far.
type Frustum [6]Plane

// FrustumFromMatrix extracts the clipping planes of a view-projection
// matrix with -1..1 clip depth.
func FrustumFromMatrix(vp mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Rows()
	raw := [6]mgl64.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}

	var f Frustum
	for i, p := range raw {
		n := p.Vec3()
		l := n.Len()
		if l == 0 {
			continue
		}
		f[i] = Plane{Normal: n.Mul(1 / l), D: p[3] / l}
	}
	return f
}

func (f *Frustum) ContainsPoint(v mgl64.Vec3) bool {
	for _, p := range f {
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of s is inside. Empty spheres
// never intersect.
func (f *Frustum) IntersectsSphere(s gfx.Sphere) bool {
	if s.IsEmpty() {
		return false
	}
	for _, p := range f {
		if p.Distance(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// IntersectsBox tests the corner of b furthest along each plane normal.
func (f *Frustum) IntersectsBox(b gfx.Box) bool {
	if b.IsEmpty() {
		return false
	}
	for _, p := range f {
		var v mgl64.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] > 0 {
				v[i] = b.Max[i]
			} else {
				v[i] = b.Min[i]
			}
		}
		if p.Distance(v) < 0 {
			return false
		}
	}
	return true
}

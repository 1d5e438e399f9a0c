package gfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BufferGeometry keeps interleaved position/normal data on the CPU side.
type BufferGeometry struct {
	id        uint64
	uuid      uuid.UUID
	Name      string
	Positions []float32 // xyz
	Normals   []float32 // xyz
	Indices   []uint32
	groups    []Group

	boundsDirty bool
	box         Box
	sphere      Sphere
}

func NewBufferGeometry(name string) *BufferGeometry {
	return &BufferGeometry{
		id:          nextGeometryID(),
		uuid:        uuid.New(),
		Name:        name,
		boundsDirty: true,
	}
}

func (g *BufferGeometry) ID() uint64      { return g.id }
func (g *BufferGeometry) UUID() uuid.UUID { return g.uuid }

func (g *BufferGeometry) Groups() []Group { return g.groups }

func (g *BufferGeometry) AddGroup(start, count, materialIndex int) {
	g.groups = append(g.groups, Group{Start: start, Count: count, MaterialIndex: materialIndex})
}

func (g *BufferGeometry) ClearGroups() { g.groups = g.groups[:0] }

// VertexCount is the number of xyz triples in Positions.
func (g *BufferGeometry) VertexCount() int { return len(g.Positions) / 3 }

// SetPositions replaces the vertex positions and invalidates the bounds.
func (g *BufferGeometry) SetPositions(positions []float32) {
	g.Positions = positions
	g.boundsDirty = true
}

func (g *BufferGeometry) BoundingBox() Box {
	g.computeBounds()
	return g.box
}

func (g *BufferGeometry) BoundingSphere() Sphere {
	g.computeBounds()
	return g.sphere
}

func (g *BufferGeometry) computeBounds() {
	if !g.boundsDirty {
		return
	}
	g.boundsDirty = false

	g.box = EmptyBox()
	for i := 0; i+2 < len(g.Positions); i += 3 {
		g.box = g.box.ExpandByPoint(mgl64.Vec3{
			float64(g.Positions[i]),
			float64(g.Positions[i+1]),
			float64(g.Positions[i+2]),
		})
	}
	if g.box.IsEmpty() {
		g.sphere = Sphere{Radius: -1}
		return
	}

	center := g.box.Center()
	maxSq := 0.0
	for i := 0; i+2 < len(g.Positions); i += 3 {
		p := mgl64.Vec3{float64(g.Positions[i]), float64(g.Positions[i+1]), float64(g.Positions[i+2])}
		maxSq = math.Max(maxSq, p.Sub(center).LenSqr())
	}
	g.sphere = Sphere{Center: center, Radius: math.Sqrt(maxSq)}
}

// NewBoxGeometry builds an indexed box centred on the origin. Each face is
// its own group with material index 0..5 (+x, -x, +y, -y, +z, -z).
func NewBoxGeometry(width, height, depth float64) *BufferGeometry {
	g := NewBufferGeometry("Box")
	hx, hy, hz := float32(width/2), float32(height/2), float32(depth/2)

	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}

	positions := make([]float32, 0, 6*4*3)
	for fi, f := range faces {
		base := uint32(fi * 4)
		for _, c := range f.corners {
			positions = append(positions, c[0], c[1], c[2])
			g.Normals = append(g.Normals, f.normal[0], f.normal[1], f.normal[2])
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
		g.AddGroup(fi*6, 6, fi)
	}
	g.SetPositions(positions)
	return g
}

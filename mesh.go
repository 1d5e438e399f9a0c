package scenegraph

import (
	"github.com/gekko3d/scenegraph/gfx"
)

// Mesh binds a geometry to one material, or to one material per geometry
// group when Materials has more than one entry.
type Mesh struct {
	Geometry  gfx.Geometry
	Materials []gfx.Material
}

// NewMesh creates a mesh node.
func NewMesh(name string, geometry gfx.Geometry, materials ...gfx.Material) *Node {
	n := NewNodeOfType(name, TypeMesh)
	n.Mesh = &Mesh{Geometry: geometry, Materials: materials}
	return n
}

// MultiMaterial reports whether materials are picked per geometry group.
func (m *Mesh) MultiMaterial() bool { return len(m.Materials) > 1 }

// Material returns the material in slot i, or nil when the slot is empty.
func (m *Mesh) Material(i int) gfx.Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return m.Materials[i]
}

package renderlist

import (
	"github.com/gekko3d/scenegraph/gfx"
)

// Object is the scene element a record was produced for.
type Object interface {
	ID() uint64
	RenderOrder() int
}

// transparencyScoped is implemented by render group objects that decide
// where their transparent descendants go.
type transparencyScoped interface {
	ExcludeTransparent() bool
}

type defaultProgram struct{}

func (defaultProgram) ID() int { return -1 }

// DefaultProgram stands in for materials that have not been compiled yet.
var DefaultProgram gfx.Program = defaultProgram{}

// RenderItem is one pooled draw record. Records are reused from frame to
// frame, so a consumer must not keep pointers past the next Init.
type RenderItem struct {
	ID          uint64
	Object      Object
	Geometry    gfx.Geometry
	Material    gfx.Material
	Program     gfx.Program
	GroupOrder  int
	RenderOrder int
	Z           float64
	Group       *gfx.Group

	// RenderGroup is set on the entry that stands for a whole render group.
	RenderGroup *RenderGroup
}

func (it *RenderItem) IsRenderGroup() bool { return it.RenderGroup != nil }

func (it *RenderItem) reset() {
	*it = RenderItem{}
}

// RenderGroup collects the records pushed while its scope was open. Its
// lists are sorted on their own and drawn where the group's entry lands.
type RenderGroup struct {
	ID                 uint64
	Object             Object
	RenderOrder        int
	ExcludeTransparent bool
	Opaque             []*RenderItem
	Transparent        []*RenderItem
}

func (g *RenderGroup) reset() {
	g.ID = 0
	g.Object = nil
	g.RenderOrder = 0
	g.ExcludeTransparent = false
	clear(g.Opaque)
	clear(g.Transparent)
	g.Opaque = g.Opaque[:0]
	g.Transparent = g.Transparent[:0]
}

func programID(it *RenderItem) int {
	if it.Program == nil {
		return DefaultProgram.ID()
	}
	return it.Program.ID()
}

// noMaterialID keys records without a material, such as render group
// entries. Material ids start at 1.
const noMaterialID = 0

func materialID(it *RenderItem) uint64 {
	if it.Material == nil {
		return noMaterialID
	}
	return it.Material.ID()
}

// Package gfx holds the narrow views of geometries, materials and shader
// programs that the scene graph and the render lists consume. Upload,
// compilation and binding live with the renderer, not here.
package gfx

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Program is a compiled shader program. Items sharing a program are drawn
// next to each other in the opaque pass.
type Program interface {
	ID() int
}

// Material is what the render list needs to know about a material.
type Material interface {
	// ID is never 0, which stands for "no material".
	ID() uint64
	UUID() uuid.UUID
	Transparent() bool
	Transmission() float64
	Visible() bool
	// Program returns nil until the renderer has compiled the material.
	Program() Program
}

// Geometry is what the render list and projector need to know about a geometry.
type Geometry interface {
	ID() uint64
	UUID() uuid.UUID
	Groups() []Group
	BoundingSphere() Sphere
	BoundingBox() Box
}

// Group is a sub-range of a geometry's index (or vertex) buffer drawn with
// one material slot.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

var (
	materialIDCounter atomic.Uint64
	geometryIDCounter atomic.Uint64
	programIDCounter  atomic.Int64
)

func nextMaterialID() uint64 { return materialIDCounter.Add(1) }
func nextGeometryID() uint64 { return geometryIDCounter.Add(1) - 1 }
func nextProgramID() int     { return int(programIDCounter.Add(1) - 1) }

// ShaderProgram is a plain Program handle.
type ShaderProgram struct {
	id   int
	Name string
}

func NewShaderProgram(name string) *ShaderProgram {
	return &ShaderProgram{id: nextProgramID(), Name: name}
}

func (p *ShaderProgram) ID() int { return p.id }

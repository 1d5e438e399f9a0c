// Package projector walks a scene graph from a camera's point of view and
// feeds the visible drawables into a render list.
package projector

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

type Options struct {
	// SortObjects computes per-object depth and sorts the list.
	SortObjects bool
	// FrustumCulling skips meshes whose bounding sphere is outside the view.
	// Nodes with FrustumCulled = false are never culled.
	FrustumCulling bool
	// AutoUpdate refreshes world matrices before projecting.
	AutoUpdate bool
	Logger     logging.Logger
}

func DefaultOptions() Options {
	return Options{SortObjects: true, FrustumCulling: true, AutoUpdate: true}
}

type Stats struct {
	Visited int
	Culled  int
	Pushed  int
}

// Projector is reusable across frames but not safe for concurrent use.
type Projector struct {
	opts     Options
	logger   logging.Logger
	viewProj mgl64.Mat4
	frustum  Frustum
	layers   scenegraph.Layers
	list     *renderlist.RenderList
	stats    Stats
}

func New(opts Options) *Projector {
	return &Projector{opts: opts, logger: logging.OrNop(opts.Logger)}
}

func (p *Projector) Options() Options { return p.opts }

// Frustum returns the frustum of the last Project call.
func (p *Projector) Frustum() Frustum { return p.frustum }

// Project initialises list and fills it with the drawables of scene seen
// by camera. The list is sorted when SortObjects is set; finishing it is
// left to whoever submits it.
func (p *Projector) Project(scene *scenegraph.Node, camera Camera, list *renderlist.RenderList) Stats {
	cam := camera.SceneNode()
	if p.opts.AutoUpdate {
		scene.UpdateMatrixWorld(false)
		if cam.Parent() == nil {
			cam.UpdateMatrixWorld(false)
		}
	}

	p.viewProj = ViewProjection(camera)
	p.frustum = FrustumFromMatrix(p.viewProj)
	p.layers = cam.Layers
	p.list = list
	p.stats = Stats{}

	list.Init()
	p.projectObject(scene, 0)

	if p.opts.SortObjects {
		list.Sort(nil, nil)
	}
	p.list = nil

	if p.logger.DebugEnabled() {
		p.logger.Debugf("projected %s: visited=%d pushed=%d culled=%d", scene, p.stats.Visited, p.stats.Pushed, p.stats.Culled)
	}
	return p.stats
}

func (p *Projector) projectObject(n *scenegraph.Node, groupOrder int) {
	if !n.Visible() {
		return
	}
	p.stats.Visited++

	renderGroup := false
	if n.Layers.Test(p.layers) {
		switch {
		case n.Type() == scenegraph.TypeGroup:
			groupOrder = n.RenderOrder()
		case n.Mesh != nil:
			p.projectMesh(n, groupOrder)
		}

		if n.IsRenderGroup() {
			p.list.PushRenderGroup(n, groupOrder, p.depth(n))
			renderGroup = true
		}
	}

	n.EachChild(func(child *scenegraph.Node) {
		p.projectObject(child, groupOrder)
	})

	if renderGroup {
		p.list.PopRenderGroup()
	}
}

func (p *Projector) projectMesh(n *scenegraph.Node, groupOrder int) {
	mesh := n.Mesh
	geometry := mesh.Geometry
	if geometry == nil {
		return
	}

	if p.opts.FrustumCulling && n.FrustumCulled {
		sphere := geometry.BoundingSphere().ApplyMatrix4(n.MatrixWorld())
		if !p.frustum.IntersectsSphere(sphere) {
			p.stats.Culled++
			return
		}
	}

	z := p.depth(n)
	if mesh.MultiMaterial() {
		groups := geometry.Groups()
		for i := range groups {
			m := mesh.Material(groups[i].MaterialIndex)
			if m != nil && m.Visible() {
				p.list.Push(n, geometry, m, groupOrder, z, &groups[i])
				p.stats.Pushed++
			}
		}
		return
	}

	if m := mesh.Material(0); m != nil && m.Visible() {
		p.list.Push(n, geometry, m, groupOrder, z, nil)
		p.stats.Pushed++
	}
}

// depth is the clip space z of the node's world position.
func (p *Projector) depth(n *scenegraph.Node) float64 {
	if !p.opts.SortObjects {
		return 0
	}
	return mgl64.TransformCoordinate(n.MatrixWorld().Col(3).Vec3(), p.viewProj).Z()
}

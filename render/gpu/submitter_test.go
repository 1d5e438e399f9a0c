package gpu

import (
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/gfx"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

type recordingPass struct {
	calls []string
	names map[any]string
}

func (p *recordingPass) name(v any) string {
	if n, ok := p.names[v]; ok {
		return n
	}
	return "?"
}

func (p *recordingPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.calls = append(p.calls, "pipeline "+p.name(pipeline))
}

func (p *recordingPass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) {
	p.calls = append(p.calls, fmt.Sprintf("bind %d %v", groupIndex, dynamicOffsets))
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64) {
	p.calls = append(p.calls, "vertex "+p.name(buffer))
}

func (p *recordingPass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset, size uint64) {
	p.calls = append(p.calls, "index "+p.name(buffer))
}

func (p *recordingPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("draw %d+%d", firstVertex, vertexCount))
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("drawIndexed %d+%d", firstIndex, indexCount))
}

type fakeResources struct {
	opaque, blended *wgpu.RenderPipeline
	objects         *wgpu.BindGroup
	slots           map[uint64]uint32
	geometries      map[gfx.Geometry]*GeometryBuffers
}

func (r *fakeResources) Pipeline(it *renderlist.RenderItem, b renderlist.Bucket) *wgpu.RenderPipeline {
	if b == renderlist.BucketOpaque {
		return r.opaque
	}
	return r.blended
}

func (r *fakeResources) ObjectBinding(it *renderlist.RenderItem) (*wgpu.BindGroup, uint32, bool) {
	slot, ok := r.slots[it.ID]
	return r.objects, slot, ok
}

func (r *fakeResources) Geometry(g gfx.Geometry) (*GeometryBuffers, bool) {
	b, ok := r.geometries[g]
	return b, ok
}

type fixture struct {
	pass *recordingPass
	res  *fakeResources
	list *renderlist.RenderList
	cube *gfx.BufferGeometry
	quad *gfx.BufferGeometry
}

func newFixture() *fixture {
	f := &fixture{
		res: &fakeResources{
			opaque:  &wgpu.RenderPipeline{},
			blended: &wgpu.RenderPipeline{},
			objects: &wgpu.BindGroup{},
			slots:   map[uint64]uint32{},
		},
		list: renderlist.NewRenderList(renderlist.Options{}),
		cube: gfx.NewBoxGeometry(1, 1, 1),
		quad: gfx.NewBufferGeometry("quad"),
	}
	cubeBufs := &GeometryBuffers{Vertex: &wgpu.Buffer{}, Index: &wgpu.Buffer{}, IndexFormat: wgpu.IndexFormatUint32, IndexCount: 36}
	quadBufs := &GeometryBuffers{Vertex: &wgpu.Buffer{}, VertexCount: 6}
	f.res.geometries = map[gfx.Geometry]*GeometryBuffers{f.cube: cubeBufs, f.quad: quadBufs}
	f.pass = &recordingPass{names: map[any]string{
		f.res.opaque:    "opaque",
		f.res.blended:   "blended",
		cubeBufs.Vertex: "cubeV",
		cubeBufs.Index:  "cubeI",
		quadBufs.Vertex: "quadV",
	}}
	f.list.Init()
	return f
}

func (f *fixture) submit() Stats {
	return NewSubmitter(f.res, nil).Submit(f.pass, f.list)
}

func TestSubmitSkipsRedundantBinds(t *testing.T) {
	f := newFixture()
	mat := gfx.NewBasicMaterial("m", [4]float32{1, 1, 1, 1})
	a, b := scenegraph.NewNode("a"), scenegraph.NewNode("b")
	f.list.Push(a, f.cube, mat, 0, 0, nil)
	f.list.Push(b, f.cube, mat, 0, 0, nil)

	stats := f.submit()

	assert.Equal(t, []string{
		"pipeline opaque", "vertex cubeV", "index cubeI", "drawIndexed 0+36",
		"drawIndexed 0+36",
	}, f.pass.calls)
	assert.Equal(t, Stats{DrawCalls: 2, PipelineSwitches: 1, BufferBinds: 2}, stats)
}

func TestSubmitBucketOrder(t *testing.T) {
	f := newFixture()
	opaque := gfx.NewBasicMaterial("opaque", [4]float32{1, 1, 1, 1})
	glass := gfx.NewBasicMaterial("glass", [4]float32{1, 1, 1, 1}).SetTransmission(1)
	smoke := gfx.NewBasicMaterial("smoke", [4]float32{1, 1, 1, 0.5}).SetTransparent(true)

	f.list.Push(scenegraph.NewNode("t"), f.quad, smoke, 0, 0, nil)
	f.list.Push(scenegraph.NewNode("g"), f.cube, glass, 0, 0, nil)
	f.list.Push(scenegraph.NewNode("o"), f.cube, opaque, 0, 0, nil)

	stats := f.submit()

	assert.Equal(t, []string{
		"pipeline opaque", "vertex cubeV", "index cubeI", "drawIndexed 0+36",
		"pipeline blended", "drawIndexed 0+36",
		"vertex quadV", "draw 0+6",
	}, f.pass.calls)
	assert.Equal(t, 2, stats.PipelineSwitches)
	assert.Equal(t, 3, stats.BufferBinds)
}

func TestSubmitExpandsRenderGroups(t *testing.T) {
	f := newFixture()
	opaque := gfx.NewBasicMaterial("opaque", [4]float32{1, 1, 1, 1})
	smoke := gfx.NewBasicMaterial("smoke", [4]float32{1, 1, 1, 0.5}).SetTransparent(true)

	group := scenegraph.NewGroup("rg")
	group.RenderGroup = &scenegraph.RenderGroupSettings{}
	f.list.PushRenderGroup(group, 0, 0)
	f.list.Push(scenegraph.NewNode("inner-t"), f.quad, smoke, 0, 0, nil)
	f.list.Push(scenegraph.NewNode("inner-o"), f.cube, opaque, 0, 0, nil)
	f.list.PopRenderGroup()
	f.list.Push(scenegraph.NewNode("outer-t"), f.quad, smoke, 0, 0, nil)

	stats := f.submit()

	assert.Equal(t, []string{
		"pipeline opaque", "vertex cubeV", "index cubeI", "drawIndexed 0+36",
		"pipeline blended", "vertex quadV", "draw 0+6",
		"draw 0+6",
	}, f.pass.calls)
	assert.Equal(t, 3, stats.DrawCalls)
	assert.Zero(t, stats.Skipped)
}

func TestSubmitDrawsGeometryGroups(t *testing.T) {
	f := newFixture()
	mat := gfx.NewBasicMaterial("m", [4]float32{1, 1, 1, 1})
	n := scenegraph.NewNode("n")
	f.list.Push(n, f.cube, mat, 0, 0, &gfx.Group{Start: 6, Count: 6})
	f.list.Push(n, f.cube, mat, 0, 0, &gfx.Group{Start: 30, Count: 100})
	f.list.Push(n, f.cube, mat, 0, 0, &gfx.Group{Start: 40, Count: 6})
	f.list.Push(n, f.quad, mat, 0, 0, &gfx.Group{Start: 3, Count: -1})

	stats := f.submit()

	assert.Equal(t, []string{
		"pipeline opaque", "vertex cubeV", "index cubeI", "drawIndexed 6+6",
		"drawIndexed 30+6",
		"vertex quadV", "draw 3+3",
	}, f.pass.calls)
	assert.Equal(t, 3, stats.DrawCalls)
}

func TestSubmitBindsObjectSlots(t *testing.T) {
	f := newFixture()
	mat := gfx.NewBasicMaterial("m", [4]float32{1, 1, 1, 1})
	a, b := scenegraph.NewNode("a"), scenegraph.NewNode("b")
	f.res.slots[a.ID()] = 0
	f.res.slots[b.ID()] = 256
	f.list.Push(a, f.cube, mat, 0, 0, nil)
	f.list.Push(b, f.cube, mat, 0, 0, nil)

	f.submit()

	assert.Equal(t, []string{
		"pipeline opaque", "bind 1 [0]", "vertex cubeV", "index cubeI", "drawIndexed 0+36",
		"bind 1 [256]", "drawIndexed 0+36",
	}, f.pass.calls)
}

func TestSubmitSkipsUnresolvedItems(t *testing.T) {
	f := newFixture()
	mat := gfx.NewBasicMaterial("m", [4]float32{1, 1, 1, 1})
	unknown := gfx.NewBufferGeometry("unknown")
	f.list.Push(scenegraph.NewNode("a"), unknown, mat, 0, 0, nil)
	f.list.Push(scenegraph.NewNode("b"), nil, mat, 0, 0, nil)

	stats := f.submit()

	assert.Empty(t, f.pass.calls)
	assert.Equal(t, Stats{Skipped: 2}, stats)
}

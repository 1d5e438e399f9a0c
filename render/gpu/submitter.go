// Package gpu records a sorted render list into a WebGPU render pass.
package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/scenegraph/gfx"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

// PassEncoder is the part of *wgpu.RenderPassEncoder the submitter drives.
type PassEncoder interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ PassEncoder = (*wgpu.RenderPassEncoder)(nil)

// GeometryBuffers are the uploaded buffers of one geometry. Index may be
// nil for non-indexed geometry, in which case VertexCount is drawn.
type GeometryBuffers struct {
	Vertex      *wgpu.Buffer
	Index       *wgpu.Buffer
	IndexFormat wgpu.IndexFormat
	IndexCount  uint32
	VertexCount uint32
}

// Resources resolves GPU objects for render items. Implementations own
// the buffers; the submitter only binds them.
type Resources interface {
	// Pipeline returns the pipeline an item is drawn with in bucket b, or
	// nil when the item cannot be drawn.
	Pipeline(it *renderlist.RenderItem, b renderlist.Bucket) *wgpu.RenderPipeline
	// ObjectBinding returns the per-object bind group and its dynamic
	// offset. ok is false when the object has no uniforms slot.
	ObjectBinding(it *renderlist.RenderItem) (group *wgpu.BindGroup, offset uint32, ok bool)
	Geometry(g gfx.Geometry) (*GeometryBuffers, bool)
}

// ObjectBindGroup is the bind group slot used for per-object uniforms.
const ObjectBindGroup = 1

type Stats struct {
	DrawCalls        int
	PipelineSwitches int
	BufferBinds      int
	Skipped          int
}

type Submitter struct {
	res    Resources
	logger logging.Logger

	pipeline *wgpu.RenderPipeline
	vertex   *wgpu.Buffer
	index    *wgpu.Buffer
	offsets  [1]uint32
	stats    Stats
}

func NewSubmitter(res Resources, logger logging.Logger) *Submitter {
	return &Submitter{res: res, logger: logging.OrNop(logger)}
}

// Submit records every drawable of list into pass in submission order:
// opaque, transmissive, transparent, with render groups expanded where
// their entry sits. Redundant pipeline and buffer binds are skipped.
func (s *Submitter) Submit(pass PassEncoder, list *renderlist.RenderList) Stats {
	s.pipeline, s.vertex, s.index = nil, nil, nil
	s.stats = Stats{}

	list.Each(func(it *renderlist.RenderItem, b renderlist.Bucket) {
		if it.IsRenderGroup() {
			return
		}
		s.draw(pass, it, b)
	})

	if s.stats.Skipped > 0 {
		s.logger.Errorf("submit: skipped %d item(s) without pipeline or buffers", s.stats.Skipped)
	}
	s.logger.Debugf("submit: draws=%d pipelines=%d buffers=%d", s.stats.DrawCalls, s.stats.PipelineSwitches, s.stats.BufferBinds)
	return s.stats
}

func (s *Submitter) draw(pass PassEncoder, it *renderlist.RenderItem, b renderlist.Bucket) {
	if it.Geometry == nil {
		s.stats.Skipped++
		return
	}
	pipeline := s.res.Pipeline(it, b)
	bufs, ok := s.res.Geometry(it.Geometry)
	if pipeline == nil || !ok || bufs.Vertex == nil {
		s.stats.Skipped++
		return
	}

	if pipeline != s.pipeline {
		pass.SetPipeline(pipeline)
		s.pipeline = pipeline
		s.stats.PipelineSwitches++
	}
	if group, offset, ok := s.res.ObjectBinding(it); ok {
		s.offsets[0] = offset
		pass.SetBindGroup(ObjectBindGroup, group, s.offsets[:])
	}
	if bufs.Vertex != s.vertex {
		pass.SetVertexBuffer(0, bufs.Vertex, 0, wgpu.WholeSize)
		s.vertex = bufs.Vertex
		s.stats.BufferBinds++
	}

	if bufs.Index == nil {
		first, count := drawRange(it.Group, bufs.VertexCount)
		if count == 0 {
			return
		}
		pass.Draw(count, 1, first, 0)
		s.stats.DrawCalls++
		return
	}

	if bufs.Index != s.index {
		pass.SetIndexBuffer(bufs.Index, bufs.IndexFormat, 0, wgpu.WholeSize)
		s.index = bufs.Index
		s.stats.BufferBinds++
	}
	first, count := drawRange(it.Group, bufs.IndexCount)
	if count == 0 {
		return
	}
	pass.DrawIndexed(count, 1, first, 0, 0)
	s.stats.DrawCalls++
}

// drawRange clamps a geometry group to [0, total). A nil group is the
// whole range.
func drawRange(g *gfx.Group, total uint32) (first, count uint32) {
	if g == nil {
		return 0, total
	}
	start := max(g.Start, 0)
	if uint32(start) >= total {
		return 0, 0
	}
	end := uint32(start) + uint32(max(g.Count, 0))
	if g.Count < 0 || end > total {
		end = total
	}
	return uint32(start), end - uint32(start)
}

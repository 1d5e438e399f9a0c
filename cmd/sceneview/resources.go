package main

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph/gfx"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/gpu"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

// meshVertex matches VertexInput in mesh.wgsl.
type meshVertex struct {
	Pos    [3]float32
	Normal [3]float32
}

const (
	objectUniformSize = 80
	// objectStride is the dynamic offset alignment every adapter supports.
	objectStride = 256
)

// objectUniform matches Object in mesh.wgsl, padded to one dynamic slot.
type objectUniform struct {
	Model [16]float32
	Color [4]float32
	_     [objectStride - objectUniformSize]byte
}

type cameraUniform struct {
	ViewProj [16]float32
}

// meshResources owns the per-geometry buffers and the per-frame object
// uniforms, and tells the submitter which pipeline draws what.
type meshResources struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	logger logging.Logger

	opaque, blended               *wgpu.RenderPipeline
	opaqueProgram, blendedProgram *gfx.ShaderProgram

	objectLayout *wgpu.BindGroupLayout
	objectBuffer *wgpu.Buffer
	objectGroup  *wgpu.BindGroup
	objectCap    int
	staging      []objectUniform
	slots        map[*renderlist.RenderItem]uint32

	geometries map[gfx.Geometry]*gpu.GeometryBuffers
}

var _ gpu.Resources = (*meshResources)(nil)

func newMeshResources(device *wgpu.Device, objectLayout *wgpu.BindGroupLayout, logger logging.Logger) *meshResources {
	return &meshResources{
		device:         device,
		queue:          device.GetQueue(),
		logger:         logger,
		opaqueProgram:  gfx.NewShaderProgram("mesh.opaque"),
		blendedProgram: gfx.NewShaderProgram("mesh.blended"),
		objectLayout:   objectLayout,
		slots:          make(map[*renderlist.RenderItem]uint32),
		geometries:     make(map[gfx.Geometry]*gpu.GeometryBuffers),
	}
}

func (r *meshResources) Pipeline(it *renderlist.RenderItem, b renderlist.Bucket) *wgpu.RenderPipeline {
	if b == renderlist.BucketOpaque {
		return r.opaque
	}
	return r.blended
}

func (r *meshResources) ObjectBinding(it *renderlist.RenderItem) (*wgpu.BindGroup, uint32, bool) {
	slot, ok := r.slots[it]
	if !ok || r.objectGroup == nil {
		return nil, 0, false
	}
	return r.objectGroup, slot, true
}

func (r *meshResources) Geometry(g gfx.Geometry) (*gpu.GeometryBuffers, bool) {
	if bufs, ok := r.geometries[g]; ok {
		return bufs, bufs != nil
	}
	bufs, err := r.upload(g)
	if err != nil {
		r.logger.Errorf("upload geometry %d: %v", g.ID(), err)
	}
	// failed uploads are cached as nil and not retried
	r.geometries[g] = bufs
	return bufs, bufs != nil
}

func (r *meshResources) upload(g gfx.Geometry) (*gpu.GeometryBuffers, error) {
	bg, ok := g.(*gfx.BufferGeometry)
	if !ok {
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
	n := bg.VertexCount()
	if n == 0 {
		return nil, fmt.Errorf("geometry has no vertices")
	}
	vertices := make([]meshVertex, n)
	for i := range vertices {
		copy(vertices[i].Pos[:], bg.Positions[i*3:i*3+3])
		if len(bg.Normals) >= i*3+3 {
			copy(vertices[i].Normal[:], bg.Normals[i*3:i*3+3])
		}
	}

	bufs := &gpu.GeometryBuffers{VertexCount: uint32(n)}
	var err error
	bufs.Vertex, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	if len(bg.Indices) > 0 {
		bufs.Index, err = r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Index Buffer",
			Contents: wgpu.ToBytes(bg.Indices),
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			bufs.Vertex.Release()
			return nil, err
		}
		bufs.IndexFormat = wgpu.IndexFormatUint32
		bufs.IndexCount = uint32(len(bg.Indices))
	}
	return bufs, nil
}

// prepare assigns a uniform slot to every drawable record of list and
// uploads the model matrices and colours. Materials seen for the first
// time get a program so the opaque pass can group by pipeline.
func (r *meshResources) prepare(list *renderlist.RenderList) error {
	clear(r.slots)
	r.staging = r.staging[:0]

	list.Each(func(it *renderlist.RenderItem, b renderlist.Bucket) {
		if it.IsRenderGroup() {
			return
		}
		n := nodeOf(it)
		if n == nil {
			return
		}
		u := objectUniform{Model: toFloat32(n.MatrixWorld()), Color: [4]float32{1, 1, 1, 1}}
		if m, ok := it.Material.(*gfx.BasicMaterial); ok {
			u.Color = m.Color
			if m.Program() == nil {
				m.SetProgram(r.programFor(b))
			}
		}
		r.slots[it] = uint32(len(r.staging) * objectStride)
		r.staging = append(r.staging, u)
	})

	if len(r.staging) == 0 {
		return nil
	}
	if err := r.ensureObjectCapacity(len(r.staging)); err != nil {
		return err
	}
	r.queue.WriteBuffer(r.objectBuffer, 0, wgpu.ToBytes(r.staging))
	return nil
}

func (r *meshResources) programFor(b renderlist.Bucket) *gfx.ShaderProgram {
	if b == renderlist.BucketOpaque {
		return r.opaqueProgram
	}
	return r.blendedProgram
}

func (r *meshResources) ensureObjectCapacity(n int) error {
	if n <= r.objectCap && r.objectBuffer != nil {
		return nil
	}
	capacity := max(r.objectCap*2, n, 16)
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Object Uniforms",
		Size:  uint64(capacity * objectStride),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("object uniforms: %w", err)
	}
	group, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Object Uniforms",
		Layout: r.objectLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Size: objectUniformSize},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("object bind group: %w", err)
	}
	r.release()
	r.objectBuffer, r.objectGroup, r.objectCap = buf, group, capacity
	r.logger.Debugf("object uniforms grown to %d slots", capacity)
	return nil
}

func (r *meshResources) release() {
	if r.objectGroup != nil {
		r.objectGroup.Release()
		r.objectGroup = nil
	}
	if r.objectBuffer != nil {
		r.objectBuffer.Release()
		r.objectBuffer = nil
	}
}

func (r *meshResources) Release() {
	r.release()
	for g, bufs := range r.geometries {
		if bufs != nil {
			bufs.Vertex.Release()
			if bufs.Index != nil {
				bufs.Index.Release()
			}
		}
		delete(r.geometries, g)
	}
}

func toFloat32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

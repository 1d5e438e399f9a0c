package main

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/cmd/sceneview/shaders"
	"github.com/gekko3d/scenegraph/config"
	"github.com/gekko3d/scenegraph/logging"
	"github.com/gekko3d/scenegraph/render/gpu"
	"github.com/gekko3d/scenegraph/render/projector"
	"github.com/gekko3d/scenegraph/render/renderlist"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type Viewer struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	CameraBuffer *wgpu.Buffer
	CameraGroup  *wgpu.BindGroup

	cfg       config.Config
	logger    logging.Logger
	res       *meshResources
	submitter *gpu.Submitter
	projector *projector.Projector
	lists     *renderlist.RenderLists

	Scene  *scenegraph.Node
	Camera *projector.PerspectiveCamera
	Paused bool

	FrameCount int
}

func NewViewer(window *glfw.Window, cfg config.Config, logger logging.Logger) *Viewer {
	return &Viewer{
		Window:    window,
		cfg:       cfg,
		logger:    logger,
		projector: projector.New(cfg.ProjectorOptions(logger)),
		lists:     renderlist.NewRenderLists(cfg.RenderListOptions(logger)),
		Scene:     demoScene(),
		Camera:    newCamera(cfg),
	}
}

func (v *Viewer) Init() error {
	v.Instance = wgpu.CreateInstance(nil)
	v.Surface = v.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(v.Window))

	adapter, err := v.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: v.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	v.Adapter = adapter

	v.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Main Device"})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	v.Queue = v.Device.GetQueue()

	width, height := v.Window.GetFramebufferSize()
	caps := v.Surface.GetCapabilities(adapter)
	v.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	v.Surface.Configure(adapter, v.Device, v.Config)
	if err := v.setupDepth(width, height); err != nil {
		return err
	}

	cameraLayout, err := uniformLayout(v.Device, "Camera BGL", uint64(unsafe.Sizeof(cameraUniform{})), false)
	if err != nil {
		return err
	}
	objectLayout, err := uniformLayout(v.Device, "Object BGL", objectUniformSize, true)
	if err != nil {
		return err
	}
	layout, err := v.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Mesh Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, objectLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	shader, err := v.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Mesh Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeshWGSL},
	})
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}
	defer shader.Release()

	v.res = newMeshResources(v.Device, objectLayout, logging.Named(v.logger, "resources"))
	if v.res.opaque, err = meshPipeline(v.Device, shader, layout, v.Config.Format, false); err != nil {
		return err
	}
	if v.res.blended, err = meshPipeline(v.Device, shader, layout, v.Config.Format, true); err != nil {
		return err
	}
	v.submitter = gpu.NewSubmitter(v.res, logging.Named(v.logger, "gpu"))

	v.CameraBuffer, err = v.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniforms",
		Size:  uint64(unsafe.Sizeof(cameraUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("camera buffer: %w", err)
	}
	v.CameraGroup, err = v.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera BG",
		Layout: cameraLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: v.CameraBuffer, Size: uint64(unsafe.Sizeof(cameraUniform{}))},
		},
	})
	if err != nil {
		return fmt.Errorf("camera bind group: %w", err)
	}

	if height > 0 {
		v.Camera.Aspect = float64(width) / float64(height)
		v.Camera.UpdateProjectionMatrix()
	}
	v.logger.Infof("viewer ready: %dx%d %v", width, height, v.Config.Format)
	return nil
}

func uniformLayout(device *wgpu.Device, label string, size uint64, dynamic bool) (*wgpu.BindGroupLayout, error) {
	l, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   size,
					HasDynamicOffset: dynamic,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return l, nil
}

// meshPipeline builds the opaque pipeline, or the blended one that tests
// depth without writing it.
func meshPipeline(device *wgpu.Device, shader *wgpu.ShaderModule, layout *wgpu.PipelineLayout, format wgpu.TextureFormat, blended bool) (*wgpu.RenderPipeline, error) {
	label := "Mesh Opaque"
	var blend *wgpu.BlendState
	if blended {
		label = "Mesh Blended"
		blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
			Alpha: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
		}
	}
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(meshVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, Blend: blend, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: !blended,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s pipeline: %w", label, err)
	}
	return pipeline, nil
}

func (v *Viewer) setupDepth(w, h int) error {
	if w == 0 || h == 0 {
		return nil
	}
	if v.DepthView != nil {
		v.DepthView.Release()
	}
	if v.DepthTexture != nil {
		v.DepthTexture.Release()
	}

	var err error
	v.DepthTexture, err = v.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	v.DepthView, err = v.DepthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("depth view: %w", err)
	}
	return nil
}

func (v *Viewer) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	v.Config.Width = uint32(w)
	v.Config.Height = uint32(h)
	v.Surface.Configure(v.Adapter, v.Device, v.Config)
	if err := v.setupDepth(w, h); err != nil {
		v.logger.Errorf("resize: %v", err)
	}
	v.Camera.Aspect = float64(w) / float64(h)
	v.Camera.UpdateProjectionMatrix()
}

func (v *Viewer) Update(dt float64) {
	if !v.Paused {
		animate(v.Scene, dt)
	}
}

func (v *Viewer) Render() {
	list := v.lists.Get(v.Scene, 0)
	stats := v.projector.Project(v.Scene, v.Camera, list)
	defer list.Finish()

	if err := v.res.prepare(list); err != nil {
		v.logger.Errorf("prepare: %v", err)
		return
	}
	cam := cameraUniform{ViewProj: toFloat32(projector.ViewProjection(v.Camera))}
	v.Queue.WriteBuffer(v.CameraBuffer, 0, wgpu.ToBytes([]cameraUniform{cam}))

	nextTexture, err := v.Surface.GetCurrentTexture()
	if err != nil {
		v.logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		v.logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := v.Device.CreateCommandEncoder(nil)
	if err != nil {
		v.logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}
	defer encoder.Release()

	cc := v.cfg.Viewer.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            v.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetBindGroup(0, v.CameraGroup, nil)
	sub := v.submitter.Submit(pass, list)
	if err := pass.End(); err != nil {
		v.logger.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		v.logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	defer cmd.Release()
	v.Queue.Submit(cmd)
	v.Surface.Present()

	v.FrameCount++
	if v.FrameCount%120 == 0 {
		v.logger.Debugf("frame %d: visited=%d culled=%d draws=%d pipelines=%d buffers=%d",
			v.FrameCount, stats.Visited, stats.Culled, sub.DrawCalls, sub.PipelineSwitches, sub.BufferBinds)
	}
}

func (v *Viewer) Release() {
	if v.res != nil {
		v.res.Release()
	}
	v.lists.Dispose()
	if v.DepthView != nil {
		v.DepthView.Release()
	}
	if v.DepthTexture != nil {
		v.DepthTexture.Release()
	}
	if v.Surface != nil {
		v.Surface.Release()
	}
	if v.Instance != nil {
		v.Instance.Release()
	}
}

// runWindowed opens a glfw window and renders the demo scene until it is
// closed. Space pauses the animation, Tab toggles frustum culling.
func runWindowed(cfg config.Config, logger logging.Logger) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(cfg.Viewer.Width, cfg.Viewer.Height, cfg.Viewer.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	viewer := NewViewer(window, cfg, logger)
	if err := viewer.Init(); err != nil {
		return err
	}
	defer viewer.Release()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		viewer.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			viewer.Paused = !viewer.Paused
		case glfw.KeyTab:
			opts := viewer.projector.Options()
			opts.FrustumCulling = !opts.FrustumCulling
			viewer.projector = projector.New(opts)
			logger.Infof("frustum culling: %v", opts.FrustumCulling)
		}
	})

	last := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		viewer.Update(now - last)
		last = now
		viewer.Render()
	}
	return nil
}

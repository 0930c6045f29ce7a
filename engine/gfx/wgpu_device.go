package gfx

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group convention shared with program WGSL sources: group 0 holds the
// whole program interface. Binding 0 is the packed uniform block (present
// only when the program declares uniforms); sampler i occupies bindings
// 1+2i (texture view) and 2+2i (sampler).

type uniformSlot struct {
	offset uint32
	size   uint32
}

type wgpuProgram struct {
	desc          ProgramDesc
	vertexEntry   string
	fragmentEntry string

	vs *wgpu.ShaderModule
	fs *wgpu.ShaderModule

	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout

	uniformSlots map[string]uniformSlot
	uniformSize  uint64
}

func (p *wgpuProgram) release() {
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
	if p.fs != nil {
		p.fs.Release()
	}
	if p.vs != nil {
		p.vs.Release()
	}
}

type wgpuIndexBuffer struct {
	buf    *wgpu.Buffer
	count  uint32
	format wgpu.IndexFormat
}

type wgpuVertexBuffer struct {
	buf    *wgpu.Buffer
	count  uint32
	layout VertexLayout
}

type wgpuTexture struct {
	tex     *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
	width   uint16
	height  uint16
	format  TextureFormat
}

func (t *wgpuTexture) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.tex != nil {
		t.tex.Release()
	}
}

type wgpuFrameBuffer struct {
	width, height uint16
	attachments   []TextureHandle
}

// wgpuDevice is the WebGPU implementation of Device.
type wgpuDevice struct {
	mu *sync.Mutex

	caps Caps

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surface      *wgpu.Surface
	targetFormat wgpu.TextureFormat
	presentMode  wgpu.PresentMode
	sampleCount  uint32
	width        uint16
	height       uint16

	// Offscreen color target used when no surface descriptor was supplied.
	offscreenTexture *wgpu.Texture
	offscreenView    *wgpu.TextureView

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	renderPassDescriptor *wgpu.RenderPassDescriptor

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// Per-draw transients released after the frame's queue submission.
	frameBuffersTransient []*wgpu.Buffer
	frameGroupsTransient  []*wgpu.BindGroup

	indexBuffers  arena[wgpuIndexBuffer]
	vertexBuffers arena[wgpuVertexBuffer]
	textures      arena[wgpuTexture]
	frameBuffers  arena[wgpuFrameBuffer]
	programs      arena[wgpuProgram]

	pipelines map[pipelineKey]*wgpu.RenderPipeline
	samplers  map[SamplerFlags]*wgpu.Sampler

	// 1x1 white safety-net texture bound when a draw references a stage the
	// caller never filled. Distinct from any material-level default maps.
	fallback wgpuTexture

	cur drawState

	frameDraws   uint32
	frameDropped uint32
	lastDraws    uint32
	lastDropped  uint32

	released bool
}

var _ Device = &wgpuDevice{}

func newWGPUDevice(cfg deviceConfig) (Device, error) {
	runtime.LockOSThread()

	d := &wgpuDevice{
		mu: &sync.Mutex{},
		caps: Caps{
			MaxTextureStages:          16,
			MaxFrameBufferAttachments: 2,
			MaxVertexAttribs:          16,
		},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: cfg.msaaSamples,
		pipelines:   make(map[pipelineKey]*wgpu.RenderPipeline),
		samplers:    make(map[SamplerFlags]*wgpu.Sampler),
	}
	if cfg.vsync {
		d.presentMode = wgpu.PresentModeFifo
	}

	if cfg.surfaceDescriptor != nil {
		d.surface = d.instance.CreateSurface(cfg.surfaceDescriptor)
	}

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = adapter

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	if err := d.createFallbackTexture(); err != nil {
		return nil, fmt.Errorf("failed to create fallback texture: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.configureTargets(cfg.width, cfg.height); err != nil {
		return nil, err
	}
	return d, nil
}

// createFallbackTexture builds the 1x1 white safety-net texture.
func (d *wgpuDevice) createFallbackTexture() error {
	tex, view, err := d.createTextureObjects(1, 1, 1, TexFormatRGBA8, []byte{255, 255, 255, 255})
	if err != nil {
		return err
	}
	sampler, err := d.samplerFor(SamplerNone)
	if err != nil {
		tex.Release()
		return err
	}
	d.fallback = wgpuTexture{tex: tex, view: view, sampler: sampler, width: 1, height: 1, format: TexFormatRGBA8}
	return nil
}

// configureTargets (re)builds the presentation target, the MSAA color
// target and the depth target for the given size. Caller holds the mutex.
func (d *wgpuDevice) configureTargets(width, height uint16) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("target size %dx%d is invalid", width, height)
	}
	d.width, d.height = width, height

	if d.surface != nil {
		capabilities := d.surface.GetCapabilities(d.adapter)
		d.targetFormat = capabilities.Formats[0]
		d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      d.targetFormat,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: d.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	} else {
		d.targetFormat = wgpu.TextureFormatRGBA8Unorm
		if d.offscreenView != nil {
			d.offscreenView.Release()
			d.offscreenTexture.Release()
		}
		tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "Offscreen Target",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.targetFormat,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		})
		if err != nil {
			return fmt.Errorf("failed to create offscreen target: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("failed to create offscreen target view: %w", err)
		}
		d.offscreenTexture = tex
		d.offscreenView = view
	}

	msaaEnabled := d.sampleCount > 1
	if d.msaaView != nil {
		d.msaaView.Release()
		d.msaaTexture.Release()
		d.msaaView = nil
		d.msaaTexture = nil
	}
	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result
		// lands in the presentation view as the ResolveTarget.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   d.sampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.targetFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create MSAA texture: %w", err)
		}
		d.msaaTexture = msaaTexture
		d.msaaView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return fmt.Errorf("failed to create MSAA view: %w", err)
		}
	}

	if d.depthView != nil {
		d.depthView.Release()
		d.depthTexture.Release()
	}
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   d.sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	d.depthTexture = depthTexture
	d.depthView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // resolve only, MSAA samples are not kept
	}
	d.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          d.msaaView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,        // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: 0.1, G: 0.1, B: 0.1, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (d *wgpuDevice) Caps() Caps {
	return d.caps
}

func (d *wgpuDevice) Stats() FrameStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return FrameStats{
		DrawCalls:      d.lastDraws,
		DroppedSubmits: d.lastDropped,
		IndexBuffers:   uint32(d.indexBuffers.count()),
		VertexBuffers:  uint32(d.vertexBuffers.count()),
		Textures:       uint32(d.textures.count()),
		FrameBuffers:   uint32(d.frameBuffers.count()),
		Programs:       uint32(d.programs.count()),
	}
}

func (d *wgpuDevice) CreateIndexBuffer(data []byte, flags BufferFlags) IndexBufferHandle {
	indexSize := uint32(2)
	format := wgpu.IndexFormatUint16
	if flags&BufferIndex32 != 0 {
		indexSize = 4
		format = wgpu.IndexFormatUint32
	}
	if len(data) == 0 || uint32(len(data))%indexSize != 0 {
		log.Printf("[GFX] index buffer rejected: %d bytes is not a positive multiple of the index size %d", len(data), indexSize)
		return IndexBufferHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Index Buffer",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		log.Printf("[GFX] index buffer creation failed: %v", err)
		return IndexBufferHandle{}
	}
	d.queue.WriteBuffer(buf, 0, data)

	id := d.indexBuffers.alloc(wgpuIndexBuffer{
		buf:    buf,
		count:  uint32(len(data)) / indexSize,
		format: format,
	})
	return IndexBufferHandle{id: id}
}

func (d *wgpuDevice) CreateVertexBuffer(data []byte, layout VertexLayout, flags BufferFlags) VertexBufferHandle {
	if err := validateVertexLayout(layout, d.caps); err != nil {
		log.Printf("[GFX] vertex buffer rejected: %v", err)
		return VertexBufferHandle{}
	}
	if len(data) == 0 || uint32(len(data))%layout.Stride != 0 {
		log.Printf("[GFX] vertex buffer rejected: %d bytes is not a positive multiple of the stride %d", len(data), layout.Stride)
		return VertexBufferHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Vertex Buffer",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		log.Printf("[GFX] vertex buffer creation failed: %v", err)
		return VertexBufferHandle{}
	}
	d.queue.WriteBuffer(buf, 0, data)

	id := d.vertexBuffers.alloc(wgpuVertexBuffer{
		buf:    buf,
		count:  uint32(len(data)) / layout.Stride,
		layout: layout,
	})
	return VertexBufferHandle{id: id}
}

// mipLevelCount returns the number of levels in a full chain for the size.
func mipLevelCount(width, height uint16) uint32 {
	levels := uint32(1)
	w, h := uint32(width), uint32(height)
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		levels++
	}
	return levels
}

// createTextureObjects builds the texture and view and uploads the data
// (when non-nil) level by level. Caller holds the mutex except during init.
func (d *wgpuDevice) createTextureObjects(width, height uint16, levels uint32, format TextureFormat, data []byte) (*wgpu.Texture, *wgpu.TextureView, error) {
	usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageRenderAttachment
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpuTextureFormat(format),
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, err
	}

	if data != nil && format != TexFormatDepth24 {
		offset := uint64(0)
		lw, lh := uint32(width), uint32(height)
		for level := uint32(0); level < levels; level++ {
			levelBytes := uint64(lw) * uint64(lh) * 4
			if offset+levelBytes > uint64(len(data)) {
				break
			}
			d.queue.WriteTexture(
				&wgpu.ImageCopyTexture{
					Texture:  tex,
					MipLevel: level,
					Origin:   wgpu.Origin3D{},
					Aspect:   wgpu.TextureAspectAll,
				},
				data[offset:offset+levelBytes],
				&wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  lw * 4,
					RowsPerImage: lh,
				},
				&wgpu.Extent3D{
					Width:              lw,
					Height:             lh,
					DepthOrArrayLayers: 1,
				},
			)
			offset += levelBytes
			lw = max(lw/2, 1)
			lh = max(lh/2, 1)
		}
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

func (d *wgpuDevice) CreateTexture2D(width, height uint16, hasMips bool, format TextureFormat, flags SamplerFlags, data []byte) TextureHandle {
	if width == 0 || height == 0 {
		log.Printf("[GFX] texture rejected: zero dimension %dx%d", width, height)
		return TextureHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	levels := uint32(1)
	if hasMips {
		levels = mipLevelCount(width, height)
	}
	tex, view, err := d.createTextureObjects(width, height, levels, format, data)
	if err != nil {
		log.Printf("[GFX] texture creation failed: %v", err)
		return TextureHandle{}
	}
	creationFlags := flags
	if creationFlags == SamplerInherit {
		creationFlags = SamplerNone
	}
	sampler, err := d.samplerFor(creationFlags)
	if err != nil {
		log.Printf("[GFX] sampler creation failed: %v", err)
		view.Release()
		tex.Release()
		return TextureHandle{}
	}

	id := d.textures.alloc(wgpuTexture{
		tex:     tex,
		view:    view,
		sampler: sampler,
		width:   width,
		height:  height,
		format:  format,
	})
	return TextureHandle{id: id}
}

func (d *wgpuDevice) CreateFrameBuffer(width, height uint16, format TextureFormat, flags SamplerFlags) FrameBufferHandle {
	if width == 0 || height == 0 {
		log.Printf("[GFX] framebuffer rejected: zero dimension %dx%d", width, height)
		return FrameBufferHandle{}
	}

	color := d.CreateTexture2D(width, height, false, format, flags, nil)
	depth := d.CreateTexture2D(width, height, false, TexFormatDepth24, flags, nil)
	if !color.IsValid() || !depth.IsValid() {
		d.DestroyTexture(color)
		d.DestroyTexture(depth)
		return FrameBufferHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.frameBuffers.alloc(wgpuFrameBuffer{
		width:       width,
		height:      height,
		attachments: []TextureHandle{color, depth},
	})
	return FrameBufferHandle{id: id}
}

func (d *wgpuDevice) FrameBufferTexture(fb FrameBufferHandle, attachment uint8) TextureHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frameBuffers.lookup(fb.id)
	if !ok || int(attachment) >= len(f.attachments) {
		return TextureHandle{}
	}
	return f.attachments[attachment]
}

// alignTo16 pads a byte size to 16-byte uniform alignment.
func alignTo16(size uint32) uint32 {
	return (size + 15) &^ 15
}

func (d *wgpuDevice) CreateProgram(desc ProgramDesc) ProgramHandle {
	if err := validateProgramDesc(desc, d.caps); err != nil {
		log.Printf("[GFX] program %q rejected: %v", desc.Name, err)
		return ProgramHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p := wgpuProgram{
		desc:          desc,
		vertexEntry:   desc.VertexEntry,
		fragmentEntry: desc.FragmentEntry,
		uniformSlots:  make(map[string]uniformSlot, len(desc.Uniforms)),
	}
	if p.vertexEntry == "" {
		p.vertexEntry = "vs_main"
	}
	if p.fragmentEntry == "" {
		p.fragmentEntry = "fs_main"
	}

	vs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Name + " VS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.VertexSource,
		},
	})
	if err != nil {
		log.Printf("[GFX] program %q vertex module failed: %v", desc.Name, err)
		return ProgramHandle{}
	}
	p.vs = vs

	fs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Name + " FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.FragmentSource,
		},
	})
	if err != nil {
		log.Printf("[GFX] program %q fragment module failed: %v", desc.Name, err)
		p.release()
		return ProgramHandle{}
	}
	p.fs = fs

	offset := uint32(0)
	for _, u := range desc.Uniforms {
		num := uint32(max(u.Num, 1))
		size := alignTo16(u.Size) * num
		p.uniformSlots[u.Name] = uniformSlot{offset: offset, size: size}
		offset += size
	}
	p.uniformSize = uint64(offset)

	entries := make([]wgpu.BindGroupLayoutEntry, 0, 1+2*len(desc.Samplers))
	if p.uniformSize > 0 {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: p.uniformSize,
			},
		})
	}
	for i := range desc.Samplers {
		entries = append(entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    uint32(1 + 2*i),
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    uint32(2 + 2*i),
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		)
	}

	bgl, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Name + " Bind Group Layout",
		Entries: entries,
	})
	if err != nil {
		log.Printf("[GFX] program %q bind group layout failed: %v", desc.Name, err)
		p.release()
		return ProgramHandle{}
	}
	p.bindGroupLayout = bgl

	layout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		log.Printf("[GFX] program %q pipeline layout failed: %v", desc.Name, err)
		p.release()
		return ProgramHandle{}
	}
	p.pipelineLayout = layout

	id := d.programs.alloc(p)
	return ProgramHandle{id: id}
}

func (d *wgpuDevice) DestroyIndexBuffer(h IndexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.indexBuffers.release(h.id); ok {
		b.buf.Release()
	}
}

func (d *wgpuDevice) DestroyVertexBuffer(h VertexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.vertexBuffers.release(h.id); ok {
		b.buf.Release()
	}
}

func (d *wgpuDevice) DestroyTexture(h TextureHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.textures.release(h.id); ok {
		t.release()
	}
}

func (d *wgpuDevice) DestroyFrameBuffer(h FrameBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frameBuffers.release(h.id)
	if !ok {
		return
	}
	for _, att := range f.attachments {
		if t, ok := d.textures.release(att.id); ok {
			t.release()
		}
	}
}

func (d *wgpuDevice) DestroyProgram(h ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs.release(h.id); ok {
		// Pipelines compiled against the program die with it.
		for key, pipeline := range d.pipelines {
			if key.programID == h.id {
				pipeline.Release()
				delete(d.pipelines, key)
			}
		}
		p.release()
	}
}

// samplerFor returns the cached sampler for the flags, creating it on first
// use. Caller holds the mutex.
func (d *wgpuDevice) samplerFor(flags SamplerFlags) (*wgpu.Sampler, error) {
	if s, ok := d.samplers[flags]; ok {
		return s, nil
	}

	addressU := wgpu.AddressModeRepeat
	if flags&SamplerUClamp != 0 {
		addressU = wgpu.AddressModeClampToEdge
	} else if flags&SamplerUMirror != 0 {
		addressU = wgpu.AddressModeMirrorRepeat
	}
	addressV := wgpu.AddressModeRepeat
	if flags&SamplerVClamp != 0 {
		addressV = wgpu.AddressModeClampToEdge
	} else if flags&SamplerVMirror != 0 {
		addressV = wgpu.AddressModeMirrorRepeat
	}
	minFilter := wgpu.FilterModeLinear
	if flags&SamplerMinPoint != 0 {
		minFilter = wgpu.FilterModeNearest
	}
	magFilter := wgpu.FilterModeLinear
	if flags&SamplerMagPoint != 0 {
		magFilter = wgpu.FilterModeNearest
	}
	mipFilter := wgpu.MipmapFilterModeLinear
	if flags&SamplerMipPoint != 0 {
		mipFilter = wgpu.MipmapFilterModeNearest
	}

	s, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Sampler",
		AddressModeU:  addressU,
		AddressModeV:  addressV,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     magFilter,
		MinFilter:     minFilter,
		MipmapFilter:  mipFilter,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	d.samplers[flags] = s
	return s, nil
}

func (d *wgpuDevice) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameEncoder != nil {
		return fmt.Errorf("previous frame not yet ended")
	}

	var view *wgpu.TextureView
	if d.surface != nil {
		if d.frameSurface != nil {
			return fmt.Errorf("previous frame surface not yet presented")
		}
		surfaceTexture, err := d.surface.GetCurrentTexture()
		if err != nil {
			return err
		}
		v, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return err
		}
		d.frameSurface = surfaceTexture
		d.frameView = v
		view = v
	} else {
		view = d.offscreenView
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		if d.frameView != nil {
			d.frameView.Release()
			d.frameView = nil
		}
		if d.frameSurface != nil {
			d.frameSurface.Release()
			d.frameSurface = nil
		}
		return err
	}

	if d.sampleCount > 1 {
		d.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		d.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(d.renderPassDescriptor)

	d.frameEncoder = encoder
	d.framePass = pass
	d.frameDraws = 0
	d.frameDropped = 0
	return nil
}

func (d *wgpuDevice) SetVertexBuffer(h VertexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.vb = h
}

func (d *wgpuDevice) SetIndexBuffer(h IndexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.ib = h
}

func (d *wgpuDevice) SetTexture(stage uint8, sampler string, h TextureHandle, flags SamplerFlags) error {
	if stage >= d.caps.MaxTextureStages {
		return fmt.Errorf("texture stage %d out of range, device supports %d stages", stage, d.caps.MaxTextureStages)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cur.textures == nil {
		d.cur.textures = make(map[uint8]TextureBinding)
	}
	d.cur.textures[stage] = TextureBinding{Sampler: sampler, Texture: h, Flags: flags}
	return nil
}

func (d *wgpuDevice) SetUniform(name string, data []byte, num uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cur.uniforms == nil {
		d.cur.uniforms = make(map[string]UniformValue)
	}
	d.cur.uniforms[name] = UniformValue{
		Data: append([]byte(nil), data...),
		Num:  max(num, 1),
	}
}

func (d *wgpuDevice) SetState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.state = s
}

func (d *wgpuDevice) Submit(prog ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.programs.lookup(prog.id)
	if !ok || d.framePass == nil {
		d.frameDropped++
		d.cur.reset()
		return
	}
	vb, ok := d.vertexBuffers.lookup(d.cur.vb.id)
	if !ok {
		d.frameDropped++
		d.cur.reset()
		return
	}

	pipeline, err := d.pipelineFor(prog.id, p, d.cur.state, vb.layout)
	if err != nil {
		log.Printf("[GFX] pipeline creation for program %q failed: %v", p.desc.Name, err)
		d.frameDropped++
		d.cur.reset()
		return
	}

	entries := make([]wgpu.BindGroupEntry, 0, 1+2*len(p.desc.Samplers))
	if p.uniformSize > 0 {
		block := make([]byte, p.uniformSize)
		for name, slot := range p.uniformSlots {
			if v, ok := d.cur.uniforms[name]; ok {
				copy(block[slot.offset:slot.offset+slot.size], v.Data)
			}
		}
		ubuf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: p.desc.Name + " Uniforms",
			Size:  p.uniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			log.Printf("[GFX] uniform buffer for program %q failed: %v", p.desc.Name, err)
			d.frameDropped++
			d.cur.reset()
			return
		}
		d.queue.WriteBuffer(ubuf, 0, block)
		d.frameBuffersTransient = append(d.frameBuffersTransient, ubuf)
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: 0,
			Buffer:  ubuf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		})
	}

	for i, s := range p.desc.Samplers {
		view := d.fallback.view
		sampler := d.fallback.sampler
		if binding, ok := d.cur.textures[s.Stage]; ok {
			if t, ok := d.textures.lookup(binding.Texture.id); ok {
				view = t.view
				sampler = t.sampler
				if binding.Flags != SamplerInherit {
					if override, err := d.samplerFor(binding.Flags); err == nil {
						sampler = override
					}
				}
			}
		}
		entries = append(entries,
			wgpu.BindGroupEntry{
				Binding:     uint32(1 + 2*i),
				TextureView: view,
			},
			wgpu.BindGroupEntry{
				Binding: uint32(2 + 2*i),
				Sampler: sampler,
			},
		)
	}

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.desc.Name + " Bind Group",
		Layout:  p.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		log.Printf("[GFX] bind group for program %q failed: %v", p.desc.Name, err)
		d.frameDropped++
		d.cur.reset()
		return
	}
	d.frameGroupsTransient = append(d.frameGroupsTransient, bindGroup)

	d.framePass.SetPipeline(pipeline)
	d.framePass.SetBindGroup(0, bindGroup, nil)
	d.framePass.SetVertexBuffer(0, vb.buf, 0, wgpu.WholeSize)
	if ib, ok := d.indexBuffers.lookup(d.cur.ib.id); ok {
		d.framePass.SetIndexBuffer(ib.buf, ib.format, 0, wgpu.WholeSize)
		d.framePass.DrawIndexed(ib.count, 1, 0, 0, 0)
	} else {
		d.framePass.Draw(vb.count, 1, 0, 0)
	}

	d.frameDraws++
	d.cur.reset()
}

func (d *wgpuDevice) EndFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.framePass == nil {
		return
	}
	d.framePass.End()

	commandBuffer, err := d.frameEncoder.Finish(nil)
	if err == nil {
		d.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}
	d.frameEncoder.Release()
	d.frameEncoder = nil
	d.framePass = nil

	for _, bg := range d.frameGroupsTransient {
		bg.Release()
	}
	d.frameGroupsTransient = d.frameGroupsTransient[:0]
	for _, buf := range d.frameBuffersTransient {
		buf.Release()
	}
	d.frameBuffersTransient = d.frameBuffersTransient[:0]

	d.lastDraws = d.frameDraws
	d.lastDropped = d.frameDropped
}

func (d *wgpuDevice) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.surface == nil || d.frameSurface == nil {
		return
	}
	d.surface.Present()

	d.frameView.Release()
	d.frameView = nil
	d.frameSurface.Release()
	d.frameSurface = nil
}

func (d *wgpuDevice) Resize(width, height uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.configureTargets(width, height); err != nil {
		log.Printf("[GFX] resize to %dx%d failed: %v", width, height, err)
	}
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return
	}
	d.released = true

	d.indexBuffers.drain(func(b wgpuIndexBuffer) { b.buf.Release() })
	d.vertexBuffers.drain(func(b wgpuVertexBuffer) { b.buf.Release() })
	d.frameBuffers.drain(nil)
	d.textures.drain(func(t wgpuTexture) { t.release() })
	d.programs.drain(func(p wgpuProgram) { p.release() })

	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.samplers {
		s.Release()
	}
	d.samplers = nil
	d.fallback.release()

	if d.msaaView != nil {
		d.msaaView.Release()
		d.msaaTexture.Release()
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthTexture.Release()
	}
	if d.offscreenView != nil {
		d.offscreenView.Release()
		d.offscreenTexture.Release()
	}
	if d.device != nil {
		d.device.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
	if d.instance != nil {
		d.instance.Release()
	}
}

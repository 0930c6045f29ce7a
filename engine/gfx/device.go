// package gfx is the GPU device layer: a retained-mode command recording
// API over typed, generation-checked resource handles. Resources are created
// up front and referenced by handle; per-draw bindings (buffers, textures,
// uniforms, the packed State word) are recorded CPU-side and consumed by
// Submit. Creation failures surface as invalid handles rather than errors;
// callers check IsValid before use.
package gfx

// BackendType identifies the device backend implementation.
type BackendType int

const (
	// BackendWGPU selects the WebGPU-based device backend.
	BackendWGPU BackendType = iota

	// BackendNull selects the headless recording backend. No GPU objects are
	// created; submissions are recorded and queryable through Recorder.
	BackendNull
)

// UniformDef declares one uniform a program consumes.
type UniformDef struct {
	// Name is the uniform's binding key, unique within the program.
	Name string
	// Size is the byte size of one element. Sizes are padded to 16-byte
	// alignment when the backend packs the program's uniform block.
	Size uint32
	// Num is the element count for array uniforms. Zero means one.
	Num uint16
}

// SamplerDef declares one texture sampler a program consumes.
type SamplerDef struct {
	// Name is the sampler's binding key, unique within the program.
	Name string
	// Stage is the texture stage the sampler reads from.
	Stage uint8
}

// ProgramDesc describes a linked shader program: WGSL sources for both
// stages plus the uniform and sampler bindings the program consumes. The
// binding metadata is declared explicitly rather than reflected from the
// sources; the device validates it structurally at creation.
type ProgramDesc struct {
	// Name labels the program for diagnostics and pipeline labels.
	Name string
	// VertexSource is the WGSL source containing the vertex entry point.
	VertexSource string
	// FragmentSource is the WGSL source containing the fragment entry point.
	FragmentSource string
	// VertexEntry is the vertex entry point name. Empty means "vs_main".
	VertexEntry string
	// FragmentEntry is the fragment entry point name. Empty means "fs_main".
	FragmentEntry string
	// Uniforms lists the uniforms in block order.
	Uniforms []UniformDef
	// Samplers lists the texture samplers.
	Samplers []SamplerDef
}

// Device is the GPU device abstraction. One Device is created per
// application via NewDevice and shared by every resource wrapper.
//
// All record calls (Set*, Submit) are synchronous CPU-side operations on the
// render thread; per-draw state is cleared after each Submit. Resource
// creation returns the zero handle on failure instead of an error.
type Device interface {
	// Caps returns the fixed limits of the active backend.
	//
	// Returns:
	//   - Caps: backend limits
	Caps() Caps

	// Stats returns the device activity snapshot taken at the last EndFrame,
	// with resource liveness counts current as of the call.
	//
	// Returns:
	//   - FrameStats: draw counts and alive resource counts
	Stats() FrameStats

	// CreateIndexBuffer creates an index buffer from the given bytes.
	// BufferIndex32 in flags selects 32-bit indices; the default is 16-bit.
	//
	// Parameters:
	//   - data: raw index bytes; must be non-empty and a multiple of the
	//     index size
	//   - flags: buffer creation flags
	//
	// Returns:
	//   - IndexBufferHandle: the created buffer, or the zero handle on failure
	CreateIndexBuffer(data []byte, flags BufferFlags) IndexBufferHandle

	// CreateVertexBuffer creates a vertex buffer from the given bytes.
	//
	// Parameters:
	//   - data: raw vertex bytes; must be non-empty and a multiple of
	//     layout.Stride
	//   - layout: the buffer's vertex layout; must have a non-zero stride
	//     and at least one attribute
	//   - flags: buffer creation flags
	//
	// Returns:
	//   - VertexBufferHandle: the created buffer, or the zero handle on failure
	CreateVertexBuffer(data []byte, layout VertexLayout, flags BufferFlags) VertexBufferHandle

	// CreateTexture2D creates a 2D texture, optionally with a full mip chain.
	//
	// Parameters:
	//   - width, height: level-0 dimensions; both must be non-zero
	//   - hasMips: when true, data holds every mip level back to back from
	//     largest to smallest
	//   - format: pixel format
	//   - flags: sampling flags baked into the texture's own sampler
	//   - data: pixel bytes; may be nil for textures written by the device
	//     (render targets)
	//
	// Returns:
	//   - TextureHandle: the created texture, or the zero handle on failure
	CreateTexture2D(width, height uint16, hasMips bool, format TextureFormat, flags SamplerFlags, data []byte) TextureHandle

	// CreateFrameBuffer creates an offscreen render target with a color
	// attachment at index 0 and a depth attachment at index 1.
	//
	// Parameters:
	//   - width, height: target dimensions; both must be non-zero
	//   - format: color attachment pixel format
	//   - flags: sampling flags for reading the attachments as textures
	//
	// Returns:
	//   - FrameBufferHandle: the created framebuffer, or the zero handle on
	//     failure
	CreateFrameBuffer(width, height uint16, format TextureFormat, flags SamplerFlags) FrameBufferHandle

	// FrameBufferTexture resolves a framebuffer attachment to a bindable
	// texture handle.
	//
	// Parameters:
	//   - fb: the framebuffer
	//   - attachment: attachment index (0 color, 1 depth)
	//
	// Returns:
	//   - TextureHandle: the attachment's texture, or the zero handle when fb
	//     does not resolve or the attachment index is out of range
	FrameBufferTexture(fb FrameBufferHandle, attachment uint8) TextureHandle

	// CreateProgram creates a linked shader program from desc. The desc is
	// validated structurally: both sources non-empty, sampler stages within
	// Caps().MaxTextureStages, no duplicate binding names.
	//
	// Parameters:
	//   - desc: the program description
	//
	// Returns:
	//   - ProgramHandle: the created program, or the zero handle on failure
	CreateProgram(desc ProgramDesc) ProgramHandle

	// DestroyIndexBuffer releases the buffer's device resource. Destroying
	// the zero handle or an already-destroyed handle is a no-op.
	//
	// Parameters:
	//   - h: the buffer to destroy
	DestroyIndexBuffer(h IndexBufferHandle)

	// DestroyVertexBuffer releases the buffer's device resource. Destroying
	// the zero handle or an already-destroyed handle is a no-op.
	//
	// Parameters:
	//   - h: the buffer to destroy
	DestroyVertexBuffer(h VertexBufferHandle)

	// DestroyTexture releases the texture's device resources. Destroying the
	// zero handle or an already-destroyed handle is a no-op.
	//
	// Parameters:
	//   - h: the texture to destroy
	DestroyTexture(h TextureHandle)

	// DestroyFrameBuffer releases the framebuffer and the attachment
	// textures it owns. Destroying the zero handle or an already-destroyed
	// handle is a no-op.
	//
	// Parameters:
	//   - h: the framebuffer to destroy
	DestroyFrameBuffer(h FrameBufferHandle)

	// DestroyProgram releases the program's device resources. Destroying the
	// zero handle or an already-destroyed handle is a no-op.
	//
	// Parameters:
	//   - h: the program to destroy
	DestroyProgram(h ProgramHandle)

	// BeginFrame starts a new frame: acquires the presentation target and
	// opens the frame's render pass. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the presentation target could not be acquired
	BeginFrame() error

	// SetVertexBuffer records the vertex buffer for the next Submit.
	//
	// Parameters:
	//   - h: the vertex buffer to bind
	SetVertexBuffer(h VertexBufferHandle)

	// SetIndexBuffer records the index buffer for the next Submit.
	//
	// Parameters:
	//   - h: the index buffer to bind
	SetIndexBuffer(h IndexBufferHandle)

	// SetTexture records a texture binding for the next Submit. A later call
	// for the same stage replaces the earlier binding.
	//
	// Parameters:
	//   - stage: texture stage, < Caps().MaxTextureStages
	//   - sampler: the sampler name the binding serves
	//   - h: the texture to bind
	//   - flags: per-binding sampling flags; SamplerInherit uses the flags
	//     the texture was created with
	//
	// Returns:
	//   - error: an error if stage is out of range
	SetTexture(stage uint8, sampler string, h TextureHandle, flags SamplerFlags) error

	// SetUniform records a uniform value for the next Submit. The data is
	// copied. A later call for the same name replaces the earlier value.
	//
	// Parameters:
	//   - name: the uniform's binding key
	//   - data: raw value bytes
	//   - num: element count for array uniforms; zero means one
	SetUniform(name string, data []byte, num uint16)

	// SetState records the packed render-state word for the next Submit.
	//
	// Parameters:
	//   - s: the state word
	SetState(s State)

	// Submit issues one draw with the recorded per-draw state, then clears
	// that state. A program handle that does not resolve drops the
	// submission (counted in Stats) without failing the frame.
	//
	// Parameters:
	//   - prog: the program to draw with
	Submit(prog ProgramHandle)

	// EndFrame closes the frame's render pass and flushes recorded work to
	// the GPU queue. Must be called after BeginFrame.
	EndFrame()

	// Present presents the completed frame to the surface. A no-op for
	// headless targets.
	Present()

	// Resize reconfigures the presentation target for a new size.
	//
	// Parameters:
	//   - width, height: new target size in pixels
	Resize(width, height uint16)

	// Release destroys every live device resource and the device itself.
	// Safe to call repeatedly.
	Release()
}

// NewDevice creates a Device with the selected backend.
//
// Parameters:
//   - backendType: the backend implementation to use
//   - options: variadic list of DeviceOption functions to configure the device
//
// Returns:
//   - Device: the configured device
//   - error: an error if backend initialization fails
func NewDevice(backendType BackendType, options ...DeviceOption) (Device, error) {
	cfg := defaultDeviceConfig()
	for _, opt := range options {
		opt(&cfg)
	}

	switch backendType {
	case BackendNull:
		return newNullDevice(cfg), nil
	case BackendWGPU:
		return newWGPUDevice(cfg)
	default:
		panic("gfx: unknown backend type")
	}
}

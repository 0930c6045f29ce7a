package gfx

import (
	"fmt"
	"log"
	"sync"
)

// TextureBinding is one recorded texture-stage binding within a Submission.
type TextureBinding struct {
	// Sampler is the sampler name the binding was recorded under.
	Sampler string
	// Texture is the bound texture handle.
	Texture TextureHandle
	// Flags are the per-binding sampling flags.
	Flags SamplerFlags
}

// UniformValue is one recorded uniform value within a Submission.
type UniformValue struct {
	// Data is the raw value bytes (a private copy).
	Data []byte
	// Num is the element count.
	Num uint16
}

// Submission is the snapshot of one draw recorded by the null backend: the
// program, state word, buffers and every texture/uniform binding the draw
// was issued with.
type Submission struct {
	Program      ProgramHandle
	State        State
	VertexBuffer VertexBufferHandle
	IndexBuffer  IndexBufferHandle
	// Textures maps stage to the binding it held at Submit.
	Textures map[uint8]TextureBinding
	// Uniforms maps uniform name to the value it held at Submit.
	Uniforms map[string]UniformValue
}

// Recorder is the inspection surface of the null backend. A Device created
// with BackendNull can be asserted to Recorder to examine what was drawn,
// which is how headless captures and tests observe submission behavior.
type Recorder interface {
	// Submissions returns every draw recorded since construction or the last
	// ResetSubmissions, in submission order.
	//
	// Returns:
	//   - []Submission: recorded draws, oldest first
	Submissions() []Submission

	// ResetSubmissions discards all recorded draws.
	ResetSubmissions()
}

// nullIndexBuffer is the null backend's per-buffer bookkeeping.
type nullIndexBuffer struct {
	size  uint32
	count uint32
	flags BufferFlags
}

type nullVertexBuffer struct {
	size   uint32
	count  uint32
	layout VertexLayout
}

type nullTexture struct {
	width, height uint16
	format        TextureFormat
	flags         SamplerFlags
	hasMips       bool
}

type nullFrameBuffer struct {
	width, height uint16
	attachments   []TextureHandle
}

type nullProgram struct {
	desc ProgramDesc
}

// nullDevice records every create/destroy/submit without touching a GPU.
// It enforces the same structural validation as the WGPU backend so code
// exercised against it sees identical failure behavior.
type nullDevice struct {
	mu sync.Mutex

	caps Caps

	indexBuffers  arena[nullIndexBuffer]
	vertexBuffers arena[nullVertexBuffer]
	textures      arena[nullTexture]
	frameBuffers  arena[nullFrameBuffer]
	programs      arena[nullProgram]

	cur         drawState
	submissions []Submission

	frameDraws   uint32
	frameDropped uint32
	lastDraws    uint32
	lastDropped  uint32

	released bool
}

// drawState is the per-draw record cleared after every Submit.
type drawState struct {
	vb       VertexBufferHandle
	ib       IndexBufferHandle
	textures map[uint8]TextureBinding
	uniforms map[string]UniformValue
	state    State
}

func (d *drawState) reset() {
	d.vb = VertexBufferHandle{}
	d.ib = IndexBufferHandle{}
	d.textures = nil
	d.uniforms = nil
	d.state = StateNone
}

var (
	_ Device   = &nullDevice{}
	_ Recorder = &nullDevice{}
)

func newNullDevice(_ deviceConfig) *nullDevice {
	return &nullDevice{
		caps: Caps{
			MaxTextureStages:          16,
			MaxFrameBufferAttachments: 2,
			MaxVertexAttribs:          16,
		},
	}
}

func (d *nullDevice) Caps() Caps {
	return d.caps
}

func (d *nullDevice) Stats() FrameStats {
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

func (d *nullDevice) CreateIndexBuffer(data []byte, flags BufferFlags) IndexBufferHandle {
	indexSize := uint32(2)
	if flags&BufferIndex32 != 0 {
		indexSize = 4
	}
	if len(data) == 0 || uint32(len(data))%indexSize != 0 {
		log.Printf("[GFX] index buffer rejected: %d bytes is not a positive multiple of the index size %d", len(data), indexSize)
		return IndexBufferHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.indexBuffers.alloc(nullIndexBuffer{
		size:  uint32(len(data)),
		count: uint32(len(data)) / indexSize,
		flags: flags,
	})
	return IndexBufferHandle{id: id}
}

func (d *nullDevice) CreateVertexBuffer(data []byte, layout VertexLayout, flags BufferFlags) VertexBufferHandle {
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
	id := d.vertexBuffers.alloc(nullVertexBuffer{
		size:   uint32(len(data)),
		count:  uint32(len(data)) / layout.Stride,
		layout: layout,
	})
	return VertexBufferHandle{id: id}
}

func (d *nullDevice) CreateTexture2D(width, height uint16, hasMips bool, format TextureFormat, flags SamplerFlags, data []byte) TextureHandle {
	if width == 0 || height == 0 {
		log.Printf("[GFX] texture rejected: zero dimension %dx%d", width, height)
		return TextureHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.textures.alloc(nullTexture{
		width:   width,
		height:  height,
		format:  format,
		flags:   flags,
		hasMips: hasMips,
	})
	return TextureHandle{id: id}
}

func (d *nullDevice) CreateFrameBuffer(width, height uint16, format TextureFormat, flags SamplerFlags) FrameBufferHandle {
	if width == 0 || height == 0 {
		log.Printf("[GFX] framebuffer rejected: zero dimension %dx%d", width, height)
		return FrameBufferHandle{}
	}

	color := d.CreateTexture2D(width, height, false, format, flags, nil)
	depth := d.CreateTexture2D(width, height, false, TexFormatDepth24, flags, nil)

	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.frameBuffers.alloc(nullFrameBuffer{
		width:       width,
		height:      height,
		attachments: []TextureHandle{color, depth},
	})
	return FrameBufferHandle{id: id}
}

func (d *nullDevice) FrameBufferTexture(fb FrameBufferHandle, attachment uint8) TextureHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frameBuffers.lookup(fb.id)
	if !ok || int(attachment) >= len(f.attachments) {
		return TextureHandle{}
	}
	return f.attachments[attachment]
}

func (d *nullDevice) CreateProgram(desc ProgramDesc) ProgramHandle {
	if err := validateProgramDesc(desc, d.caps); err != nil {
		log.Printf("[GFX] program %q rejected: %v", desc.Name, err)
		return ProgramHandle{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.programs.alloc(nullProgram{desc: desc})
	return ProgramHandle{id: id}
}

func (d *nullDevice) DestroyIndexBuffer(h IndexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.indexBuffers.release(h.id)
}

func (d *nullDevice) DestroyVertexBuffer(h VertexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vertexBuffers.release(h.id)
}

func (d *nullDevice) DestroyTexture(h TextureHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textures.release(h.id)
}

func (d *nullDevice) DestroyFrameBuffer(h FrameBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.frameBuffers.release(h.id)
	if !ok {
		return
	}
	for _, att := range f.attachments {
		d.textures.release(att.id)
	}
}

func (d *nullDevice) DestroyProgram(h ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.programs.release(h.id)
}

func (d *nullDevice) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frameDraws = 0
	d.frameDropped = 0
	return nil
}

func (d *nullDevice) SetVertexBuffer(h VertexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.vb = h
}

func (d *nullDevice) SetIndexBuffer(h IndexBufferHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.ib = h
}

func (d *nullDevice) SetTexture(stage uint8, sampler string, h TextureHandle, flags SamplerFlags) error {
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

func (d *nullDevice) SetUniform(name string, data []byte, num uint16) {
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

func (d *nullDevice) SetState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cur.state = s
}

func (d *nullDevice) Submit(prog ProgramHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.programs.lookup(prog.id)
	if !ok {
		d.frameDropped++
		d.cur.reset()
		return
	}

	sub := Submission{
		Program:      prog,
		State:        d.cur.state,
		VertexBuffer: d.cur.vb,
		IndexBuffer:  d.cur.ib,
		Textures:     d.cur.textures,
		Uniforms:     d.cur.uniforms,
	}
	if sub.Textures == nil {
		sub.Textures = map[uint8]TextureBinding{}
	}
	if sub.Uniforms == nil {
		sub.Uniforms = map[string]UniformValue{}
	}
	d.submissions = append(d.submissions, sub)
	d.frameDraws++
	d.cur.reset()
}

func (d *nullDevice) EndFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastDraws = d.frameDraws
	d.lastDropped = d.frameDropped
}

func (d *nullDevice) Present() {}

func (d *nullDevice) Resize(width, height uint16) {}

func (d *nullDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	d.indexBuffers.drain(nil)
	d.vertexBuffers.drain(nil)
	d.textures.drain(nil)
	d.frameBuffers.drain(nil)
	d.programs.drain(nil)
	d.cur.reset()
}

func (d *nullDevice) Submissions() []Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Submission, len(d.submissions))
	copy(out, d.submissions)
	return out
}

func (d *nullDevice) ResetSubmissions() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submissions = nil
}

// validateVertexLayout checks the structural constraints shared by all
// backends.
func validateVertexLayout(layout VertexLayout, caps Caps) error {
	if layout.Stride == 0 {
		return fmt.Errorf("layout has zero stride")
	}
	if len(layout.Attribs) == 0 {
		return fmt.Errorf("layout has no attributes")
	}
	if len(layout.Attribs) > int(caps.MaxVertexAttribs) {
		return fmt.Errorf("layout has %d attributes, device supports %d", len(layout.Attribs), caps.MaxVertexAttribs)
	}
	for _, a := range layout.Attribs {
		if a.Offset+a.Format.ByteSize() > layout.Stride {
			return fmt.Errorf("attribute %q overruns the stride", a.Name)
		}
	}
	return nil
}

// validateProgramDesc checks the structural constraints shared by all
// backends.
func validateProgramDesc(desc ProgramDesc, caps Caps) error {
	if desc.VertexSource == "" || desc.FragmentSource == "" {
		return fmt.Errorf("vertex and fragment sources must both be non-empty")
	}
	names := make(map[string]struct{}, len(desc.Uniforms)+len(desc.Samplers))
	for _, u := range desc.Uniforms {
		if u.Name == "" {
			return fmt.Errorf("uniform with empty name")
		}
		if u.Size == 0 {
			return fmt.Errorf("uniform %q has zero size", u.Name)
		}
		if _, dup := names[u.Name]; dup {
			return fmt.Errorf("duplicate binding name %q", u.Name)
		}
		names[u.Name] = struct{}{}
	}
	for _, s := range desc.Samplers {
		if s.Name == "" {
			return fmt.Errorf("sampler with empty name")
		}
		if s.Stage >= caps.MaxTextureStages {
			return fmt.Errorf("sampler %q stage %d out of range, device supports %d stages", s.Name, s.Stage, caps.MaxTextureStages)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("duplicate binding name %q", s.Name)
		}
		names[s.Name] = struct{}{}
	}
	return nil
}

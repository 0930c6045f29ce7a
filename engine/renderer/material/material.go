// Package material models renderable surface state: shader program
// ownership, name-keyed texture and uniform binding tables, cull policy and
// the packed render-state word submitted with each draw. The base Material is
// inert (its Submit records nothing); concrete kinds such as StandardMaterial
// override submission with their own binding sequence.
package material

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/program"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
)

// CullType selects which triangle winding is discarded before rasterization.
type CullType uint8

const (
	// CullNone disables face culling.
	CullNone CullType = iota
	// CullClockwise culls clockwise-wound faces.
	CullClockwise
	// CullCounterClockwise culls counter-clockwise-wound faces.
	CullCounterClockwise
)

// textureBinding is one entry in the name-keyed texture table. seq orders
// entries by most recent write so same-stage conflicts resolve to the last
// recorded binding at flush time.
type textureBinding struct {
	stage  uint8
	handle gfx.TextureHandle
	flags  gfx.SamplerFlags
	seq    uint64
}

// uniformBinding is one entry in the name-keyed uniform table.
type uniformBinding struct {
	data []byte
	num  uint16
}

// material is the implementation of the Material interface.
type material struct {
	mu     sync.Mutex
	device gfx.Device

	primary        program.Program
	skinnedVariant program.Program
	cullType       CullType
	skinned        bool

	// Fallback maps bound when a named slot has no resolved texture. These
	// are referenced, never owned; disposing the material leaves them alive.
	defaultColorMap  texture.Texture
	defaultNormalMap texture.Texture

	textureBindings map[string]*textureBinding
	uniformBindings map[string]*uniformBinding
	bindSeq         uint64
}

// Material is the capability shared by every renderable surface kind:
// program ownership, deferred name-keyed texture/uniform binding, pure
// render-state computation and a per-frame submission hook.
//
// A material exclusively owns the programs assigned to it and disposes them
// with Dispose; textures and framebuffers it binds are referenced only and
// are never disposed by the material.
//
// All mutation and submission is expected on the render thread; within one
// frame the last binding recorded for a given name before Submit is the value
// the draw observes.
type Material interface {
	// Program retrieves the program for the requested variant without
	// transferring ownership.
	//
	// Parameters:
	//   - skinned: false for the primary program, true for the skinned variant
	//
	// Returns:
	//   - program.Program: the requested program, or nil when that variant is unset
	Program(skinned bool) program.Program

	// SetProgram assigns the primary program, transferring ownership to the
	// material. Any previously owned primary program is disposed.
	//
	// Parameters:
	//   - p: the program to own, or nil to clear
	SetProgram(p program.Program)

	// SetSkinnedProgram assigns the skinned-variant program, transferring
	// ownership to the material. Any previously owned variant is disposed.
	//
	// Parameters:
	//   - p: the program to own, or nil to clear
	SetSkinnedProgram(p program.Program)

	// DetachProgram removes and returns the requested program variant,
	// transferring ownership back to the caller. The material no longer
	// disposes it.
	//
	// Parameters:
	//   - skinned: false for the primary program, true for the skinned variant
	//
	// Returns:
	//   - program.Program: the detached program, or nil when that variant was unset
	DetachProgram(skinned bool) program.Program

	// Skinned reports whether the material renders with skeletal deformation,
	// which selects the skinned program variant at submission.
	//
	// Returns:
	//   - bool: the skinning flag
	Skinned() bool

	// SetSkinned sets the skinning flag.
	//
	// Parameters:
	//   - skinned: true to submit with the skinned program variant
	SetSkinned(skinned bool)

	// CullType retrieves the material's face culling policy.
	//
	// Returns:
	//   - CullType: the culling policy
	CullType() CullType

	// SetCullType sets the material's face culling policy.
	//
	// Parameters:
	//   - cullType: the culling policy
	SetCullType(cullType CullType)

	// SetTexture records a texture binding under the given sampler name.
	// The binding is deferred: no device call happens until submission. A
	// later call with the same sampler name replaces the entry entirely
	// (last write wins, keyed by name rather than stage).
	//
	// Parameters:
	//   - stage: the texture stage to bind at, < the device's max stages
	//   - sampler: the sampler name keying the entry
	//   - tex: the texture to bind; nil or invalid records an empty bind
	//   - flags: per-binding sampling flags, SamplerInherit to keep the texture's own
	//
	// Returns:
	//   - error: non-nil when stage is out of range; the entry is not recorded
	SetTexture(stage uint8, sampler string, tex texture.Texture, flags gfx.SamplerFlags) error

	// SetTextureHandle records a texture binding from a raw device handle.
	// Semantics otherwise match SetTexture.
	//
	// Parameters:
	//   - stage: the texture stage to bind at, < the device's max stages
	//   - sampler: the sampler name keying the entry
	//   - handle: the device texture handle to bind
	//   - flags: per-binding sampling flags, SamplerInherit to keep the texture's own
	//
	// Returns:
	//   - error: non-nil when stage is out of range; the entry is not recorded
	SetTextureHandle(stage uint8, sampler string, handle gfx.TextureHandle, flags gfx.SamplerFlags) error

	// SetFrameBuffer records a texture binding sourced from a framebuffer
	// attachment. The framebuffer is referenced, not owned. Semantics
	// otherwise match SetTexture.
	//
	// Parameters:
	//   - stage: the texture stage to bind at, < the device's max stages
	//   - sampler: the sampler name keying the entry
	//   - fb: the framebuffer whose attachment is bound
	//   - attachment: attachment index, 0 for color, 1 for depth
	//   - flags: per-binding sampling flags, SamplerInherit to keep the attachment's own
	//
	// Returns:
	//   - error: non-nil when stage is out of range; the entry is not recorded
	SetFrameBuffer(stage uint8, sampler string, fb texture.FrameBuffer, attachment uint8, flags gfx.SamplerFlags) error

	// SetFrameBufferHandle records a texture binding sourced from a raw
	// framebuffer handle's attachment. Semantics otherwise match
	// SetFrameBuffer.
	//
	// Parameters:
	//   - stage: the texture stage to bind at, < the device's max stages
	//   - sampler: the sampler name keying the entry
	//   - handle: the device framebuffer handle whose attachment is bound
	//   - attachment: attachment index, 0 for color, 1 for depth
	//   - flags: per-binding sampling flags, SamplerInherit to keep the attachment's own
	//
	// Returns:
	//   - error: non-nil when stage is out of range; the entry is not recorded
	SetFrameBufferHandle(stage uint8, sampler string, handle gfx.FrameBufferHandle, attachment uint8, flags gfx.SamplerFlags) error

	// SetUniform records a uniform value under the given name. The value is
	// deferred until submission; a later call with the same name replaces the
	// entry (last write wins).
	//
	// Parameters:
	//   - name: the uniform's binding name
	//   - data: the raw value bytes, copied by the call
	//   - num: the element count for array uniforms, 1 otherwise
	SetUniform(name string, data []byte, num uint16)

	// RenderStates computes the packed device state word for this material's
	// cull policy and the given depth toggles. Pure: identical inputs always
	// produce the identical word, independent of binding-table contents.
	//
	// Parameters:
	//   - applyCull: false forces culling off regardless of the cull policy
	//   - depthWrite: true enables depth buffer writes
	//   - depthTest: true enables less-than depth testing
	//
	// Returns:
	//   - gfx.State: the packed state word
	RenderStates(applyCull, depthWrite, depthTest bool) gfx.State

	// DefaultColorMap retrieves the fallback texture bound to color-like
	// slots when their own map is unset or unresolved.
	//
	// Returns:
	//   - texture.Texture: the default color map, nil when none was injected
	DefaultColorMap() texture.Texture

	// DefaultNormalMap retrieves the fallback texture bound to the normal
	// slot when its own map is unset or unresolved.
	//
	// Returns:
	//   - texture.Texture: the default normal map, nil when none was injected
	DefaultNormalMap() texture.Texture

	// Submit records this material's draw for the current frame. The base
	// material is inert and records nothing; concrete kinds override this
	// with their binding sequence.
	Submit()

	// IsValid reports whether the material can render, which requires a
	// primary program.
	//
	// Returns:
	//   - bool: true iff the primary program is set
	IsValid() bool

	// Dispose releases the programs the material owns. Referenced textures
	// and framebuffers are left untouched. Safe to call repeatedly.
	Dispose()
}

var _ Material = &material{}

// NewMaterial creates a new base Material bound to the given device,
// configured with the provided options. A material constructed without a
// program reports IsValid false and submits nothing. The cull policy
// defaults to CullCounterClockwise.
//
// Parameters:
//   - device: the device draws are recorded against
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(device gfx.Device, options ...MaterialBuilderOption) Material {
	return newMaterial(device, options...)
}

// newMaterial builds the concrete base struct so derived kinds can embed it.
func newMaterial(device gfx.Device, options ...MaterialBuilderOption) *material {
	m := &material{
		device:          device,
		cullType:        CullCounterClockwise,
		textureBindings: make(map[string]*textureBinding),
		uniformBindings: make(map[string]*uniformBinding),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Program(skinned bool) program.Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skinned {
		return m.skinnedVariant
	}
	return m.primary
}

func (m *material) SetProgram(p program.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primary != nil && m.primary != p {
		m.primary.Dispose()
	}
	m.primary = p
}

func (m *material) SetSkinnedProgram(p program.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skinnedVariant != nil && m.skinnedVariant != p {
		m.skinnedVariant.Dispose()
	}
	m.skinnedVariant = p
}

func (m *material) DetachProgram(skinned bool) program.Program {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skinned {
		p := m.skinnedVariant
		m.skinnedVariant = nil
		return p
	}
	p := m.primary
	m.primary = nil
	return p
}

func (m *material) Skinned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skinned
}

func (m *material) SetSkinned(skinned bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skinned = skinned
}

func (m *material) CullType() CullType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cullType
}

func (m *material) SetCullType(cullType CullType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cullType = cullType
}

func (m *material) SetTexture(stage uint8, sampler string, tex texture.Texture, flags gfx.SamplerFlags) error {
	var handle gfx.TextureHandle
	if tex != nil {
		handle = tex.Handle()
	}
	return m.recordTexture(stage, sampler, handle, flags)
}

func (m *material) SetTextureHandle(stage uint8, sampler string, handle gfx.TextureHandle, flags gfx.SamplerFlags) error {
	return m.recordTexture(stage, sampler, handle, flags)
}

func (m *material) SetFrameBuffer(stage uint8, sampler string, fb texture.FrameBuffer, attachment uint8, flags gfx.SamplerFlags) error {
	var handle gfx.TextureHandle
	if fb != nil {
		handle = fb.Attachment(attachment)
	}
	return m.recordTexture(stage, sampler, handle, flags)
}

func (m *material) SetFrameBufferHandle(stage uint8, sampler string, handle gfx.FrameBufferHandle, attachment uint8, flags gfx.SamplerFlags) error {
	return m.recordTexture(stage, sampler, m.device.FrameBufferTexture(handle, attachment), flags)
}

// recordTexture upserts the binding entry keyed by sampler name.
func (m *material) recordTexture(stage uint8, sampler string, handle gfx.TextureHandle, flags gfx.SamplerFlags) error {
	if limit := m.device.Caps().MaxTextureStages; stage >= limit {
		return fmt.Errorf("texture stage %d out of range, device supports %d stages", stage, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindSeq++
	m.textureBindings[sampler] = &textureBinding{
		stage:  stage,
		handle: handle,
		flags:  flags,
		seq:    m.bindSeq,
	}
	return nil
}

func (m *material) SetUniform(name string, data []byte, num uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniformBindings[name] = &uniformBinding{
		data: append([]byte(nil), data...),
		num:  max(num, 1),
	}
}

func (m *material) RenderStates(applyCull, depthWrite, depthTest bool) gfx.State {
	m.mu.Lock()
	cullType := m.cullType
	m.mu.Unlock()

	s := gfx.StateWriteRGB | gfx.StateWriteA | gfx.StateMSAA
	if depthWrite {
		s |= gfx.StateWriteZ
	}
	if depthTest {
		s |= gfx.StateDepthTestLess
	}
	if applyCull {
		switch cullType {
		case CullClockwise:
			s |= gfx.StateCullCW
		case CullCounterClockwise:
			s |= gfx.StateCullCCW
		}
	}
	return s
}

func (m *material) Submit() {}

func (m *material) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.primary != nil
}

func (m *material) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primary != nil {
		m.primary.Dispose()
		m.primary = nil
	}
	if m.skinnedVariant != nil {
		m.skinnedVariant.Dispose()
		m.skinnedVariant = nil
	}
}

func (m *material) DefaultColorMap() texture.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultColorMap
}

func (m *material) DefaultNormalMap() texture.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaultNormalMap
}

// flushBindings pushes every recorded texture and uniform binding to the
// device's per-draw record. Texture entries replay in write order so that
// when two names target the same stage, the most recent write lands last and
// wins at the device.
func (m *material) flushBindings() {
	type namedBinding struct {
		name string
		b    textureBinding
	}

	m.mu.Lock()
	entries := make([]namedBinding, 0, len(m.textureBindings))
	for name, b := range m.textureBindings {
		entries = append(entries, namedBinding{name: name, b: *b})
	}
	uniforms := make(map[string]uniformBinding, len(m.uniformBindings))
	for name, u := range m.uniformBindings {
		uniforms[name] = *u
	}
	m.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].b.seq < entries[j].b.seq })
	for _, e := range entries {
		// Stage range was validated when the entry was recorded.
		_ = m.device.SetTexture(e.b.stage, e.name, e.b.handle, e.b.flags)
	}
	for name, u := range uniforms {
		m.device.SetUniform(name, u.data, u.num)
	}
}

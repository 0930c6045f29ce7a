// Package program wraps linked vertex+fragment shader programs and exposes
// their uniform and sampler binding surfaces by name.
package program

import (
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// program is the implementation of the Program interface.
type program struct {
	mu     sync.Mutex
	device gfx.Device
	handle gfx.ProgramHandle
	desc   gfx.ProgramDesc
}

// Program manages the lifecycle of one linked device shader program. The
// uniform and sampler definitions supplied at construction describe the
// program's binding surface; materials address those bindings by name when
// recording draws.
type Program interface {
	// Handle retrieves the underlying device handle.
	//
	// Returns:
	//   - gfx.ProgramHandle: the device handle, invalid when linking failed
	Handle() gfx.ProgramHandle

	// Name retrieves the program identifier.
	//
	// Returns:
	//   - string: the name of the program
	Name() string

	// Uniforms retrieves the program's declared uniform definitions.
	//
	// Returns:
	//   - []gfx.UniformDef: uniform definitions in declaration order
	Uniforms() []gfx.UniformDef

	// Samplers retrieves the program's declared sampler definitions.
	//
	// Returns:
	//   - []gfx.SamplerDef: sampler definitions in declaration order
	Samplers() []gfx.SamplerDef

	// SetUniform pushes a uniform value to the device's per-draw record under
	// the given name, for callers driving the device directly rather than
	// through a material's deferred binding tables.
	//
	// Parameters:
	//   - name: the uniform's binding name
	//   - data: the raw value bytes
	//   - num: the element count for array uniforms, 1 otherwise
	SetUniform(name string, data []byte, num uint16)

	// SetTexture pushes a texture binding to the device's per-draw record at
	// the stage declared for the given sampler name. Unknown names bind at
	// the supplied fallback stage.
	//
	// Parameters:
	//   - stage: the stage to bind at when the name is not declared
	//   - sampler: the sampler name keying the binding
	//   - tex: the device texture handle to bind
	//   - flags: per-binding sampling flags, gfx.SamplerInherit to keep the texture's own
	//
	// Returns:
	//   - error: non-nil when the resolved stage is out of range
	SetTexture(stage uint8, sampler string, tex gfx.TextureHandle, flags gfx.SamplerFlags) error

	// IsValid reports whether the program holds a live device resource.
	//
	// Returns:
	//   - bool: true when the device accepted and linked the program
	IsValid() bool

	// Dispose releases the device resource if one is held and marks the
	// program invalid. Safe to call repeatedly.
	Dispose()
}

var _ Program = &program{}

// NewProgram creates a new Program on the given device, configured with the
// provided options. The vertex and fragment sources are required; a program
// built without them (or rejected by the device) reports IsValid false.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - options: variadic list of ProgramOption functions to configure the program
//
// Returns:
//   - Program: a new Program instance
func NewProgram(device gfx.Device, options ...ProgramOption) Program {
	p := &program{device: device}
	for _, opt := range options {
		opt(p)
	}
	p.handle = device.CreateProgram(p.desc)
	return p
}

func (p *program) Handle() gfx.ProgramHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

func (p *program) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc.Name
}

func (p *program) Uniforms() []gfx.UniformDef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc.Uniforms
}

func (p *program) Samplers() []gfx.SamplerDef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc.Samplers
}

func (p *program) SetUniform(name string, data []byte, num uint16) {
	p.device.SetUniform(name, data, num)
}

func (p *program) SetTexture(stage uint8, sampler string, tex gfx.TextureHandle, flags gfx.SamplerFlags) error {
	p.mu.Lock()
	for _, s := range p.desc.Samplers {
		if s.Name == sampler {
			stage = s.Stage
			break
		}
	}
	p.mu.Unlock()
	return p.device.SetTexture(stage, sampler, tex, flags)
}

func (p *program) IsValid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle.IsValid()
}

func (p *program) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.handle.IsValid() {
		return
	}
	p.device.DestroyProgram(p.handle)
	p.handle = gfx.ProgramHandle{}
}

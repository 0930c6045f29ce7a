package program

import "github.com/Carmen-Shannon/prism-go/engine/gfx"

// ProgramOption is a function that configures a program instance during
// construction.
type ProgramOption func(*program)

// WithName is an option builder that sets the name of the program, used in
// device diagnostics and resource labels.
//
// Parameters:
//   - name: the identifier for the program
//
// Returns:
//   - ProgramOption: a function that applies the name option to a program
func WithName(name string) ProgramOption {
	return func(p *program) {
		p.desc.Name = name
	}
}

// WithVertexSource is an option builder that sets the WGSL source of the
// vertex stage.
//
// Parameters:
//   - source: the vertex shader WGSL source
//
// Returns:
//   - ProgramOption: a function that applies the vertex source option to a program
func WithVertexSource(source string) ProgramOption {
	return func(p *program) {
		p.desc.VertexSource = source
	}
}

// WithFragmentSource is an option builder that sets the WGSL source of the
// fragment stage.
//
// Parameters:
//   - source: the fragment shader WGSL source
//
// Returns:
//   - ProgramOption: a function that applies the fragment source option to a program
func WithFragmentSource(source string) ProgramOption {
	return func(p *program) {
		p.desc.FragmentSource = source
	}
}

// WithEntryPoints is an option builder that overrides the shader entry point
// names. The device defaults to vs_main/fs_main when unset.
//
// Parameters:
//   - vertex: the vertex stage entry point name
//   - fragment: the fragment stage entry point name
//
// Returns:
//   - ProgramOption: a function that applies the entry point option to a program
func WithEntryPoints(vertex, fragment string) ProgramOption {
	return func(p *program) {
		p.desc.VertexEntry = vertex
		p.desc.FragmentEntry = fragment
	}
}

// WithUniform is an option builder that declares one named uniform in the
// program's binding surface. Declaration order fixes the uniform's placement
// in the packed block the device uploads per draw.
//
// Parameters:
//   - name: the uniform's binding name
//   - size: byte size of one element
//   - num: element count, 1 for non-array uniforms
//
// Returns:
//   - ProgramOption: a function that applies the uniform declaration to a program
func WithUniform(name string, size uint32, num uint16) ProgramOption {
	return func(p *program) {
		p.desc.Uniforms = append(p.desc.Uniforms, gfx.UniformDef{
			Name: name,
			Size: size,
			Num:  num,
		})
	}
}

// WithSampler is an option builder that declares one named sampler in the
// program's binding surface.
//
// Parameters:
//   - name: the sampler's binding name
//   - stage: the texture stage the sampler reads from
//
// Returns:
//   - ProgramOption: a function that applies the sampler declaration to a program
func WithSampler(name string, stage uint8) ProgramOption {
	return func(p *program) {
		p.desc.Samplers = append(p.desc.Samplers, gfx.SamplerDef{
			Name:  name,
			Stage: stage,
		})
	}
}

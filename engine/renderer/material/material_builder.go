package material

import (
	"github.com/Carmen-Shannon/prism-go/engine/renderer/program"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
)

// MaterialBuilderOption is a function that configures a material instance
// during construction.
type MaterialBuilderOption func(*material)

// WithProgram is an option builder that assigns the primary program. The
// material takes exclusive ownership and disposes it with the material.
//
// Parameters:
//   - p: the primary program
//
// Returns:
//   - MaterialBuilderOption: a function that applies the program option to a material
func WithProgram(p program.Program) MaterialBuilderOption {
	return func(m *material) {
		m.primary = p
	}
}

// WithSkinnedProgram is an option builder that assigns the skinned-variant
// program. The material takes exclusive ownership and disposes it with the
// material.
//
// Parameters:
//   - p: the skinned-variant program
//
// Returns:
//   - MaterialBuilderOption: a function that applies the skinned program option to a material
func WithSkinnedProgram(p program.Program) MaterialBuilderOption {
	return func(m *material) {
		m.skinnedVariant = p
	}
}

// WithCullType is an option builder that sets the face culling policy.
//
// Parameters:
//   - cullType: the culling policy
//
// Returns:
//   - MaterialBuilderOption: a function that applies the cull type option to a material
func WithCullType(cullType CullType) MaterialBuilderOption {
	return func(m *material) {
		m.cullType = cullType
	}
}

// WithSkinning is an option builder that sets the skinning flag, selecting
// the skinned program variant at submission.
//
// Returns:
//   - MaterialBuilderOption: a function that applies the skinning option to a material
func WithSkinning() MaterialBuilderOption {
	return func(m *material) {
		m.skinned = true
	}
}

// WithDefaultColorMap is an option builder that injects the fallback texture
// bound for unbound color-like slots. The texture is referenced, not owned.
//
// Parameters:
//   - tex: the fallback color texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the default color map option to a material
func WithDefaultColorMap(tex texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.defaultColorMap = tex
	}
}

// WithDefaultNormalMap is an option builder that injects the fallback texture
// bound for an unbound normal slot. The texture is referenced, not owned.
//
// Parameters:
//   - tex: the fallback normal texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the default normal map option to a material
func WithDefaultNormalMap(tex texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.defaultNormalMap = tex
	}
}

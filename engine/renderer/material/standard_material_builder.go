package material

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/assets"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
)

// StandardMaterialBuilderOption is a functional option for configuring a
// standardMaterial via the NewStandardMaterial constructor.
type StandardMaterialBuilderOption func(*standardMaterial)

// WithMaterialOptions applies base-material options to the embedded material,
// so program assignment, cull policy and fallback maps can be configured
// through the standard constructor.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to apply
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithMaterialOptions(options ...MaterialBuilderOption) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		for _, opt := range options {
			opt(sm.material)
		}
	}
}

// WithParams replaces the whole parameter set.
//
// Parameters:
//   - params: the parameters to start from
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithParams(params StandardParams) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params = params
	}
}

// WithBaseColor sets the albedo RGBA color.
//
// Parameters:
//   - c: the base color
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithBaseColor(c common.Color) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.BaseColor = c
	}
}

// WithSubsurfaceColor sets the subsurface scattering color, opacity in alpha.
//
// Parameters:
//   - c: the subsurface color
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithSubsurfaceColor(c common.Color) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.SubsurfaceColor = c
	}
}

// WithEmissiveColor sets the emissive color, HDR scale in alpha.
//
// Parameters:
//   - c: the emissive color
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithEmissiveColor(c common.Color) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.EmissiveColor = c
	}
}

// WithRoughness sets the microsurface roughness factor.
//
// Parameters:
//   - roughness: the roughness factor
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithRoughness(roughness float32) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.Roughness = roughness
	}
}

// WithMetalness sets the metallic factor.
//
// Parameters:
//   - metalness: the metallic factor
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithMetalness(metalness float32) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.Metalness = metalness
	}
}

// WithBumpiness sets the normal map intensity scale.
//
// Parameters:
//   - bumpiness: the bumpiness factor
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithBumpiness(bumpiness float32) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.Bumpiness = bumpiness
	}
}

// WithAlphaTestValue sets the alpha cutoff threshold.
//
// Parameters:
//   - alphaTest: the alpha cutoff
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithAlphaTestValue(alphaTest float32) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.AlphaTestValue = alphaTest
	}
}

// WithTiling sets the texture coordinate scale per axis.
//
// Parameters:
//   - tiling: the tiling factors
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithTiling(tiling common.Vec2) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.Tiling = tiling
	}
}

// WithDitherThreshold sets the screen-door transparency thresholds.
//
// Parameters:
//   - threshold: the dither thresholds
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithDitherThreshold(threshold common.Vec2) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.params.DitherThreshold = threshold
	}
}

// WithColorMap sets the albedo map slot.
//
// Parameters:
//   - ref: the asset reference, nil to leave unbound
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithColorMap(ref *assets.Handle[texture.Texture]) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.colorMap = ref
	}
}

// WithNormalMap sets the normal map slot.
//
// Parameters:
//   - ref: the asset reference, nil to leave unbound
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithNormalMap(ref *assets.Handle[texture.Texture]) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.normalMap = ref
	}
}

// WithRoughnessMap sets the roughness map slot.
//
// Parameters:
//   - ref: the asset reference, nil to leave unbound
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithRoughnessMap(ref *assets.Handle[texture.Texture]) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.roughnessMap = ref
	}
}

// WithMetalnessMap sets the metalness map slot.
//
// Parameters:
//   - ref: the asset reference, nil to leave unbound
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithMetalnessMap(ref *assets.Handle[texture.Texture]) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.metalnessMap = ref
	}
}

// WithAmbientOcclusionMap sets the ambient occlusion map slot.
//
// Parameters:
//   - ref: the asset reference, nil to leave unbound
//
// Returns:
//   - StandardMaterialBuilderOption: the option function
func WithAmbientOcclusionMap(ref *assets.Handle[texture.Texture]) StandardMaterialBuilderOption {
	return func(sm *standardMaterial) {
		sm.aoMap = ref
	}
}

package material

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/config"
)

// StandardParams is the full parameter surface of a StandardMaterial. Every
// field is a plain value with no validation; out-of-physical-range values are
// accepted and passed through to the shader untouched, which keeps live
// editor tweaking unrestricted.
type StandardParams struct {
	// BaseColor is the albedo RGBA color.
	BaseColor common.Color `toml:"base_color"`

	// SubsurfaceColor is the subsurface scattering RGB color; the alpha
	// channel carries the subsurface opacity.
	SubsurfaceColor common.Color `toml:"subsurface_color"`

	// EmissiveColor is the emissive RGB color; the alpha channel carries the
	// HDR intensity scale.
	EmissiveColor common.Color `toml:"emissive_color"`

	// Roughness is the microsurface roughness factor.
	Roughness float32 `toml:"roughness"`

	// Metalness is the metallic factor.
	Metalness float32 `toml:"metalness"`

	// Bumpiness scales the normal map's effect.
	Bumpiness float32 `toml:"bumpiness"`

	// AlphaTestValue is the alpha cutoff threshold for masked rendering.
	AlphaTestValue float32 `toml:"alpha_test_value"`

	// Tiling scales texture coordinates per axis.
	Tiling common.Vec2 `toml:"tiling"`

	// DitherThreshold holds the screen-door transparency thresholds.
	DitherThreshold common.Vec2 `toml:"dither_threshold"`
}

// DefaultStandardParams returns the parameter values a freshly constructed
// StandardMaterial carries.
//
// Returns:
//   - StandardParams: the default parameter set
func DefaultStandardParams() StandardParams {
	return StandardParams{
		BaseColor:       common.NewColor(1, 1, 1, 1),
		SubsurfaceColor: common.NewColor(0, 0, 0, 0.8),
		EmissiveColor:   common.NewColor(0, 0, 0, 0),
		Roughness:       0.3,
		Metalness:       0.0,
		Bumpiness:       1.0,
		AlphaTestValue:  0.25,
		Tiling:          common.Vec2{X: 1, Y: 1},
		DitherThreshold: common.Vec2{X: 0.5, Y: 0.0},
	}
}

// LoadStandardParams reads a TOML parameter file. Fields absent from the
// file keep their default values.
//
// Parameters:
//   - path: filesystem path of the TOML file
//
// Returns:
//   - StandardParams: the loaded parameters over the defaults
//   - error: non-nil when the file cannot be read or parsed
func LoadStandardParams(path string) (StandardParams, error) {
	p := DefaultStandardParams()
	if err := config.LoadInto(path, &p); err != nil {
		return DefaultStandardParams(), err
	}
	return p, nil
}

// Save writes the parameters as TOML.
//
// Parameters:
//   - path: filesystem path to write
//
// Returns:
//   - error: non-nil when marshalling or writing fails
func (p StandardParams) Save(path string) error {
	return config.SaveAny(path, p)
}

package material

import (
	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/assets"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/program"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
)

// Binding surface of the standard program: uniform and sampler names with
// the texture stages each map slot binds at. Programs rendered with a
// StandardMaterial declare these in their binding surface.
const (
	UniformBaseColor       = "u_base_color"
	UniformSubsurfaceColor = "u_subsurface_color"
	UniformEmissiveColor   = "u_emissive_color"
	UniformSurfaceData     = "u_surface_data"
	UniformTiling          = "u_tiling"

	SamplerColor            = "s_tex_color"
	SamplerNormal           = "s_tex_normal"
	SamplerRoughness        = "s_tex_roughness"
	SamplerMetalness        = "s_tex_metalness"
	SamplerAmbientOcclusion = "s_tex_ao"

	StageColor            uint8 = 0
	StageNormal           uint8 = 1
	StageRoughness        uint8 = 2
	StageMetalness        uint8 = 3
	StageAmbientOcclusion uint8 = 4
)

// StandardProgramOptions returns the program options declaring the full
// standard binding surface, for building programs a StandardMaterial can
// submit through.
//
// Returns:
//   - []program.ProgramOption: uniform and sampler declarations in stage order
func StandardProgramOptions() []program.ProgramOption {
	return []program.ProgramOption{
		program.WithUniform(UniformBaseColor, 16, 1),
		program.WithUniform(UniformSubsurfaceColor, 16, 1),
		program.WithUniform(UniformEmissiveColor, 16, 1),
		program.WithUniform(UniformSurfaceData, 16, 1),
		program.WithUniform(UniformTiling, 16, 1),
		program.WithSampler(SamplerColor, StageColor),
		program.WithSampler(SamplerNormal, StageNormal),
		program.WithSampler(SamplerRoughness, StageRoughness),
		program.WithSampler(SamplerMetalness, StageMetalness),
		program.WithSampler(SamplerAmbientOcclusion, StageAmbientOcclusion),
	}
}

// standardMaterial is the implementation of the StandardMaterial interface.
type standardMaterial struct {
	*material

	params StandardParams

	colorMap     *assets.Handle[texture.Texture]
	normalMap    *assets.Handle[texture.Texture]
	roughnessMap *assets.Handle[texture.Texture]
	metalnessMap *assets.Handle[texture.Texture]
	aoMap        *assets.Handle[texture.Texture]
}

// StandardMaterial extends Material with the fixed PBR parameter set and the
// five named texture map slots of the standard shading model. Submission
// re-uploads every parameter group and rebinds every slot each call; slots
// whose asset reference has not resolved bind the material's fallback maps
// (the normal slot falls back to the default normal map, every other slot to
// the default color map).
//
// Parameter setters perform no validation: out-of-physical-range values are
// stored and submitted as-is.
type StandardMaterial interface {
	Material

	// BaseColor retrieves the albedo RGBA color.
	//
	// Returns:
	//   - common.Color: the base color
	BaseColor() common.Color

	// SetBaseColor sets the albedo RGBA color.
	//
	// Parameters:
	//   - c: the base color
	SetBaseColor(c common.Color)

	// SubsurfaceColor retrieves the subsurface scattering color; alpha
	// carries the subsurface opacity.
	//
	// Returns:
	//   - common.Color: the subsurface color
	SubsurfaceColor() common.Color

	// SetSubsurfaceColor sets the subsurface scattering color.
	//
	// Parameters:
	//   - c: the subsurface color, opacity in alpha
	SetSubsurfaceColor(c common.Color)

	// EmissiveColor retrieves the emissive color; alpha carries the HDR
	// intensity scale.
	//
	// Returns:
	//   - common.Color: the emissive color
	EmissiveColor() common.Color

	// SetEmissiveColor sets the emissive color.
	//
	// Parameters:
	//   - c: the emissive color, HDR scale in alpha
	SetEmissiveColor(c common.Color)

	// Roughness retrieves the microsurface roughness factor.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// SetRoughness sets the microsurface roughness factor.
	//
	// Parameters:
	//   - roughness: the roughness factor
	SetRoughness(roughness float32)

	// Metalness retrieves the metallic factor.
	//
	// Returns:
	//   - float32: the metallic factor
	Metalness() float32

	// SetMetalness sets the metallic factor.
	//
	// Parameters:
	//   - metalness: the metallic factor
	SetMetalness(metalness float32)

	// Bumpiness retrieves the normal map intensity scale.
	//
	// Returns:
	//   - float32: the bumpiness factor
	Bumpiness() float32

	// SetBumpiness sets the normal map intensity scale.
	//
	// Parameters:
	//   - bumpiness: the bumpiness factor
	SetBumpiness(bumpiness float32)

	// AlphaTestValue retrieves the alpha cutoff threshold.
	//
	// Returns:
	//   - float32: the alpha cutoff
	AlphaTestValue() float32

	// SetAlphaTestValue sets the alpha cutoff threshold.
	//
	// Parameters:
	//   - alphaTest: the alpha cutoff
	SetAlphaTestValue(alphaTest float32)

	// Tiling retrieves the texture coordinate scale per axis.
	//
	// Returns:
	//   - common.Vec2: the tiling factors
	Tiling() common.Vec2

	// SetTiling sets the texture coordinate scale per axis.
	//
	// Parameters:
	//   - tiling: the tiling factors
	SetTiling(tiling common.Vec2)

	// DitherThreshold retrieves the screen-door transparency thresholds.
	//
	// Returns:
	//   - common.Vec2: the dither thresholds
	DitherThreshold() common.Vec2

	// SetDitherThreshold sets the screen-door transparency thresholds.
	//
	// Parameters:
	//   - threshold: the dither thresholds
	SetDitherThreshold(threshold common.Vec2)

	// Params retrieves the whole parameter set as one value.
	//
	// Returns:
	//   - StandardParams: a copy of the current parameters
	Params() StandardParams

	// ApplyParams replaces the whole parameter set.
	//
	// Parameters:
	//   - params: the parameters to apply
	ApplyParams(params StandardParams)

	// ColorMap retrieves the albedo map slot.
	//
	// Returns:
	//   - *assets.Handle[texture.Texture]: the slot's asset reference, nil when unbound
	ColorMap() *assets.Handle[texture.Texture]

	// SetColorMap sets the albedo map slot.
	//
	// Parameters:
	//   - ref: the asset reference, nil to unbind
	SetColorMap(ref *assets.Handle[texture.Texture])

	// NormalMap retrieves the normal map slot.
	//
	// Returns:
	//   - *assets.Handle[texture.Texture]: the slot's asset reference, nil when unbound
	NormalMap() *assets.Handle[texture.Texture]

	// SetNormalMap sets the normal map slot.
	//
	// Parameters:
	//   - ref: the asset reference, nil to unbind
	SetNormalMap(ref *assets.Handle[texture.Texture])

	// RoughnessMap retrieves the roughness map slot.
	//
	// Returns:
	//   - *assets.Handle[texture.Texture]: the slot's asset reference, nil when unbound
	RoughnessMap() *assets.Handle[texture.Texture]

	// SetRoughnessMap sets the roughness map slot.
	//
	// Parameters:
	//   - ref: the asset reference, nil to unbind
	SetRoughnessMap(ref *assets.Handle[texture.Texture])

	// MetalnessMap retrieves the metalness map slot.
	//
	// Returns:
	//   - *assets.Handle[texture.Texture]: the slot's asset reference, nil when unbound
	MetalnessMap() *assets.Handle[texture.Texture]

	// SetMetalnessMap sets the metalness map slot.
	//
	// Parameters:
	//   - ref: the asset reference, nil to unbind
	SetMetalnessMap(ref *assets.Handle[texture.Texture])

	// AmbientOcclusionMap retrieves the ambient occlusion map slot.
	//
	// Returns:
	//   - *assets.Handle[texture.Texture]: the slot's asset reference, nil when unbound
	AmbientOcclusionMap() *assets.Handle[texture.Texture]

	// SetAmbientOcclusionMap sets the ambient occlusion map slot.
	//
	// Parameters:
	//   - ref: the asset reference, nil to unbind
	SetAmbientOcclusionMap(ref *assets.Handle[texture.Texture])
}

var _ StandardMaterial = &standardMaterial{}

// NewStandardMaterial creates a new StandardMaterial bound to the given
// device, configured with the provided options. Parameters start at the
// defaults from DefaultStandardParams.
//
// Parameters:
//   - device: the device draws are recorded against
//   - options: variadic list of StandardMaterialBuilderOption functions to configure the material
//
// Returns:
//   - StandardMaterial: a new StandardMaterial instance
func NewStandardMaterial(device gfx.Device, options ...StandardMaterialBuilderOption) StandardMaterial {
	sm := &standardMaterial{
		material: newMaterial(device),
		params:   DefaultStandardParams(),
	}
	for _, opt := range options {
		opt(sm)
	}
	return sm
}

func (sm *standardMaterial) BaseColor() common.Color {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.BaseColor
}

func (sm *standardMaterial) SetBaseColor(c common.Color) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.BaseColor = c
}

func (sm *standardMaterial) SubsurfaceColor() common.Color {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.SubsurfaceColor
}

func (sm *standardMaterial) SetSubsurfaceColor(c common.Color) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.SubsurfaceColor = c
}

func (sm *standardMaterial) EmissiveColor() common.Color {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.EmissiveColor
}

func (sm *standardMaterial) SetEmissiveColor(c common.Color) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.EmissiveColor = c
}

func (sm *standardMaterial) Roughness() float32 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.Roughness
}

func (sm *standardMaterial) SetRoughness(roughness float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.Roughness = roughness
}

func (sm *standardMaterial) Metalness() float32 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.Metalness
}

func (sm *standardMaterial) SetMetalness(metalness float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.Metalness = metalness
}

func (sm *standardMaterial) Bumpiness() float32 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.Bumpiness
}

func (sm *standardMaterial) SetBumpiness(bumpiness float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.Bumpiness = bumpiness
}

func (sm *standardMaterial) AlphaTestValue() float32 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.AlphaTestValue
}

func (sm *standardMaterial) SetAlphaTestValue(alphaTest float32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.AlphaTestValue = alphaTest
}

func (sm *standardMaterial) Tiling() common.Vec2 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.Tiling
}

func (sm *standardMaterial) SetTiling(tiling common.Vec2) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.Tiling = tiling
}

func (sm *standardMaterial) DitherThreshold() common.Vec2 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params.DitherThreshold
}

func (sm *standardMaterial) SetDitherThreshold(threshold common.Vec2) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params.DitherThreshold = threshold
}

func (sm *standardMaterial) Params() StandardParams {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.params
}

func (sm *standardMaterial) ApplyParams(params StandardParams) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.params = params
}

func (sm *standardMaterial) ColorMap() *assets.Handle[texture.Texture] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.colorMap
}

func (sm *standardMaterial) SetColorMap(ref *assets.Handle[texture.Texture]) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.colorMap = ref
}

func (sm *standardMaterial) NormalMap() *assets.Handle[texture.Texture] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.normalMap
}

func (sm *standardMaterial) SetNormalMap(ref *assets.Handle[texture.Texture]) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.normalMap = ref
}

func (sm *standardMaterial) RoughnessMap() *assets.Handle[texture.Texture] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.roughnessMap
}

func (sm *standardMaterial) SetRoughnessMap(ref *assets.Handle[texture.Texture]) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.roughnessMap = ref
}

func (sm *standardMaterial) MetalnessMap() *assets.Handle[texture.Texture] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.metalnessMap
}

func (sm *standardMaterial) SetMetalnessMap(ref *assets.Handle[texture.Texture]) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.metalnessMap = ref
}

func (sm *standardMaterial) AmbientOcclusionMap() *assets.Handle[texture.Texture] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.aoMap
}

func (sm *standardMaterial) SetAmbientOcclusionMap(ref *assets.Handle[texture.Texture]) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.aoMap = ref
}

// Submit records the standard draw: select the program variant, re-upload
// every parameter group, rebind the five map slots with fallbacks, flush the
// binding tables and issue the draw with the material's render states.
func (sm *standardMaterial) Submit() {
	prog := sm.Program(sm.Skinned())
	if prog == nil || !prog.IsValid() {
		return
	}

	block := NewGPUStandardParams(sm.Params())
	buf := block.Marshal()
	sm.SetUniform(UniformBaseColor, buf[0:16], 1)
	sm.SetUniform(UniformSubsurfaceColor, buf[16:32], 1)
	sm.SetUniform(UniformEmissiveColor, buf[32:48], 1)
	sm.SetUniform(UniformSurfaceData, buf[48:64], 1)
	sm.SetUniform(UniformTiling, buf[64:80], 1)

	fallbackColor := sm.DefaultColorMap()
	sm.bindSlot(StageColor, SamplerColor, sm.ColorMap(), fallbackColor)
	sm.bindSlot(StageNormal, SamplerNormal, sm.NormalMap(), sm.DefaultNormalMap())
	sm.bindSlot(StageRoughness, SamplerRoughness, sm.RoughnessMap(), fallbackColor)
	sm.bindSlot(StageMetalness, SamplerMetalness, sm.MetalnessMap(), fallbackColor)
	sm.bindSlot(StageAmbientOcclusion, SamplerAmbientOcclusion, sm.AmbientOcclusionMap(), fallbackColor)

	sm.flushBindings()
	sm.device.SetState(sm.RenderStates(true, true, true))
	sm.device.Submit(prog.Handle())
}

// bindSlot records one map slot, falling back when the asset reference has
// not resolved to a live texture.
func (sm *standardMaterial) bindSlot(stage uint8, sampler string, ref *assets.Handle[texture.Texture], fallback texture.Texture) {
	if tex, ok := ref.Value(); ok && tex.IsValid() {
		_ = sm.SetTexture(stage, sampler, tex, gfx.SamplerInherit)
		return
	}
	_ = sm.SetTexture(stage, sampler, fallback, gfx.SamplerInherit)
}

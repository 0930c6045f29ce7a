package material

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/assets"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardFixture wires a device, default maps and a primary program into a
// ready-to-submit StandardMaterial.
type standardFixture struct {
	dev       gfx.Device
	rec       gfx.Recorder
	colorMap  texture.Texture
	normalMap texture.Texture
	mat       StandardMaterial
}

func newStandardFixture(t *testing.T, options ...StandardMaterialBuilderOption) *standardFixture {
	t.Helper()
	dev := newTestDevice(t)
	f := &standardFixture{
		dev:       dev,
		rec:       dev.(gfx.Recorder),
		colorMap:  texture.NewDefaultColor(dev),
		normalMap: texture.NewDefaultNormal(dev),
	}
	opts := append([]StandardMaterialBuilderOption{
		WithMaterialOptions(
			WithProgram(newStandardProgram(t, dev, "standard")),
			WithDefaultColorMap(f.colorMap),
			WithDefaultNormalMap(f.normalMap),
		),
	}, options...)
	f.mat = NewStandardMaterial(dev, opts...)
	return f
}

func (f *standardFixture) submitOnce(t *testing.T) gfx.Submission {
	t.Helper()
	f.mat.Submit()
	subs := f.rec.Submissions()
	require.Len(t, subs, 1)
	f.rec.ResetSubmissions()
	return subs[0]
}

func TestStandardDefaults(t *testing.T) {
	f := newStandardFixture(t)
	m := f.mat

	assert.Equal(t, common.NewColor(1, 1, 1, 1), m.BaseColor())
	assert.Equal(t, common.NewColor(0, 0, 0, 0.8), m.SubsurfaceColor())
	assert.Equal(t, common.NewColor(0, 0, 0, 0), m.EmissiveColor())
	assert.Equal(t, float32(0.3), m.Roughness())
	assert.Equal(t, float32(0.0), m.Metalness())
	assert.Equal(t, float32(1.0), m.Bumpiness())
	assert.Equal(t, float32(0.25), m.AlphaTestValue())
	assert.Equal(t, common.Vec2{X: 1, Y: 1}, m.Tiling())
	assert.Equal(t, common.Vec2{X: 0.5, Y: 0}, m.DitherThreshold())
	assert.Equal(t, DefaultStandardParams(), m.Params())
}

func TestStandardSubmitRecordsDraw(t *testing.T) {
	f := newStandardFixture(t)
	sub := f.submitOnce(t)

	prog := f.mat.Program(false)
	require.NotNil(t, prog)
	assert.Equal(t, prog.Handle(), sub.Program)

	want := gfx.StateWriteRGB | gfx.StateWriteA | gfx.StateMSAA | gfx.StateWriteZ | gfx.StateDepthTestLess | gfx.StateCullCCW
	assert.Equal(t, want, sub.State)

	p := DefaultStandardParams()
	assert.Equal(t, common.SliceToBytes([]float32{1, 1, 1, 1}), sub.Uniforms[UniformBaseColor].Data)
	assert.Equal(t, common.SliceToBytes([]float32{0, 0, 0, 0.8}), sub.Uniforms[UniformSubsurfaceColor].Data)
	assert.Equal(t, common.SliceToBytes([]float32{0, 0, 0, 0}), sub.Uniforms[UniformEmissiveColor].Data)
	assert.Equal(t, common.SliceToBytes([]float32{p.Roughness, p.Metalness, p.Bumpiness, p.AlphaTestValue}), sub.Uniforms[UniformSurfaceData].Data)
	assert.Equal(t, common.SliceToBytes([]float32{1, 1, 0.5, 0}), sub.Uniforms[UniformTiling].Data)

	require.Len(t, sub.Textures, 5)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageColor].Texture)
	assert.Equal(t, f.normalMap.Handle(), sub.Textures[StageNormal].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageRoughness].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageMetalness].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageAmbientOcclusion].Texture)
	for stage, b := range sub.Textures {
		assert.Equal(t, gfx.SamplerInherit, b.Flags, "stage %d", stage)
	}
	assert.Equal(t, SamplerColor, sub.Textures[StageColor].Sampler)
	assert.Equal(t, SamplerNormal, sub.Textures[StageNormal].Sampler)
	assert.Equal(t, SamplerRoughness, sub.Textures[StageRoughness].Sampler)
	assert.Equal(t, SamplerMetalness, sub.Textures[StageMetalness].Sampler)
	assert.Equal(t, SamplerAmbientOcclusion, sub.Textures[StageAmbientOcclusion].Sampler)
}

func TestStandardSubmitReuploadsEveryDraw(t *testing.T) {
	f := newStandardFixture(t)

	first := f.submitOnce(t)
	f.mat.SetRoughness(0.9)
	second := f.submitOnce(t)

	assert.Len(t, second.Uniforms, len(first.Uniforms), "every parameter group re-uploads each submit")
	assert.Len(t, second.Textures, len(first.Textures), "every slot rebinds each submit")
	assert.NotEqual(t, first.Uniforms[UniformSurfaceData].Data, second.Uniforms[UniformSurfaceData].Data)
}

func TestStandardSubmitSkinnedSelection(t *testing.T) {
	f := newStandardFixture(t)
	skinned := newStandardProgram(t, f.dev, "standard-skinned")
	f.mat.SetSkinnedProgram(skinned)

	f.mat.SetSkinned(true)
	sub := f.submitOnce(t)
	assert.Equal(t, skinned.Handle(), sub.Program)

	f.mat.SetSkinned(false)
	sub = f.submitOnce(t)
	assert.Equal(t, f.mat.Program(false).Handle(), sub.Program)
}

func TestStandardSubmitNoopWithoutSkinnedVariant(t *testing.T) {
	f := newStandardFixture(t)
	f.mat.SetSkinned(true)
	f.mat.SetUniform("u_gate", []byte{1, 2, 3, 4}, 1)

	f.mat.Submit()
	assert.Empty(t, f.rec.Submissions(), "submission with the selected variant unset must draw nothing")

	// Nothing may have leaked into the device's per-draw state either: a
	// following draw from a clean material must not carry u_gate.
	other := NewStandardMaterial(f.dev, WithMaterialOptions(
		WithProgram(newStandardProgram(t, f.dev, "clean")),
		WithDefaultColorMap(f.colorMap),
		WithDefaultNormalMap(f.normalMap),
	))
	other.Submit()
	subs := f.rec.Submissions()
	require.Len(t, subs, 1)
	assert.NotContains(t, subs[0].Uniforms, "u_gate")
}

func TestStandardSubmitNoopWithoutProgram(t *testing.T) {
	dev := newTestDevice(t)
	rec := dev.(gfx.Recorder)

	m := NewStandardMaterial(dev)
	m.Submit()
	assert.Empty(t, rec.Submissions())
}

func TestTextureLastWriteWinsByName(t *testing.T) {
	f := newStandardFixture(t)
	texA := newTestPixelTexture(t, f.dev)
	texB := newTestPixelTexture(t, f.dev)

	require.NoError(t, f.mat.SetTexture(5, "s_detail", texA, gfx.SamplerInherit))
	require.NoError(t, f.mat.SetTexture(6, "s_detail", texB, gfx.SamplerInherit))

	sub := f.submitOnce(t)
	require.Contains(t, sub.Textures, uint8(6))
	assert.Equal(t, texB.Handle(), sub.Textures[6].Texture)
	assert.Equal(t, "s_detail", sub.Textures[6].Sampler)
	assert.NotContains(t, sub.Textures, uint8(5), "rebinding a name moves it, leaving no stale stage entry")
}

func TestTextureStageConflictResolvesToLatestWrite(t *testing.T) {
	f := newStandardFixture(t)
	texA := newTestPixelTexture(t, f.dev)
	texB := newTestPixelTexture(t, f.dev)

	require.NoError(t, f.mat.SetTexture(7, "s_first", texA, gfx.SamplerInherit))
	require.NoError(t, f.mat.SetTexture(7, "s_second", texB, gfx.SamplerInherit))

	sub := f.submitOnce(t)
	assert.Equal(t, "s_second", sub.Textures[7].Sampler)
	assert.Equal(t, texB.Handle(), sub.Textures[7].Texture)

	// Re-recording the older name bumps it back to most recent.
	require.NoError(t, f.mat.SetTexture(7, "s_first", texA, gfx.SamplerInherit))
	sub = f.submitOnce(t)
	assert.Equal(t, "s_first", sub.Textures[7].Sampler)
	assert.Equal(t, texA.Handle(), sub.Textures[7].Texture)
}

func TestUniformLastWriteWins(t *testing.T) {
	f := newStandardFixture(t)

	f.mat.SetUniform("u_custom", common.SliceToBytes([]float32{1, 0, 0, 0}), 1)
	f.mat.SetUniform("u_custom", common.SliceToBytes([]float32{0, 1, 0, 0}), 1)

	sub := f.submitOnce(t)
	assert.Equal(t, common.SliceToBytes([]float32{0, 1, 0, 0}), sub.Uniforms["u_custom"].Data)
}

func TestUniformDataIsCopied(t *testing.T) {
	f := newStandardFixture(t)

	data := []byte{1, 2, 3, 4}
	f.mat.SetUniform("u_custom", data, 1)
	data[0] = 99

	sub := f.submitOnce(t)
	assert.Equal(t, []byte{1, 2, 3, 4}, sub.Uniforms["u_custom"].Data)
}

func TestMapSlotFallbacks(t *testing.T) {
	f := newStandardFixture(t)

	// Pending reference falls back.
	f.mat.SetColorMap(assets.NewPendingHandle[texture.Texture]())
	// Failed reference falls back.
	failed := assets.NewPendingHandle[texture.Texture]()
	failed.Fail(errors.New("decode failed"))
	f.mat.SetRoughnessMap(failed)
	// Resolved-but-disposed texture falls back.
	disposed := newTestPixelTexture(t, f.dev)
	disposed.Dispose()
	f.mat.SetMetalnessMap(assets.NewResolvedHandle(disposed))

	sub := f.submitOnce(t)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageColor].Texture)
	assert.Equal(t, f.normalMap.Handle(), sub.Textures[StageNormal].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageRoughness].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageMetalness].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageAmbientOcclusion].Texture)
}

func TestResolvedMapBindsRealTexture(t *testing.T) {
	f := newStandardFixture(t)
	albedo := newTestPixelTexture(t, f.dev)
	normal := newTestPixelTexture(t, f.dev)

	f.mat.SetColorMap(assets.NewResolvedHandle(albedo))
	f.mat.SetNormalMap(assets.NewResolvedHandle(normal))

	sub := f.submitOnce(t)
	assert.Equal(t, albedo.Handle(), sub.Textures[StageColor].Texture)
	assert.Equal(t, normal.Handle(), sub.Textures[StageNormal].Texture)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageRoughness].Texture, "unset slots still fall back")
}

func TestMapResolvingBetweenSubmitsRebinds(t *testing.T) {
	f := newStandardFixture(t)
	ref := assets.NewPendingHandle[texture.Texture]()
	f.mat.SetColorMap(ref)

	sub := f.submitOnce(t)
	assert.Equal(t, f.colorMap.Handle(), sub.Textures[StageColor].Texture)

	albedo := newTestPixelTexture(t, f.dev)
	ref.Resolve(albedo)

	sub = f.submitOnce(t)
	assert.Equal(t, albedo.Handle(), sub.Textures[StageColor].Texture)
}

func TestMissingDefaultMapsBindEmpty(t *testing.T) {
	dev := newTestDevice(t)
	rec := dev.(gfx.Recorder)

	m := NewStandardMaterial(dev, WithMaterialOptions(
		WithProgram(newStandardProgram(t, dev, "bare")),
	))
	m.Submit()

	subs := rec.Submissions()
	require.Len(t, subs, 1)
	assert.False(t, subs[0].Textures[StageColor].Texture.IsValid())
	assert.False(t, subs[0].Textures[StageNormal].Texture.IsValid())
}

func TestSubmitRespectsCullType(t *testing.T) {
	f := newStandardFixture(t)

	f.mat.SetCullType(CullClockwise)
	sub := f.submitOnce(t)
	assert.NotZero(t, sub.State&gfx.StateCullCW)
	assert.Zero(t, sub.State&gfx.StateCullCCW)

	f.mat.SetCullType(CullCounterClockwise)
	sub = f.submitOnce(t)
	assert.NotZero(t, sub.State&gfx.StateCullCCW)
	assert.Zero(t, sub.State&gfx.StateCullCW)
}

func TestParamsArePermissive(t *testing.T) {
	f := newStandardFixture(t)

	f.mat.SetRoughness(-2)
	f.mat.SetMetalness(42)
	f.mat.SetAlphaTestValue(7)
	assert.Equal(t, float32(-2), f.mat.Roughness())
	assert.Equal(t, float32(42), f.mat.Metalness())
	assert.Equal(t, float32(7), f.mat.AlphaTestValue())

	sub := f.submitOnce(t)
	assert.Equal(t, common.SliceToBytes([]float32{-2, 42, 1.0, 7}), sub.Uniforms[UniformSurfaceData].Data)
}

func TestApplyParamsReplacesWholeSet(t *testing.T) {
	f := newStandardFixture(t)

	p := DefaultStandardParams()
	p.BaseColor = common.NewColor(0.2, 0.4, 0.6, 1)
	p.Roughness = 0.75
	p.Tiling = common.Vec2{X: 4, Y: 4}
	f.mat.ApplyParams(p)

	assert.Equal(t, p, f.mat.Params())
	assert.Equal(t, common.NewColor(0.2, 0.4, 0.6, 1), f.mat.BaseColor())
	assert.Equal(t, float32(0.75), f.mat.Roughness())
}

func TestStandardBuilderOptions(t *testing.T) {
	dev := newTestDevice(t)
	albedo := assets.NewResolvedHandle(texture.NewDefaultColor(dev))

	m := NewStandardMaterial(dev,
		WithBaseColor(common.NewColor(1, 0, 0, 1)),
		WithSubsurfaceColor(common.NewColor(0.1, 0.2, 0.3, 0.4)),
		WithEmissiveColor(common.NewColor(0, 1, 0, 2)),
		WithRoughness(0.5),
		WithMetalness(1),
		WithBumpiness(2),
		WithAlphaTestValue(0.1),
		WithTiling(common.Vec2{X: 2, Y: 3}),
		WithDitherThreshold(common.Vec2{X: 0.25, Y: 0.75}),
		WithColorMap(albedo),
	)

	assert.Equal(t, common.NewColor(1, 0, 0, 1), m.BaseColor())
	assert.Equal(t, common.NewColor(0.1, 0.2, 0.3, 0.4), m.SubsurfaceColor())
	assert.Equal(t, common.NewColor(0, 1, 0, 2), m.EmissiveColor())
	assert.Equal(t, float32(0.5), m.Roughness())
	assert.Equal(t, float32(1), m.Metalness())
	assert.Equal(t, float32(2), m.Bumpiness())
	assert.Equal(t, float32(0.1), m.AlphaTestValue())
	assert.Equal(t, common.Vec2{X: 2, Y: 3}, m.Tiling())
	assert.Equal(t, common.Vec2{X: 0.25, Y: 0.75}, m.DitherThreshold())
	assert.Same(t, albedo, m.ColorMap())
	assert.Nil(t, m.NormalMap())
}

func TestWithParamsOption(t *testing.T) {
	dev := newTestDevice(t)

	p := DefaultStandardParams()
	p.Metalness = 1
	m := NewStandardMaterial(dev, WithParams(p))
	assert.Equal(t, p, m.Params())
}

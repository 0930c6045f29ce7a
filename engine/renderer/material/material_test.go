package material

import (
	"testing"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/program"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) gfx.Device {
	t.Helper()
	dev, err := gfx.NewDevice(gfx.BackendNull)
	require.NoError(t, err)
	t.Cleanup(dev.Release)
	return dev
}

func newStandardProgram(t *testing.T, dev gfx.Device, name string) program.Program {
	t.Helper()
	opts := append([]program.ProgramOption{
		program.WithName(name),
		program.WithVertexSource("@vertex fn vs_main() {}"),
		program.WithFragmentSource("@fragment fn fs_main() {}"),
	}, StandardProgramOptions()...)
	p := program.NewProgram(dev, opts...)
	require.True(t, p.IsValid())
	return p
}

func newTestPixelTexture(t *testing.T, dev gfx.Device) texture.Texture {
	t.Helper()
	tex := texture.NewTexture(dev,
		texture.WithSize(1, 1),
		texture.WithPixels([]byte{255, 0, 255, 255}),
	)
	require.True(t, tex.IsValid())
	return tex
}

func TestIsValidRequiresPrimaryProgram(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev)
	assert.False(t, m.IsValid())

	m.SetProgram(newStandardProgram(t, dev, "primary"))
	assert.True(t, m.IsValid())

	detached := m.DetachProgram(false)
	require.NotNil(t, detached)
	assert.False(t, m.IsValid())
	detached.Dispose()
}

func TestSkinnedVariantDoesNotSatisfyValidity(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev, WithSkinnedProgram(newStandardProgram(t, dev, "skinned")))
	assert.False(t, m.IsValid())
	assert.Nil(t, m.Program(false))
	assert.NotNil(t, m.Program(true))
	m.Dispose()
}

func TestSetProgramDisposesPrior(t *testing.T) {
	dev := newTestDevice(t)

	first := newStandardProgram(t, dev, "first")
	second := newStandardProgram(t, dev, "second")
	assert.Equal(t, uint32(2), dev.Stats().Programs)

	m := NewMaterial(dev, WithProgram(first))
	m.SetProgram(second)
	assert.False(t, first.IsValid())
	assert.True(t, second.IsValid())
	assert.Equal(t, uint32(1), dev.Stats().Programs)

	// Reassigning the same program must not dispose it.
	m.SetProgram(second)
	assert.True(t, second.IsValid())

	m.Dispose()
	assert.Equal(t, uint32(0), dev.Stats().Programs)
}

func TestDetachProgramTransfersOwnership(t *testing.T) {
	dev := newTestDevice(t)

	p := newStandardProgram(t, dev, "detachable")
	m := NewMaterial(dev, WithProgram(p))

	detached := m.DetachProgram(false)
	require.Same(t, p, detached)

	m.Dispose()
	assert.True(t, p.IsValid(), "disposing the material must not touch a detached program")

	p.Dispose()
	assert.Equal(t, uint32(0), dev.Stats().Programs)
}

func TestDisposeIsIdempotent(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev,
		WithProgram(newStandardProgram(t, dev, "primary")),
		WithSkinnedProgram(newStandardProgram(t, dev, "skinned")),
	)

	m.Dispose()
	assert.Equal(t, uint32(0), dev.Stats().Programs)
	assert.NotPanics(t, m.Dispose)
	assert.False(t, m.IsValid())
}

func TestDisposeLeavesTexturesAlive(t *testing.T) {
	dev := newTestDevice(t)

	bound := newTestPixelTexture(t, dev)
	colorMap := texture.NewDefaultColor(dev)
	normalMap := texture.NewDefaultNormal(dev)
	require.Equal(t, uint32(3), dev.Stats().Textures)

	m := NewMaterial(dev,
		WithProgram(newStandardProgram(t, dev, "primary")),
		WithDefaultColorMap(colorMap),
		WithDefaultNormalMap(normalMap),
	)
	require.NoError(t, m.SetTexture(0, "s_tex_color", bound, gfx.SamplerInherit))

	m.Dispose()
	assert.Equal(t, uint32(3), dev.Stats().Textures, "materials reference textures, never own them")
	assert.True(t, bound.IsValid())
	assert.True(t, colorMap.IsValid())
	assert.True(t, normalMap.IsValid())
}

func TestSetTextureStageOutOfRange(t *testing.T) {
	dev := newTestDevice(t)
	limit := dev.Caps().MaxTextureStages

	m := NewMaterial(dev)
	tex := newTestPixelTexture(t, dev)

	err := m.SetTexture(limit, "s_bad", tex, gfx.SamplerInherit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	err = m.SetTextureHandle(limit+1, "s_bad", tex.Handle(), gfx.SamplerInherit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	assert.NoError(t, m.SetTexture(limit-1, "s_last", tex, gfx.SamplerInherit))
}

func TestDefaultMapAccessors(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev)
	assert.Nil(t, m.DefaultColorMap())
	assert.Nil(t, m.DefaultNormalMap())

	colorMap := texture.NewDefaultColor(dev)
	normalMap := texture.NewDefaultNormal(dev)
	injected := NewMaterial(dev,
		WithDefaultColorMap(colorMap),
		WithDefaultNormalMap(normalMap),
	)
	assert.Same(t, colorMap, injected.DefaultColorMap())
	assert.Same(t, normalMap, injected.DefaultNormalMap())
}

func TestSetTextureAcceptsNil(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev)
	assert.NoError(t, m.SetTexture(0, "s_tex_color", nil, gfx.SamplerInherit))
	assert.NoError(t, m.SetFrameBuffer(1, "s_tex_shadow", nil, 0, gfx.SamplerInherit))
}

func TestRenderStatesTable(t *testing.T) {
	dev := newTestDevice(t)
	base := gfx.StateWriteRGB | gfx.StateWriteA | gfx.StateMSAA

	tests := []struct {
		name      string
		cullType  CullType
		applyCull bool
		depthW    bool
		depthT    bool
		want      gfx.State
	}{
		{"all off, no cull", CullNone, true, false, false, base},
		{"depth write only", CullNone, true, true, false, base | gfx.StateWriteZ},
		{"depth test only", CullNone, true, false, true, base | gfx.StateDepthTestLess},
		{"full depth, no cull policy", CullNone, true, true, true, base | gfx.StateWriteZ | gfx.StateDepthTestLess},
		{"cw culled", CullClockwise, true, true, true, base | gfx.StateWriteZ | gfx.StateDepthTestLess | gfx.StateCullCW},
		{"ccw culled", CullCounterClockwise, true, true, true, base | gfx.StateWriteZ | gfx.StateDepthTestLess | gfx.StateCullCCW},
		{"cull suppressed", CullClockwise, false, true, true, base | gfx.StateWriteZ | gfx.StateDepthTestLess},
		{"none stays none when applied", CullNone, true, true, true, base | gfx.StateWriteZ | gfx.StateDepthTestLess},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMaterial(dev, WithCullType(tc.cullType))
			assert.Equal(t, tc.want, m.RenderStates(tc.applyCull, tc.depthW, tc.depthT))
		})
	}
}

func TestRenderStatesIgnoresBindingTables(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev, WithCullType(CullClockwise))
	before := m.RenderStates(true, true, true)

	tex := newTestPixelTexture(t, dev)
	require.NoError(t, m.SetTexture(0, "s_tex_color", tex, gfx.SamplerInherit))
	m.SetUniform("u_base_color", []byte{1, 2, 3, 4}, 1)
	m.SetSkinned(true)

	assert.Equal(t, before, m.RenderStates(true, true, true))
	assert.Equal(t, before, m.RenderStates(true, true, true), "identical inputs must repeat the identical word")
}

func TestBaseSubmitRecordsNothing(t *testing.T) {
	dev := newTestDevice(t)
	rec := dev.(gfx.Recorder)

	m := NewMaterial(dev, WithProgram(newStandardProgram(t, dev, "primary")))
	m.SetUniform("u_base_color", []byte{0, 0, 0, 0}, 1)
	m.Submit()

	assert.Empty(t, rec.Submissions())
	m.Dispose()
}

func TestCullTypeRoundTrip(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev)
	assert.Equal(t, CullCounterClockwise, m.CullType(), "culling defaults to counter-clockwise")
	m.SetCullType(CullClockwise)
	assert.Equal(t, CullClockwise, m.CullType())
}

func TestSkinnedFlagRoundTrip(t *testing.T) {
	dev := newTestDevice(t)

	m := NewMaterial(dev)
	assert.False(t, m.Skinned())
	m.SetSkinned(true)
	assert.True(t, m.Skinned())

	ms := NewMaterial(dev, WithSkinning())
	assert.True(t, ms.Skinned())
}

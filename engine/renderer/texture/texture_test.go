package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
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

func TestNewTextureFromPixels(t *testing.T) {
	dev := newTestDevice(t)

	tex := NewTexture(dev,
		WithSize(2, 2),
		WithPixels(make([]byte, 16)),
	)
	require.True(t, tex.IsValid())
	assert.Equal(t, uint16(2), tex.Width())
	assert.Equal(t, uint16(2), tex.Height())
	assert.Equal(t, gfx.TexFormatRGBA8, tex.Format())
}

func TestNewTextureWithoutDataIsInvalid(t *testing.T) {
	dev := newTestDevice(t)

	tex := NewTexture(dev)
	assert.False(t, tex.IsValid())
	assert.Equal(t, uint16(0), tex.Width())
	assert.Equal(t, uint16(0), tex.Height())
	assert.Equal(t, uint32(0), dev.Stats().Textures)
}

func TestNewTextureFromImage(t *testing.T) {
	dev := newTestDevice(t)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	tex := NewTexture(dev, WithImage(img))
	require.True(t, tex.IsValid())
	assert.Equal(t, uint16(4), tex.Width())
	assert.Equal(t, uint16(2), tex.Height())
}

func TestTexturePopulateRecreates(t *testing.T) {
	dev := newTestDevice(t)

	tex := NewTexture(dev)
	assert.False(t, tex.IsValid())

	tex.Populate(2, 2, gfx.TexFormatRGBA8, false, gfx.SamplerNone, make([]byte, 16))
	require.True(t, tex.IsValid())
	first := tex.Handle()
	assert.Equal(t, uint16(2), tex.Width())

	tex.Populate(4, 4, gfx.TexFormatRGBA8, false, gfx.SamplerNone, make([]byte, 64))
	require.True(t, tex.IsValid())
	assert.NotEqual(t, first, tex.Handle())
	assert.Equal(t, uint16(4), tex.Width())
	assert.Equal(t, uint32(1), dev.Stats().Textures, "populate recreates rather than accumulates")
}

func TestTexturePopulateFailureLeavesInvalid(t *testing.T) {
	dev := newTestDevice(t)

	tex := NewTexture(dev,
		WithSize(2, 2),
		WithPixels(make([]byte, 16)),
	)
	require.True(t, tex.IsValid())

	tex.Populate(0, 0, gfx.TexFormatRGBA8, false, gfx.SamplerNone, nil)
	assert.False(t, tex.IsValid())
	assert.Equal(t, uint16(0), tex.Width())
	assert.Equal(t, uint32(0), dev.Stats().Textures, "a failed populate still disposes the prior resource")
}

func TestDisposeIsIdempotent(t *testing.T) {
	dev := newTestDevice(t)

	tex := NewSolidColor(dev, common.NewColor(1, 0, 0, 1))
	require.True(t, tex.IsValid())

	tex.Dispose()
	assert.False(t, tex.IsValid())
	tex.Dispose()
	assert.False(t, tex.IsValid())
	assert.Equal(t, uint32(0), dev.Stats().Textures)
}

func TestDefaultMapsAreDistinctResources(t *testing.T) {
	dev := newTestDevice(t)

	colorMap := NewDefaultColor(dev)
	normalMap := NewDefaultNormal(dev)
	require.True(t, colorMap.IsValid())
	require.True(t, normalMap.IsValid())
	assert.NotEqual(t, colorMap.Handle(), normalMap.Handle())
}

func TestBuildMipChain(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data, levels := buildMipChain(base)

	// 4x4 -> 2x2 -> 1x1
	assert.Equal(t, uint32(3), levels)
	assert.Len(t, data, (16+4+1)*4)
}

func TestBuildMipChainNonSquare(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 8, 2))
	data, levels := buildMipChain(base)

	// 8x2 -> 4x1 -> 2x1 -> 1x1
	assert.Equal(t, uint32(4), levels)
	assert.Len(t, data, (16+4+2+1)*4)
}

func TestFrameBufferAttachments(t *testing.T) {
	dev := newTestDevice(t)

	fb := NewFrameBuffer(dev, 256, 128)
	require.True(t, fb.IsValid())
	assert.Equal(t, uint16(256), fb.Width())
	assert.Equal(t, uint16(128), fb.Height())

	assert.True(t, fb.ColorTexture().IsValid())
	assert.True(t, fb.DepthTexture().IsValid())
	assert.Equal(t, fb.ColorTexture(), fb.Attachment(0))
	assert.Equal(t, fb.DepthTexture(), fb.Attachment(1))
	assert.False(t, fb.Attachment(2).IsValid())
}

func TestFrameBufferDispose(t *testing.T) {
	dev := newTestDevice(t)

	fb := NewFrameBuffer(dev, 64, 64)
	require.True(t, fb.IsValid())
	require.Equal(t, uint32(2), dev.Stats().Textures)

	fb.Dispose()
	fb.Dispose()
	assert.False(t, fb.IsValid())
	assert.Equal(t, uint32(0), dev.Stats().Textures)
	assert.Equal(t, uint32(0), dev.Stats().FrameBuffers)
}

func TestFrameBufferZeroSizeIsInvalid(t *testing.T) {
	dev := newTestDevice(t)

	fb := NewFrameBuffer(dev, 0, 64)
	assert.False(t, fb.IsValid())
	assert.False(t, fb.ColorTexture().IsValid())
}

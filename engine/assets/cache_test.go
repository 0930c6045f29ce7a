package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
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

func writeTestPNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// settle drives Update until the handle leaves the pending state.
func settle(t *testing.T, c Cache, h *Handle[texture.Texture]) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.Update()
		return h.Ready() || h.Err() != nil
	}, 5*time.Second, 5*time.Millisecond)
}

func TestHandleLifecycle(t *testing.T) {
	h := NewPendingHandle[int]()
	assert.False(t, h.Ready())
	_, ok := h.Value()
	assert.False(t, ok)
	assert.NoError(t, h.Err())

	h.Resolve(42)
	require.True(t, h.Ready())
	v, ok := h.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	// First transition wins.
	h.Resolve(7)
	h.Fail(errors.New("too late"))
	v, _ = h.Value()
	assert.Equal(t, 42, v)
	assert.NoError(t, h.Err())
}

func TestHandleFailWins(t *testing.T) {
	h := NewPendingHandle[int]()
	h.Fail(errors.New("missing"))
	h.Resolve(1)

	assert.False(t, h.Ready())
	assert.Error(t, h.Err())
}

func TestNilHandleIsPending(t *testing.T) {
	var h *Handle[int]
	assert.False(t, h.Ready())
	_, ok := h.Value()
	assert.False(t, ok)
	assert.NoError(t, h.Err())
}

func TestNewResolvedHandle(t *testing.T) {
	h := NewResolvedHandle("ready")
	assert.True(t, h.Ready())
	v, ok := h.Value()
	assert.True(t, ok)
	assert.Equal(t, "ready", v)
}

func TestLoadTextureResolves(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev, WithWorkers(2))
	defer c.Release()

	path := writeTestPNG(t, 4, 4)
	h := c.LoadTexture(path)
	assert.False(t, h.Ready(), "load is asynchronous")

	settle(t, c, h)
	require.True(t, h.Ready())
	tex, ok := h.Value()
	require.True(t, ok)
	assert.True(t, tex.IsValid())
	assert.Equal(t, uint16(4), tex.Width())
	assert.Equal(t, 0, c.Pending())
}

func TestLoadTextureDedupesByPath(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev)
	defer c.Release()

	path := writeTestPNG(t, 2, 2)
	h1 := c.LoadTexture(path)
	h2 := c.LoadTexture(path)
	assert.Same(t, h1, h2)

	settle(t, c, h1)
	assert.Equal(t, uint32(1), dev.Stats().Textures)
}

func TestLoadTextureMissingFileFails(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev)
	defer c.Release()

	h := c.LoadTexture(filepath.Join(t.TempDir(), "nope.png"))
	settle(t, c, h)

	assert.False(t, h.Ready())
	assert.Error(t, h.Err())
	assert.Equal(t, 0, c.Pending())
}

func TestLoadTextureImageUploadsOnUpdate(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev)
	t.Cleanup(c.Release)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	h := c.LoadTextureImage("generated/checker", img)
	assert.False(t, h.Ready(), "upload is deferred to Update")

	resolved := c.Update()
	assert.Equal(t, 1, resolved)
	require.True(t, h.Ready())

	tex, ok := h.Value()
	require.True(t, ok)
	assert.Equal(t, uint16(2), tex.Width())
	assert.Equal(t, uint16(3), tex.Height())

	assert.Same(t, h, c.LoadTextureImage("generated/checker", img), "same name returns the same handle")
	assert.Equal(t, 0, c.Update(), "nothing re-staged for a known name")
}

func TestTextureLookupByName(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev)
	t.Cleanup(c.Release)

	assert.Nil(t, c.Texture("never/requested"))

	path := writeTestPNG(t, 2, 2)
	h := c.LoadTexture(path)
	assert.Same(t, h, c.Texture(path))
}

func TestReleaseDisposesTextures(t *testing.T) {
	dev := newTestDevice(t)
	c := NewCache(dev)

	path := writeTestPNG(t, 2, 2)
	h := c.LoadTexture(path)
	settle(t, c, h)
	require.Equal(t, uint32(1), dev.Stats().Textures)

	c.Release()
	assert.Equal(t, uint32(0), dev.Stats().Textures)
}

// Package texture wraps device textures and framebuffers in typed owners and
// provides the solid-color fallback maps materials bind when a slot has no
// resolved texture.
package texture

import (
	"image"
	"image/draw"
	"sync"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// texture is the implementation of the Texture interface.
type texture struct {
	mu     sync.Mutex
	device gfx.Device
	handle gfx.TextureHandle
	width  uint16
	height uint16
	format gfx.TextureFormat

	// staging state consumed at construction
	pixels       []byte
	img          image.Image
	mipmaps      bool
	samplerFlags gfx.SamplerFlags
}

// Texture manages the lifecycle of one device texture. Construction uploads
// the staged pixel data; a texture whose creation was rejected by the device
// reports IsValid false and binds as nothing.
type Texture interface {
	// Handle retrieves the underlying device handle.
	//
	// Returns:
	//   - gfx.TextureHandle: the device handle, invalid when creation failed
	Handle() gfx.TextureHandle

	// Width retrieves the texture width in pixels.
	//
	// Returns:
	//   - uint16: width in pixels, 0 when invalid
	Width() uint16

	// Height retrieves the texture height in pixels.
	//
	// Returns:
	//   - uint16: height in pixels, 0 when invalid
	Height() uint16

	// Format retrieves the texture's pixel format.
	//
	// Returns:
	//   - gfx.TextureFormat: the pixel format
	Format() gfx.TextureFormat

	// Populate disposes any held device resource and creates a new one from
	// the given pixel data. On device failure the texture is left invalid; no
	// error is reported.
	//
	// Parameters:
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//   - format: the pixel format of data
	//   - hasMips: true when data carries a full mip chain, base level first
	//   - flags: sampling flags baked into the texture
	//   - data: tightly-packed pixel data, nil for a data-less texture
	Populate(width, height uint16, format gfx.TextureFormat, hasMips bool, flags gfx.SamplerFlags, data []byte)

	// IsValid reports whether the texture holds a live device resource.
	//
	// Returns:
	//   - bool: true when the device accepted the texture
	IsValid() bool

	// Dispose releases the device resource if one is held and marks the
	// texture invalid. Safe to call repeatedly.
	Dispose()
}

var _ Texture = &texture{}

// NewTexture creates a new Texture on the given device, configured with the
// provided options. Supply pixel data either as raw RGBA bytes paired with a
// size (WithPixels + WithSize) or as a decoded image (WithImage); the image
// form is converted to tightly-packed RGBA and may have a mip chain generated
// for it with WithMipmaps.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - options: variadic list of TextureOption functions to configure the texture
//
// Returns:
//   - Texture: a new Texture instance, invalid if the device rejected the staged data
func NewTexture(device gfx.Device, options ...TextureOption) Texture {
	t := &texture{
		device: device,
		format: gfx.TexFormatRGBA8,
	}
	for _, opt := range options {
		opt(t)
	}

	staging := t.stage()
	t.pixels = nil
	t.img = nil
	t.width, t.height = 0, 0
	if staging.Width == 0 || staging.Height == 0 {
		return t
	}

	t.handle = device.CreateTexture2D(
		uint16(staging.Width),
		uint16(staging.Height),
		staging.Levels > 1,
		t.format,
		t.samplerFlags,
		staging.Pixels,
	)
	if t.handle.IsValid() {
		t.width = uint16(staging.Width)
		t.height = uint16(staging.Height)
	}
	return t
}

// stage resolves the configured pixel source into upload-ready staging data.
func (t *texture) stage() common.TextureStagingData {
	if t.img != nil {
		rgba := toRGBA(t.img)
		if t.mipmaps {
			pixels, levels := buildMipChain(rgba)
			return common.TextureStagingData{
				Pixels: pixels,
				Width:  uint32(rgba.Rect.Dx()),
				Height: uint32(rgba.Rect.Dy()),
				Levels: levels,
			}
		}
		return common.TextureStagingData{
			Pixels: rgba.Pix,
			Width:  uint32(rgba.Rect.Dx()),
			Height: uint32(rgba.Rect.Dy()),
			Levels: 1,
		}
	}
	return common.TextureStagingData{
		Pixels: t.pixels,
		Width:  uint32(t.width),
		Height: uint32(t.height),
		Levels: 1,
	}
}

// toRGBA redraws any decoded image into a tightly-packed RGBA buffer.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// NewSolidColor creates a 1x1 texture filled with the given color.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - c: the fill color, each channel in [0, 1]
//
// Returns:
//   - Texture: a new 1x1 Texture instance
func NewSolidColor(device gfx.Device, c common.Color) Texture {
	to8 := func(v float32) byte {
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		default:
			return byte(v*255 + 0.5)
		}
	}
	return NewTexture(device,
		WithSize(1, 1),
		WithPixels([]byte{to8(c.R), to8(c.G), to8(c.B), to8(c.A)}),
	)
}

// NewDefaultColor creates the opaque white 1x1 texture materials fall back to
// for unbound color, roughness, metalness and ambient-occlusion slots.
//
// Parameters:
//   - device: the device that owns the underlying resource
//
// Returns:
//   - Texture: a new 1x1 white Texture instance
func NewDefaultColor(device gfx.Device) Texture {
	return NewSolidColor(device, common.NewColor(1, 1, 1, 1))
}

// NewDefaultNormal creates the flat 1x1 normal map (pointing straight out of
// the surface) materials fall back to for an unbound normal slot.
//
// Parameters:
//   - device: the device that owns the underlying resource
//
// Returns:
//   - Texture: a new 1x1 flat-normal Texture instance
func NewDefaultNormal(device gfx.Device) Texture {
	return NewTexture(device,
		WithSize(1, 1),
		WithPixels([]byte{128, 128, 255, 255}),
	)
}

func (t *texture) Handle() gfx.TextureHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle
}

func (t *texture) Width() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

func (t *texture) Height() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.height
}

func (t *texture) Format() gfx.TextureFormat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.format
}

func (t *texture) Populate(width, height uint16, format gfx.TextureFormat, hasMips bool, flags gfx.SamplerFlags, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle.IsValid() {
		t.device.DestroyTexture(t.handle)
		t.handle = gfx.TextureHandle{}
	}
	t.width, t.height = 0, 0
	t.format = format
	t.samplerFlags = flags

	t.handle = t.device.CreateTexture2D(width, height, hasMips, format, flags, data)
	if t.handle.IsValid() {
		t.width = width
		t.height = height
	}
}

func (t *texture) IsValid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle.IsValid()
}

func (t *texture) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.handle.IsValid() {
		return
	}
	t.device.DestroyTexture(t.handle)
	t.handle = gfx.TextureHandle{}
	t.width = 0
	t.height = 0
}

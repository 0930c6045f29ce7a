package texture

import (
	"image"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// TextureOption is a function that configures a texture instance during
// construction.
type TextureOption func(*texture)

// WithSize is an option builder that sets the texture dimensions for raw
// pixel uploads. Pair with WithPixels.
//
// Parameters:
//   - width: texture width in pixels
//   - height: texture height in pixels
//
// Returns:
//   - TextureOption: a function that applies the size option to a texture
func WithSize(width, height uint16) TextureOption {
	return func(t *texture) {
		t.width = width
		t.height = height
	}
}

// WithPixels is an option builder that supplies raw RGBA pixel data, 4 bytes
// per pixel in row-major order. Pair with WithSize.
//
// Parameters:
//   - pixels: raw RGBA bytes to upload
//
// Returns:
//   - TextureOption: a function that applies the pixel data option to a texture
func WithPixels(pixels []byte) TextureOption {
	return func(t *texture) {
		t.pixels = pixels
	}
}

// WithImage is an option builder that supplies a decoded image as the pixel
// source. The image is redrawn into tightly-packed RGBA before upload and
// takes precedence over WithPixels/WithSize.
//
// Parameters:
//   - img: the decoded image to upload
//
// Returns:
//   - TextureOption: a function that applies the image option to a texture
func WithImage(img image.Image) TextureOption {
	return func(t *texture) {
		t.img = img
	}
}

// WithMipmaps is an option builder that enables CPU-side mip chain generation
// for image uploads. Only applies to the WithImage pixel source.
//
// Returns:
//   - TextureOption: a function that applies the mipmap option to a texture
func WithMipmaps() TextureOption {
	return func(t *texture) {
		t.mipmaps = true
	}
}

// WithFormat is an option builder that sets the texture's pixel format.
// Defaults to RGBA8.
//
// Parameters:
//   - format: the pixel format
//
// Returns:
//   - TextureOption: a function that applies the format option to a texture
func WithFormat(format gfx.TextureFormat) TextureOption {
	return func(t *texture) {
		t.format = format
	}
}

// WithSamplerFlags is an option builder that sets the sampling flags the
// texture was created with; bindings that pass SamplerInherit sample with
// these.
//
// Parameters:
//   - flags: addressing and filter flags
//
// Returns:
//   - TextureOption: a function that applies the sampler flags option to a texture
func WithSamplerFlags(flags gfx.SamplerFlags) TextureOption {
	return func(t *texture) {
		t.samplerFlags = flags
	}
}

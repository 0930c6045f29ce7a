package texture

import "github.com/Carmen-Shannon/prism-go/engine/gfx"

// FrameBufferOption is a function that configures a framebuffer instance
// during construction.
type FrameBufferOption func(*frameBuffer)

// WithFrameBufferFormat is an option builder that sets the color attachment's
// pixel format. Defaults to RGBA8.
//
// Parameters:
//   - format: the color attachment pixel format
//
// Returns:
//   - FrameBufferOption: a function that applies the format option to a framebuffer
func WithFrameBufferFormat(format gfx.TextureFormat) FrameBufferOption {
	return func(f *frameBuffer) {
		f.format = format
	}
}

// WithFrameBufferSamplerFlags is an option builder that sets the sampling
// flags attachment textures are created with. Defaults to clamped addressing,
// which avoids edge bleed when attachments are sampled as textures.
//
// Parameters:
//   - flags: addressing and filter flags
//
// Returns:
//   - FrameBufferOption: a function that applies the sampler flags option to a framebuffer
func WithFrameBufferSamplerFlags(flags gfx.SamplerFlags) FrameBufferOption {
	return func(f *frameBuffer) {
		f.samplerFlags = flags
	}
}

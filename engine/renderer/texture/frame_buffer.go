package texture

import (
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// frameBuffer is the implementation of the FrameBuffer interface.
type frameBuffer struct {
	mu     sync.Mutex
	device gfx.Device
	handle gfx.FrameBufferHandle
	width  uint16
	height uint16

	format       gfx.TextureFormat
	samplerFlags gfx.SamplerFlags
}

// FrameBuffer manages the lifecycle of one device framebuffer: an offscreen
// render target whose color and depth attachments are device-owned textures.
// Attachment textures can be bound by materials as texture sources but are
// owned by the framebuffer and die with it; material bindings must treat them
// as borrowed.
type FrameBuffer interface {
	// Handle retrieves the underlying device handle.
	//
	// Returns:
	//   - gfx.FrameBufferHandle: the device handle, invalid when creation failed
	Handle() gfx.FrameBufferHandle

	// Attachment retrieves the texture backing the given attachment index.
	//
	// Parameters:
	//   - index: attachment index, 0 for color, 1 for depth
	//
	// Returns:
	//   - gfx.TextureHandle: the attachment texture, invalid for out-of-range indices
	Attachment(index uint8) gfx.TextureHandle

	// ColorTexture retrieves the color attachment texture.
	//
	// Returns:
	//   - gfx.TextureHandle: the color attachment, invalid when creation failed
	ColorTexture() gfx.TextureHandle

	// DepthTexture retrieves the depth attachment texture.
	//
	// Returns:
	//   - gfx.TextureHandle: the depth attachment, invalid when creation failed
	DepthTexture() gfx.TextureHandle

	// Width retrieves the framebuffer width in pixels.
	//
	// Returns:
	//   - uint16: width in pixels
	Width() uint16

	// Height retrieves the framebuffer height in pixels.
	//
	// Returns:
	//   - uint16: height in pixels
	Height() uint16

	// IsValid reports whether the framebuffer holds a live device resource.
	//
	// Returns:
	//   - bool: true when the device accepted the framebuffer
	IsValid() bool

	// Dispose releases the device resource and its attachments if held and
	// marks the framebuffer invalid. Safe to call repeatedly.
	Dispose()
}

var _ FrameBuffer = &frameBuffer{}

// NewFrameBuffer creates a new FrameBuffer of the given size on the device,
// configured with the provided options.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//   - options: variadic list of FrameBufferOption functions to configure the framebuffer
//
// Returns:
//   - FrameBuffer: a new FrameBuffer instance, invalid if the device rejected the size
func NewFrameBuffer(device gfx.Device, width, height uint16, options ...FrameBufferOption) FrameBuffer {
	f := &frameBuffer{
		device:       device,
		format:       gfx.TexFormatRGBA8,
		samplerFlags: gfx.SamplerUClamp | gfx.SamplerVClamp,
	}
	for _, opt := range options {
		opt(f)
	}

	f.handle = device.CreateFrameBuffer(width, height, f.format, f.samplerFlags)
	if f.handle.IsValid() {
		f.width = width
		f.height = height
	}
	return f
}

func (f *frameBuffer) Handle() gfx.FrameBufferHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle
}

func (f *frameBuffer) Attachment(index uint8) gfx.TextureHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.device.FrameBufferTexture(f.handle, index)
}

func (f *frameBuffer) ColorTexture() gfx.TextureHandle {
	return f.Attachment(0)
}

func (f *frameBuffer) DepthTexture() gfx.TextureHandle {
	return f.Attachment(1)
}

func (f *frameBuffer) Width() uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width
}

func (f *frameBuffer) Height() uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height
}

func (f *frameBuffer) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle.IsValid()
}

func (f *frameBuffer) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.handle.IsValid() {
		return
	}
	f.device.DestroyFrameBuffer(f.handle)
	f.handle = gfx.FrameBufferHandle{}
	f.width = 0
	f.height = 0
}

package gfx

// BufferFlags configures index/vertex buffer creation.
type BufferFlags uint16

const (
	// BufferNone selects the defaults: static usage, 16-bit indices.
	BufferNone BufferFlags = 0

	// BufferIndex32 marks an index buffer as holding 32-bit indices instead
	// of the default 16-bit.
	BufferIndex32 BufferFlags = 1 << 0
)

// SamplerFlags configures texture sampling: addressing per axis and filter
// selection. The zero value selects repeat addressing with linear filtering.
type SamplerFlags uint32

const (
	// SamplerNone selects repeat addressing and linear min/mag/mip filters.
	SamplerNone SamplerFlags = 0

	// SamplerUClamp clamps texture coordinates on the U axis.
	SamplerUClamp SamplerFlags = 1 << 0

	// SamplerVClamp clamps texture coordinates on the V axis.
	SamplerVClamp SamplerFlags = 1 << 1

	// SamplerUMirror mirror-repeats texture coordinates on the U axis.
	SamplerUMirror SamplerFlags = 1 << 2

	// SamplerVMirror mirror-repeats texture coordinates on the V axis.
	SamplerVMirror SamplerFlags = 1 << 3

	// SamplerMinPoint selects nearest-neighbor minification.
	SamplerMinPoint SamplerFlags = 1 << 4

	// SamplerMagPoint selects nearest-neighbor magnification.
	SamplerMagPoint SamplerFlags = 1 << 5

	// SamplerMipPoint selects nearest-neighbor mip level blending.
	SamplerMipPoint SamplerFlags = 1 << 6

	// SamplerInherit is a sentinel meaning "use the flags the texture was
	// created with". It is the conventional default for texture-bind calls
	// that do not want to override per-binding sampling.
	SamplerInherit SamplerFlags = 0xFFFFFFFF
)

// TextureFormat enumerates the pixel formats the device accepts.
type TextureFormat uint8

const (
	// TexFormatRGBA8 is 8-bit-per-channel RGBA, linear encoding.
	TexFormatRGBA8 TextureFormat = iota

	// TexFormatBGRA8 is 8-bit-per-channel BGRA, linear encoding. Typical
	// swapchain format on desktop platforms.
	TexFormatBGRA8

	// TexFormatDepth24 is a 24-bit depth format usable as a framebuffer
	// depth attachment.
	TexFormatDepth24
)

// AttribFormat enumerates vertex attribute component layouts.
type AttribFormat uint8

const (
	// AttribFloat is one 32-bit float.
	AttribFloat AttribFormat = iota
	// AttribVec2 is two 32-bit floats.
	AttribVec2
	// AttribVec3 is three 32-bit floats.
	AttribVec3
	// AttribVec4 is four 32-bit floats.
	AttribVec4
	// AttribUByte4N is four unsigned bytes normalized to [0, 1].
	AttribUByte4N
)

// ByteSize returns the attribute's size in bytes.
//
// Returns:
//   - uint32: size in bytes of one attribute of this format
func (f AttribFormat) ByteSize() uint32 {
	switch f {
	case AttribFloat:
		return 4
	case AttribVec2:
		return 8
	case AttribVec3:
		return 12
	case AttribVec4:
		return 16
	case AttribUByte4N:
		return 4
	default:
		return 0
	}
}

// VertexAttrib describes one attribute within a vertex layout. Shader
// locations are assigned by position: the i-th attribute binds location i.
type VertexAttrib struct {
	// Name identifies the attribute for diagnostics.
	Name string
	// Format is the attribute's component layout.
	Format AttribFormat
	// Offset is the attribute's byte offset within one vertex.
	Offset uint32
}

// VertexLayout describes the memory layout of one vertex buffer.
type VertexLayout struct {
	// Stride is the byte size of one vertex.
	Stride uint32
	// Attribs lists the attributes in shader-location order.
	Attribs []VertexAttrib
}

// NewVertexLayout builds a tightly-packed layout from the given formats,
// assigning offsets and stride automatically.
//
// Parameters:
//   - attribs: attribute name/format pairs in shader-location order
//
// Returns:
//   - VertexLayout: the packed layout
func NewVertexLayout(attribs ...VertexAttrib) VertexLayout {
	var l VertexLayout
	offset := uint32(0)
	for _, a := range attribs {
		a.Offset = offset
		offset += a.Format.ByteSize()
		l.Attribs = append(l.Attribs, a)
	}
	l.Stride = offset
	return l
}

// Caps describes fixed limits of the active device backend.
type Caps struct {
	// MaxTextureStages is the number of texture binding stages available to
	// a single draw. SetTexture rejects stages at or beyond this limit.
	MaxTextureStages uint8

	// MaxFrameBufferAttachments is the number of attachments a framebuffer
	// exposes (color at index 0, depth at index 1).
	MaxFrameBufferAttachments uint8

	// MaxVertexAttribs is the number of vertex attributes a layout may hold.
	MaxVertexAttribs uint8
}

// FrameStats is a snapshot of device activity and resource liveness,
// refreshed at EndFrame and readable at any time.
type FrameStats struct {
	// DrawCalls is the number of submissions issued last frame.
	DrawCalls uint32

	// DroppedSubmits is the number of submissions discarded last frame
	// because the program handle did not resolve.
	DroppedSubmits uint32

	// Alive resource counts by kind.
	IndexBuffers  uint32
	VertexBuffers uint32
	Textures      uint32
	FrameBuffers  uint32
	Programs      uint32
}

package buffer

import "github.com/Carmen-Shannon/prism-go/engine/gfx"

// VertexBufferOption is a function that configures a vertex buffer instance
// during construction.
type VertexBufferOption func(*vertexBuffer)

// WithVertexData is an option builder that supplies initial vertex data,
// which is populated into the buffer as part of construction. Pair with
// WithVertexLayout.
//
// Parameters:
//   - data: raw vertex bytes to upload
//
// Returns:
//   - VertexBufferOption: a function that applies the initial data option to a vertex buffer
func WithVertexData(data []byte) VertexBufferOption {
	return func(b *vertexBuffer) {
		b.initialData = data
	}
}

// WithVertexLayout is an option builder that sets the layout used when
// initial data is populated at construction.
//
// Parameters:
//   - layout: the per-vertex memory layout
//
// Returns:
//   - VertexBufferOption: a function that applies the layout option to a vertex buffer
func WithVertexLayout(layout gfx.VertexLayout) VertexBufferOption {
	return func(b *vertexBuffer) {
		b.layout = layout
	}
}

// WithVertexFlags is an option builder that sets the creation flags used
// when initial data is populated at construction.
//
// Parameters:
//   - flags: buffer creation flags
//
// Returns:
//   - VertexBufferOption: a function that applies the flags option to a vertex buffer
func WithVertexFlags(flags gfx.BufferFlags) VertexBufferOption {
	return func(b *vertexBuffer) {
		b.initialFlags = flags
	}
}

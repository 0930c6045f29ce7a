package buffer

import "github.com/Carmen-Shannon/prism-go/engine/gfx"

// IndexBufferOption is a function that configures an index buffer instance
// during construction.
type IndexBufferOption func(*indexBuffer)

// WithIndexData is an option builder that supplies initial index data, which
// is populated into the buffer as part of construction.
//
// Parameters:
//   - data: raw index bytes to upload
//
// Returns:
//   - IndexBufferOption: a function that applies the initial data option to an index buffer
func WithIndexData(data []byte) IndexBufferOption {
	return func(b *indexBuffer) {
		b.initialData = data
	}
}

// WithIndexFlags is an option builder that sets the creation flags used when
// initial data is populated at construction.
//
// Parameters:
//   - flags: buffer creation flags
//
// Returns:
//   - IndexBufferOption: a function that applies the flags option to an index buffer
func WithIndexFlags(flags gfx.BufferFlags) IndexBufferOption {
	return func(b *indexBuffer) {
		b.initialFlags = flags
	}
}

// With32BitIndices is an option builder that marks the initial data as 32-bit
// indices instead of the default 16-bit.
//
// Returns:
//   - IndexBufferOption: a function that applies the 32-bit index option to an index buffer
func With32BitIndices() IndexBufferOption {
	return func(b *indexBuffer) {
		b.initialFlags |= gfx.BufferIndex32
	}
}

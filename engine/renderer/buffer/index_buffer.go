// Package buffer wraps device index and vertex buffers in typed owners that
// manage the dispose-then-recreate lifecycle of their underlying handles.
package buffer

import (
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// indexBuffer is the implementation of the IndexBuffer interface.
type indexBuffer struct {
	mu     sync.Mutex
	device gfx.Device
	handle gfx.IndexBufferHandle
	count  uint32

	initialData  []byte
	initialFlags gfx.BufferFlags
}

// IndexBuffer manages the lifecycle of one device index buffer. A new buffer
// starts invalid and becomes valid on the first successful Populate; each
// Populate disposes the prior device resource before creating a new one.
//
// Creation failure at the device layer leaves the buffer invalid rather than
// returning an error, so callers must check IsValid before drawing with it.
type IndexBuffer interface {
	// Populate replaces the buffer's device resource with one created from
	// the given index data. Any previously held resource is disposed first;
	// there is no in-place reallocation. On device creation failure the
	// buffer is left invalid.
	//
	// Parameters:
	//   - data: raw index bytes, 16-bit indices unless flags request 32-bit
	//   - flags: buffer creation flags
	Populate(data []byte, flags gfx.BufferFlags)

	// Handle retrieves the underlying device handle.
	//
	// Returns:
	//   - gfx.IndexBufferHandle: the device handle, invalid when unpopulated
	Handle() gfx.IndexBufferHandle

	// Count retrieves the number of indices held by the buffer.
	//
	// Returns:
	//   - uint32: the index count, 0 when invalid
	Count() uint32

	// IsValid reports whether the buffer currently holds a live device
	// resource.
	//
	// Returns:
	//   - bool: true when populated and the device accepted the data
	IsValid() bool

	// Dispose releases the device resource if one is held and marks the
	// buffer invalid. Safe to call repeatedly.
	Dispose()
}

var _ IndexBuffer = &indexBuffer{}

// NewIndexBuffer creates a new IndexBuffer bound to the given device,
// configured with the provided options.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - options: variadic list of IndexBufferOption functions to configure the buffer
//
// Returns:
//   - IndexBuffer: a new IndexBuffer instance, invalid unless initial data was supplied
func NewIndexBuffer(device gfx.Device, options ...IndexBufferOption) IndexBuffer {
	b := &indexBuffer{device: device}
	for _, opt := range options {
		opt(b)
	}
	if b.initialData != nil {
		b.Populate(b.initialData, b.initialFlags)
		b.initialData = nil
	}
	return b
}

func (b *indexBuffer) Populate(data []byte, flags gfx.BufferFlags) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handle.IsValid() {
		b.device.DestroyIndexBuffer(b.handle)
		b.handle = gfx.IndexBufferHandle{}
		b.count = 0
	}

	handle := b.device.CreateIndexBuffer(data, flags)
	if !handle.IsValid() {
		return
	}
	indexSize := uint32(2)
	if flags&gfx.BufferIndex32 != 0 {
		indexSize = 4
	}
	b.handle = handle
	b.count = uint32(len(data)) / indexSize
}

func (b *indexBuffer) Handle() gfx.IndexBufferHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle
}

func (b *indexBuffer) Count() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *indexBuffer) IsValid() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle.IsValid()
}

func (b *indexBuffer) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.handle.IsValid() {
		return
	}
	b.device.DestroyIndexBuffer(b.handle)
	b.handle = gfx.IndexBufferHandle{}
	b.count = 0
}

package buffer

import (
	"sync"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// vertexBuffer is the implementation of the VertexBuffer interface.
type vertexBuffer struct {
	mu     sync.Mutex
	device gfx.Device
	handle gfx.VertexBufferHandle
	layout gfx.VertexLayout
	count  uint32

	initialData  []byte
	initialFlags gfx.BufferFlags
}

// VertexBuffer manages the lifecycle of one device vertex buffer together
// with the layout describing its per-vertex memory. Lifecycle semantics match
// IndexBuffer: invalid until populated, dispose-then-recreate on repopulate,
// creation failure leaves the buffer invalid.
type VertexBuffer interface {
	// Populate replaces the buffer's device resource with one created from
	// the given vertex data and layout. Any previously held resource is
	// disposed first. On device creation failure the buffer is left invalid.
	//
	// Parameters:
	//   - data: raw vertex bytes, a multiple of layout.Stride
	//   - layout: the per-vertex memory layout
	//   - flags: buffer creation flags
	Populate(data []byte, layout gfx.VertexLayout, flags gfx.BufferFlags)

	// Handle retrieves the underlying device handle.
	//
	// Returns:
	//   - gfx.VertexBufferHandle: the device handle, invalid when unpopulated
	Handle() gfx.VertexBufferHandle

	// Layout retrieves the layout the buffer was last populated with.
	//
	// Returns:
	//   - gfx.VertexLayout: the vertex layout, zero value when invalid
	Layout() gfx.VertexLayout

	// Count retrieves the number of vertices held by the buffer.
	//
	// Returns:
	//   - uint32: the vertex count, 0 when invalid
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

var _ VertexBuffer = &vertexBuffer{}

// NewVertexBuffer creates a new VertexBuffer bound to the given device,
// configured with the provided options. When initial data is supplied via
// options, the layout option must be supplied as well.
//
// Parameters:
//   - device: the device that owns the underlying resource
//   - options: variadic list of VertexBufferOption functions to configure the buffer
//
// Returns:
//   - VertexBuffer: a new VertexBuffer instance, invalid unless initial data was supplied
func NewVertexBuffer(device gfx.Device, options ...VertexBufferOption) VertexBuffer {
	b := &vertexBuffer{device: device}
	for _, opt := range options {
		opt(b)
	}
	if b.initialData != nil {
		b.Populate(b.initialData, b.layout, b.initialFlags)
		b.initialData = nil
	}
	return b
}

func (b *vertexBuffer) Populate(data []byte, layout gfx.VertexLayout, flags gfx.BufferFlags) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handle.IsValid() {
		b.device.DestroyVertexBuffer(b.handle)
		b.handle = gfx.VertexBufferHandle{}
		b.count = 0
	}

	handle := b.device.CreateVertexBuffer(data, layout, flags)
	if !handle.IsValid() {
		return
	}
	b.handle = handle
	b.layout = layout
	b.count = uint32(len(data)) / layout.Stride
}

func (b *vertexBuffer) Handle() gfx.VertexBufferHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle
}

func (b *vertexBuffer) Layout() gfx.VertexLayout {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layout
}

func (b *vertexBuffer) Count() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *vertexBuffer) IsValid() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle.IsValid()
}

func (b *vertexBuffer) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.handle.IsValid() {
		return
	}
	b.device.DestroyVertexBuffer(b.handle)
	b.handle = gfx.VertexBufferHandle{}
	b.count = 0
}

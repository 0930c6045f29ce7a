package buffer

import (
	"testing"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
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

func quadLayout() gfx.VertexLayout {
	return gfx.NewVertexLayout(
		gfx.VertexAttrib{Name: "position", Format: gfx.AttribVec3},
		gfx.VertexAttrib{Name: "uv", Format: gfx.AttribVec2},
	)
}

func TestIndexBufferLifecycle(t *testing.T) {
	dev := newTestDevice(t)

	ib := NewIndexBuffer(dev)
	assert.False(t, ib.IsValid())
	assert.Equal(t, uint32(0), ib.Count())

	ib.Populate(make([]byte, 12), gfx.BufferNone)
	require.True(t, ib.IsValid())
	assert.Equal(t, uint32(6), ib.Count())
	assert.Equal(t, uint32(1), dev.Stats().IndexBuffers)

	ib.Dispose()
	assert.False(t, ib.IsValid())
	assert.Equal(t, uint32(0), ib.Count())
	assert.Equal(t, uint32(0), dev.Stats().IndexBuffers)

	// Second dispose is a no-op.
	ib.Dispose()
	assert.False(t, ib.IsValid())
}

func TestIndexBufferPopulateRecreates(t *testing.T) {
	dev := newTestDevice(t)

	ib := NewIndexBuffer(dev, WithIndexData(make([]byte, 6)))
	require.True(t, ib.IsValid())
	first := ib.Handle()

	ib.Populate(make([]byte, 24), gfx.BufferIndex32)
	require.True(t, ib.IsValid())
	assert.NotEqual(t, first, ib.Handle())
	assert.Equal(t, uint32(6), ib.Count())
	assert.Equal(t, uint32(1), dev.Stats().IndexBuffers, "old resource is disposed before recreation")
}

func TestIndexBufferPopulateFailureLeavesInvalid(t *testing.T) {
	dev := newTestDevice(t)

	ib := NewIndexBuffer(dev)
	ib.Populate(nil, gfx.BufferNone)
	assert.False(t, ib.IsValid())

	// A failed repopulate must not keep the old resource alive either.
	ib.Populate(make([]byte, 6), gfx.BufferNone)
	require.True(t, ib.IsValid())
	ib.Populate([]byte{1}, gfx.BufferNone)
	assert.False(t, ib.IsValid())
	assert.Equal(t, uint32(0), ib.Count())
	assert.Equal(t, uint32(0), dev.Stats().IndexBuffers)
}

func TestIndexBufferOptions(t *testing.T) {
	dev := newTestDevice(t)

	ib := NewIndexBuffer(dev, WithIndexData(make([]byte, 12)), With32BitIndices())
	require.True(t, ib.IsValid())
	assert.Equal(t, uint32(3), ib.Count())
}

func TestVertexBufferLifecycle(t *testing.T) {
	dev := newTestDevice(t)
	layout := quadLayout()

	vb := NewVertexBuffer(dev)
	assert.False(t, vb.IsValid())

	vb.Populate(make([]byte, 80), layout, gfx.BufferNone)
	require.True(t, vb.IsValid())
	assert.Equal(t, uint32(4), vb.Count())
	assert.Equal(t, layout.Stride, vb.Layout().Stride)

	vb.Dispose()
	vb.Dispose()
	assert.False(t, vb.IsValid())
	assert.Equal(t, uint32(0), dev.Stats().VertexBuffers)
}

func TestVertexBufferConstructedWithData(t *testing.T) {
	dev := newTestDevice(t)
	layout := quadLayout()

	vb := NewVertexBuffer(dev,
		WithVertexData(make([]byte, 60)),
		WithVertexLayout(layout),
	)
	require.True(t, vb.IsValid())
	assert.Equal(t, uint32(3), vb.Count())
}

func TestVertexBufferPopulateFailureLeavesInvalid(t *testing.T) {
	dev := newTestDevice(t)

	vb := NewVertexBuffer(dev)
	vb.Populate(make([]byte, 10), quadLayout(), gfx.BufferNone)
	assert.False(t, vb.IsValid())
}

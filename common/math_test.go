package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 7
	}
	Identity(m)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			assert.Equal(t, want, m[i*4+j], "element (%d,%d)", i, j)
		}
	}
}

func TestMul4(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)

	m := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.Equal(t, m, out, "identity * m should equal m")

	Mul4(out, m, id)
	assert.Equal(t, m, out, "m * identity should equal m")

	// out may alias an input.
	aliased := append([]float32(nil), m...)
	Mul4(aliased, aliased, id)
	assert.Equal(t, m, aliased)
}

func TestPerspective(t *testing.T) {
	out := make([]float32, 16)
	Perspective(out, math.Pi/2, 1.0, 1.0, 10.0)

	// fovY = 90deg => f = 1.
	assert.InDelta(t, 1.0, out[0], 1e-6)
	assert.InDelta(t, 1.0, out[5], 1e-6)
	assert.InDelta(t, 10.0/(1.0-10.0), out[10], 1e-6)
	assert.InDelta(t, -1.0, out[11], 1e-6)
	assert.InDelta(t, 10.0/(1.0-10.0), out[14], 1e-6)
	assert.InDelta(t, 0.0, out[15], 1e-6)
}

func TestRotationY(t *testing.T) {
	out := make([]float32, 16)
	RotationY(out, math.Pi/2)

	assert.InDelta(t, 0.0, out[0], 1e-6)
	assert.InDelta(t, -1.0, out[2], 1e-6)
	assert.InDelta(t, 1.0, out[8], 1e-6)
	assert.InDelta(t, 0.0, out[10], 1e-6)
	assert.InDelta(t, 1.0, out[5], 1e-6)
}

func TestLookAt(t *testing.T) {
	out := make([]float32, 16)
	LookAt(out, 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// Camera on +Z looking at origin: axes stay world-aligned.
	assert.InDelta(t, 1.0, out[0], 1e-6)
	assert.InDelta(t, 1.0, out[5], 1e-6)
	assert.InDelta(t, 1.0, out[10], 1e-6)
	assert.InDelta(t, -5.0, out[14], 1e-6)
	assert.InDelta(t, 0.0, out[12], 1e-6)
	assert.InDelta(t, 0.0, out[13], 1e-6)
}

func TestSliceToBytes(t *testing.T) {
	require.Nil(t, SliceToBytes[float32](nil))
	require.Nil(t, SliceToBytes([]float32{}))

	data := []float32{1.0, 2.0}
	b := SliceToBytes(data)
	require.Len(t, b, 8)
	assert.Equal(t, math.Float32bits(1.0), binary.LittleEndian.Uint32(b[0:4]))
	assert.Equal(t, math.Float32bits(2.0), binary.LittleEndian.Uint32(b[4:8]))
}

func TestStructToBytes(t *testing.T) {
	c := NewColor(1, 2, 3, 4)
	b := StructToBytes(&c)
	require.Len(t, b, 16)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(b[0:4]))
	assert.Equal(t, math.Float32bits(4), binary.LittleEndian.Uint32(b[12:16]))
}

func TestColorVec4(t *testing.T) {
	c := NewColor(0.1, 0.2, 0.3, 0.4)
	v := c.Vec4()
	assert.Equal(t, Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4}, v)
}

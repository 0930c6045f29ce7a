package material

import (
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUStandardParamsLayout(t *testing.T) {
	g := GPUStandardParams{}
	assert.Equal(t, 80, g.Size())

	p := DefaultStandardParams()
	p.Roughness = 0.5
	p.Tiling = common.Vec2{X: 2, Y: 3}
	packed := NewGPUStandardParams(p)
	buf := packed.Marshal()
	require.Len(t, buf, 80)

	assert.Equal(t, common.SliceToBytes([]float32{1, 1, 1, 1}), buf[0:16])
	assert.Equal(t, common.SliceToBytes([]float32{0, 0, 0, 0.8}), buf[16:32])
	assert.Equal(t, common.SliceToBytes([]float32{0, 0, 0, 0}), buf[32:48])
	assert.Equal(t, common.SliceToBytes([]float32{0.5, 0, 1, 0.25}), buf[48:64])
	assert.Equal(t, common.SliceToBytes([]float32{2, 3, 0.5, 0}), buf[64:80])
}

func TestGPUStandardParamsSourceDeclaresBlock(t *testing.T) {
	assert.Contains(t, GPUStandardParamsSource, "struct StandardParams")
	assert.Contains(t, GPUStandardParamsSource, "base_color")
	assert.Contains(t, GPUStandardParamsSource, "tiling")
}

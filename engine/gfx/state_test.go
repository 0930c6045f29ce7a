package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDefault(t *testing.T) {
	s := StateDefault
	assert.True(t, s.WriteRGB())
	assert.True(t, s.WriteAlpha())
	assert.True(t, s.DepthWriteEnabled())
	assert.Equal(t, DepthCompareLess, s.DepthCompare())
	assert.Equal(t, CullFaceCCW, s.CullFace())
	assert.Equal(t, BlendOff, s.BlendMode())
	assert.True(t, s.MSAAEnabled())
}

func TestStateDepthCompare(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  DepthCompare
	}{
		{"none", StateNone, DepthCompareAlways},
		{"less", StateDepthTestLess, DepthCompareLess},
		{"lequal", StateDepthTestLEqual, DepthCompareLEqual},
		{"lequal wins over less", StateDepthTestLess | StateDepthTestLEqual, DepthCompareLEqual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.DepthCompare())
		})
	}
}

func TestStateCullFace(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  CullFace
	}{
		{"none", StateNone, CullFaceNone},
		{"cw", StateCullCW, CullFaceCW},
		{"ccw", StateCullCCW, CullFaceCCW},
		{"cw wins over ccw", StateCullCW | StateCullCCW, CullFaceCW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.CullFace())
		})
	}
}

func TestStateBlendMode(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  BlendMode
	}{
		{"off", StateNone, BlendOff},
		{"alpha", StateBlendAlpha, BlendAlpha},
		{"add", StateBlendAdd, BlendAdd},
		{"add wins over alpha", StateBlendAlpha | StateBlendAdd, BlendAdd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.BlendMode())
		})
	}
}

func TestStateWriteMasks(t *testing.T) {
	assert.False(t, StateNone.WriteRGB())
	assert.False(t, StateNone.WriteAlpha())
	assert.False(t, StateNone.DepthWriteEnabled())
	assert.True(t, StateWriteRGB.WriteRGB())
	assert.True(t, StateWriteA.WriteAlpha())
	assert.True(t, StateWriteZ.DepthWriteEnabled())
	assert.False(t, StateNone.MSAAEnabled())
	assert.True(t, StateMSAA.MSAAEnabled())
}

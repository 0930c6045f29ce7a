package material

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSaveLoadRoundTrip(t *testing.T) {
	p := DefaultStandardParams()
	p.BaseColor = common.NewColor(0.25, 0.5, 0.75, 1)
	p.Roughness = 0.625
	p.Tiling = common.Vec2{X: 8, Y: 2}
	p.DitherThreshold = common.Vec2{X: 0.125, Y: 0.875}

	path := filepath.Join(t.TempDir(), "stone.toml")
	require.NoError(t, p.Save(path))

	loaded, err := LoadStandardParams(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadParamsKeepsDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("roughness = 0.9\nmetalness = 1.0\n"), 0o644))

	p, err := LoadStandardParams(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.9), p.Roughness)
	assert.Equal(t, float32(1.0), p.Metalness)

	want := DefaultStandardParams()
	assert.Equal(t, want.BaseColor, p.BaseColor)
	assert.Equal(t, want.SubsurfaceColor, p.SubsurfaceColor)
	assert.Equal(t, want.Tiling, p.Tiling)
	assert.Equal(t, want.DitherThreshold, p.DitherThreshold)
}

func TestLoadParamsMissingFileErrors(t *testing.T) {
	_, err := LoadStandardParams(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadParamsMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("roughness = [not toml"), 0o644))

	_, err := LoadStandardParams(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "roundtrip"
	cfg.Window.Width = 640
	cfg.Window.Height = 480
	cfg.Renderer.Backend = "null"
	cfg.Renderer.VSync = false
	cfg.Profiler.LogIntervalSecs = 2.5

	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"partial\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Window.Title)

	def := Default()
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
	assert.Equal(t, def.Renderer, cfg.Renderer)
	assert.Equal(t, def.Profiler, cfg.Profiler)
}

func TestLoadCoalescesZeroDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zeroed.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 0\nheight = 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Window.Width, cfg.Window.Width, "a zero dimension is never sensible")
	assert.Equal(t, Default().Window.Height, cfg.Window.Height)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackendType(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    gfx.BackendType
		wantErr bool
	}{
		{name: "default", backend: "", want: gfx.BackendWGPU},
		{name: "wgpu", backend: "wgpu", want: gfx.BackendWGPU},
		{name: "null", backend: "null", want: gfx.BackendNull},
		{name: "unknown", backend: "vulkan", want: gfx.BackendWGPU, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RendererConfig{Backend: tt.backend}.BackendType()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveAnyLoadIntoArbitraryStruct(t *testing.T) {
	type gamma struct {
		Exposure float32 `toml:"exposure"`
		Curve    string  `toml:"curve"`
	}

	path := filepath.Join(t.TempDir(), "gamma.toml")
	require.NoError(t, SaveAny(path, gamma{Exposure: 1.8, Curve: "srgb"}))

	var loaded gamma
	require.NoError(t, LoadInto(path, &loaded))
	assert.Equal(t, gamma{Exposure: 1.8, Curve: "srgb"}, loaded)
}

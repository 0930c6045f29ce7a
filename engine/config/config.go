// Package config loads and saves engine settings as TOML. Loading overlays
// the file onto the defaults, so partial files are valid and absent fields
// keep their default values.
package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/prism-go/common"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/pelletier/go-toml/v2"
)

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// RendererConfig holds the device and presentation settings.
type RendererConfig struct {
	// Backend selects the device backend, "wgpu" or "null".
	Backend string `toml:"backend"`
	VSync   bool   `toml:"vsync"`
	MSAA    bool   `toml:"msaa"`
}

// ProfilerConfig holds the frame profiler settings.
type ProfilerConfig struct {
	Enabled bool `toml:"enabled"`
	// LogIntervalSecs is the number of seconds between profiler log lines.
	LogIntervalSecs float64 `toml:"log_interval_secs"`
}

// Config is the root settings document.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Profiler ProfilerConfig `toml:"profiler"`
}

// Default returns the settings used when no file overrides them.
//
// Returns:
//   - Config: the default settings
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "prism",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Renderer: RendererConfig{
			Backend: "wgpu",
			VSync:   true,
			MSAA:    true,
		},
		Profiler: ProfilerConfig{
			Enabled:         true,
			LogIntervalSecs: 1,
		},
	}
}

// Load reads a TOML settings file over the defaults. Fields the file omits
// or zeroes out (where zero is never sensible) fall back to their defaults.
//
// Parameters:
//   - path: filesystem path of the TOML file
//
// Returns:
//   - Config: the loaded settings
//   - error: non-nil when the file cannot be read or parsed
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadInto(path, &cfg); err != nil {
		return Default(), err
	}

	def := Default()
	cfg.Window.Title = common.Coalesce(cfg.Window.Title, def.Window.Title)
	cfg.Window.Width = common.Coalesce(cfg.Window.Width, def.Window.Width)
	cfg.Window.Height = common.Coalesce(cfg.Window.Height, def.Window.Height)
	cfg.Renderer.Backend = common.Coalesce(cfg.Renderer.Backend, def.Renderer.Backend)
	cfg.Profiler.LogIntervalSecs = common.Coalesce(cfg.Profiler.LogIntervalSecs, def.Profiler.LogIntervalSecs)
	return cfg, nil
}

// Save writes the settings as TOML.
//
// Parameters:
//   - path: filesystem path to write
//   - cfg: the settings to persist
//
// Returns:
//   - error: non-nil when marshalling or writing fails
func Save(path string, cfg Config) error {
	return SaveAny(path, cfg)
}

// LoadInto unmarshals a TOML file over an arbitrary settings struct, for
// callers persisting their own documents (material parameter files use this).
//
// Parameters:
//   - path: filesystem path of the TOML file
//   - v: pointer to the struct to unmarshal into
//
// Returns:
//   - error: non-nil when the file cannot be read or parsed
func LoadInto(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return nil
}

// SaveAny marshals an arbitrary settings struct to a TOML file.
//
// Parameters:
//   - path: filesystem path to write
//   - v: the struct to persist
//
// Returns:
//   - error: non-nil when marshalling or writing fails
func SaveAny(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// BackendType maps the configured backend name to the device factory's
// backend selector.
//
// Returns:
//   - gfx.BackendType: the backend selector
//   - error: non-nil when the name is not a known backend
func (r RendererConfig) BackendType() (gfx.BackendType, error) {
	switch r.Backend {
	case "", "wgpu":
		return gfx.BackendWGPU, nil
	case "null":
		return gfx.BackendNull, nil
	default:
		return gfx.BackendWGPU, fmt.Errorf("unknown renderer backend %q", r.Backend)
	}
}

package engine

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/prism-go/engine/assets"
	"github.com/Carmen-Shannon/prism-go/engine/config"
	"github.com/Carmen-Shannon/prism-go/engine/renderer"
	"github.com/Carmen-Shannon/prism-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets a custom configured renderer for the engine to drive each frame.
//
// Parameters:
//   - r: a pre-configured Renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithAssetCache sets the asset cache the render loop pumps each frame, so
// decoded assets are uploaded to the GPU on the render thread.
//
// Parameters:
//   - c: the asset cache to pump
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssetCache(c assets.Cache) EngineBuilderOption {
	return func(e *engine) {
		e.cache = c
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithConfig supplies a settings document the engine builds its window,
// renderer, and profiler from. Parts supplied directly via WithWindow or
// WithRenderer are not overridden.
//
// Parameters:
//   - cfg: the settings document
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.pendingConfig = &cfg
	}
}

// WithConfigFile loads a settings document from the given TOML file and
// applies it like WithConfig. When the file cannot be read or parsed, the
// engine logs the problem and falls back to the default settings.
//
// Parameters:
//   - path: path to the TOML settings file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigFile(path string) EngineBuilderOption {
	return func(e *engine) {
		cfg, err := config.Load(path)
		if err != nil {
			log.Printf("[Engine] config %q not loaded, using defaults: %v", path, err)
			cfg = config.Default()
		}
		e.pendingConfig = &cfg
	}
}

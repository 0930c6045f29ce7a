package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/prism-go/engine/assets"
	"github.com/Carmen-Shannon/prism-go/engine/config"
	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/profiler"
	"github.com/Carmen-Shannon/prism-go/engine/renderer"
	"github.com/Carmen-Shannon/prism-go/engine/window"
)

// engine implements the Engine interface.
// Coordinates the render loop, logic tick goroutine, and window.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	cache    assets.Cache

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// pendingConfig holds settings collected by the config options, applied
	// once by NewEngine after all options have run.
	pendingConfig *config.Config
}

// Engine is the main entry point for the engine.
// It orchestrates the render loop, the fixed-rate logic tick, and window management.
//
// The render loop runs on the goroutine that calls Run, which must be the one
// that created the window and renderer. GPU recording happens only inside the
// render callback; the tick callback runs on its own goroutine and should touch
// GPU resources through their thread-safe wrappers only.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer driving the engine's frames.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Cache returns the asset cache pumped by the render loop, or nil when not configured.
	//
	// Returns:
	//   - assets.Cache: the asset cache instance
	Cache() assets.Cache

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, physics, and animation updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame between
	// BeginFrame and EndFrame. Use this for GPU resource updates and draw recording.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop and blocks until the window closes or Quit is called.
	Run()

	// Quit signals the engine to stop. Safe to call multiple times and from any goroutine;
	// subsequent calls are no-ops.
	Quit()

	// Release destroys the renderer's GPU resources and closes the window.
	// Call after Run returns. Safe to call repeatedly.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
// When both a window and a renderer are present, window resizes are forwarded to
// the renderer, and the profiler reports the renderer's device statistics.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.pendingConfig != nil {
		e.applyConfig(*e.pendingConfig)
		e.pendingConfig = nil
	}

	if e.window != nil && e.renderer != nil {
		e.window.SetResizeCallback(e.renderer.Resize)
	}
	if e.renderer != nil {
		e.profiler.SetDevice(e.renderer.Device())
	}

	return e
}

// applyConfig builds the parts the caller did not supply directly from the
// settings document: the window (skipped for the headless backend), the
// renderer, and the profiler settings. Explicit WithWindow and WithRenderer
// options win over the config.
func (e *engine) applyConfig(cfg config.Config) {
	backend, err := cfg.Renderer.BackendType()
	if err != nil {
		panic(fmt.Sprintf("invalid engine config: %v", err))
	}

	if e.window == nil && backend != gfx.BackendNull {
		e.window = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithWidth(cfg.Window.Width),
			window.WithHeight(cfg.Window.Height),
			window.WithResizable(cfg.Window.Resizable),
		)
	}

	if e.renderer == nil {
		rendererOptions := []renderer.RendererBuilderOption{
			renderer.WithVSync(cfg.Renderer.VSync),
		}
		if !cfg.Renderer.MSAA {
			rendererOptions = append(rendererOptions, renderer.WithMSAA(renderer.MSAAOff))
		}
		r, err := renderer.NewRenderer(backend, e.window, rendererOptions...)
		if err != nil {
			panic(fmt.Sprintf("failed to create renderer from config: %v", err))
		}
		e.renderer = r
	}

	e.profilingEnabled = cfg.Profiler.Enabled
	if cfg.Profiler.LogIntervalSecs > 0 {
		e.profiler.SetInterval(time.Duration(cfg.Profiler.LogIntervalSecs * float64(time.Second)))
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Cache() assets.Cache {
	return e.cache
}

func (e *engine) Run() {
	e.running = true
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()

	e.renderLoop()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals the engine to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Release() {
	if e.renderer != nil {
		e.renderer.Release()
	}
	if e.window != nil {
		_ = e.window.Close()
		e.window = nil
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// renderLoop runs the frame loop on the calling goroutine: pump window
// messages, apply deferred asset uploads, record the frame between
// BeginFrame and EndFrame, present, and feed the profiler. Recovers from
// panics so a bad frame shuts the engine down instead of crashing the process.
func (e *engine) renderLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render loop recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		if e.window != nil && !e.window.ProcessMessages() {
			return
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if e.cache != nil {
			e.cache.Update()
		}

		if e.renderer != nil {
			if err := e.renderer.BeginFrame(); err == nil {
				if e.renderCallback != nil {
					e.renderCallback(dt)
				}
				e.renderer.EndFrame()
				e.renderer.Present()
			}
		} else if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			elapsed := time.Since(lastRender)
			if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Send to channel for immediate update in running engine loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

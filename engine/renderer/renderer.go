package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/buffer"
	"github.com/Carmen-Shannon/prism-go/engine/renderer/material"
	"github.com/Carmen-Shannon/prism-go/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	device gfx.Device

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingVSync         *bool
	pendingMSAA          *MSAASampleCount
}

// Renderer owns the GPU device and drives the per-frame render flow.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// Resource creation and per-draw recording go through the wrapper types (buffer, texture, program,
// material), all sharing the Renderer's device. The Renderer itself covers the frame lifecycle and
// the common geometry-plus-material draw path.
type Renderer interface {
	// Device returns the GPU device shared by every resource created for this Renderer.
	//
	// Returns:
	//   - gfx.Device: the underlying device
	Device() gfx.Device

	// BeginFrame acquires the presentation target and opens the frame's render pass.
	// Must be paired with EndFrame after all Draw invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the presentation target could not be acquired
	BeginFrame() error

	// Draw records one draw of the given geometry with the given material.
	// The material records its bindings and render state and issues the submission;
	// a material with no valid program is inert and the call records nothing.
	// Multiple Draw invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - vb: the vertex buffer holding the geometry's vertices
	//   - ib: the index buffer holding the geometry's indices
	//   - mat: the material to draw with
	//
	// Returns:
	//   - error: an error if either buffer is nil or unpopulated
	Draw(vb buffer.VertexBuffer, ib buffer.IndexBuffer, mat material.Material) error

	// EndFrame closes the frame's render pass and flushes recorded work to the GPU queue.
	// Does not present the surface. Call Present after EndFrame to display the frame.
	EndFrame()

	// Present presents the completed frame to the display.
	// Must be called once per frame after EndFrame.
	Present()

	// Resize reconfigures the presentation target for a new surface size.
	// This should be called when the window's framebuffer size changes.
	// Zero or negative sizes are ignored (minimized window).
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Release destroys the device and every resource still alive on it.
	// Safe to call repeatedly.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified device backend.
// When a window is given, the device presents to its surface at the window's
// current framebuffer size; a nil window creates a headless device.
//
// Parameters:
//   - backendType: the device backend to use (e.g. gfx.BackendWGPU)
//   - win: the window to present to, or nil for headless rendering
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured Renderer
//   - error: an error if device initialization fails
func NewRenderer(backendType gfx.BackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	deviceOptions := make([]gfx.DeviceOption, 0, 4)
	if win != nil {
		deviceOptions = append(deviceOptions,
			gfx.WithSurfaceDescriptor(win.SurfaceDescriptor()),
			gfx.WithSize(uint16(win.Width()), uint16(win.Height())),
		)
	}
	if r.pendingVSync != nil {
		deviceOptions = append(deviceOptions, gfx.WithVSync(*r.pendingVSync))
	}
	if r.pendingMSAA != nil {
		deviceOptions = append(deviceOptions, gfx.WithMSAASamples(uint32(*r.pendingMSAA)))
	}
	if r.forceFallbackAdapter {
		deviceOptions = append(deviceOptions, gfx.WithForceSoftwareAdapter(true))
	}

	device, err := gfx.NewDevice(backendType, deviceOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create render device: %w", err)
	}
	r.device = device

	return r, nil
}

func (r *renderer) Device() gfx.Device {
	return r.device
}

func (r *renderer) BeginFrame() error {
	return r.device.BeginFrame()
}

func (r *renderer) Draw(vb buffer.VertexBuffer, ib buffer.IndexBuffer, mat material.Material) error {
	if mat == nil || !mat.IsValid() {
		return nil
	}
	if vb == nil || !vb.IsValid() {
		return fmt.Errorf("vertex buffer is not populated")
	}
	if ib == nil || !ib.IsValid() {
		return fmt.Errorf("index buffer is not populated")
	}

	r.device.SetVertexBuffer(vb.Handle())
	r.device.SetIndexBuffer(ib.Handle())
	mat.Submit()
	return nil
}

func (r *renderer) EndFrame() {
	r.device.EndFrame()
}

func (r *renderer) Present() {
	r.device.Present()
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.device.Resize(uint16(width), uint16(height))
}

func (r *renderer) Release() {
	r.device.Release()
}

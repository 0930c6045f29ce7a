package gfx

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// deviceConfig collects construction-time settings shared by every backend.
type deviceConfig struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	width, height        uint16
	vsync                bool
	msaaSamples          uint32
	forceFallbackAdapter bool
}

func defaultDeviceConfig() deviceConfig {
	return deviceConfig{
		width:       1280,
		height:      720,
		vsync:       true,
		msaaSamples: 4,
	}
}

// DeviceOption is a functional option applied to a device during construction via NewDevice.
type DeviceOption func(*deviceConfig)

// WithSurfaceDescriptor supplies the platform surface the device presents
// to, typically obtained from window.Window.SurfaceDescriptor(). Without a
// surface the WGPU backend renders into an offscreen target (headless).
//
// Parameters:
//   - sd: the platform-specific surface descriptor
//
// Returns:
//   - DeviceOption: a function that applies the surface option to a device
func WithSurfaceDescriptor(sd *wgpu.SurfaceDescriptor) DeviceOption {
	return func(c *deviceConfig) {
		c.surfaceDescriptor = sd
	}
}

// WithSize sets the initial presentation target size in pixels.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - DeviceOption: a function that applies the size option to a device
func WithSize(width, height uint16) DeviceOption {
	return func(c *deviceConfig) {
		c.width = width
		c.height = height
	}
}

// WithVSync controls whether presentation waits for vertical blank. The
// default is true; false presents immediately and may tear.
//
// Parameters:
//   - enabled: true to synchronize presentation with the display
//
// Returns:
//   - DeviceOption: a function that applies the vsync option to a device
func WithVSync(enabled bool) DeviceOption {
	return func(c *deviceConfig) {
		c.vsync = enabled
	}
}

// WithMSAASamples sets the sample count for the multisampled frame target.
// WebGPU guarantees 1 (off) and 4; higher counts are adapter-dependent.
//
// Parameters:
//   - samples: 1 to disable MSAA, or a supported power-of-two count
//
// Returns:
//   - DeviceOption: a function that applies the MSAA option to a device
func WithMSAASamples(samples uint32) DeviceOption {
	return func(c *deviceConfig) {
		if samples == 0 {
			samples = 1
		}
		c.msaaSamples = samples
	}
}

// WithForceSoftwareAdapter forces the WGPU backend onto a CPU/software
// fallback adapter instead of hardware acceleration. Requires a software
// Vulkan ICD on the system (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - DeviceOption: a function that applies the adapter option to a device
func WithForceSoftwareAdapter(force bool) DeviceOption {
	return func(c *deviceConfig) {
		c.forceFallbackAdapter = force
	}
}

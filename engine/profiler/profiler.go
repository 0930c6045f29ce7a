// Package profiler tracks frame rate, memory and device statistics for
// performance monitoring. Outputs stats to the log at a configurable
// interval.
package profiler

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
)

// Profiler accumulates per-frame timing and emits one statistics line per
// interval: FPS, heap usage, allocation rate, GC pause times and, when a
// device is attached, draw counts and alive resource totals.
type Profiler struct {
	enabled        bool
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	device         gfx.Device

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings: enabled, with a
// 1 second log interval and no device attached.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		enabled:        true,
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetEnabled toggles logging. A disabled profiler's Tick is free and never
// logs.
//
// Parameters:
//   - enabled: true to log statistics
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled = enabled
}

// Enabled reports whether the profiler logs statistics.
//
// Returns:
//   - bool: the enabled flag
func (p *Profiler) Enabled() bool {
	return p.enabled
}

// SetInterval sets the time between log lines. Non-positive durations are
// ignored.
//
// Parameters:
//   - d: the log interval
func (p *Profiler) SetInterval(d time.Duration) {
	if d > 0 {
		p.updateInterval = d
	}
}

// SetDevice attaches a device whose frame statistics (draw calls, dropped
// submissions, alive resource counts) are appended to each log line.
//
// Parameters:
//   - device: the device to read statistics from, nil to detach
func (p *Profiler) SetDevice(device gfx.Device) {
	p.device = device
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := time.Now()
	if !p.enabled {
		// Keep the window fresh so re-enabling does not average over the
		// disabled span.
		p.frameCount = 0
		p.lastTime = currentTime
		return false
	}

	p.frameCount++
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()
	lastPauseUs, maxPauseUs := p.gcPauses()

	line := fmt.Sprintf("FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs)",
		fps, allocMB, allocRateMB, p.memStats.NumGC, lastPauseUs, maxPauseUs)
	if p.device != nil {
		s := p.device.Stats()
		line += fmt.Sprintf(" | Draws: %d (dropped: %d) | Alive: %d ib, %d vb, %d tex, %d fb, %d prog",
			s.DrawCalls, s.DroppedSubmits,
			s.IndexBuffers, s.VertexBuffers, s.Textures, s.FrameBuffers, s.Programs)
	}
	log.Printf("[Profiler] %s", line)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// gcPauses reads the most recent and the largest GC pause since the last log
// line out of the runtime's circular pause buffer.
func (p *Profiler) gcPauses() (lastUs, maxUs uint64) {
	gcCount := p.memStats.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	// PauseNs is a circular buffer of the last 256 GC pauses.
	lastUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		pause := p.memStats.PauseNs[i%256] / 1000
		if pause > maxUs {
			maxUs = pause
		}
	}
	return lastUs, maxUs
}

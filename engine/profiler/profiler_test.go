package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/prism-go/engine/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickLogsAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Millisecond)

	assert.False(t, p.Tick(), "first tick lands inside the interval")
	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.False(t, p.Tick(), "the window resets after logging")
}

func TestTickDisabled(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Millisecond)
	p.SetEnabled(false)
	require.False(t, p.Enabled())

	time.Sleep(5 * time.Millisecond)
	assert.False(t, p.Tick())
}

func TestTickWithDeviceStats(t *testing.T) {
	dev, err := gfx.NewDevice(gfx.BackendNull)
	require.NoError(t, err)
	t.Cleanup(dev.Release)

	p := NewProfiler()
	p.SetInterval(time.Millisecond)
	p.SetDevice(dev)

	p.Tick()
	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.Tick(), "device stats readout must not disturb the interval logic")
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(-time.Second)
	p.SetInterval(0)

	p.Tick()
	time.Sleep(2 * time.Millisecond)
	assert.False(t, p.Tick(), "the default 1 second interval must still be in effect")
}

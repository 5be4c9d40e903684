package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luki/thermwatch/internal/clock"
)

func TestCPUUsage(t *testing.T) {
	before := []cpu.TimesStat{
		{CPU: "cpu0", User: 100, System: 50, Idle: 850},
		{CPU: "cpu1", User: 10, Idle: 990},
		{CPU: "cpu2", User: 5, Idle: 5},
	}
	after := []cpu.TimesStat{
		{CPU: "cpu0", User: 110, System: 50, Idle: 940},
		{CPU: "cpu1", User: 100, Idle: 1000},
		{CPU: "cpu2", User: 5, Idle: 5},
	}

	usage := CPUUsage(before, after)
	require.Len(t, usage, 3)
	assert.InDelta(t, 10.0, usage[0], 1e-9)
	assert.InDelta(t, 90.0, usage[1], 1e-9)
	assert.Equal(t, 0.0, usage[2])
}

func TestCPUUsageIowaitIsIdle(t *testing.T) {
	before := []cpu.TimesStat{{Idle: 0}}
	after := []cpu.TimesStat{{User: 25, Iowait: 25, Idle: 50}}

	assert.InDelta(t, 25.0, CPUUsage(before, after)[0], 1e-9)
}

func TestCPUUsageLengthMismatch(t *testing.T) {
	usage := CPUUsage(make([]cpu.TimesStat, 4), make([]cpu.TimesStat, 2))
	assert.Len(t, usage, 2)
}

func TestNetworkDeltas(t *testing.T) {
	before := []psnet.IOCountersStat{
		{Name: "eth0", BytesRecv: 1000, BytesSent: 500},
		{Name: "wlan0", BytesRecv: 9000, BytesSent: 9000},
	}
	after := []psnet.IOCountersStat{
		{Name: "wlan0", BytesRecv: 100, BytesSent: 9100},
		{Name: "eth0", BytesRecv: 3048, BytesSent: 500},
		{Name: "docker0", BytesRecv: 42, BytesSent: 7},
	}

	nets := NetworkDeltas(before, after)
	require.Len(t, nets, 3)

	assert.Equal(t, Network{Name: "wlan0", Received: 0, Transmitted: 100, TotalReceived: 100, TotalTransmitted: 9100}, nets[0])
	assert.Equal(t, Network{Name: "eth0", Received: 2048, Transmitted: 0, TotalReceived: 3048, TotalTransmitted: 500}, nets[1])
	assert.Equal(t, Network{Name: "docker0", TotalReceived: 42, TotalTransmitted: 7}, nets[2])
}

func TestDiskUsed(t *testing.T) {
	assert.Equal(t, uint64(600), Disk{Total: 1000, Available: 400}.Used())
	assert.Equal(t, uint64(0), Disk{Total: 10, Available: 20}.Used())
}

func TestSnapshotAccessors(t *testing.T) {
	s := Snapshot{CPUs: []CPU{{Brand: "Ryzen", Usage: 10}, {Brand: "Ryzen", Usage: 90}}}
	assert.Equal(t, "Ryzen", s.Brand())
	assert.Equal(t, []float64{10, 90}, s.Usage())

	assert.Equal(t, "", Snapshot{}.Brand())
	assert.Empty(t, Snapshot{}.Usage())
}

func TestClosedSampler(t *testing.T) {
	sys := NewSystem(zap.NewNop(), &clock.Recorder{})
	p := &systemSampler{sys: sys}
	require.NoError(t, p.Close())

	_, err := p.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrSamplerClosed)
}

func settleSampler(elapsed time.Duration, clk *clock.Recorder) *systemSampler {
	opened := time.Date(2026, 2, 21, 14, 0, 0, 0, time.UTC)
	sys := NewSystem(zap.NewNop(), clk)
	sys.now = func() time.Time { return opened.Add(elapsed) }
	return &systemSampler{sys: sys, opened: opened}
}

func TestSettleWaitsRemainingInterval(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    []time.Duration
	}{
		{0, []time.Duration{MinimumCPUUpdateInterval}},
		{50 * time.Millisecond, []time.Duration{150 * time.Millisecond}},
		{199 * time.Millisecond, []time.Duration{time.Millisecond}},
		{MinimumCPUUpdateInterval, []time.Duration{}},
		{time.Second, []time.Duration{}},
	}
	for _, tt := range tests {
		clk := &clock.Recorder{}
		require.NoError(t, settleSampler(tt.elapsed, clk).settle(context.Background()))
		assert.Equal(t, tt.want, clk.Sleeps(), "elapsed %v", tt.elapsed)
	}
}

func TestSnapshotAbortsWhenWaitFails(t *testing.T) {
	interrupted := errors.New("interrupted")
	clk := &clock.Recorder{OnSleep: func(int, time.Duration) error { return interrupted }}

	_, err := settleSampler(20*time.Millisecond, clk).Snapshot(context.Background())
	assert.ErrorIs(t, err, interrupted)
	assert.Equal(t, []time.Duration{180 * time.Millisecond}, clk.Sleeps())
}

func TestSnapshotAbortsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := settleSampler(0, &clock.Recorder{}).Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

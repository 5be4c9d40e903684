package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/luki/thermwatch/internal/clock"
	"github.com/luki/thermwatch/internal/sensor"
)

// MinimumCPUUpdateInterval is the shortest gap between two CPU time reads
// that still gives meaningful usage deltas.
const MinimumCPUUpdateInterval = 200 * time.Millisecond

// ErrSamplerClosed is returned by Snapshot after Close.
var ErrSamplerClosed = errors.New("sampler closed")

// SensorSource contributes extra temperature sensors the kernel does not
// expose, e.g. nvidia-smi.
type SensorSource func(ctx context.Context) []sensor.Sensor

// System is the gopsutil-backed Provider.
type System struct {
	log     *zap.Logger
	clock   clock.Clock
	now     func() time.Time
	sources []SensorSource
}

// NewSystem creates a provider reading from the local machine.
func NewSystem(log *zap.Logger, clk clock.Clock, sources ...SensorSource) *System {
	return &System{
		log:     log,
		clock:   clk,
		now:     time.Now,
		sources: sources,
	}
}

type systemSampler struct {
	sys    *System
	opened time.Time
	times  []cpu.TimesStat
	nets   []psnet.IOCountersStat
	closed bool
}

// Open takes the first CPU time and network counter reads.
func (s *System) Open(ctx context.Context) (Sampler, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read cpu times: %w", err)
	}
	nets, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		s.log.Debug("network counters unavailable", zap.Error(err))
	}
	return &systemSampler{
		sys:    s,
		opened: s.now(),
		times:  times,
		nets:   nets,
	}, nil
}

func (p *systemSampler) Close() error {
	p.closed = true
	p.times = nil
	p.nets = nil
	return nil
}

func (p *systemSampler) Snapshot(ctx context.Context) (Snapshot, error) {
	if p.closed {
		return Snapshot{}, ErrSamplerClosed
	}
	sys := p.sys
	if err := p.settle(ctx); err != nil {
		return Snapshot{}, err
	}

	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read cpu times: %w", err)
	}
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		sys.log.Debug("cpu info unavailable", zap.Error(err))
	}
	var brand string
	if len(infos) > 0 {
		brand = infos[0].ModelName
	}
	usage := CPUUsage(p.times, times)
	cpus := make([]CPU, len(usage))
	for i, u := range usage {
		cpus[i] = CPU{Brand: brand, Usage: u}
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read memory: %w", err)
	}
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read swap: %w", err)
	}

	nets, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		sys.log.Debug("network counters unavailable", zap.Error(err))
	}

	return Snapshot{
		Taken: sys.now(),
		CPUs:  cpus,
		Memory: Memory{
			Total:     vm.Total,
			Used:      vm.Used,
			Free:      vm.Free,
			Available: vm.Available,
		},
		Swap: Swap{
			Total: sw.Total,
			Used:  sw.Used,
			Free:  sw.Free,
		},
		Sensors:  sys.sensors(ctx),
		Disks:    sys.disks(ctx),
		Networks: NetworkDeltas(p.nets, nets),
	}, nil
}

// settle blocks until MinimumCPUUpdateInterval has passed since Open.
func (p *systemSampler) settle(ctx context.Context) error {
	wait := MinimumCPUUpdateInterval - p.sys.now().Sub(p.opened)
	if wait <= 0 {
		return nil
	}
	return p.sys.clock.Sleep(ctx, wait)
}

func (s *System) sensors(ctx context.Context) []sensor.Sensor {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		// gopsutil reports unreadable hwmon entries as warnings next to
		// the readings it did get.
		s.log.Debug("partial temperature read", zap.Error(err))
	}
	out := make([]sensor.Sensor, 0, len(temps))
	for _, t := range temps {
		out = append(out, sensor.Sensor{Label: t.SensorKey, Temp: t.Temperature})
	}
	for _, src := range s.sources {
		out = append(out, src(ctx)...)
	}
	return out
}

func (s *System) disks(ctx context.Context) []Disk {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		s.log.Debug("partition list incomplete", zap.Error(err))
	}
	out := make([]Disk, 0, len(parts))
	for _, p := range parts {
		u, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			s.log.Debug("disk usage unavailable", zap.String("mountpoint", p.Mountpoint), zap.Error(err))
			continue
		}
		out = append(out, Disk{Name: p.Device, Total: u.Total, Available: u.Free})
	}
	return out
}

// CPUUsage computes per-CPU busy percentage between two per-CPU time reads.
// CPUs are matched by position; extra entries on either side are dropped.
func CPUUsage(before, after []cpu.TimesStat) []float64 {
	n := min(len(before), len(after))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		b0, t0 := busyTotal(before[i])
		b1, t1 := busyTotal(after[i])
		dt := t1 - t0
		if dt <= 0 {
			continue
		}
		pct := (b1 - b0) / dt * 100
		out[i] = max(0, min(100, pct))
	}
	return out
}

func busyTotal(t cpu.TimesStat) (busy, total float64) {
	total = t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	return total - t.Idle - t.Iowait, total
}

// NetworkDeltas pairs two per-interface counter reads by name. Interfaces
// missing from before, or whose counters went backwards, report a zero
// interval delta.
func NetworkDeltas(before, after []psnet.IOCountersStat) []Network {
	prev := make(map[string]psnet.IOCountersStat, len(before))
	for _, c := range before {
		prev[c.Name] = c
	}
	out := make([]Network, 0, len(after))
	for _, c := range after {
		n := Network{
			Name:             c.Name,
			TotalReceived:    c.BytesRecv,
			TotalTransmitted: c.BytesSent,
		}
		if p, ok := prev[c.Name]; ok {
			n.Received = delta(p.BytesRecv, c.BytesRecv)
			n.Transmitted = delta(p.BytesSent, c.BytesSent)
		}
		out = append(out, n)
	}
	return out
}

func delta(a, b uint64) uint64 {
	if b < a {
		return 0
	}
	return b - a
}

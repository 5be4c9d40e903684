// Package metrics is the boundary to the operating system: it samples CPU,
// memory, swap, temperature sensors, disks and network interfaces into one
// consistent Snapshot per cycle.
package metrics

import (
	"context"
	"time"

	"github.com/luki/thermwatch/internal/sensor"
)

// CPU is one logical processor.
type CPU struct {
	Brand string
	Usage float64 // percent over the sampling interval
}

// Memory counters in bytes.
type Memory struct {
	Total     uint64
	Used      uint64
	Free      uint64
	Available uint64
}

// Swap counters in bytes.
type Swap struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// Disk is one mounted partition.
type Disk struct {
	Name      string
	Total     uint64
	Available uint64
}

// Used returns Total - Available, or 0 if the provider reports more
// available space than total.
func (d Disk) Used() uint64 {
	if d.Available > d.Total {
		return 0
	}
	return d.Total - d.Available
}

// Network is one interface. Received/Transmitted cover the sampling
// interval; the Total fields are cumulative.
type Network struct {
	Name             string
	Received         uint64
	Transmitted      uint64
	TotalReceived    uint64
	TotalTransmitted uint64
}

// Snapshot is a point-in-time read of every counter, taken by one Sampler.
type Snapshot struct {
	Taken    time.Time
	CPUs     []CPU
	Memory   Memory
	Swap     Swap
	Sensors  []sensor.Sensor
	Disks    []Disk
	Networks []Network
}

// Brand returns the brand string of the first enumerated CPU.
func (s Snapshot) Brand() string {
	if len(s.CPUs) == 0 {
		return ""
	}
	return s.CPUs[0].Brand
}

// Usage returns per-CPU usage in the provider's native CPU order.
func (s Snapshot) Usage() []float64 {
	out := make([]float64, len(s.CPUs))
	for i, c := range s.CPUs {
		out[i] = c.Usage
	}
	return out
}

// Provider hands out short-lived samplers, one per cycle.
type Provider interface {
	Open(ctx context.Context) (Sampler, error)
}

// Sampler is a per-cycle handle. Snapshot blocks until the CPU sampling
// interval since Open has elapsed.
type Sampler interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Close() error
}

// Package threshold classifies temperature readings against the fixed
// overheat ceiling.
package threshold

import "github.com/luki/thermwatch/internal/sensor"

// Ceiling is the highest temperature in Celsius that still counts as normal.
const Ceiling = 70.0

// Status is the classification of one reading.
type Status int

const (
	Normal Status = iota
	Overheat
)

func (s Status) String() string {
	if s == Overheat {
		return "overheat"
	}
	return "normal"
}

// Of classifies a temperature. Only values strictly above Ceiling overheat.
func Of(temp float64) Status {
	if temp > Ceiling {
		return Overheat
	}
	return Normal
}

// CoreStatus is a paired core reading with its status.
type CoreStatus struct {
	sensor.CoreReading
	Status Status
}

// GPUStatus is a GPU reading with its status.
type GPUStatus struct {
	sensor.Reading
	Status Status
}

// Evaluation is the per-cycle result. AnyOverheat has no memory of
// earlier cycles.
type Evaluation struct {
	Cores       []CoreStatus
	GPUs        []GPUStatus
	AnyOverheat bool
}

// Evaluate classifies every reading in both groups, keeping their order.
func Evaluate(cores []sensor.CoreReading, gpus []sensor.Reading) Evaluation {
	ev := Evaluation{
		Cores: make([]CoreStatus, 0, len(cores)),
		GPUs:  make([]GPUStatus, 0, len(gpus)),
	}
	for _, c := range cores {
		st := Of(c.Temp)
		ev.AnyOverheat = ev.AnyOverheat || st == Overheat
		ev.Cores = append(ev.Cores, CoreStatus{CoreReading: c, Status: st})
	}
	for _, g := range gpus {
		st := Of(g.Temp)
		ev.AnyOverheat = ev.AnyOverheat || st == Overheat
		ev.GPUs = append(ev.GPUs, GPUStatus{Reading: g, Status: st})
	}
	return ev
}

// Overheated returns the labels of every overheated reading, cores first.
func (ev Evaluation) Overheated() []string {
	var out []string
	for _, c := range ev.Cores {
		if c.Status == Overheat {
			out = append(out, c.Label)
		}
	}
	for _, g := range ev.GPUs {
		if g.Status == Overheat {
			out = append(out, g.Label)
		}
	}
	return out
}

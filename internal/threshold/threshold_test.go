package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/thermwatch/internal/sensor"
)

func TestOf(t *testing.T) {
	tests := []struct {
		temp float64
		want Status
	}{
		{-10, Normal},
		{0, Normal},
		{69.9, Normal},
		{70.0, Normal},
		{70.0001, Overheat},
		{95, Overheat},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Of(tt.temp), "Of(%v)", tt.temp)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "overheat", Overheat.String())
}

func core(label string, temp, usage float64) sensor.CoreReading {
	return sensor.CoreReading{Reading: sensor.Reading{Label: label, Index: sensor.Ordinal(label), Temp: temp}, Usage: usage}
}

func TestEvaluateNoOverheat(t *testing.T) {
	ev := Evaluate(
		[]sensor.CoreReading{core("coretemp-Core 0", 65, 10), core("coretemp-Core 1", 70, 90)},
		[]sensor.Reading{{Label: "amdgpu-0", Temp: 55}},
	)

	assert.False(t, ev.AnyOverheat)
	require.Len(t, ev.Cores, 2)
	require.Len(t, ev.GPUs, 1)
	assert.Equal(t, Normal, ev.Cores[1].Status)
	assert.Empty(t, ev.Overheated())
}

func TestEvaluateCoreOverheat(t *testing.T) {
	ev := Evaluate(
		[]sensor.CoreReading{core("coretemp-Core 0", 65, 10), core("coretemp-Core 1", 75, 90)},
		nil,
	)

	assert.True(t, ev.AnyOverheat)
	assert.Equal(t, Normal, ev.Cores[0].Status)
	assert.Equal(t, Overheat, ev.Cores[1].Status)
	assert.Equal(t, 90.0, ev.Cores[1].Usage)
	assert.Equal(t, []string{"coretemp-Core 1"}, ev.Overheated())
}

func TestEvaluateGPUOverheatAlone(t *testing.T) {
	ev := Evaluate(nil, []sensor.Reading{{Label: "amdgpu-0", Temp: 40}, {Label: "amdgpu-1", Index: 1, Temp: 88}})

	assert.True(t, ev.AnyOverheat)
	assert.Equal(t, Overheat, ev.GPUs[1].Status)
	assert.Equal(t, []string{"amdgpu-1"}, ev.Overheated())
}

func TestEvaluateEmpty(t *testing.T) {
	ev := Evaluate(nil, nil)
	assert.False(t, ev.AnyOverheat)
	assert.Empty(t, ev.Cores)
	assert.Empty(t, ev.GPUs)
}

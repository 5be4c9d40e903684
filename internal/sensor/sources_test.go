package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNvidiaOutput = `0, NVIDIA GeForce RTX 3080, 64
1, NVIDIA GeForce RTX 3080, 73
garbage line
2, NVIDIA A100, n/a
`

func TestParseNvidiaCSV(t *testing.T) {
	sensors := ParseNvidiaCSV(testNvidiaOutput)
	require.Len(t, sensors, 2)

	assert.Equal(t, Sensor{Label: "nvidia-gpu-0 NVIDIA GeForce RTX 3080", Temp: 64}, sensors[0])
	assert.Equal(t, Sensor{Label: "nvidia-gpu-1 NVIDIA GeForce RTX 3080", Temp: 73}, sensors[1])

	// Both rows land in the GPU group with their device index.
	c := Classify(sensors)
	require.Len(t, c.GPUs, 2)
	assert.Equal(t, 1, c.GPUs[1].Index)
	assert.Empty(t, c.Cores)
}

func TestParseNvidiaCSVEmpty(t *testing.T) {
	assert.Empty(t, ParseNvidiaCSV(""))
}

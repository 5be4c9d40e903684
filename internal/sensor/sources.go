package sensor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ReadNvidiaGPU reads GPU temperatures via nvidia-smi. NVIDIA's proprietary
// driver does not expose a hwmon node, so these never show up in the
// kernel sensor list. Returns nil if nvidia-smi is missing or fails.
func ReadNvidiaGPU(ctx context.Context) []Sensor {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil || path == "" {
		return nil
	}

	out, err := exec.CommandContext(ctx, path,
		"--query-gpu=index,name,temperature.gpu",
		"--format=csv,noheader,nounits",
	).Output()
	if err != nil {
		return nil
	}
	return ParseNvidiaCSV(string(out))
}

// ParseNvidiaCSV parses "index, name, temperature" rows. Each row becomes a
// sensor labelled "nvidia-gpu-<index> <name>".
func ParseNvidiaCSV(output string) []Sensor {
	var sensors []Sensor
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		parts := strings.SplitN(line, ", ", 3)
		if len(parts) < 3 {
			continue
		}

		idx := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		temp, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}

		sensors = append(sensors, Sensor{
			Label: fmt.Sprintf("nvidia-gpu-%s %s", idx, name),
			Temp:  temp,
		})
	}
	return sensors
}

// Package sensor selects, orders and pairs the temperature sensors that
// matter for the report: on-die CPU core sensors and GPU sensors.
package sensor

// Sensor is one labeled temperature sensor as enumerated by the provider.
type Sensor struct {
	Label string  // e.g. "coretemp_core0", "amdgpu_edge"
	Temp  float64 // current temperature in Celsius
}

// Reading is a sensor that was selected into a group.
type Reading struct {
	Label string
	Index int // ordinal parsed from Label, 0 when absent
	Temp  float64
}

// CoreReading is a core-group reading paired with the usage of the CPU at
// the same position.
type CoreReading struct {
	Reading
	Usage float64 // percent
}

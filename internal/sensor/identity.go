package sensor

import "strings"

// componentNames maps sensor label prefixes to friendly component names.
var componentNames = []struct {
	prefix string
	name   string
}{
	{"coretemp", "CPU"},
	{"k10temp", "CPU"},
	{"zenpower", "CPU"},
	{"amdgpu", "GPU (AMD)"},
	{"radeon", "GPU (AMD)"},
	{"nouveau", "GPU (NVIDIA)"},
	{"nvidia", "GPU (NVIDIA)"},
	{"i915", "GPU (Intel)"},
	{"nvme", "NVMe SSD"},
	{"drivetemp", "HDD/SSD"},
	{"iwlwifi", "WiFi"},
	{"pch", "PCH (Chipset)"},
	{"acpi", "ACPI Thermal"},
	{"nct", "Motherboard"},
	{"it87", "Motherboard"},
	{"thinkpad", "Laptop EC"},
}

// FriendlyName returns a human-readable component name for a sensor label.
func FriendlyName(label string) string {
	lower := strings.ToLower(label)
	for _, entry := range componentNames {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.name
		}
	}
	return "Sensor"
}

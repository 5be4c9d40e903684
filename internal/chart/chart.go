// Package chart renders single-reading gauges for the live monitor: a
// colour-coded temperature value and a scale bar marking the overheat
// ceiling.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermwatch/internal/threshold"
)

// warmFraction of the ceiling is where readings turn from green to yellow.
const warmFraction = 0.85

// TempColor returns the colour for a temperature relative to the ceiling.
func TempColor(v float64) lipgloss.Color {
	switch {
	case threshold.Of(v) == threshold.Overheat:
		return lipgloss.Color("196") // red
	case v >= threshold.Ceiling*warmFraction:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderTempValue renders the temperature value with colour coding.
func RenderTempValue(temp float64) string {
	s := fmt.Sprintf("%5.1f°C", temp)
	style := lipgloss.NewStyle().Foreground(TempColor(temp))
	if threshold.Of(temp) == threshold.Overheat {
		style = style.Bold(true)
	}
	return style.Render(s)
}

// ScalePosition maps v onto a bar of width cells spanning
// [rangeMin, rangeMax], clamped to the ends.
func ScalePosition(v, rangeMin, rangeMax float64, width int) int {
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}
	pos := int(float64(width-1) * (v - rangeMin) / span)
	if pos < 0 {
		return 0
	}
	if pos >= width {
		return width - 1
	}
	return pos
}

// RenderScale renders a bar with the current temperature as a diamond and
// the ceiling as a red tick.
func RenderScale(current, rangeMin, rangeMax float64, width int) string {
	if width <= 0 {
		return ""
	}

	ceilPos := -1
	if threshold.Ceiling > rangeMin && threshold.Ceiling <= rangeMax {
		ceilPos = ScalePosition(threshold.Ceiling, rangeMin, rangeMax, width)
	}
	curPos := ScalePosition(current, rangeMin, rangeMax, width)

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	tick := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	marker := lipgloss.NewStyle().Foreground(TempColor(current)).Bold(true)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch i {
		case curPos:
			sb.WriteString(marker.Render("◆"))
		case ceilPos:
			sb.WriteString(tick.Render("▪"))
		default:
			sb.WriteString(dot.Render("·"))
		}
	}
	return sb.String()
}

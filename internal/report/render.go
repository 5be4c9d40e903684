// Package report turns a snapshot and its evaluation into the text block
// printed every cycle.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/luki/thermwatch/internal/metrics"
	"github.com/luki/thermwatch/internal/threshold"
)

// Renderer formats report lines. Overheat lines are wrapped in red-on and
// reset escapes regardless of whether the output is a terminal.
type Renderer struct {
	overheat lipgloss.Style
}

// New returns a Renderer pinned to the basic ANSI colour profile.
func New() *Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return &Renderer{
		overheat: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// Lines renders one cycle. The same inputs always give the same output.
func (r *Renderer) Lines(snap metrics.Snapshot, ev threshold.Evaluation) []string {
	lines := make([]string, 0, 1+len(ev.Cores)+len(ev.GPUs))

	lines = append(lines, "CPU: "+snap.Brand())

	for i, c := range ev.Cores {
		line := fmt.Sprintf("Core %d: %.0f%% %.1fºC", i, c.Usage, c.Temp)
		lines = append(lines, r.mark(line, c.Status))
	}
	for i, g := range ev.GPUs {
		line := fmt.Sprintf("%s %d: %.1fºC", g.Label, i, g.Temp)
		lines = append(lines, r.mark(line, g.Status))
	}

	return append(lines, ResourceLines(snap)...)
}

// ResourceLines renders the memory, swap, disk and network lines.
// Interfaces are sorted by name; snap is not modified.
func ResourceLines(snap metrics.Snapshot) []string {
	lines := make([]string, 0, 2+len(snap.Disks)+len(snap.Networks))

	m := snap.Memory
	lines = append(lines, fmt.Sprintf("RAM: Total:%s Used:%s Free:%s Available:%s",
		FormatBytes(m.Total), FormatBytes(m.Used), FormatBytes(m.Free), FormatBytes(m.Available)))

	s := snap.Swap
	lines = append(lines, fmt.Sprintf("SWAP: Total:%s Used:%s Free:%s",
		FormatBytes(s.Total), FormatBytes(s.Used), FormatBytes(s.Free)))

	for _, d := range snap.Disks {
		lines = append(lines, fmt.Sprintf("[%q] Total: %s Used:%s Free:%s",
			d.Name, FormatBytes(d.Total), FormatBytes(d.Used()), FormatBytes(d.Available)))
	}

	nets := slices.Clone(snap.Networks)
	slices.SortStableFunc(nets, func(a, b metrics.Network) int { return cmp.Compare(a.Name, b.Name) })
	for _, n := range nets {
		lines = append(lines, fmt.Sprintf("%s: Received:%s Transmitted:%s Total Received: %s Total Transmitted: %s",
			n.Name, FormatBytes(n.Received), FormatBytes(n.Transmitted),
			FormatBytes(n.TotalReceived), FormatBytes(n.TotalTransmitted)))
	}

	return lines
}

// Render writes Lines to w, one per row.
func (r *Renderer) Render(w io.Writer, snap metrics.Snapshot, ev threshold.Evaluation) error {
	for _, l := range r.Lines(snap, ev) {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func (r *Renderer) mark(line string, st threshold.Status) string {
	if st != threshold.Overheat {
		return line
	}
	return r.overheat.Render(line + " OVERHEAT")
}

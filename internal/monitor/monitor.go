// Package monitor implements the live telemetry TUI using BubbleTea. It
// runs the same sampling cycle as the plain report, one cycle at a time.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/luki/thermwatch/internal/alert"
	"github.com/luki/thermwatch/internal/chart"
	"github.com/luki/thermwatch/internal/cycle"
	"github.com/luki/thermwatch/internal/report"
	"github.com/luki/thermwatch/internal/sensor"
	"github.com/luki/thermwatch/internal/threshold"
)

const (
	scaleMin = 20.0
	scaleMax = 110.0
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type cycleMsg struct {
	result cycle.Result
	time   time.Time
}

type alertDoneMsg struct{ err error }

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live monitor.
type Model struct {
	ctx       context.Context
	runner    *cycle.Runner
	result    cycle.Result
	sampled   bool
	alerting  bool
	err       error
	fatal     error
	width     int
	height    int
	scroll    int
	lastPoll  time.Time
	startTime time.Time
	paused    bool
}

// New creates the initial model. Sampling goes through runner; alerts ring
// bare bells on the bells sink, since the alt screen owns the cursor and
// the title bar carries the announcement.
func New(ctx context.Context, runner *cycle.Runner, bells io.Writer) Model {
	r := *runner
	r.Alerter = alert.NewEmitter(bells, r.Clock, alert.BellOnly())
	return Model{
		ctx:       ctx,
		runner:    &r,
		startTime: time.Now(),
	}
}

// Run starts the TUI and blocks until the user quits or sampling fails
// fatally.
func Run(ctx context.Context, runner *cycle.Runner, bells io.Writer) error {
	p := tea.NewProgram(New(ctx, runner, bells), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}

// Err returns the error that stopped the monitor, if any.
func (m Model) Err() error { return m.fatal }

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(cycle.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) sampleCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Sample(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return cycleMsg{result: res, time: time.Now()}
	}
}

func (m Model) alertCmd() tea.Cmd {
	return func() tea.Msg {
		return alertDoneMsg{m.runner.Alerter.Emit(m.ctx, alert.Pulses)}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.sampleCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, m.sampleCmd()

	case cycleMsg:
		m.result = msg.result
		m.sampled = true
		m.lastPoll = msg.time
		m.err = nil
		if msg.result.Evaluation.AnyOverheat {
			m.alerting = true
			return m, m.alertCmd()
		}
		return m, tickCmd()

	case alertDoneMsg:
		m.alerting = false
		if msg.err != nil {
			m.err = fmt.Errorf("alert: %w", msg.err)
		}
		return m, tickCmd()

	case errMsg:
		if errors.Is(msg.err, sensor.ErrEnumerationMismatch) {
			m.fatal = msg.err
			return m, tea.Quit
		}
		m.err = msg.err
		return m, tickCmd()
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorHeading  = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	if !m.sampled {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections,
			m.renderTempPanel(contentWidth),
			m.renderResourcePanel(contentWidth),
		)
	}

	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := min(m.scroll, maxScroll)

	end := scroll + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[scroll:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("THERMWATCH")

	var statusParts []string

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if !m.lastPoll.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(colorDim).
			Render(m.lastPoll.Format("15:04:05"))
		statusParts = append(statusParts, ts)
	}

	if m.alerting {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render(fmt.Sprintf("BEEP %dx", alert.Pulses)))
	}

	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Render("PAUSED"))
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderTempPanel(totalWidth int) string {
	ev := m.result.Evaluation

	labelW := 18
	usageW := 5
	tempW := 8
	scaleW := totalWidth - labelW - usageW - tempW - 20
	if scaleW < 10 {
		scaleW = 10
	}
	if scaleW > 80 {
		scaleW = 80
	}

	labelS := lipgloss.NewStyle().Foreground(colorLabel).Width(labelW)
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	overS := lipgloss.NewStyle().Foreground(colorCrit).Bold(true)

	row := func(label, usage string, temp float64, st threshold.Status) string {
		r := labelS.Render(truncate(label, labelW)) + " " +
			dimS.Width(usageW).Align(lipgloss.Right).Render(usage) + " " +
			lipgloss.NewStyle().Width(tempW).Align(lipgloss.Right).Render(chart.RenderTempValue(temp)) + " " +
			chart.RenderScale(temp, scaleMin, scaleMax, scaleW)
		if st == threshold.Overheat {
			r += overS.Render(" OVERHEAT")
		}
		return r
	}

	heading := lipgloss.NewStyle().Bold(true).Foreground(colorHeading)
	rows := []string{heading.Render("CPU") + "  " + dimS.Render(m.result.Snapshot.Brand())}
	for i, c := range ev.Cores {
		rows = append(rows, row(fmt.Sprintf("Core %d", i), fmt.Sprintf("%.0f%%", c.Usage), c.Temp, c.Status))
	}
	// GPU rows are headed by vendor; a new heading starts when it changes.
	last := ""
	for i, g := range ev.GPUs {
		name := sensor.FriendlyName(g.Label)
		if !strings.HasPrefix(name, "GPU") {
			name = "GPU"
		}
		if name != last {
			rows = append(rows, heading.Render(name))
			last = name
		}
		rows = append(rows, row(fmt.Sprintf("%s %d", g.Label, i), "", g.Temp, g.Status))
	}

	return panel(totalWidth, rows)
}

func (m Model) renderResourcePanel(totalWidth int) string {
	return panel(totalWidth, report.ResourceLines(m.result.Snapshot))
}

func panel(width int, rows []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := okS + dimS.Render(" ok ") +
		warnS + dimS.Render(" warm ") +
		critS + dimS.Render(fmt.Sprintf(" >%.0f°C", threshold.Ceiling))

	keys := dimS.Render("q") + lipgloss.NewStyle().Foreground(colorLabel).Render(":quit") +
		dimS.Render("  j/k") + lipgloss.NewStyle().Foreground(colorLabel).Render(":scroll") +
		dimS.Render("  p") + lipgloss.NewStyle().Foreground(colorLabel).Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}

// truncate cuts s to w terminal cells, ending in an ellipsis when cut.
func truncate(s string, w int) string {
	return ansi.Truncate(s, w, "…")
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

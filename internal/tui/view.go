package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Main View Rendering
// =============================================================================

// renderDashboard renders the single-page dashboard.
func (m Model) renderDashboard() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderWindow())
	sections = append(sections, m.renderProbeStats())

	if m.snapshot.Completed > 0 {
		sections = append(sections, m.renderLatencyStats())
	}

	if len(m.recent) > 0 {
		sections = append(sections, m.renderRecentProbes())
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// Header
// =============================================================================

func (m Model) renderHeader() string {
	header := fmt.Sprintf(
		" go-parasect │ range [%d, %d] │ slots: %d/%d │ elapsed: %s ",
		m.rng.Low,
		m.rng.High,
		len(m.running),
		m.parallelism,
		formatDuration(m.Elapsed()),
	)

	return headerStyle.Width(m.width).Render(header)
}

// =============================================================================
// Window Section
// =============================================================================

func (m Model) renderWindow() string {
	s := m.snapshot

	barWidth := m.width - 30
	if barWidth < 20 {
		barWidth = 20
	}
	progressBar := RenderProgressBar(s.Progress, barWidth)

	var bounds string
	if s.HaveWindow {
		left := s.Bad - s.Good - 1
		bounds = lipgloss.JoinHorizontal(lipgloss.Left,
			mutedStyle.Render("last pass "),
			valueGoodStyle.Render(fmt.Sprintf("%d", s.Good)),
			mutedStyle.Render("  first fail "),
			valueBadStyle.Render(fmt.Sprintf("%d", s.Bad)),
			mutedStyle.Render(fmt.Sprintf("  (%d candidates left)", left)),
		)
	} else {
		bounds = statusInfo.Render("narrowing...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		sectionHeaderStyle.Render("Search Window"),
		progressBar,
		bounds,
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Probe Statistics
// =============================================================================

func (m Model) renderProbeStats() string {
	s := m.snapshot

	rows := []string{
		renderStatRow("Completed", formatNumber(s.Completed), formatRate(s.Rate.Avg10s)),
		lipgloss.JoinHorizontal(lipgloss.Left,
			labelWideStyle.Render("Passed / Failed:"),
			valueGoodStyle.Render(formatNumber(s.Passes)),
			mutedStyle.Render(" / "),
			valueBadStyle.Render(formatNumber(s.Fails)),
		),
	}

	if s.Stale > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			labelWideStyle.Render("Stale results:"),
			valueWarnStyle.Render(formatNumber(s.Stale)),
		))
	}

	if probes := m.RunningProbes(); len(probes) > 0 {
		rows = append(rows, renderSlotTable(probes)...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{sectionHeaderStyle.Render("Probes")}, rows...)...,
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

// maxSlotRows caps the active-slot table; large -max-parallelism runs
// elide the rest.
const maxSlotRows = 8

// renderSlotTable renders one row per occupied slot: index, state and
// how long the probe has been running.
func renderSlotTable(probes []runningProbe) []string {
	rows := make([]string, 0, min(len(probes), maxSlotRows)+1)
	for i, p := range probes {
		if i == maxSlotRows {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  +%d more running", len(probes)-maxSlotRows)))
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			labelWideStyle.Render(fmt.Sprintf("  index %d", p.Index)),
			statusInfo.Render(p.State.String()),
			mutedStyle.Render("  "+formatElapsed(p.Elapsed)),
		))
	}
	return rows
}

func renderStatRow(label, value, rate string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelWideStyle.Render(label+":"),
		valueStyle.Width(12).Render(value),
		mutedStyle.Render(" ("),
		valueStyle.Render(rate),
		mutedStyle.Render(")"),
	)
}

// =============================================================================
// Latency Statistics
// =============================================================================

func (m Model) renderLatencyStats() string {
	s := m.snapshot

	rows := []string{
		renderLatencyRow("P50 (median)", formatMs(s.P50)),
		renderLatencyRow("P95", formatMs(s.P95)),
		renderLatencyRow("P99", formatMs(s.P99)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{sectionHeaderStyle.Render("Probe Latency")}, rows...)...,
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

func renderLatencyRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		labelStyle.Render(label+":"),
		valueStyle.Render(value),
	)
}

// =============================================================================
// Recent Probes
// =============================================================================

func (m Model) renderRecentProbes() string {
	rows := make([]string, 0, len(m.recent))

	// Newest first
	for i := len(m.recent) - 1; i >= 0; i-- {
		r := m.recent[i]
		row := lipgloss.JoinHorizontal(lipgloss.Left,
			labelStyle.Render(fmt.Sprintf("index %d", r.Index)),
			OutcomeLabel(r.Outcome.Passed()),
			mutedStyle.Render("  "+formatMs(r.Duration)),
		)
		if r.Stale {
			row = lipgloss.JoinHorizontal(lipgloss.Left, row, dimStyle.Render("  (stale)"))
		}
		rows = append(rows, row)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{sectionHeaderStyle.Render("Recent Probes")}, rows...)...,
	)

	return boxStyle.Width(m.width - 2).Render(content)
}

// =============================================================================
// Footer
// =============================================================================

func (m Model) renderFooter() string {
	parts := []string{"q quit", "r refresh"}
	if m.metricsAddr != "" {
		parts = append(parts, "metrics "+m.metricsAddr)
	}
	return footerStyle.Render(" " + strings.Join(parts, " │ "))
}

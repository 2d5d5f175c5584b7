package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/vnamon/internal/render"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("vnamon", styles.Logo)}

	maxFolder := 40
	if compact {
		maxFolder = 16
	}
	if m.folder == "" {
		parts = append(parts, bg.Render("no folder", styles.WarningText))
	} else {
		label := "Folder:"
		if compact {
			label = "F:"
		}
		parts = append(parts,
			bg.Render(label, styles.MutedText)+bg.Space()+
				bg.Render(truncateMiddle(m.folder, maxFolder), styles.Text))
	}

	snap := m.snapshot
	if !snap.LastAttempt.IsZero() {
		outcome := snap.LastOutcome.String()
		parts = append(parts, styles.OutcomeStyle(outcome).Render(outcome))
	}

	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText.Bold(true)))
	case snap.IsStale() && snap.HasTrend:
		parts = append(parts, bg.Render("STALE", styles.WarningText.Bold(true)))
	}

	if ts := formatSince(snap.LastSynced, time.Now()); ts != "" {
		label := "Synced:"
		if compact {
			label = "S:"
		}
		parts = append(parts, bg.Render(label, styles.MutedText)+bg.Space()+bg.Render(ts, styles.MutedText))
	}

	if !compact && snap.HasTrend {
		parts = append(parts,
			bg.Render("Samples:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", snap.Trend.Samples), styles.Text))
	}

	parts = append(parts,
		bg.Render("Smooth:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", snap.Smoothing), styles.InfoText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatSince formats t with a relative indicator.
func formatSince(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	since := now.Sub(t)
	s := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// renderTabs renders the chart tabs.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	tabs := make([]string, 0, len(render.Views))
	for i, v := range render.Views {
		label := fmt.Sprintf(" %d %s ", i+1, v.Name())
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	return bg.FillLine(bg.Join(tabs, " "), m.width)
}

// renderCommandBar renders the command hints bar followed by any notice.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd
	if m.showLogs {
		commands = []cmd{
			{"j/k", "Scroll"},
			{"l", "Charts"},
			{"?", "More"},
		}
	} else {
		commands = []cmd{
			{"1-3", "Chart"},
			{"f", "Folder"},
			{"r", "Ranges"},
			{"x", "Export"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	if m.notice != "" {
		style := styles.InfoText
		if m.noticeIsErr {
			style = styles.DangerText
		}
		segments = append(segments, bg.Render(truncate(m.notice, m.width/2), style))
	}

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	// Keep more of the end than the start
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/render"
)

// chartLayout is the frame and traces for one view.
type chartLayout struct {
	title  string
	frame  plotFrame
	series []plotSeries
}

// layoutChart builds the terminal plot for the current view. The bool is
// false when there is nothing to draw yet.
func (m Model) layoutChart(styles Styles) (chartLayout, bool) {
	snap := m.snapshot
	primary := plotSeries{mark: '•', style: styles.PrimarySeries}

	switch m.currentView {
	case render.FrequencyTrend:
		if !snap.HasTrend || len(snap.Trend.InflectionFrequency) == 0 {
			return chartLayout{}, false
		}
		primary.name = "Inflection frequency"
		primary.points = snap.Trend.InflectionFrequency
		primary.yRange = m.axes.Range(axis.InflectionFrequency)
		minS11 := axis.MinS11
		return chartLayout{
			title: m.currentView.Name(),
			frame: plotFrame{
				xRange:        m.axes.Range(axis.Time),
				xLabel:        "Time [min]",
				yLabel:        "Frequency [MHz]",
				secondary:     &minS11,
				secondaryName: "Min S11 [dB]",
			},
			series: []plotSeries{
				primary,
				{
					name:   "Min S11",
					points: snap.Trend.MinS11,
					yRange: axis.MinS11,
					mark:   '·',
					style:  styles.SecondarySeries,
				},
			},
		}, true

	case render.ImpedanceTrend:
		if !snap.HasTrend || len(snap.Trend.InflectionImpedance) == 0 {
			return chartLayout{}, false
		}
		primary.name = "Inflection impedance"
		primary.points = snap.Trend.InflectionImpedance
		primary.yRange = m.axes.Range(axis.InflectionImpedance)
		return chartLayout{
			title: m.currentView.Name(),
			frame: plotFrame{
				xRange: m.axes.Range(axis.Time),
				xLabel: "Time [min]",
				yLabel: "Impedance [ohm]",
			},
			series: []plotSeries{primary},
		}, true

	case render.LatestS11:
		if !snap.HasSpectrum || len(snap.Spectrum.S11) == 0 {
			return chartLayout{}, false
		}
		primary.name = "S11"
		primary.points = snap.Spectrum.S11
		primary.yRange = axis.S11
		return chartLayout{
			title: snap.Spectrum.Title(),
			frame: plotFrame{
				xRange: axis.SParamFrequency,
				xLabel: "Frequency [GHz]",
				yLabel: "S11 [dB]",
			},
			series: []plotSeries{primary},
		}, true
	}
	return chartLayout{}, false
}

// renderChart renders the active chart sized to the terminal.
func (m Model) renderChart() string {
	styles := m.theme.Styles()

	layout, ok := m.layoutChart(styles)
	if !ok {
		return m.renderWaiting(styles)
	}

	width := m.width - axisLabelWidth - 1
	if layout.frame.secondary != nil {
		width -= axisLabelWidth
	}
	height := m.height - chartChromeLines
	if width < minPlotWidth || height < minPlotHeight {
		return styles.WarningText.Render("Terminal too small to draw the chart")
	}
	layout.frame.width = width
	layout.frame.height = height

	title := styles.Text.Bold(true).Render(truncate(layout.title, m.width))
	return title + "\n" + renderPlot(layout.frame, styles, layout.series)
}

// renderWaiting explains why the chart area is empty.
func (m Model) renderWaiting(styles Styles) string {
	var lines []string
	switch {
	case m.folder == "":
		lines = append(lines, styles.WarningText.Render("No measurement folder selected"))
		lines = append(lines, styles.MutedText.Render("Press f to choose one"))
	case m.snapshot.LastError != nil:
		lines = append(lines, styles.MutedText.Render("Waiting for data from "+m.folder))
		lines = append(lines, styles.FaintText.Render(truncate(fmt.Sprintf("%v", m.snapshot.LastError), m.width)))
	default:
		lines = append(lines, styles.MutedText.Render("Waiting for data from "+m.folder))
	}

	height := m.height - 3
	if height < len(lines) {
		height = len(lines)
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/series"
)

// plotSeries is one trace on a terminal plot. Each trace has its own Y
// range; the X range is shared.
type plotSeries struct {
	name   string
	points []series.Point
	yRange axis.Range
	mark   rune
	style  lipgloss.Style
}

const emptyCell = -1

// rasterize maps every series onto a width x height grid. Cells hold the
// index of the last series drawn there or emptyCell. Points outside a
// range are clipped.
func rasterize(width, height int, xRange axis.Range, all []plotSeries) [][]int {
	grid := make([][]int, height)
	for r := range grid {
		grid[r] = make([]int, width)
		for c := range grid[r] {
			grid[r][c] = emptyCell
		}
	}
	if width <= 0 || height <= 0 || !xRange.Valid() {
		return grid
	}

	for i, s := range all {
		if !s.yRange.Valid() {
			continue
		}
		for _, p := range s.points {
			col, ok := scale(p.X, xRange, width)
			if !ok {
				continue
			}
			row, ok := scale(p.Y, s.yRange, height)
			if !ok {
				continue
			}
			grid[height-1-row][col] = i
		}
	}
	return grid
}

// scale maps v in r onto [0, cells).
func scale(v float64, r axis.Range, cells int) (int, bool) {
	if math.IsNaN(v) || v < r.Min || v > r.Max {
		return 0, false
	}
	pos := int(math.Round((v - r.Min) / (r.Max - r.Min) * float64(cells-1)))
	return pos, true
}

// plotFrame describes the axes drawn around a plot.
type plotFrame struct {
	width, height int
	xRange        axis.Range
	xLabel        string
	yLabel        string
	secondary     *axis.Range
	secondaryName string
}

// renderPlot draws the series inside labelled axes.
func renderPlot(frame plotFrame, styles Styles, all []plotSeries) string {
	grid := rasterize(frame.width, frame.height, frame.xRange, all)
	primary := axis.Range{}
	if len(all) > 0 {
		primary = all[0].yRange
	}

	var b strings.Builder
	for r, row := range grid {
		b.WriteString(styles.MutedText.Render(yTick(r, frame.height, primary)))
		b.WriteString(styles.FaintText.Render("│"))
		for _, cell := range row {
			if cell == emptyCell {
				b.WriteByte(' ')
				continue
			}
			s := all[cell]
			b.WriteString(s.style.Render(string(s.mark)))
		}
		if frame.secondary != nil {
			b.WriteString(styles.FaintText.Render("│"))
			b.WriteString(styles.MutedText.Render(strings.TrimSpace(yTick(r, frame.height, *frame.secondary))))
		}
		b.WriteString("\n")
	}

	pad := strings.Repeat(" ", axisLabelWidth-1)
	b.WriteString(pad)
	b.WriteString(styles.FaintText.Render("└" + strings.Repeat("─", frame.width)))
	b.WriteString("\n")

	lo := formatTick(frame.xRange.Min)
	hi := formatTick(frame.xRange.Max)
	gap := frame.width + 1 - len(lo) - len(hi) - len(frame.xLabel)
	if gap < 2 {
		gap = 2
	}
	left := gap / 2
	b.WriteString(pad)
	b.WriteString(styles.MutedText.Render(lo + strings.Repeat(" ", left) + frame.xLabel + strings.Repeat(" ", gap-left) + hi))
	b.WriteString("\n")

	legend := make([]string, 0, len(all)+1)
	if frame.yLabel != "" {
		legend = append(legend, styles.FaintText.Render("Y: "+frame.yLabel))
	}
	for _, s := range all {
		legend = append(legend, s.style.Render(string(s.mark))+" "+styles.Text.Render(s.name))
	}
	if frame.secondary != nil && frame.secondaryName != "" {
		legend = append(legend, styles.FaintText.Render("right: "+frame.secondaryName))
	}
	b.WriteString(pad)
	b.WriteString(strings.Join(legend, "   "))
	return b.String()
}

// yTick returns the label for grid row r: the range bounds on the first and
// last rows and the midpoint on the middle row.
func yTick(r, height int, yr axis.Range) string {
	var v float64
	switch {
	case r == 0:
		v = yr.Max
	case r == height-1:
		v = yr.Min
	case r == height/2:
		v = yr.Min + (yr.Max-yr.Min)/2
	default:
		return strings.Repeat(" ", axisLabelWidth-1)
	}
	return fmt.Sprintf("%*s", axisLabelWidth-1, formatTick(v))
}

func formatTick(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

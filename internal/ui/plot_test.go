package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/series"
)

func TestRasterizeCorners(t *testing.T) {
	xr := axis.Range{Min: 0, Max: 10}
	s := plotSeries{
		points: []series.Point{{X: 0, Y: 0}, {X: 10, Y: 100}},
		yRange: axis.Range{Min: 0, Max: 100},
	}

	grid := rasterize(5, 4, xr, []plotSeries{s})
	if got := grid[3][0]; got != 0 {
		t.Fatalf("bottom-left = %d, want 0", got)
	}
	if got := grid[0][4]; got != 0 {
		t.Fatalf("top-right = %d, want 0", got)
	}

	marked := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell != emptyCell {
				marked++
			}
		}
	}
	if marked != 2 {
		t.Fatalf("marked cells = %d, want 2", marked)
	}
}

func TestRasterizeClipsOutOfRange(t *testing.T) {
	xr := axis.Range{Min: 0, Max: 10}
	s := plotSeries{
		points: []series.Point{
			{X: -1, Y: 50},
			{X: 11, Y: 50},
			{X: 5, Y: 101},
			{X: 5, Y: math.NaN()},
		},
		yRange: axis.Range{Min: 0, Max: 100},
	}

	grid := rasterize(10, 5, xr, []plotSeries{s})
	for r, row := range grid {
		for c, cell := range row {
			if cell != emptyCell {
				t.Fatalf("cell (%d,%d) = %d, want empty", r, c, cell)
			}
		}
	}
}

func TestRasterizeLaterSeriesWins(t *testing.T) {
	xr := axis.Range{Min: 0, Max: 1}
	a := plotSeries{points: []series.Point{{X: 0, Y: 0}}, yRange: axis.Range{Min: 0, Max: 1}}
	b := plotSeries{points: []series.Point{{X: 0, Y: -40}}, yRange: axis.Range{Min: -40, Max: 0}}

	grid := rasterize(3, 3, xr, []plotSeries{a, b})
	if got := grid[2][0]; got != 1 {
		t.Fatalf("shared cell = %d, want 1", got)
	}
}

func TestRasterizeInvalidRange(t *testing.T) {
	s := plotSeries{points: []series.Point{{X: 1, Y: 1}}, yRange: axis.Range{Min: 0, Max: 2}}
	grid := rasterize(4, 2, axis.Range{Min: 5, Max: 5}, []plotSeries{s})
	if len(grid) != 2 || len(grid[0]) != 4 {
		t.Fatalf("grid size = %dx%d, want 2x4", len(grid), len(grid[0]))
	}
	for _, row := range grid {
		for _, cell := range row {
			if cell != emptyCell {
				t.Fatalf("expected empty grid for invalid x range")
			}
		}
	}
}

func TestRenderPlotLabels(t *testing.T) {
	styles := GetTheme(DefaultThemeName).Styles()
	minS11 := axis.MinS11
	frame := plotFrame{
		width:         30,
		height:        6,
		xRange:        axis.Range{Min: 0, Max: 30},
		xLabel:        "Time [min]",
		yLabel:        "Frequency [MHz]",
		secondary:     &minS11,
		secondaryName: "Min S11 [dB]",
	}
	all := []plotSeries{
		{name: "Inflection frequency", points: []series.Point{{X: 1, Y: 1200}}, yRange: axis.Range{Min: 1000, Max: 1500}, mark: '•', style: styles.PrimarySeries},
		{name: "Min S11", points: []series.Point{{X: 1, Y: -20}}, yRange: minS11, mark: '·', style: styles.SecondarySeries},
	}

	out := renderPlot(frame, styles, all)
	for _, want := range []string{"1500", "1000", "1250", "-40", "Time [min]", "30", "Inflection frequency", "Min S11 [dB]", "•", "·"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plot missing %q:\n%s", want, out)
		}
	}

	// rows + axis + x labels + legend
	if got := strings.Count(out, "\n"); got != frame.height+2 {
		t.Fatalf("line breaks = %d, want %d", got, frame.height+2)
	}
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		0.85:    "0.85",
		1250:    "1250",
		-40:     "-40",
		1234567: "1.23457e+06",
	}
	for in, want := range cases {
		if got := formatTick(in); got != want {
			t.Fatalf("formatTick(%v) = %q, want %q", in, got, want)
		}
	}
}

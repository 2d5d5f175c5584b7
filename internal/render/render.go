package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/cache"
	"github.com/five82/vnamon/internal/series"
)

// ErrNoData is returned when a chart has no points to plot.
var ErrNoData = errors.New("no data to plot")

// View identifies one of the three charts.
type View int

const (
	FrequencyTrend View = iota
	ImpedanceTrend
	LatestS11
)

// Views lists the charts in tab order.
var Views = []View{FrequencyTrend, ImpedanceTrend, LatestS11}

// Name returns the tab label for the view.
func (v View) Name() string {
	switch v {
	case FrequencyTrend:
		return "Inflection Frequency vs Time"
	case ImpedanceTrend:
		return "Inflection Impedance vs Time"
	case LatestS11:
		return "Latest S11"
	default:
		return "unknown"
	}
}

// FileName returns the PNG file name used when exporting the view.
func (v View) FileName() string {
	switch v {
	case FrequencyTrend:
		return "inflection_frequency.png"
	case ImpedanceTrend:
		return "inflection_impedance.png"
	case LatestS11:
		return "latest_s11.png"
	default:
		return "chart.png"
	}
}

// Default export size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 600
)

// Data is everything needed to draw the charts.
type Data struct {
	Trend    series.Trend
	Spectrum *series.Spectrum
	Ranges   axis.Ranges
}

// Size is the output image size. Zero values use the defaults.
type Size struct {
	Width  int
	Height int
}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Chart builds the go-chart definition for view.
func Chart(view View, data Data, size Size) (chart.Chart, error) {
	size = size.orDefault()

	var ch chart.Chart
	switch view {
	case FrequencyTrend:
		if len(data.Trend.InflectionFrequency) == 0 && len(data.Trend.MinS11) == 0 {
			return chart.Chart{}, ErrNoData
		}
		var all []chart.Series
		if len(data.Trend.InflectionFrequency) > 0 {
			all = append(all, continuous("Inflection Frequency", data.Trend.InflectionFrequency, lineStyle(chart.ColorBlue), chart.YAxisPrimary))
		}
		if len(data.Trend.MinS11) > 0 {
			all = append(all, continuous("Min S11", data.Trend.MinS11, lineStyle(chart.ColorRed), chart.YAxisSecondary))
		}
		ch = chart.Chart{
			Title:          view.Name(),
			XAxis:          chart.XAxis{Name: "Time [min]", Range: continuousRange(data.Ranges.Time)},
			YAxis:          chart.YAxis{Name: "Inflection Frequency [MHz]", Range: continuousRange(data.Ranges.InflectionFrequency)},
			YAxisSecondary: chart.YAxis{Name: "Min S11 [dB]", Range: continuousRange(axis.MinS11)},
			Series:         all,
		}
	case ImpedanceTrend:
		if len(data.Trend.InflectionImpedance) == 0 {
			return chart.Chart{}, ErrNoData
		}
		ch = chart.Chart{
			Title:  view.Name(),
			XAxis:  chart.XAxis{Name: "Time [min]", Range: continuousRange(data.Ranges.Time)},
			YAxis:  chart.YAxis{Name: "Inflection Impedance [ohm]", Range: continuousRange(data.Ranges.InflectionImpedance)},
			Series: []chart.Series{continuous("Inflection Impedance", data.Trend.InflectionImpedance, lineStyle(chart.ColorGreen), chart.YAxisPrimary)},
		}
	case LatestS11:
		if data.Spectrum == nil || len(data.Spectrum.S11) == 0 {
			return chart.Chart{}, ErrNoData
		}
		ch = chart.Chart{
			Title:  data.Spectrum.Title(),
			XAxis:  chart.XAxis{Name: "Frequency [GHz]", Range: continuousRange(axis.SParamFrequency)},
			YAxis:  chart.YAxis{Name: "S11 [dB]", Range: continuousRange(axis.S11)},
			Series: []chart.Series{continuous("S11", data.Spectrum.S11, lineStyle(chart.ColorBlue), chart.YAxisPrimary)},
		}
	default:
		return chart.Chart{}, fmt.Errorf("unknown view %d", view)
	}

	ch.Width = size.Width
	ch.Height = size.Height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 28}}
	return ch, nil
}

// PNG renders view into w.
func PNG(w io.Writer, view View, data Data, size Size) error {
	ch, err := Chart(view, data, size)
	if err != nil {
		return err
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render %s: %w", view.Name(), err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteAll exports every view that has data into dir, creating it when
// needed, and returns the files written. Views without data are skipped;
// ErrNoData is returned only when nothing could be written.
func WriteAll(dir string, data Data, size Size) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var written []string
	for _, view := range Views {
		path := filepath.Join(dir, view.FileName())
		err := cache.Replace(path, func(w io.Writer) error {
			return PNG(w, view, data, size)
		})
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if len(written) == 0 {
		return nil, ErrNoData
	}
	return written, nil
}

func continuous(name string, points []series.Point, style chart.Style, yAxis chart.YAxisType) chart.ContinuousSeries {
	xs := make([]float64, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	for _, p := range points {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	if len(points) == 1 {
		// go-chart needs two X values to draw a series.
		xs = append(xs, xs[0]+1e-9)
		ys = append(ys, ys[0])
		style.DotWidth = 4
		style.DotColor = style.StrokeColor
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   style,
		YAxis:   yAxis,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

func continuousRange(r axis.Range) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: r.Min, Max: r.Max}
}

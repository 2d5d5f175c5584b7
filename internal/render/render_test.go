package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/five82/vnamon/internal/axis"
	"github.com/five82/vnamon/internal/series"
)

func sampleData() Data {
	return Data{
		Trend: series.Trend{
			InflectionFrequency: []series.Point{{X: 0.1, Y: 1200}, {X: 0.2, Y: 1210}, {X: 0.3, Y: 1190}},
			MinS11:              []series.Point{{X: 0, Y: -22}, {X: 0.1, Y: -21}, {X: 0.2, Y: -23}},
			InflectionImpedance: []series.Point{{X: 0.1, Y: 48}, {X: 0.2, Y: 51}, {X: 0.3, Y: 50}},
			Samples:             4,
			Smoothing:           2,
		},
		Spectrum: &series.Spectrum{
			S11:          []series.Point{{X: 0.9, Y: -5}, {X: 2, Y: -30}, {X: 3.5, Y: -8}},
			CaptureLabel: "9:4:12",
		},
		Ranges: axis.Defaults(),
	}
}

func TestViewNames(t *testing.T) {
	assert.Equal(t, "Inflection Frequency vs Time", FrequencyTrend.Name())
	assert.Equal(t, "Inflection Impedance vs Time", ImpedanceTrend.Name())
	assert.Equal(t, "Latest S11", LatestS11.Name())
	assert.Len(t, Views, 3)
}

func TestChart_FrequencyTrendUsesRangesAndSecondaryAxis(t *testing.T) {
	data := sampleData()
	data.Ranges.InflectionFrequency = axis.Range{Min: 1100, Max: 1300}

	ch, err := Chart(FrequencyTrend, data, Size{})
	require.NoError(t, err)

	assert.Equal(t, DefaultWidth, ch.Width)
	assert.Equal(t, DefaultHeight, ch.Height)
	require.Len(t, ch.Series, 2)

	yr, ok := ch.YAxis.Range.(*chart.ContinuousRange)
	require.True(t, ok)
	assert.Equal(t, 1100.0, yr.Min)
	assert.Equal(t, 1300.0, yr.Max)

	xr, ok := ch.XAxis.Range.(*chart.ContinuousRange)
	require.True(t, ok)
	assert.Equal(t, axis.DefaultTime.Max, xr.Max)

	minS11, ok := ch.Series[1].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, chart.YAxisSecondary, minS11.YAxis)
	sr, ok := ch.YAxisSecondary.Range.(*chart.ContinuousRange)
	require.True(t, ok)
	assert.Equal(t, axis.MinS11.Min, sr.Min)
}

func TestChart_LatestS11Title(t *testing.T) {
	ch, err := Chart(LatestS11, sampleData(), Size{Width: 640, Height: 480})
	require.NoError(t, err)
	assert.Equal(t, "Antenna Reflection Data: Time Measurement was taken: 9:4:12", ch.Title)
	assert.Equal(t, 640, ch.Width)
}

func TestChart_NoData(t *testing.T) {
	for _, view := range Views {
		_, err := Chart(view, Data{Ranges: axis.Defaults()}, Size{})
		assert.ErrorIs(t, err, ErrNoData, view.Name())
	}
}

func TestContinuous_PadsSinglePoint(t *testing.T) {
	s := continuous("one", []series.Point{{X: 2, Y: 5}}, lineStyle(chart.ColorBlue), chart.YAxisPrimary)
	require.Len(t, s.XValues, 2)
	assert.Equal(t, s.YValues[0], s.YValues[1])
	assert.Greater(t, s.XValues[1], s.XValues[0])
}

func TestPNG_WritesImage(t *testing.T) {
	for _, view := range Views {
		var buf bytes.Buffer
		require.NoError(t, PNG(&buf, view, sampleData(), Size{Width: 400, Height: 300}), view.Name())

		img, err := png.Decode(&buf)
		require.NoError(t, err, view.Name())
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 300, img.Bounds().Dy())
	}
}

func TestWriteAll_SkipsViewsWithoutData(t *testing.T) {
	dir := t.TempDir()
	data := sampleData()
	data.Spectrum = nil

	written, err := WriteAll(dir, data, Size{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, FrequencyTrend.FileName()),
		filepath.Join(dir, ImpedanceTrend.FileName()),
	}, written)

	_, err = os.Stat(filepath.Join(dir, LatestS11.FileName()))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAll_NothingToWrite(t *testing.T) {
	written, err := WriteAll(t.TempDir(), Data{Ranges: axis.Defaults()}, Size{})
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, written)
}

package series

import (
	"fmt"
	"io"
	"os"

	"github.com/five82/vnamon/internal/axis"
)

// Unit conversion divisors.
const (
	secondsPerMinute = 60.0
	hzPerMHz         = 1e6
	hzPerGHz         = 1e9
)

// Point is one plotted sample.
type Point struct {
	X float64
	Y float64
}

// Trend holds the series derived from the data log.
type Trend struct {
	// InflectionFrequency is the smoothed inflection frequency in MHz
	// against elapsed minutes.
	InflectionFrequency []Point
	// MinS11 is the raw minimum S11 in dB against elapsed minutes.
	MinS11 []Point
	// InflectionImpedance is the smoothed inflection impedance in ohms
	// against elapsed minutes.
	InflectionImpedance []Point
	Samples             int
	Smoothing           int
}

// Spectrum holds the latest S11 sweep in GHz/dB.
type Spectrum struct {
	S11          []Point
	CaptureLabel string
}

// Title returns the chart title used for the sweep.
func (s Spectrum) Title() string {
	return "Antenna Reflection Data: Time Measurement was taken: " + s.CaptureLabel
}

// Update is the result of one derivation cycle. A nil Spectrum means the
// sweep file could not be read and the previous sweep should stay on screen.
type Update struct {
	Trend    Trend
	Spectrum *Spectrum
}

// RollingMean returns the trailing-window mean of values. Output i is the
// mean of values[i : i+w], so the result has max(0, len(values)-w+1) entries.
func RollingMean(values []float64, w int) []float64 {
	if w < 1 || len(values) < w {
		return nil
	}
	out := make([]float64, len(values)-w+1)
	for i := range out {
		var sum float64
		for _, v := range values[i : i+w] {
			sum += v
		}
		out[i] = sum / float64(w)
	}
	return out
}

// BuildTrend derives the plotted trend series from data log records.
func BuildTrend(records []DataLogRecord, w int) (Trend, error) {
	if w < 1 {
		return Trend{}, &axis.ValidationError{Input: fmt.Sprint(w), Reason: "must be at least 1"}
	}

	n := len(records)
	elapsed := make([]float64, n)
	freq := make([]float64, n)
	imp := make([]float64, n)
	for i, rec := range records {
		elapsed[i] = rec.ElapsedSeconds
		freq[i] = rec.InflectionFrequencyHz
		imp[i] = rec.InflectionImpedanceOhm
	}

	trend := Trend{Samples: n, Smoothing: w}

	smoothedFreq := RollingMean(freq, w)
	trend.InflectionFrequency = make([]Point, len(smoothedFreq))
	for i, v := range smoothedFreq {
		trend.InflectionFrequency[i] = Point{X: elapsed[i+w-1] / secondsPerMinute, Y: v / hzPerMHz}
	}

	smoothedImp := RollingMean(imp, w)
	trend.InflectionImpedance = make([]Point, len(smoothedImp))
	for i, v := range smoothedImp {
		trend.InflectionImpedance[i] = Point{X: elapsed[i+w-1] / secondsPerMinute, Y: v}
	}

	trend.MinS11 = make([]Point, n)
	for i, rec := range records {
		trend.MinS11[i] = Point{X: rec.ElapsedSeconds / secondsPerMinute, Y: rec.MinS11Db}
	}
	return trend, nil
}

// BuildSpectrum converts a sweep to GHz/dB points.
func BuildSpectrum(snap SParamSnapshot) Spectrum {
	spec := Spectrum{
		S11:          make([]Point, len(snap.Records)),
		CaptureLabel: fmt.Sprintf("%d:%d:%d", snap.Hour, snap.Minute, snap.Second),
	}
	for i, rec := range snap.Records {
		spec.S11[i] = Point{X: rec.FrequencyHz / hzPerGHz, Y: rec.S11Db}
	}
	return spec
}

// Opener opens a cache file for reading.
type Opener func(path string) (io.ReadCloser, error)

// Processor derives display series from the two local cache files.
type Processor struct {
	DataLogPath string
	SParamsPath string
	Open        Opener
}

// NewProcessor returns a processor reading from the given paths.
func NewProcessor(dataLogPath, sparamsPath string) *Processor {
	return &Processor{
		DataLogPath: dataLogPath,
		SParamsPath: sparamsPath,
		Open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Derive reads both cache files and rebuilds every series. An error means
// the data log could not be used and nothing should change on screen.
func (p *Processor) Derive(w int) (Update, error) {
	if w < 1 {
		return Update{}, &axis.ValidationError{Input: fmt.Sprint(w), Reason: "must be at least 1"}
	}

	records, err := p.readDataLog()
	if err != nil {
		return Update{}, err
	}
	trend, err := BuildTrend(records, w)
	if err != nil {
		return Update{}, err
	}

	update := Update{Trend: trend}
	if snap, err := p.readSParams(); err == nil {
		spec := BuildSpectrum(snap)
		update.Spectrum = &spec
	}
	return update, nil
}

func (p *Processor) readDataLog() ([]DataLogRecord, error) {
	f, err := p.Open(p.DataLogPath)
	if err != nil {
		return nil, fmt.Errorf("open data log: %w", err)
	}
	defer f.Close()
	return ParseDataLog(f)
}

func (p *Processor) readSParams() (SParamSnapshot, error) {
	f, err := p.Open(p.SParamsPath)
	if err != nil {
		return SParamSnapshot{}, fmt.Errorf("open s-parameters: %w", err)
	}
	defer f.Close()
	return ParseSParams(f)
}

package series

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vnamon/internal/axis"
)

const dataLogHeader = "Elapsed Times [s],Inflection Frequency [Hz],Inflection Impedance [RE ohm],S11 at Inflection Frequency [dB]\n"

const sampleDataLog = dataLogHeader +
	"0,1.0e9,40,-20\n" +
	"60,1.1e9,44,-21\n" +
	"120,1.2e9,48,-22\n" +
	"180,1.3e9,52,-23\n"

const sampleSParams = "Frequency [Hz],S11 [dB],Current Hour,Current Minute,Current Second\n" +
	"850000000,-3.5,14,5,9\n" +
	"1000000000,-12.25,,,\n" +
	"4000000000,-1.0,,,\n"

func TestRollingMean_LengthAndValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}

	for w := 1; w <= len(values)+2; w++ {
		got := RollingMean(values, w)
		wantLen := len(values) - w + 1
		if wantLen < 0 {
			wantLen = 0
		}
		require.Len(t, got, wantLen, "w=%d", w)

		for i, v := range got {
			var sum float64
			for _, raw := range values[i : i+w] {
				sum += raw
			}
			assert.InDelta(t, sum/float64(w), v, 1e-12, "w=%d i=%d", w, i)
		}
	}
}

func TestRollingMean_InvalidWindow(t *testing.T) {
	assert.Nil(t, RollingMean([]float64{1, 2}, 0))
	assert.Nil(t, RollingMean([]float64{1, 2}, -3))
}

func TestBuildTrend_SmoothsAndConvertsUnits(t *testing.T) {
	records, err := ParseDataLog(strings.NewReader(sampleDataLog))
	require.NoError(t, err)

	trend, err := BuildTrend(records, 3)
	require.NoError(t, err)

	require.Len(t, trend.InflectionFrequency, 2)
	assert.InDelta(t, 2.0, trend.InflectionFrequency[0].X, 1e-9)
	assert.InDelta(t, 1100.0, trend.InflectionFrequency[0].Y, 1e-6)
	assert.InDelta(t, 3.0, trend.InflectionFrequency[1].X, 1e-9)
	assert.InDelta(t, 1200.0, trend.InflectionFrequency[1].Y, 1e-6)

	require.Len(t, trend.InflectionImpedance, 2)
	assert.InDelta(t, 44.0, trend.InflectionImpedance[0].Y, 1e-9)
	assert.InDelta(t, 48.0, trend.InflectionImpedance[1].Y, 1e-9)

	// Minimum S11 is never smoothed.
	require.Len(t, trend.MinS11, 4)
	assert.Equal(t, Point{X: 0, Y: -20}, trend.MinS11[0])
	assert.Equal(t, Point{X: 3, Y: -23}, trend.MinS11[3])

	assert.Equal(t, 4, trend.Samples)
	assert.Equal(t, 3, trend.Smoothing)
}

func TestBuildTrend_WindowLargerThanData(t *testing.T) {
	records, err := ParseDataLog(strings.NewReader(sampleDataLog))
	require.NoError(t, err)

	trend, err := BuildTrend(records, 10)
	require.NoError(t, err)
	assert.Empty(t, trend.InflectionFrequency)
	assert.Empty(t, trend.InflectionImpedance)
	assert.Len(t, trend.MinS11, 4)
}

func TestBuildTrend_RejectsZeroWindow(t *testing.T) {
	_, err := BuildTrend(nil, 0)
	require.Error(t, err)
	assert.True(t, axis.IsValidation(err))
}

func TestParseDataLog_ColumnsByName(t *testing.T) {
	input := "S11 at Inflection Frequency [dB],Extra,Elapsed Times [s],Inflection Impedance [RE ohm],Inflection Frequency [Hz]\n" +
		"-30,x,90,12.5,1.25e9\n"

	records, err := ParseDataLog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, DataLogRecord{
		ElapsedSeconds:         90,
		InflectionFrequencyHz:  1.25e9,
		InflectionImpedanceOhm: 12.5,
		MinS11Db:               -30,
	}, records[0])
}

func TestParseDataLog_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing column", "Elapsed Times [s],Inflection Frequency [Hz]\n0,1\n"},
		{"non numeric", dataLogHeader + "0,abc,1,2\n"},
		{"truncated row", dataLogHeader + "0,1.0e9,40,-20\n60,1.1e9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataLog(strings.NewReader(tt.input))
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "want ParseError, got %T", err)
		})
	}
}

func TestParseDataLog_HeaderOnly(t *testing.T) {
	records, err := ParseDataLog(strings.NewReader(dataLogHeader))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseSParams_CaptureTimeFromFirstRow(t *testing.T) {
	snap, err := ParseSParams(strings.NewReader(sampleSParams))
	require.NoError(t, err)
	assert.Equal(t, 14, snap.Hour)
	assert.Equal(t, 5, snap.Minute)
	assert.Equal(t, 9, snap.Second)
	require.Len(t, snap.Records, 3)

	spec := BuildSpectrum(snap)
	assert.Equal(t, "14:5:9", spec.CaptureLabel)
	assert.InDelta(t, 0.85, spec.S11[0].X, 1e-12)
	assert.InDelta(t, -12.25, spec.S11[1].Y, 1e-12)
	assert.InDelta(t, 4.0, spec.S11[2].X, 1e-12)
	assert.Contains(t, spec.Title(), "14:5:9")
}

func TestParseSParams_AcceptsIntegralFloats(t *testing.T) {
	input := "Frequency [Hz],S11 [dB],Current Hour,Current Minute,Current Second\n1e9,-2,9.0,30.0,1.0\n"
	snap, err := ParseSParams(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Hour)
	assert.Equal(t, 30, snap.Minute)
}

func TestParseSParams_NoRows(t *testing.T) {
	_, err := ParseSParams(strings.NewReader("Frequency [Hz],S11 [dB],Current Hour,Current Minute,Current Second\n"))
	require.Error(t, err)
}

func writeCache(t *testing.T, dir, dataLog, sparams string) *Processor {
	t.Helper()
	dataPath := filepath.Join(dir, "Datalog.txt")
	sparamPath := filepath.Join(dir, "Latest_Sparams.txt")
	if dataLog != "" {
		require.NoError(t, os.WriteFile(dataPath, []byte(dataLog), 0o600))
	}
	if sparams != "" {
		require.NoError(t, os.WriteFile(sparamPath, []byte(sparams), 0o600))
	}
	return NewProcessor(dataPath, sparamPath)
}

func TestProcessor_Derive(t *testing.T) {
	p := writeCache(t, t.TempDir(), sampleDataLog, sampleSParams)

	update, err := p.Derive(2)
	require.NoError(t, err)
	assert.Len(t, update.Trend.InflectionFrequency, 3)
	require.NotNil(t, update.Spectrum)
	assert.Len(t, update.Spectrum.S11, 3)
}

func TestProcessor_MissingDataLogLeavesEverythingUnchanged(t *testing.T) {
	p := writeCache(t, t.TempDir(), "", sampleSParams)

	_, err := p.Derive(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestProcessor_BadSParamsKeepsTrend(t *testing.T) {
	p := writeCache(t, t.TempDir(), sampleDataLog, "garbage\n")

	update, err := p.Derive(1)
	require.NoError(t, err)
	assert.Len(t, update.Trend.InflectionFrequency, 4)
	assert.Nil(t, update.Spectrum)
}

func TestProcessor_CustomOpener(t *testing.T) {
	p := &Processor{
		DataLogPath: "data",
		SParamsPath: "sparams",
		Open: func(path string) (io.ReadCloser, error) {
			if path == "data" {
				return io.NopCloser(strings.NewReader(sampleDataLog)), nil
			}
			return nil, fs.ErrNotExist
		},
	}
	update, err := p.Derive(4)
	require.NoError(t, err)
	require.Len(t, update.Trend.InflectionFrequency, 1)
	assert.InDelta(t, 1150.0, update.Trend.InflectionFrequency[0].Y, 1e-6)
	assert.Nil(t, update.Spectrum)
}

func TestProcessor_RejectsZeroWindow(t *testing.T) {
	p := writeCache(t, t.TempDir(), sampleDataLog, sampleSParams)
	_, err := p.Derive(0)
	require.Error(t, err)
	assert.True(t, axis.IsValidation(err))
}

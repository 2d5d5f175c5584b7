package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column headers written by the analyzer.
const (
	colElapsed             = "Elapsed Times [s]"
	colInflectionFrequency = "Inflection Frequency [Hz]"
	colInflectionImpedance = "Inflection Impedance [RE ohm]"
	colMinS11              = "S11 at Inflection Frequency [dB]"

	colFrequency = "Frequency [Hz]"
	colS11       = "S11 [dB]"
	colHour      = "Current Hour"
	colMinute    = "Current Minute"
	colSecond    = "Current Second"
)

// DataLogRecord is one row of the running data log.
type DataLogRecord struct {
	ElapsedSeconds         float64
	InflectionFrequencyHz  float64
	InflectionImpedanceOhm float64
	MinS11Db               float64
}

// SParamRecord is one frequency point of the latest sweep.
type SParamRecord struct {
	FrequencyHz float64
	S11Db       float64
}

// SParamSnapshot is the latest sweep together with its capture time.
type SParamSnapshot struct {
	Records []SParamRecord
	Hour    int
	Minute  int
	Second  int
}

// ParseError reports a cache file that could not be decoded. Files are
// replaced while the UI runs, so callers treat this as transient.
type ParseError struct {
	File string
	Row  int // 1-based data row; zero for header problems
	Err  error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse %s row %d: %v", e.File, e.Row, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNoHeader = errors.New("missing header row")

// ParseDataLog decodes the data log. Rows keep file order.
func ParseDataLog(r io.Reader) ([]DataLogRecord, error) {
	tbl, err := readTable(r, "data log", colElapsed, colInflectionFrequency, colInflectionImpedance, colMinS11)
	if err != nil {
		return nil, err
	}
	records := make([]DataLogRecord, 0, len(tbl.rows))
	for i := range tbl.rows {
		var rec DataLogRecord
		if rec.ElapsedSeconds, err = tbl.float(i, colElapsed); err != nil {
			return nil, err
		}
		if rec.InflectionFrequencyHz, err = tbl.float(i, colInflectionFrequency); err != nil {
			return nil, err
		}
		if rec.InflectionImpedanceOhm, err = tbl.float(i, colInflectionImpedance); err != nil {
			return nil, err
		}
		if rec.MinS11Db, err = tbl.float(i, colMinS11); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseSParams decodes the latest S-parameter sweep. The capture time is
// taken from the first row.
func ParseSParams(r io.Reader) (SParamSnapshot, error) {
	tbl, err := readTable(r, "s-parameters", colFrequency, colS11, colHour, colMinute, colSecond)
	if err != nil {
		return SParamSnapshot{}, err
	}
	if len(tbl.rows) == 0 {
		return SParamSnapshot{}, &ParseError{File: tbl.name, Err: errors.New("no data rows")}
	}

	var snap SParamSnapshot
	if snap.Hour, err = tbl.int(0, colHour); err != nil {
		return SParamSnapshot{}, err
	}
	if snap.Minute, err = tbl.int(0, colMinute); err != nil {
		return SParamSnapshot{}, err
	}
	if snap.Second, err = tbl.int(0, colSecond); err != nil {
		return SParamSnapshot{}, err
	}

	snap.Records = make([]SParamRecord, 0, len(tbl.rows))
	for i := range tbl.rows {
		var rec SParamRecord
		if rec.FrequencyHz, err = tbl.float(i, colFrequency); err != nil {
			return SParamSnapshot{}, err
		}
		if rec.S11Db, err = tbl.float(i, colS11); err != nil {
			return SParamSnapshot{}, err
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, name string, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: name, Err: errNoHeader}
		}
		return nil, &ParseError{File: name, Err: err}
	}

	tbl := &table{name: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		tbl.columns[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := tbl.columns[col]; !ok {
			return nil, &ParseError{File: name, Err: fmt.Errorf("missing column %q", col)}
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	tbl.rows = rows
	return tbl, nil
}

func (t *table) cell(row int, col string) (string, error) {
	idx := t.columns[col]
	if idx >= len(t.rows[row]) {
		return "", &ParseError{File: t.name, Row: row + 1, Err: fmt.Errorf("short row, no %q", col)}
	}
	return strings.TrimSpace(t.rows[row][idx]), nil
}

func (t *table) float(row int, col string) (float64, error) {
	raw, err := t.cell(row, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{File: t.name, Row: row + 1, Err: fmt.Errorf("%s: %w", col, err)}
	}
	return v, nil
}

// int accepts integral floats ("14.0") as pandas writes them.
func (t *table) int(row int, col string) (int, error) {
	v, err := t.float(row, col)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, &ParseError{File: t.name, Row: row + 1, Err: fmt.Errorf("%s: %v is not an integer", col, v)}
	}
	return int(v), nil
}

// Package series turns the analyzer's log files into plot-ready series.
//
// Two files are read from the local cache:
//
//   - the data log, one row per measurement with elapsed seconds, inflection
//     frequency (Hz), inflection impedance (ohm) and minimum S11 (dB);
//   - the latest S-parameter sweep, one row per frequency point with the
//     capture hour, minute and second on the first row.
//
// Columns are found by header name, so the analyzer may add or reorder
// columns. Derive rebuilds every series from scratch: inflection frequency
// and impedance pass through a trailing rolling mean, time is reported in
// minutes, inflection frequency in MHz and sweep frequency in GHz.
//
// The sync worker may replace a file between two reads. Any read or parse
// failure of the data log is returned as an error and callers keep what
// they already show; a bad sweep file only drops the spectrum portion.
package series

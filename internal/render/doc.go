// Package render exports the three vnamon charts as PNG images.
//
// Each View maps the derived series onto a go-chart definition using the
// current axis ranges. Frequency and impedance trends use the editable time
// range on X; the latest sweep uses the fixed 0.85 to 4 GHz window. Charts
// with no points return ErrNoData rather than an empty image.
package render

package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Chart frame dimensions.
const (
	// axisLabelWidth is the width reserved for Y axis tick labels.
	axisLabelWidth = 9

	// chartChromeLines counts header, tabs, title, X axis, legend and footer.
	chartChromeLines = 7

	minPlotWidth  = 20
	minPlotHeight = 5
)

// Log display limits.
const (
	// LogTailLines is the number of log lines shown in the log overlay.
	LogTailLines = 200
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = 2 * time.Second
)

// Package ui provides the vnamon terminal interface.
//
// The interface is a Bubble Tea program that shows three charts as tabs:
// inflection frequency over time (with minimum S11 on a secondary axis),
// inflection impedance over time, and the latest S11 sweep. Charts are drawn
// directly into the terminal grid; the same data can be exported as PNG
// files through the render package.
//
// The model never touches the network or the cache directly. It polls
// state.Store on a redraw tick, receives sync events from a channel, and
// hands folder choices to syncer.Target. Range and smoothing edits go
// through axis.Controller and state.Store.
//
// # Key Bindings
//
//   - 1/2/3, Tab, Shift+Tab: Switch chart
//   - f: Measurement folder
//   - r: Ranges and smoothing
//   - x: Export PNG charts
//   - l: Toggle log
//   - T: Cycle theme
//   - h or ?: Help
//   - q or Ctrl+C: Exit
package ui

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Charts
	NextChart      key.Binding
	PrevChart      key.Binding
	FrequencyChart key.Binding
	ImpedanceChart key.Binding
	SweepChart     key.Binding

	// Actions
	Folder   key.Binding
	Controls key.Binding
	Export   key.Binding
	Logs     key.Binding

	// Modal input
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close dialog"),
		),

		// Charts
		NextChart: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "Next chart"),
		),
		PrevChart: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "Previous chart"),
		),
		FrequencyChart: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Inflection frequency"),
		),
		ImpedanceChart: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Inflection impedance"),
		),
		SweepChart: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Latest S11"),
		),

		// Actions
		Folder: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Measurement folder"),
		),
		Controls: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Ranges and smoothing"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Export PNG charts"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle log"),
		),

		// Modal input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextChart, k.PrevChart, k.FrequencyChart, k.ImpedanceChart, k.SweepChart},
		{k.Folder, k.Controls, k.Export, k.Logs},
		{k.Confirm, k.NextField, k.PrevField, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vnamon/internal/axis"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// Messages produced by modals.

type folderChosenMsg struct{ name string }

type controlsAppliedMsg struct {
	minText   [3]string
	maxText   [3]string
	smoothing string
}

type openFolderMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// folderModal asks for the measurement folder name.
type folderModal struct {
	input textinput.Model
}

func newFolderModal(current string) *folderModal {
	ti := textinput.New()
	ti.Placeholder = "folder name"
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(current)
	ti.Focus()
	return &folderModal{input: ti}
}

func (f *folderModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return f, nil, true
		case key.Matches(km, keys.Confirm):
			name := strings.TrimSpace(f.input.Value())
			if name == "" {
				return f, nil, false
			}
			return f, emit(folderChosenMsg{name: name}), true
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd, false
}

func (f *folderModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.Text.Bold(true).Render("Measurement Folder") + "\n\n" +
		styles.MutedText.Render("Folder name on the server:") + "\n" +
		f.input.View() + "\n\n" +
		styles.FaintText.Render("enter apply · esc cancel")
	return placeModal(theme, width, height, body)
}

// controlField indexes the inputs of the controls modal.
const (
	fieldTimeMin = iota
	fieldTimeMax
	fieldFrequencyMin
	fieldFrequencyMax
	fieldImpedanceMin
	fieldImpedanceMax
	fieldSmoothing
	fieldCount
)

var controlLabels = [fieldCount]string{
	"Time min [min]",
	"Time max [min]",
	"Infl. freq. min [MHz]",
	"Infl. freq. max [MHz]",
	"Infl. imp. min [ohm]",
	"Infl. imp. max [ohm]",
	"Smoothing window",
}

// controlsModal edits the three axis ranges and the smoothing window. Blank
// fields leave the current value alone.
type controlsModal struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newControlsModal(ranges axis.Ranges, smoothing int) *controlsModal {
	current := [fieldCount]float64{
		ranges.Time.Min, ranges.Time.Max,
		ranges.InflectionFrequency.Min, ranges.InflectionFrequency.Max,
		ranges.InflectionImpedance.Min, ranges.InflectionImpedance.Max,
		float64(smoothing),
	}

	c := &controlsModal{}
	for i := range c.inputs {
		ti := textinput.New()
		ti.CharLimit = 32
		ti.Width = 14
		ti.Placeholder = formatTick(current[i])
		c.inputs[i] = ti
	}
	c.inputs[0].Focus()
	return c
}

func (c *controlsModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return c, nil, true
		case key.Matches(km, keys.Confirm):
			return c, emit(c.applied()), true
		case key.Matches(km, keys.NextField):
			c.setFocus((c.focus + 1) % fieldCount)
			return c, nil, false
		case key.Matches(km, keys.PrevField):
			c.setFocus((c.focus + fieldCount - 1) % fieldCount)
			return c, nil, false
		}
	}
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return c, cmd, false
}

func (c *controlsModal) setFocus(i int) {
	c.inputs[c.focus].Blur()
	c.focus = i
	c.inputs[c.focus].Focus()
}

func (c *controlsModal) applied() controlsAppliedMsg {
	var msg controlsAppliedMsg
	for i, kind := range axis.Kinds {
		msg.minText[kind] = c.inputs[2*i].Value()
		msg.maxText[kind] = c.inputs[2*i+1].Value()
	}
	msg.smoothing = c.inputs[fieldSmoothing].Value()
	return msg
}

func (c *controlsModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	label := lipgloss.NewStyle().Width(24)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Ranges and Smoothing"))
	b.WriteString("\n\n")
	for i, input := range c.inputs {
		style := styles.MutedText
		if i == c.focus {
			style = styles.AccentText
		}
		b.WriteString(label.Inherit(style).Render(controlLabels[i]))
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next · enter apply · esc cancel"))
	return placeModal(theme, width, height, b.String())
}

// alertModal shows a message and asks for a new folder when dismissed.
type alertModal struct {
	title   string
	message string
}

func newBadFolderAlert() *alertModal {
	return &alertModal{
		title:   "Folder name does not exist on server",
		message: "Please change the folder name",
	}
}

func (a *alertModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(km, keys.Confirm) || key.Matches(km, keys.Escape) {
			return a, emit(openFolderMsg{}), true
		}
	}
	return a, nil, false
}

func (a *alertModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.DangerText.Render(a.title) + "\n\n" +
		styles.Text.Render(a.message) + "\n\n" +
		styles.FaintText.Render("enter continue")
	return placeModal(theme, width, height, body)
}

func placeModal(theme Theme, width, height int, body string) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

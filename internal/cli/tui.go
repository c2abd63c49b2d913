package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meowble/catprint/pkg/ble"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DeviceListModel - Interactive printer selection
// =============================================================================

// DeviceListModel is the bubbletea model for picking a printer from scan
// results.
type DeviceListModel struct {
	Devices  []ble.Device
	Cursor   int
	Selected *ble.Device
}

// NewDeviceListModel creates a new device list model.
func NewDeviceListModel(devices []ble.Device) DeviceListModel {
	return DeviceListModel{Devices: devices}
}

func (m DeviceListModel) Init() tea.Cmd {
	return nil
}

func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Devices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Devices[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DeviceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Printer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, d := range m.Devices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		var status string
		if ble.IsSupportedName(d.Name) {
			status = StyleSuccess.Render("*")
		} else {
			status = StyleWarning.Render("?")
		}

		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%s%s %-12s  %s  %s", cursor, status, name,
			listDimStyle.Render(d.Address), listDimStyle.Render(fmt.Sprintf("%d dBm", d.RSSI)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s known printer   %s unverified\n",
		StyleSuccess.Render("*"), StyleWarning.Render("?")))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Devices))))

	return b.String()
}

// pickDevice runs the interactive selector and returns the chosen device,
// or nil when the user backed out.
func pickDevice(devices []ble.Device) (*ble.Device, error) {
	model := NewDeviceListModel(devices)
	prog := tea.NewProgram(model)
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(DeviceListModel); ok {
		return m.Selected, nil
	}
	return nil, nil
}

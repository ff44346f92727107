package components

import (
	"fmt"

	"github.com/allbin/lightbridge/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders the monitor's bottom status line.
type StatusBar struct {
	addr      string
	status    string
	err       error
	width     int
	okCount   int
	errCount  int
	connected bool
}

func NewStatusBar(addr string) *StatusBar {
	return &StatusBar{
		addr:   addr,
		status: "Connecting...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnected() {
	sb.connected = true
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.connected = false
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

func (sb *StatusBar) RecordReply(ok bool) {
	if ok {
		sb.okCount++
	} else {
		sb.errCount++
	}
}

// View renders a full-width status bar: mode, bridge address, connection
// indicator, reply counters and the wall clock.
func (sb *StatusBar) View(inputMode string, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Mode indicator (like NORMAL in nvim)
	var modeStyle lipgloss.Style
	if inputMode == "INSERT" {
		modeStyle = lipgloss.NewStyle().
			Foreground(colors.Base).
			Background(colors.Green).
			Bold(true).
			Padding(0, 1)
	} else {
		modeStyle = lipgloss.NewStyle().
			Foreground(colors.Base).
			Background(colors.Blue).
			Bold(true).
			Padding(0, 1)
	}
	mode := modeStyle.Render(inputMode)

	addrStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1)
	addr := addrStyle.Render(sb.addr)

	var connStyle lipgloss.Style
	var connIndicator string
	switch {
	case sb.err != nil:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "✗"
	case sb.connected:
		connStyle = lipgloss.NewStyle().Foreground(colors.Green)
		connIndicator = "●"
	default:
		connStyle = lipgloss.NewStyle().Foreground(colors.Yellow)
		connIndicator = "○"
	}
	connection := connStyle.Render(connIndicator)

	counterStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1)
	counters := counterStyle.Render(fmt.Sprintf("⚡ %d ok / %d error", sb.okCount, sb.errCount))

	timeStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1)
	clock := timeStyle.Render(timestamp)

	dividerStyle := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1)
	divider := dividerStyle.Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, addr, connection, divider)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, counters, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide)
	return statusBarStyle.Render(content)
}

/*
Copyright © 2025 AllBinary AB
*/
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/lightbridge/internal/tui/components"
	"github.com/allbin/lightbridge/internal/tui/keys"
	"github.com/allbin/lightbridge/internal/tui/models"
	"github.com/allbin/lightbridge/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var monitorTimeout time.Duration

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor [addr]",
	Short: "Interactive terminal for a running bridge",
	Long: `Connect to a running bridge with an interactive terminal interface.

Commands are typed in insert mode (vim-like) and sent on Enter; every
exchange is shown with its timestamp and reply. Features include:
- Command input with history (up/down arrows)
- Scrolling exchange log and a toggleable table view
- Connection status indicators
- Clean, responsive interface

Example usage:
  lightbridge monitor
  lightbridge monitor lab-rig:31104`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addr := "127.0.0.1:31104"
		if len(args) == 1 {
			addr = args[0]
		}

		if err := runMonitorTUI(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVar(&monitorTimeout, "timeout", 5*time.Second, "per-command reply timeout")
}

// viewMode selects between the console log and the history table.
type viewMode int

const (
	viewConsole viewMode = iota
	viewTable
)

// tickMsg drives the status bar clock.
type tickMsg time.Time

// monitorModel represents the Bubble Tea model for the monitor command
type monitorModel struct {
	*models.BridgeModel
	console   *components.Console
	table     *components.HistoryTable
	input     *components.Input
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MonitorKeys

	view   viewMode
	width  int
	height int
}

func runMonitorTUI(addr string) error {
	model := &monitorModel{
		BridgeModel: models.NewBridgeModel(addr),
		console:     components.NewConsole(80, 20),
		table:       components.NewHistoryTable(80, 20),
		input:       components.NewInput("Type a command, e.g. TL_INTENSITY 128..."),
		statusBar:   components.NewStatusBar(addr),
		help:        help.New(),
		keys:        keys.NewMonitorKeys(),
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	model.Cleanup()
	return err
}

func (m *monitorModel) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), tickCmd())
}

// connectCmd dials the bridge off the UI goroutine.
func (m *monitorModel) connectCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.Connect(monitorTimeout)
		return models.ConnectionStatusMsg{Connected: err == nil, Error: err}
	}
}

// sendCmd runs one command round trip off the UI goroutine.
func (m *monitorModel) sendCmd(command string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.RoundTrip(command, monitorTimeout)
		return components.ExchangeMsg{
			Timestamp: time.Now(),
			Request:   command,
			Reply:     reply,
			Err:       err,
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.SetReady(true)

		contentHeight := m.contentHeight()
		m.console.SetSize(msg.Width, contentHeight)
		m.table.SetSize(msg.Width, contentHeight)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Connected {
			m.statusBar.SetConnected()
			m.console.AddNotice(fmt.Sprintf("connected to %s", m.Addr()))
		} else {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
		}
		return m, nil

	case components.ExchangeMsg:
		m.console.AddExchange(msg)
		m.table.AddExchange(msg)
		m.statusBar.RecordReply(msg.Err == nil && msg.Reply == "OK")
		if msg.Err != nil {
			// A failed round trip usually means the socket is gone.
			m.SetConnected(false)
			m.statusBar.SetDisconnected(msg.Err)
		}
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *monitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.IsInInsertMode() {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.SetInputMode(models.InputModeNormal)
			m.input.Blur()
			return m, nil

		case msg.Type == tea.KeyEnter:
			command := strings.TrimSpace(m.input.Value())
			if command == "" {
				return m, nil
			}
			m.input.AddToHistory(command)
			m.input.SetValue("")
			return m, m.sendCmd(command)

		case msg.Type == tea.KeyUp:
			m.input.NavigateHistoryUp()
			return m, nil

		case msg.Type == tea.KeyDown:
			m.input.NavigateHistoryDown()
			return m, nil

		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.InsertMode):
		m.SetInputMode(models.InputModeInsert)
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.console.Clear()
		m.table.Clear()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTable):
		if m.view == viewConsole {
			m.view = viewTable
		} else {
			m.view = viewConsole
		}
		return m, nil
	}

	if m.view == viewTable {
		return m, m.table.Update(msg)
	}
	return m, nil
}

// contentHeight is what remains after the input, status bar and help line.
func (m *monitorModel) contentHeight() int {
	height := m.height - 6
	if height < 3 {
		height = 3
	}
	return height
}

func (m *monitorModel) View() string {
	if !m.IsReady() {
		return styles.InfoStyle.Render("Starting monitor...")
	}

	var content string
	if m.view == viewTable {
		content = m.table.View()
	} else {
		content = m.console.View()
	}
	content = lipgloss.NewStyle().Height(m.contentHeight()).Render(content)

	inputView := m.input.ViewWithMode(m.IsInInsertMode())
	statusView := m.statusBar.View(m.GetInputMode().String(), time.Now().Format("15:04:05"))
	helpView := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		inputView,
		statusView,
		helpView,
	)
}

package components

import (
	"strings"

	"github.com/allbin/lightbridge/internal/tui/colors"
	"github.com/allbin/lightbridge/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Input is the command entry field with history navigation.
type Input struct {
	textInput     textinput.Model
	history       []string
	historyIndex  int
	currentInput  string // input preserved while navigating history
	terminalWidth int
}

func NewInput(placeholder string) *Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Prompt = "" // prompt styling handled in View
	ti.Focus()

	return &Input{
		textInput:    ti,
		history:      make([]string, 0),
		historyIndex: -1,
	}
}

func (i *Input) SetWidth(width int) {
	i.terminalWidth = width
	// Account for border(2) + padding(2) + prompt(1) + space(1)
	usableWidth := width - 6
	if usableWidth < 20 {
		usableWidth = 20
	}
	i.textInput.Width = usableWidth
}

func (i *Input) Focus() {
	i.textInput.Focus()
}

func (i *Input) Blur() {
	i.textInput.Blur()
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) ViewWithMode(isInsertMode bool) string {
	promptStyle := lipgloss.NewStyle().
		Foreground(colors.Green).
		Bold(true)
	styledPrompt := promptStyle.Render(">")

	var inputContent string
	if isInsertMode {
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", i.textInput.View())
	} else {
		instruction := lipgloss.NewStyle().
			Foreground(colors.Overlay0).
			Render("Press 'i' to enter insert mode")
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", instruction)
	}

	// Border adds 2 characters, padding another 2.
	adjustedWidth := i.terminalWidth - 4
	if adjustedWidth < 10 {
		adjustedWidth = 10
	}

	inputStyle := styles.InputStyle.
		Width(adjustedWidth).
		AlignHorizontal(lipgloss.Left)
	if isInsertMode {
		inputStyle = inputStyle.BorderForeground(colors.Green)
	}

	return inputStyle.Render(inputContent)
}

// AddToHistory adds a command to the history if it's not empty or a duplicate
func (i *Input) AddToHistory(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	if len(i.history) > 0 && i.history[len(i.history)-1] == command {
		return
	}

	i.history = append(i.history, command)
	if len(i.history) > 100 {
		i.history = i.history[1:]
	}

	i.historyIndex = -1
	i.currentInput = ""
}

// NavigateHistoryUp moves up in command history
func (i *Input) NavigateHistoryUp() {
	if len(i.history) == 0 {
		return
	}

	if i.historyIndex == -1 {
		i.currentInput = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}

	i.textInput.SetValue(i.history[i.historyIndex])
	i.textInput.CursorEnd()
}

// NavigateHistoryDown moves down in command history
func (i *Input) NavigateHistoryDown() {
	if i.historyIndex == -1 {
		return
	}

	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
	} else {
		i.historyIndex = -1
		i.textInput.SetValue(i.currentInput)
	}
	i.textInput.CursorEnd()
}

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/lightbridge/internal/tui/colors"
	"github.com/allbin/lightbridge/internal/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ExchangeMsg records one command/reply round trip with the bridge.
type ExchangeMsg struct {
	Timestamp time.Time
	Request   string
	Reply     string
	Err       error
}

// Console renders the scrolling exchange log.
type Console struct {
	viewport viewport.Model
	data     []string
}

func NewConsole(width, height int) *Console {
	vp := viewport.New(width, height)
	return &Console{
		viewport: vp,
		data:     make([]string, 0),
	}
}

func (c *Console) SetSize(width, height int) {
	c.viewport.Width = width
	c.viewport.Height = height
}

func (c *Console) AddExchange(msg ExchangeMsg) {
	c.data = append(c.data, FormatExchange(msg))

	// Keep the viewport pinned to the latest exchange.
	c.viewport.SetContent(strings.Join(c.data, "\n"))
	c.viewport.GotoBottom()
}

func (c *Console) AddNotice(text string) {
	notice := lipgloss.NewStyle().Foreground(colors.Overlay0).Render(text)
	c.data = append(c.data, notice)
	c.viewport.SetContent(strings.Join(c.data, "\n"))
	c.viewport.GotoBottom()
}

func (c *Console) Clear() {
	c.data = make([]string, 0)
	c.viewport.SetContent("")
}

func (c *Console) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Only window sizing reaches the viewport so it cannot swallow the
	// monitor's key bindings.
	switch msg.(type) {
	case tea.WindowSizeMsg:
		return c.viewport.Update(msg)
	default:
		return c.viewport, nil
	}
}

func (c *Console) View() string {
	return c.viewport.View()
}

// FormatExchange renders one exchange as a two-part log line:
// timestamp, outgoing command, and the styled reply.
func FormatExchange(msg ExchangeMsg) string {
	timestamp := lipgloss.NewStyle().
		Foreground(colors.Overlay0).
		Render(msg.Timestamp.Format("15:04:05.000"))

	request := lipgloss.NewStyle().
		Foreground(colors.Text).
		Render(fmt.Sprintf("→ %s", msg.Request))

	var reply string
	switch {
	case msg.Err != nil:
		reply = styles.ReplyErrorStyle.Render(fmt.Sprintf("← %v", msg.Err))
	case msg.Reply == "OK":
		reply = styles.ReplyOKStyle.Render("← OK")
	default:
		reply = styles.ReplyErrorStyle.Render(fmt.Sprintf("← %s", msg.Reply))
	}

	return fmt.Sprintf("%s %s %s", timestamp, request, reply)
}

package components

import (
	"fmt"

	"github.com/allbin/lightbridge/internal/tui/colors"
	"github.com/allbin/lightbridge/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

const (
	columnKeyTime    = "time"
	columnKeyCommand = "command"
	columnKeyReply   = "reply"

	maxHistoryRows = 500
)

// HistoryTable is the tabular view of past exchanges, an alternative to the
// scrolling console.
type HistoryTable struct {
	model table.Model
	rows  []table.Row
}

func NewHistoryTable(width, height int) *HistoryTable {
	columns := []table.Column{
		table.NewColumn(columnKeyTime, "Time", 14),
		table.NewFlexColumn(columnKeyCommand, "Command", 3),
		table.NewFlexColumn(columnKeyReply, "Reply", 2),
	}

	model := table.New(columns).
		WithTargetWidth(width).
		WithPageSize(pageSize(height)).
		WithBaseStyle(lipgloss.NewStyle().
			BorderForeground(colors.Surface1).
			Foreground(colors.Text).
			Align(lipgloss.Left)).
		Focused(false)

	return &HistoryTable{model: model}
}

func (h *HistoryTable) SetSize(width, height int) {
	h.model = h.model.
		WithTargetWidth(width).
		WithPageSize(pageSize(height))
}

func (h *HistoryTable) AddExchange(msg ExchangeMsg) {
	var reply string
	switch {
	case msg.Err != nil:
		reply = styles.ReplyErrorStyle.Render(fmt.Sprintf("%v", msg.Err))
	case msg.Reply == "OK":
		reply = styles.ReplyOKStyle.Render("OK")
	default:
		reply = styles.ReplyErrorStyle.Render(msg.Reply)
	}

	row := table.NewRow(table.RowData{
		columnKeyTime:    msg.Timestamp.Format("15:04:05.000"),
		columnKeyCommand: msg.Request,
		columnKeyReply:   reply,
	})

	h.rows = append(h.rows, row)
	if len(h.rows) > maxHistoryRows {
		h.rows = h.rows[1:]
	}
	h.model = h.model.WithRows(h.rows)
}

func (h *HistoryTable) Clear() {
	h.rows = nil
	h.model = h.model.WithRows(nil)
}

func (h *HistoryTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	return cmd
}

func (h *HistoryTable) View() string {
	return h.model.View()
}

// pageSize keeps the table inside the content area: borders and the header
// row eat four lines.
func pageSize(height int) int {
	size := height - 4
	if size < 3 {
		size = 3
	}
	return size
}

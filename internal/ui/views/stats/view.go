package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "davomat/internal/modules/session/dto"
	"davomat/internal/ui/theme"
)

type StatsPort interface {
	Summaries(ctx context.Context, from, to string) ([]sessiondto.SummaryOutput, error)
}

type LoadedMsg struct {
	From, To  string
	Summaries []sessiondto.SummaryOutput
	Err       error
}

// Model renders per-worker totals for a date range as a table.
type Model struct {
	port     StatsPort
	table    viewport.Model
	spinner  spinner.Model
	from, to string
	rows     []sessiondto.SummaryOutput
	err      error
	loading  bool
	width    int
	height   int
}

func New(port StatsPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)
	return Model{port: port, table: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Load("", ""), m.spinner.Tick)
}

// Load queries a range; empty bounds are open.
func (m Model) Load(from, to string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{From: from, To: to}
		}
		rows, err := m.port.Summaries(context.Background(), from, to)
		return LoadedMsg{From: from, To: to, Summaries: rows, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.Width = m.width - 4
		m.table.Height = m.height - 4
	case LoadedMsg:
		m.loading = false
		m.from, m.to = msg.From, msg.To
		m.rows, m.err = msg.Summaries, msg.Err
		m.table.SetContent(m.render())
		m.table.GotoTop()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading totals…")
	}
	return theme.Pane.Width(m.width - 2).Height(m.height - 2).Render(m.table.View())
}

func (m Model) render() string {
	var sb strings.Builder
	span := "all time"
	if m.from != "" || m.to != "" {
		span = fmt.Sprintf("%s … %s", orDash(m.from), orDash(m.to))
	}
	sb.WriteString(theme.Title.Render("Totals  "+span) + "\n\n")
	if m.err != nil {
		return sb.String() + theme.Hot.Render(m.err.Error())
	}
	if len(m.rows) == 0 {
		return sb.String() + theme.Muted.Render("No archived shifts in range")
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-14s %-28s %7s %9s %14s", "telegram id", "ism", "smena", "soat", "xarajat")) + "\n")
	var shifts, minutes int
	var spent float64
	for _, r := range m.rows {
		sb.WriteString(fmt.Sprintf("%-14s %-28s %7d %9s %14.0f\n",
			r.TelegramID, clip(r.Name, 28), r.Shifts, hours(r.Minutes), r.TotalExpense))
		shifts += r.Shifts
		minutes += r.Minutes
		spent += r.TotalExpense
	}
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("%-14s %-28s %7d %9s %14.0f", "", "jami", shifts, hours(minutes), spent)))
	return sb.String()
}

func hours(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

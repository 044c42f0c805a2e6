package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "davomat/internal/modules/session/dto"
	"davomat/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	ListOpen(ctx context.Context) ([]sessiondto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Sessions []sessiondto.SessionOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionOutput
}

func (i sessionItem) Title() string {
	object := i.session.Object
	if object == "" {
		object = "(obyekt yo'q)"
	}
	return i.session.UserID + "  " + object
}

func (i sessionItem) Description() string {
	state := "ochiq"
	if i.session.EndTime != "" {
		state = "tugagan, arxivlanmagan"
	}
	return fmt.Sprintf("%s %s  %s", i.session.Date, i.session.StartTime, state)
}

func (i sessionItem) FilterValue() string { return i.session.UserID + " " + i.session.Object }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    SessionPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port SessionPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Open shifts"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, detail: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the open shifts again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		sessions, err := m.port.ListOpen(context.Background())
		return LoadedMsg{Sessions: sessions, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Open shifts: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = fmt.Sprintf("Open shifts (%d)", len(msg.Sessions))
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prev := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			m.detail.SetContent(m.renderDetail())
		}
		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading shifts…")
	}
	listW := m.width * 4 / 10
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.
		Width(m.width - listW - 2).
		Height(m.height - 2).
		Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedUserID returns the worker of the highlighted shift.
func (m Model) SelectedUserID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.UserID, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.detail.Width = m.width - listW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No open shifts")
	}
	s := item.session
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-10s", label)) + value + "\n")
	}
	sb.WriteString(theme.Title.Render(s.Object) + "\n\n")
	row("worker", s.UserID)
	row("date", s.Date)
	row("start", s.StartTime)
	if s.EndTime != "" {
		row("end", s.EndTime)
		sb.WriteString(theme.Alert.Render("ended, not archived") + "\n")
	}
	if s.StartLocation != "" {
		row("location", s.StartLocation)
	}
	row("avans", fmt.Sprintf("%.0f", s.Advance))
	row("taxi", fmt.Sprintf("%.0f", s.Taxi))
	row("ovqat", fmt.Sprintf("%.0f", s.Food))
	for _, e := range s.OtherExpenses {
		row("boshqa", fmt.Sprintf("%s %.0f", e.Name, e.Amount))
	}
	sb.WriteString(theme.Hot.Render(fmt.Sprintf("jami %.0f so'm", s.TotalExpense)) + "\n")
	if s.HasVideo {
		row("video", "ha")
	}
	if len(s.Comments) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Izohlar") + "\n")
		for _, c := range s.Comments {
			sb.WriteString("• " + c + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render(":finalize  archive this shift"))
	return sb.String()
}

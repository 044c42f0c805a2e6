package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "davomat/internal/modules/report/dto"
	sessiondto "davomat/internal/modules/session/dto"
	"davomat/internal/ui/components"
	"davomat/internal/ui/theme"
	sessionsview "davomat/internal/ui/views/sessions"
	statsview "davomat/internal/ui/views/stats"
	workersview "davomat/internal/ui/views/workers"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	ListOpen(ctx context.Context) ([]sessiondto.SessionOutput, error)
	Finalize(ctx context.Context, userID string) (sessiondto.ArchivedOutput, error)
	Reindex(ctx context.Context) (int, error)
	Stats(ctx context.Context, from, to string) ([]sessiondto.SummaryOutput, error)
}

type reportPort interface {
	Workers(ctx context.Context) ([]reportdto.WorkerOutput, error)
	Export(ctx context.Context, from, to string) (reportdto.FileOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabShifts tabID = iota
	tabTotals
	tabWorkers
	tabCount
)

var tabLabels = [tabCount]string{"Shifts", "Totals", "Workers"}

// ─── async messages ──────────────────────────────────────────────────────────

type finalizedMsg struct {
	out sessiondto.ArchivedOutput
	err error
}

type reindexedMsg struct {
	n   int
	err error
}

type exportedMsg struct {
	out reportdto.FileOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model of the attendance dashboard. Business
// calls go through the ports; rendering is delegated to the tab views.
type Model struct {
	sessions sessionPort
	reports  reportPort

	shiftsView  sessionsview.Model
	totalsView  statsview.Model
	workersView workersview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(sessions sessionPort, reports reportPort) Model {
	return Model{
		sessions:    sessions,
		reports:     reports,
		shiftsView:  sessionsview.New(sessions),
		totalsView:  statsview.New(statsBridge{p: sessions}),
		workersView: workersview.New(workersBridge{p: reports}),
		activeTab:   tabShifts,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.shiftsView.Init(), m.totalsView.Init(), m.workersView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case finalizedMsg:
		if msg.err != nil {
			m.status = "finalize failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("archived %s %s (%s)", msg.out.TelegramID, msg.out.Object, msg.out.Duration)
		return m, m.refreshCmd()

	case reindexedMsg:
		if msg.err != nil {
			m.status = "reindex failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("reindexed %d shifts", msg.n)
		}
		return m, m.totalsView.Load("", "")

	case exportedMsg:
		switch {
		case msg.err != nil:
			m.status = "export failed: " + msg.err.Error()
		case msg.out.Path == "":
			m.status = "nothing to export"
		default:
			m.status = fmt.Sprintf("exported %d rows to %s", msg.out.Rows, msg.out.Path)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case sessionsview.LoadedMsg:
		var cmd tea.Cmd
		m.shiftsView, cmd = m.shiftsView.Update(msg)
		return m, cmd

	case statsview.LoadedMsg:
		var cmd tea.Cmd
		m.totalsView, cmd = m.totalsView.Update(msg)
		return m, cmd

	case workersview.LoadedMsg:
		var cmd tea.Cmd
		m.workersView, cmd = m.workersView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.subViewFiltering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			m.status = "refreshing"
			return m, m.refreshCmd()
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabShifts:
		m.shiftsView, tabCmd = m.shiftsView.Update(msg)
	case tabTotals:
		m.totalsView, tabCmd = m.totalsView.Update(msg)
	case tabWorkers:
		m.workersView, tabCmd = m.workersView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabShifts:
		return m.shiftsView.View()
	case tabTotals:
		return m.totalsView.View()
	case tabWorkers:
		return m.workersView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "davomat  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  r:refresh  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	switch parts[0] {
	case "finalize":
		userID := arg(1)
		if userID == "" {
			selected, ok := m.shiftsView.SelectedUserID()
			if !ok {
				m.status = "no shift selected"
				return m, nil
			}
			userID = selected
		}
		return m, m.finalizeCmd(userID)

	case "stats":
		m.activeTab = tabTotals
		return m, m.totalsView.Load(arg(1), arg(2))

	case "export":
		m.status = "exporting…"
		return m, m.exportCmd(arg(1), arg(2))

	case "reindex":
		return m, m.reindexCmd()

	case "refresh":
		return m, m.refreshCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabShifts:
		return m.shiftsView.Filtering()
	case tabWorkers:
		return m.workersView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.shiftsView, _ = m.shiftsView.Update(sz)
	m.totalsView, _ = m.totalsView.Update(sz)
	m.workersView, _ = m.workersView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(m.shiftsView.Reload(), m.totalsView.Load("", ""), m.workersView.Reload())
}

func (m Model) finalizeCmd(userID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.sessions.Finalize(context.Background(), userID)
		return finalizedMsg{out: out, err: err}
	}
}

func (m Model) reindexCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.sessions.Reindex(context.Background())
		return reindexedMsg{n: n, err: err}
	}
}

func (m Model) exportCmd(from, to string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.reports.Export(context.Background(), from, to)
		return exportedMsg{out: out, err: err}
	}
}

// ─── port bridges ────────────────────────────────────────────────────────────

type statsBridge struct{ p sessionPort }

func (b statsBridge) Summaries(ctx context.Context, from, to string) ([]sessiondto.SummaryOutput, error) {
	return b.p.Stats(ctx, from, to)
}

type workersBridge struct{ p reportPort }

func (b workersBridge) ListWorkers(ctx context.Context) ([]reportdto.WorkerOutput, error) {
	return b.p.Workers(ctx)
}

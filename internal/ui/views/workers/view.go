package workers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "davomat/internal/modules/report/dto"
	"davomat/internal/ui/theme"
)

type WorkerPort interface {
	ListWorkers(ctx context.Context) ([]reportdto.WorkerOutput, error)
}

type LoadedMsg struct {
	Workers []reportdto.WorkerOutput
	Err     error
}

type workerItem struct {
	worker reportdto.WorkerOutput
}

func (i workerItem) Title() string {
	return fmt.Sprintf("%d. %s", i.worker.Number, i.worker.Name)
}
func (i workerItem) Description() string { return i.worker.Handle + "  " + i.worker.Phone }
func (i workerItem) FilterValue() string { return i.worker.Name + " " + i.worker.Phone }

type Model struct {
	port   WorkerPort
	list   list.Model
	width  int
	height int
}

func New(port WorkerPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Peach).BorderForeground(theme.Peach)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Workers"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		workers, err := m.port.ListWorkers(context.Background())
		return LoadedMsg{Workers: workers, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Workers: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = fmt.Sprintf("Workers (%d)", len(msg.Workers))
		items := make([]list.Item, len(msg.Workers))
		for i, w := range msg.Workers {
			items[i] = workerItem{worker: w}
		}
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

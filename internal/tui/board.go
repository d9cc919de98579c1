// Package tui renders the live task board: one column per task status,
// refreshed from the task store on a timer. The board is read-only; all
// mutation goes through the coordinator.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/steward-sh/steward/internal/coordinator"
	"github.com/steward-sh/steward/internal/state"
	"github.com/steward-sh/steward/pkg/models"
)

// boardColumns fixes the column order.
var boardColumns = []models.TaskStatus{
	models.TaskStatusTodo,
	models.TaskStatusInProgress,
	models.TaskStatusBlocked,
	models.TaskStatusCompleted,
	models.TaskStatusRefused,
}

// tickMsg drives the refresh timer.
type tickMsg time.Time

// tasksMsg carries a fresh task snapshot.
type tasksMsg struct {
	tasks []models.Task
	err   error
}

// Board is the bubbletea model for the task board.
type Board struct {
	store   *state.DB
	logger  *coordinator.Logger
	refresh time.Duration

	spinner  spinner.Model
	tasks    []models.Task
	err      error
	width    int
	height   int
	showLog  bool
	quitting bool
}

// NewBoard creates a board refreshing from the store. Logger may be nil;
// with one, the l key toggles the session log tail.
func NewBoard(store *state.DB, logger *coordinator.Logger, refresh time.Duration) *Board {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	return &Board{
		store:   store,
		logger:  logger,
		refresh: refresh,
		spinner: s,
	}
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.loadTasks, b.tick())
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			b.quitting = true
			return b, tea.Quit
		case "r":
			return b, b.loadTasks
		case "l":
			b.showLog = !b.showLog
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height

	case tickMsg:
		return b, tea.Batch(b.loadTasks, b.tick())

	case tasksMsg:
		b.tasks = msg.tasks
		b.err = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}

	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("steward board"))
	sb.WriteString("\n\n")

	if b.err != nil {
		sb.WriteString(fmt.Sprintf("error reading task store: %v\n", b.err))
		return sb.String()
	}

	byStatus := make(map[models.TaskStatus][]models.Task)
	for _, t := range b.tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := make([]string, 0, len(boardColumns))
	for _, status := range boardColumns {
		columns = append(columns, b.renderColumn(status, byStatus[status]))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	sb.WriteString("\n")

	if b.showLog && b.logger != nil {
		sb.WriteString("\n")
		tail := b.logger.Tail()
		if len(tail) > 10 {
			tail = tail[len(tail)-10:]
		}
		for _, line := range tail {
			sb.WriteString(logStyle.Render(line))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(footerStyle.Render("r refresh | l log | q quit"))
	return sb.String()
}

// renderColumn renders one status column.
func (b *Board) renderColumn(status models.TaskStatus, tasks []models.Task) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s (%d)", status, len(tasks))
	if status == models.TaskStatusInProgress && len(tasks) > 0 {
		header = b.spinner.View() + " " + header
	}
	sb.WriteString(columnTitleStyle.Render(header))
	sb.WriteString("\n")

	if len(tasks) == 0 {
		sb.WriteString(taskIDStyle.Render("—"))
	}
	for _, t := range tasks {
		sb.WriteString(b.renderTask(t))
		sb.WriteString("\n")
	}
	return columnStyle.Render(sb.String())
}

// renderTask renders one card: short id, domain, score when known.
func (b *Board) renderTask(t models.Task) string {
	id := t.ID
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("%s %s", taskIDStyle.Render(id), t.Domain)
	if t.ComplexityScore != nil {
		line += fmt.Sprintf(" [%d]", *t.ComplexityScore)
	}
	if style, ok := statusStyles[string(t.Status)]; ok {
		return style.Render(line)
	}
	return line
}

// loadTasks reads a fresh snapshot from the store.
func (b *Board) loadTasks() tea.Msg {
	tasks, err := b.store.ListTasks(nil)
	return tasksMsg{tasks: tasks, err: err}
}

func (b *Board) tick() tea.Cmd {
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the board and blocks until it exits.
func Run(store *state.DB, logger *coordinator.Logger, refresh time.Duration) error {
	p := tea.NewProgram(NewBoard(store, logger, refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

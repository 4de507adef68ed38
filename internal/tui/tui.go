// Package tui is the interactive task list, driven by the task API.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/ui"
)

// TaskAPI is what the view needs from the API client.
type TaskAPI interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title string) (model.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// Results of API calls, delivered back into Update.
type (
	tasksLoadedMsg struct {
		tasks []model.Task
		err   error
	}
	taskCreatedMsg struct {
		task model.Task
		err  error
	}
	taskToggledMsg struct {
		id   string
		task model.Task
		err  error
	}
	taskDeletedMsg struct {
		id  string
		err error
	}
)

// listItem adapts a Task to bubbles/list.Item
type listItem struct {
	task model.Task
	busy bool
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	title := it.task.Title
	if it.task.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	if it.busy {
		title += " " + t.Muted.Render(t.SymBusy)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+title)
}

type keyMap struct {
	Toggle key.Binding
	Delete key.Binding
	Add    key.Binding
	Reload key.Binding
	Quit   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx   context.Context
	api   TaskAPI
	state *State
	keys  keyMap

	list    list.Model
	input   textinput.Model
	spinner spinner.Model
	adding  bool

	width, height int
}

func New(ctx context.Context, api TaskAPI) Model {
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	extra := func() []key.Binding { return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Reload} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Enter task..."

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := NewState()
	st.BeginLoad()

	m := Model{
		ctx:     ctx,
		api:     api,
		state:   st,
		keys:    keys,
		list:    l,
		input:   ti,
		spinner: sp,
		width:   80,
		height:  24,
	}
	m.resize()
	return m
}

// State exposes the view state, mainly for tests.
func (m Model) State() *State { return m.state }

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, api TaskAPI, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, api), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTasks())
}

// --- commands ---

func (m Model) loadTasks() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		tasks, err := api.List(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		t, err := api.Create(ctx, title)
		return taskCreatedMsg{task: t, err: err}
	}
}

func (m Model) setCompleted(id string, completed bool) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		t, err := api.SetCompleted(ctx, id, completed)
		return taskToggledMsg{id: id, task: t, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: api.Delete(ctx, id)}
	}
}

// --- update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		if msg.err != nil {
			m.state.LoadFailed()
			return m, nil
		}
		m.state.LoadSucceeded(msg.tasks)
		cmd := m.syncItems()
		return m, cmd

	case taskCreatedMsg:
		if msg.err != nil {
			m.state.AddFailed()
			return m, nil
		}
		m.state.AddSucceeded(msg.task)
		m.input.SetValue("")
		cmd := m.syncItems()
		m.list.Select(len(m.list.Items()) - 1)
		return m, cmd

	case taskToggledMsg:
		if msg.err != nil {
			m.state.ToggleFailed(msg.id)
		} else {
			m.state.ToggleSucceeded(msg.id, msg.task)
		}
		cmd := m.syncItems()
		return m, cmd

	case taskDeletedMsg:
		if msg.err != nil {
			m.state.DeleteFailed(msg.id)
		} else {
			m.state.DeleteSucceeded(msg.id)
		}
		cmd := m.syncItems()
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue(m.state.Draft)
			m.input.CursorEnd()
			m.resize()
			cmd := m.input.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Reload):
			m.state.BeginLoad()
			return m, tea.Batch(m.spinner.Tick, m.loadTasks())
		case key.Matches(msg, m.keys.Toggle):
			id, ok := m.selectedID()
			if !ok {
				return m, nil
			}
			completed, ok := m.state.BeginToggle(id)
			if !ok {
				return m, nil
			}
			cmd := m.syncItems()
			return m, tea.Batch(cmd, m.setCompleted(id, completed))
		case key.Matches(msg, m.keys.Delete):
			id, ok := m.selectedID()
			if !ok || !m.state.BeginDelete(id) {
				return m, nil
			}
			cmd := m.syncItems()
			return m, tea.Batch(cmd, m.deleteTask(id))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.state.Draft = m.input.Value()
		title, ok := m.state.BeginAdd()
		if !ok {
			return m, nil
		}
		return m, m.createTask(title)
	}
	if m.state.Adding() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state.Draft = m.input.Value()
	return m, cmd
}

// syncItems rebuilds the list rows from state.
func (m *Model) syncItems() tea.Cmd {
	items := make([]list.Item, 0, len(m.state.Tasks))
	for _, t := range m.state.Tasks {
		items = append(items, listItem{task: t, busy: m.state.Busy(t.ID)})
	}
	return m.list.SetItems(items)
}

func (m Model) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return "", false
	}
	return it.task.ID, true
}

func (m *Model) resize() {
	// header (2) + error line (1) + frame (2)
	h := m.height - 5
	if m.adding {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

// --- view ---

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	done, pending := m.state.Counts()
	fmt.Fprintf(&b, "%s   %s %d  %s %d  %s %d\n",
		t.Title.Render("TaskTrackr"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(m.state.Tasks),
	)
	b.WriteString(t.Muted.Render(ui.ProgressBar(done, done+pending, 28)))
	b.WriteString("\n")

	if m.state.Err != "" {
		b.WriteString(t.Error.Render(m.state.Err))
	}
	b.WriteString("\n")

	switch {
	case m.state.Loading():
		b.WriteString(m.spinner.View() + " Loading tasks...")
	case len(m.state.Tasks) == 0:
		b.WriteString(t.Muted.Render("No tasks yet. Press a to add one!"))
	default:
		b.WriteString(m.list.View())
	}

	if m.adding {
		b.WriteString("\n")
		label := "Add new task"
		if m.state.Adding() {
			label += " " + t.Muted.Render("(saving...)")
		}
		b.WriteString(ui.Panel(label + "\n" + m.input.View()))
	}
	return ui.Panel(b.String())
}

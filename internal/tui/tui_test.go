package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tasktrackr/internal/model"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	listFn   func() ([]model.Task, error)
	createFn func(title string) (model.Task, error)
	setFn    func(id string, completed bool) (model.Task, error)
	deleteFn func(id string) error
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) List(context.Context) ([]model.Task, error) {
	f.record("list")
	if f.listFn == nil {
		return []model.Task{}, nil
	}
	return f.listFn()
}

func (f *fakeAPI) Create(_ context.Context, title string) (model.Task, error) {
	f.record("create " + title)
	if f.createFn == nil {
		return model.Task{ID: "new", Title: title}, nil
	}
	return f.createFn(title)
}

func (f *fakeAPI) SetCompleted(_ context.Context, id string, completed bool) (model.Task, error) {
	f.record("set " + id)
	if f.setFn == nil {
		return model.Task{ID: id, Completed: completed}, nil
	}
	return f.setFn(id, completed)
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.record("delete " + id)
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(id)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func newLoaded(t *testing.T, api *fakeAPI, tasks ...model.Task) Model {
	t.Helper()
	m := New(context.Background(), api)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, tasksLoadedMsg{tasks: tasks})
	return m
}

func TestModel_StartsLoading(t *testing.T) {
	api := &fakeAPI{listFn: func() ([]model.Task, error) {
		return []model.Task{{ID: "1", Title: "Buy milk"}}, nil
	}}
	m := New(context.Background(), api)

	if !m.State().Loading() {
		t.Fatal("new model is not loading")
	}
	if !strings.Contains(m.View(), "Loading tasks") {
		t.Fatalf("View() while loading:\n%s", m.View())
	}

	msg := m.loadTasks()()
	m, _ = update(t, m, msg)
	if m.State().Loading() || len(m.State().Tasks) != 1 {
		t.Fatalf("after load: %+v", m.State())
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("View() missing task:\n%s", m.View())
	}
}

func TestModel_LoadFailure(t *testing.T) {
	m := New(context.Background(), &fakeAPI{})
	m, _ = update(t, m, tasksLoadedMsg{err: errors.New("connection refused")})

	if m.State().Err != MsgLoadFailed {
		t.Fatalf("Err = %q", m.State().Err)
	}
	if !strings.Contains(m.View(), MsgLoadFailed) {
		t.Fatalf("View() missing error:\n%s", m.View())
	}
}

func TestModel_EmptyList(t *testing.T) {
	m := newLoaded(t, &fakeAPI{})
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Fatalf("View() for empty list:\n%s", m.View())
	}
}

func TestModel_AddFlow(t *testing.T) {
	api := &fakeAPI{}
	m := newLoaded(t, api)

	m, _ = update(t, m, runes("a"))
	if !m.adding {
		t.Fatal("a did not open the add form")
	}

	// blank submit makes no request
	m, cmd := update(t, m, keyEnter)
	if cmd != nil {
		t.Fatal("blank submit returned a command")
	}

	m, _ = update(t, m, runes("Buy milk"))
	if m.State().Draft != "Buy milk" {
		t.Fatalf("Draft = %q", m.State().Draft)
	}

	m, cmd = update(t, m, keyEnter)
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	if !m.State().Adding() {
		t.Fatal("add not in flight after submit")
	}

	// enter again before the server answers sends nothing
	m, again := update(t, m, keyEnter)
	if again != nil {
		t.Fatal("second submit while saving returned a command")
	}
	m, _ = update(t, m, runes("!"))
	if m.input.Value() != "Buy milk" {
		t.Fatalf("input edited while saving: %q", m.input.Value())
	}

	m, _ = update(t, m, cmd())
	if m.State().Adding() {
		t.Fatal("add still in flight after the response")
	}

	if len(m.State().Tasks) != 1 || m.State().Tasks[0].Title != "Buy milk" {
		t.Fatalf("Tasks = %+v", m.State().Tasks)
	}
	if m.State().Draft != "" || m.input.Value() != "" {
		t.Fatalf("input not cleared: draft=%q input=%q", m.State().Draft, m.input.Value())
	}
	if got := strings.Join(api.calls, ","); got != "create Buy milk" {
		t.Fatalf("calls = %s", got)
	}

	m, _ = update(t, m, keyEsc)
	if m.adding {
		t.Fatal("esc did not close the add form")
	}
}

func TestModel_AddFailureKeepsDraft(t *testing.T) {
	api := &fakeAPI{createFn: func(string) (model.Task, error) { return model.Task{}, errors.New("500") }}
	m := newLoaded(t, api)

	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, runes("Walk dog"))
	m, cmd := update(t, m, keyEnter)
	m, _ = update(t, m, cmd())

	if m.State().Err != MsgAddFailed {
		t.Fatalf("Err = %q", m.State().Err)
	}
	if m.input.Value() != "Walk dog" || len(m.State().Tasks) != 0 {
		t.Fatalf("after failure: input=%q tasks=%+v", m.input.Value(), m.State().Tasks)
	}
}

func TestModel_Toggle(t *testing.T) {
	api := &fakeAPI{}
	m := newLoaded(t, api, model.Task{ID: "1", Title: "Buy milk"})

	m, cmd := update(t, m, keySpace)
	if cmd == nil {
		t.Fatal("toggle returned no command")
	}
	if !m.State().Busy("1") {
		t.Fatal("task not busy while request is in flight")
	}

	// a second press while busy is ignored
	m, cmd2 := update(t, m, keySpace)
	if cmd2 != nil {
		t.Fatal("toggle on busy task returned a command")
	}

	m, _ = update(t, m, m.setCompleted("1", true)())
	if m.State().Busy("1") || !m.State().Tasks[0].Completed {
		t.Fatalf("after toggle: %+v", m.State().Tasks)
	}
}

func TestModel_ToggleFailure(t *testing.T) {
	api := &fakeAPI{setFn: func(string, bool) (model.Task, error) { return model.Task{}, errors.New("404") }}
	m := newLoaded(t, api, model.Task{ID: "1", Title: "Buy milk"})

	m, _ = update(t, m, keySpace)
	m, _ = update(t, m, m.setCompleted("1", true)())

	if m.State().Err != MsgUpdateFailed || m.State().Tasks[0].Completed || m.State().Busy("1") {
		t.Fatalf("after failed toggle: err=%q tasks=%+v", m.State().Err, m.State().Tasks)
	}
}

func TestModel_Delete(t *testing.T) {
	api := &fakeAPI{}
	m := newLoaded(t, api,
		model.Task{ID: "1", Title: "keep"},
		model.Task{ID: "2", Title: "drop"},
	)

	m.list.Select(1)
	m, cmd := update(t, m, runes("d"))
	if cmd == nil || !m.State().Busy("2") {
		t.Fatal("delete did not start a request for the selected task")
	}

	m, _ = update(t, m, m.deleteTask("2")())
	if len(m.State().Tasks) != 1 || m.State().Tasks[0].ID != "1" {
		t.Fatalf("after delete: %+v", m.State().Tasks)
	}
	if got := strings.Join(api.calls, ","); got != "delete 2" {
		t.Fatalf("calls = %s", got)
	}
}

func TestModel_DeleteFailure(t *testing.T) {
	api := &fakeAPI{deleteFn: func(string) error { return errors.New("500") }}
	m := newLoaded(t, api, model.Task{ID: "1", Title: "keep"})

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, m.deleteTask("1")())

	if m.State().Err != MsgDeleteFailed || len(m.State().Tasks) != 1 {
		t.Fatalf("after failed delete: err=%q tasks=%+v", m.State().Err, m.State().Tasks)
	}
}

func TestModel_Reload(t *testing.T) {
	m := newLoaded(t, &fakeAPI{})
	m, cmd := update(t, m, runes("r"))
	if cmd == nil || !m.State().Loading() {
		t.Fatal("r did not start a reload")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newLoaded(t, &fakeAPI{})
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestModel_AddLongTitle(t *testing.T) {
	api := &fakeAPI{}
	m := newLoaded(t, api)

	long := strings.Repeat("x", 300)
	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, runes(long))
	if m.input.Value() != long {
		t.Fatalf("input kept %d chars, want %d", len(m.input.Value()), len(long))
	}

	_, cmd := update(t, m, keyEnter)
	cmd()
	if got := strings.Join(api.calls, ","); got != "create "+long {
		t.Fatalf("create sent a truncated title (%d chars)", len(got)-len("create "))
	}
}

package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

// TaskStore keeps tasks in process memory. Useful for tests and demos.
type TaskStore struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]model.Task
}

func New() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]model.Task),
	}
}

func (ts *TaskStore) List(_ context.Context) ([]model.Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	tasks := make([]model.Task, 0, len(ts.order))
	for _, id := range ts.order {
		tasks = append(tasks, ts.tasks[id])
	}
	return tasks, nil
}

func (ts *TaskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	t.ID = uuid.New().String()

	ts.mu.Lock()
	ts.tasks[t.ID] = t
	ts.order = append(ts.order, t.ID)
	ts.mu.Unlock()

	return t, nil
}

func (ts *TaskStore) SetCompleted(_ context.Context, id string, completed bool) (model.Task, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.tasks[id]
	if !ok {
		return model.Task{}, store.ErrNotFound
	}
	t.Completed = completed
	ts.tasks[id] = t
	return t, nil
}

func (ts *TaskStore) Delete(_ context.Context, id string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(ts.tasks, id)
	for i, v := range ts.order {
		if v == id {
			ts.order = append(ts.order[:i], ts.order[i+1:]...)
			break
		}
	}
	return nil
}

func (ts *TaskStore) Close(_ context.Context) error { return nil }

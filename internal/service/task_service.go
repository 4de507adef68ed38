// Package service holds the task rules that sit between the API and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

// TaskService validates requests and forwards them to a store.TaskStore.
type TaskService struct {
	store store.TaskStore
}

// New returns a TaskService over s.
func New(s store.TaskStore) (*TaskService, error) {
	if s == nil {
		return nil, ErrStoreNil
	}
	return &TaskService{store: s}, nil
}

// ListTasks returns every task in creation order, never nil.
func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, translate("list tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// CreateTask stores a new, not yet completed task with the trimmed title.
func (s *TaskService) CreateTask(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}

	created, err := s.store.Create(ctx, model.Task{Title: title, Completed: false})
	if err != nil {
		return model.Task{}, translate("create task", err)
	}
	return created, nil
}

// SetCompleted sets the completed flag of task id and returns the result.
func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	if strings.TrimSpace(id) == "" {
		return model.Task{}, ErrNotFound
	}

	updated, err := s.store.SetCompleted(ctx, id, completed)
	if err != nil {
		return model.Task{}, translate("update task", err)
	}
	return updated, nil
}

// DeleteTask removes task id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return translate("delete task", err)
	}
	return nil
}

// translate maps store errors onto the service taxonomy. Anything it does
// not recognise keeps its chain and ends up as an internal error.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

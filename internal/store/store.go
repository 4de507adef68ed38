// Package store defines the Task Store contract shared by every backend.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tasktrackr/internal/model"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	// Malformed ids are reported the same way.
	ErrNotFound = errors.New("task not found")

	// ErrUnavailable wraps failures to reach the backing store.
	ErrUnavailable = errors.New("task store unavailable")
)

// TaskStore is a document store holding tasks.
// Each mutating method is a single document write.
type TaskStore interface {
	// List returns every task in creation order.
	List(ctx context.Context) ([]model.Task, error)

	// Create persists t and returns it with its assigned id.
	Create(ctx context.Context, t model.Task) (model.Task, error)

	// SetCompleted updates the completed flag and returns the updated task.
	SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error)

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

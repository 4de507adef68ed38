package service

import "errors"

// Errors returned by TaskService. Callers match them with errors.Is.
var (
	// ErrInvalidArgument wraps input the service rejects, such as a blank title.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound means no task has the given id.
	ErrNotFound = errors.New("task not found")
	// ErrUnavailable means the store could not be reached.
	ErrUnavailable = errors.New("task store unavailable")
	// ErrStoreNil is returned by New when given no store.
	ErrStoreNil = errors.New("task store is nil")
)

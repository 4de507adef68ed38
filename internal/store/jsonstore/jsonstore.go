package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// The mutex only covers this process; don't point two servers at one file.

const DefaultFileName = "todos.json"

type document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func (d document) task() model.Task {
	return model.Task{ID: d.ID, Title: d.Title, Completed: d.Completed}
}

type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store writing to path. A directory path gets DefaultFileName
// appended; the file itself is created on first write.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = wd
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path reports the file backing the store.
func (s *Store) Path() string { return s.path }

func (s *Store) load() ([]document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []document{}, nil
		}
		return nil, fmt.Errorf("%w: read file: %v", store.ErrUnavailable, err)
	}
	var docs []document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return docs, nil
}

func (s *Store) save(docs []document) error {
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("%w: write file: %v", store.ErrUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.task())
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	d := document{
		ID:        uuid.New().String(),
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(append(docs, d)); err != nil {
		return model.Task{}, err
	}
	return d.task(), nil
}

func (s *Store) SetCompleted(_ context.Context, id string, completed bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		docs[i].Completed = completed
		if err := s.save(docs); err != nil {
			return model.Task{}, err
		}
		return docs[i].task(), nil
	}
	return model.Task{}, store.ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return err
	}
	for i := range docs {
		if docs[i].ID == id {
			return s.save(append(docs[:i], docs[i+1:]...))
		}
	}
	return store.ErrNotFound
}

func (s *Store) Close(_ context.Context) error { return nil }

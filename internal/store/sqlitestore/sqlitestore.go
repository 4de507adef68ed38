// Package sqlitestore keeps task documents as JSON rows in a SQLite file.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if dbPath == "" {
		return nil, errors.New("sqlite path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM tasks ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", store.ErrUnavailable, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		t, err := decode(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = uuid.New().String()
	doc, err := json.Marshal(t)
	if err != nil {
		return model.Task{}, fmt.Errorf("marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, doc, created_at) VALUES (?, ?, ?)`,
		t.ID, string(doc), time.Now().UTC(),
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: insert: %v", store.ErrUnavailable, err)
	}
	return t, nil
}

func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET doc = json_set(doc, '$.completed', json(?)) WHERE id = ? RETURNING doc`,
		boolJSON(completed), id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, store.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("%w: update: %v", store.ErrUnavailable, err)
	}
	return decode(doc)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", store.ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func decode(doc string) (model.Task, error) {
	var t model.Task
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return model.Task{}, fmt.Errorf("unmarshal task: %w", err)
	}
	return t, nil
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

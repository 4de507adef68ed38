// Package backend opens a store.TaskStore from a connection string.
//
// The URI scheme picks the backend:
//
//	mongodb://, mongodb+srv://   MongoDB
//	sqlite://<path>              SQLite file
//	file://<path>                JSON file
//	memory://                    process memory
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Makepad-fr/tasktrackr/internal/store"
	"github.com/Makepad-fr/tasktrackr/internal/store/jsonstore"
	"github.com/Makepad-fr/tasktrackr/internal/store/memory"
	"github.com/Makepad-fr/tasktrackr/internal/store/mongostore"
	"github.com/Makepad-fr/tasktrackr/internal/store/sqlitestore"
)

var ErrEmptyURI = errors.New("store connection string is empty")

// Open returns the store named by uri. database only applies to MongoDB.
func Open(ctx context.Context, uri, database string) (store.TaskStore, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, ErrEmptyURI
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("store uri %q has no scheme", uri)
	}

	var (
		s   store.TaskStore
		err error
	)
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		s, err = mongostore.Open(ctx, uri, database)
	case "sqlite", "sqlite3":
		s, err = sqlitestore.Open(rest)
	case "file":
		s, err = jsonstore.New(rest)
	case "memory":
		s = memory.New()
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", scheme)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Redact hides credentials in uri so it can be logged.
func Redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return uri
	}
	host := rest[at+1:]
	return scheme + "://***@" + host
}

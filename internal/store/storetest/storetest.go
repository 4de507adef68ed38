// Package storetest holds the behaviour every store.TaskStore must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/store"
)

// Run exercises a fresh store from newStore against the TaskStore contract.
func Run(t *testing.T, newStore func(t *testing.T) store.TaskStore) {
	t.Helper()

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(context.Background())
		if err != nil {
			t.Fatalf("List() err = %v, want nil", err)
		}
		if len(got) != 0 {
			t.Fatalf("List() len = %d, want 0", len(got))
		}
	})

	t.Run("create assigns distinct ids", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seen := map[string]bool{}
		for _, title := range []string{"a", "b", "c"} {
			created, err := s.Create(ctx, model.Task{Title: title})
			if err != nil {
				t.Fatalf("Create(%q) err = %v", title, err)
			}
			if created.ID == "" {
				t.Fatalf("Create(%q) id is empty", title)
			}
			if seen[created.ID] {
				t.Fatalf("Create(%q) reused id %q", title, created.ID)
			}
			seen[created.ID] = true
			if created.Title != title || created.Completed {
				t.Fatalf("Create(%q) = %+v", title, created)
			}
		}
	})

	t.Run("list keeps creation order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var want []string
		for _, title := range []string{"first", "second", "third", "fourth"} {
			created, err := s.Create(ctx, model.Task{Title: title})
			if err != nil {
				t.Fatalf("Create() err = %v", err)
			}
			want = append(want, created.ID)
		}

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() err = %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("List() len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("List()[%d].ID = %q, want %q", i, got[i].ID, want[i])
			}
		}
	})

	t.Run("set completed round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, model.Task{Title: "Buy milk"})
		if err != nil {
			t.Fatalf("Create() err = %v", err)
		}

		on, err := s.SetCompleted(ctx, created.ID, true)
		if err != nil {
			t.Fatalf("SetCompleted(true) err = %v", err)
		}
		if !on.Completed || on.ID != created.ID || on.Title != created.Title {
			t.Fatalf("SetCompleted(true) = %+v", on)
		}

		off, err := s.SetCompleted(ctx, created.ID, false)
		if err != nil {
			t.Fatalf("SetCompleted(false) err = %v", err)
		}
		if off != created {
			t.Fatalf("after round trip = %+v, want %+v", off, created)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() err = %v", err)
		}
		if len(list) != 1 || list[0] != created {
			t.Fatalf("List() = %+v, want [%+v]", list, created)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keep, _ := s.Create(ctx, model.Task{Title: "keep"})
		drop, _ := s.Create(ctx, model.Task{Title: "drop"})

		if err := s.Delete(ctx, drop.ID); err != nil {
			t.Fatalf("Delete() err = %v", err)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() err = %v", err)
		}
		if len(list) != 1 || list[0].ID != keep.ID {
			t.Fatalf("List() = %+v, want only %q", list, keep.ID)
		}

		if err := s.Delete(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("second Delete() err = %v, want %v", err, store.ErrNotFound)
		}
		if _, err := s.SetCompleted(ctx, drop.ID, true); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("SetCompleted() on deleted err = %v, want %v", err, store.ErrNotFound)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.SetCompleted(ctx, "does-not-exist", true); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("SetCompleted() err = %v, want %v", err, store.ErrNotFound)
		}
		if err := s.Delete(ctx, "does-not-exist"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Delete() err = %v, want %v", err, store.ErrNotFound)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() err = %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("List() len = %d, want 0 after misses", len(list))
		}
	})
}

package testutil

import (
	"testing"
	"time"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SampleSnapshot returns a two-board snapshot covering pinned and unpinned
// boards, lists and cards, an empty list and an empty description.
func SampleSnapshot() model.Snapshot {
	at := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
	return model.Snapshot{
		"work": {
			ID:     "work",
			Name:   "Work",
			Icon:   model.IconBriefcase,
			Pinned: true,
			Lists: []model.List{
				{
					ID: "work-todo", Title: "To Do", Position: 0,
					Cards: []model.Card{
						{ID: "c-report", Title: "Write report", Description: "Q2 numbers", CreatedAt: at, Position: 0},
						{ID: "c-review", Title: "Review PR", CreatedAt: at.Add(time.Minute), Position: 1, Pinned: true},
					},
				},
				{ID: "work-doing", Title: "In Progress", Position: 1, Pinned: true, Cards: []model.Card{}},
				{
					ID: "work-done", Title: "Completed", Position: 2,
					Cards: []model.Card{
						{ID: "c-deploy", Title: "Deploy", CreatedAt: at.Add(2 * time.Minute), Position: 3},
					},
				},
			},
		},
		"home": {
			ID:   "home",
			Name: "Home",
			Icon: model.IconHome,
			Lists: []model.List{
				{
					ID: "home-todo", Title: "To Do",
					Cards: []model.Card{
						{ID: "c-milk", Title: "Buy milk", CreatedAt: at.Add(time.Hour)},
					},
				},
			},
		},
	}
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIcon(t *testing.T) {
	tests := []struct {
		in   string
		want Icon
	}{
		{"", IconDefault},
		{"default", IconDefault},
		{"board", IconDefault},
		{"rocket", IconDefault},
		{"briefcase", IconBriefcase},
		{" Home ", IconHome},
		{"project", IconProject},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIcon(tt.in))
		})
	}
}

func TestNewBoard(t *testing.T) {
	t.Run("trims name and defaults icon", func(t *testing.T) {
		b, err := NewBoard("b1", "  Work  ", "")
		require.NoError(t, err)
		assert.Equal(t, "Work", b.Name)
		assert.Equal(t, IconDefault, b.Icon)
		assert.False(t, b.Pinned)
		assert.Empty(t, b.Lists)
	})

	t.Run("rejects whitespace-only name", func(t *testing.T) {
		_, err := NewBoard("b1", "   ", IconHome)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestNewList(t *testing.T) {
	l, err := NewList("l1", "Backlog")
	require.NoError(t, err)
	assert.Equal(t, 0, l.Position)
	assert.False(t, l.Pinned)
	assert.NotNil(t, l.Cards)

	_, err = NewList("l2", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestNewCard(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.FixedZone("CET", 3600))

	c, err := NewCard("c1", " Buy milk ", " 2 litres ", at)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", c.Title)
	assert.Equal(t, "2 litres", c.Description)
	assert.Equal(t, 0, c.Position)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 123000000, time.UTC), c.CreatedAt)

	_, err = NewCard("c2", "\t", "", at)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestCreatedAtRoundTrip(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 7000000, time.UTC)

	s := FormatCreatedAt(at)
	assert.Equal(t, "2024-12-31T23:59:59.007Z", s)

	got, err := ParseCreatedAt(s)
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = ParseCreatedAt("yesterday")
	assert.Error(t, err)
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := Snapshot{
		"b1": {
			ID:   "b1",
			Name: "Home",
			Lists: []List{
				{ID: "l1", Title: "To Do", Cards: []Card{{ID: "c1", Title: "Paint"}}},
			},
		},
	}

	cp := snap.Clone()
	cp["b1"].Lists[0].Cards[0].Title = "Sand"
	cp["b1"].Lists[0].Title = "Later"

	assert.Equal(t, "Paint", snap["b1"].Lists[0].Cards[0].Title)
	assert.Equal(t, "To Do", snap["b1"].Lists[0].Title)

	boards, lists, cards := snap.Counts()
	assert.Equal(t, 1, boards)
	assert.Equal(t, 1, lists)
	assert.Equal(t, 1, cards)
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nhle/kanban/internal/model"
)

// exportVersion identifies the layout of exported documents.
const exportVersion = 1

// Document is the JSON form of a full snapshot used by Export and Import.
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Boards     []model.Board `json:"boards"`
}

// Export writes the stored state to w as an indented JSON document.
func (s *SQLiteStore) Export(ctx context.Context, w io.Writer) error {
	boards, err := s.loadBoards(ctx)
	if err != nil {
		return err
	}
	doc := Document{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Boards:     boards,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// Import reads a document written by Export and replaces the stored state
// with it. The document is validated before anything is written.
func (s *SQLiteStore) Import(ctx context.Context, r io.Reader) (model.Snapshot, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding import: %w", err)
	}
	if doc.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}

	snap := make(model.Snapshot, len(doc.Boards))
	for _, b := range doc.Boards {
		snap[b.ID] = b
	}
	if len(snap) != len(doc.Boards) {
		return nil, errors.New("import contains duplicate board ids")
	}
	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ValidateSnapshot checks the invariants a snapshot must satisfy before it is
// accepted from outside the application: at least one board, non-empty names
// and titles, and IDs unique across boards, lists and cards.
func ValidateSnapshot(snap model.Snapshot) error {
	if len(snap) == 0 {
		return errors.New("snapshot has no boards")
	}
	seen := make(map[string]string)
	claim := func(kind, id string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("id %q used by both a %s and a %s", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, b := range snap {
		if err := claim("board", b.ID); err != nil {
			return err
		}
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("board %s: %w", b.ID, model.ErrEmptyName)
		}
		for _, l := range b.Lists {
			if err := claim("list", l.ID); err != nil {
				return err
			}
			if strings.TrimSpace(l.Title) == "" {
				return fmt.Errorf("list %s: %w", l.ID, model.ErrEmptyTitle)
			}
			for _, c := range l.Cards {
				if err := claim("card", c.ID); err != nil {
					return err
				}
				if strings.TrimSpace(c.Title) == "" {
					return fmt.Errorf("card %s: %w", c.ID, model.ErrEmptyTitle)
				}
			}
		}
	}
	return nil
}

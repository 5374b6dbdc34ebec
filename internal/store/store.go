package store

import (
	"context"

	"github.com/nhle/kanban/internal/model"
)

// Gateway persists the full board state. Save replaces everything that was
// stored before in a single transaction; Load rebuilds the whole hierarchy.
// An empty snapshot from Load means nothing has been saved yet.
type Gateway interface {
	Save(ctx context.Context, snap model.Snapshot) error
	Load(ctx context.Context) (model.Snapshot, error)
}

package board

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// Session ties the in-memory State to a persistence gateway. It is the only
// surface the presentation layer needs: mutations go through State(), and
// the full snapshot is persisted or retrieved through the gateway.
type Session struct {
	gw    store.Gateway
	opts  []Option
	log   log.FieldLogger
	state *State
}

// NewSession creates a session over gw. Options are applied to every State
// the session builds.
func NewSession(gw store.Gateway, opts ...Option) *Session {
	s := &Session{gw: gw, opts: opts}
	s.log = newState(opts).log
	return s
}

// RetrieveFullState loads the persisted snapshot. An empty snapshot means the
// store has never been saved to.
func (s *Session) RetrieveFullState(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.gw.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving state: %w", err)
	}
	return snap, nil
}

// Open retrieves the persisted state and makes it the session state. When the
// store is empty the default board is seeded and seeded is true. A load
// failure is returned as is so a broken store is never overwritten by the seed.
func (s *Session) Open(ctx context.Context) (seeded bool, err error) {
	snap, err := s.RetrieveFullState(ctx)
	if err != nil {
		return false, err
	}
	if len(snap) == 0 {
		s.log.Info("store is empty, seeding default board")
		s.state = DefaultState(s.opts...)
		return true, nil
	}
	st, err := FromSnapshot(snap, s.opts...)
	if err != nil {
		return false, err
	}
	s.state = st
	boards, lists, cards := snap.Counts()
	s.log.WithFields(log.Fields{"boards": boards, "lists": lists, "cards": cards}).Debug("state loaded")
	return false, nil
}

// State returns the session state. It is nil until Open succeeds.
func (s *Session) State() *State {
	return s.state
}

// PersistFullState replaces the durable state with the current snapshot.
// On failure the in-memory state stays authoritative.
func (s *Session) PersistFullState(ctx context.Context) error {
	if s.state == nil {
		return ErrNoBoards
	}
	if err := s.gw.Save(ctx, s.state.Snapshot()); err != nil {
		s.log.WithError(err).Error("persisting state failed")
		return fmt.Errorf("persisting state: %w", err)
	}
	return nil
}

package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/tests/testutil"
)

// recordingGateway records the board names of each saved snapshot. When gate
// is set every save blocks until it is closed.
type recordingGateway struct {
	mu    gosync.Mutex
	saved []string
	gate  chan struct{}
	err   error
}

func (g *recordingGateway) Save(_ context.Context, snap model.Snapshot) error {
	if g.gate != nil {
		<-g.gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	for _, b := range snap {
		g.saved = append(g.saved, b.Name)
	}
	return nil
}

func (g *recordingGateway) Load(context.Context) (model.Snapshot, error) {
	return model.Snapshot{}, nil
}

func (g *recordingGateway) names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.saved...)
}

func snapshotNamed(name string) model.Snapshot {
	return model.Snapshot{"b": {ID: "b", Name: name, Lists: []model.List{}}}
}

func TestAutosaver_SavesInOrder(t *testing.T) {
	gw := &recordingGateway{}
	a := New(gw, nil)
	a.Start()

	for _, name := range []string{"one", "two", "three", "four"} {
		_, err := a.Enqueue(snapshotNamed(name))
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Flush(ctx))
	assert.Equal(t, []string{"one", "two", "three", "four"}, gw.names())

	a.Stop()
}

func TestAutosaver_WaitForResult(t *testing.T) {
	gw := &recordingGateway{}
	a := New(gw, nil)
	cmd := a.Start()
	require.NotNil(t, cmd)

	seq, err := a.Enqueue(snapshotNamed("x"))
	require.NoError(t, err)

	msg, ok := cmd().(SaveResultMsg)
	require.True(t, ok)
	assert.Equal(t, seq, msg.Seq)
	assert.NoError(t, msg.Error)
	assert.False(t, msg.SavedAt.IsZero())

	a.Stop()
	assert.Equal(t, SaveIdle, a.Status().State)
}

func TestAutosaver_ReportsFailure(t *testing.T) {
	boom := errors.New("disk full")
	gw := &recordingGateway{err: boom}
	a := New(gw, nil)
	cmd := a.Start()

	_, err := a.Enqueue(snapshotNamed("x"))
	require.NoError(t, err)

	msg := cmd().(SaveResultMsg)
	assert.ErrorIs(t, msg.Error, boom)

	a.Stop()
	st := a.Status()
	assert.Equal(t, SaveError, st.State)
	assert.ErrorIs(t, st.Error, boom)
}

func TestAutosaver_StopDrainsQueue(t *testing.T) {
	gw := &recordingGateway{gate: make(chan struct{})}
	a := New(gw, nil)
	a.Start()

	for _, name := range []string{"a", "b", "c"} {
		_, err := a.Enqueue(snapshotNamed(name))
		require.NoError(t, err)
	}

	stopped := make(chan struct{})
	go func() {
		a.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned before queued saves ran")
	case <-time.After(50 * time.Millisecond):
	}

	close(gw.gate)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, []string{"a", "b", "c"}, gw.names())

	_, err := a.Enqueue(snapshotNamed("late"))
	assert.ErrorIs(t, err, ErrStopped)
}

func TestAutosaver_FlushHonoursContext(t *testing.T) {
	gw := &recordingGateway{gate: make(chan struct{})}
	a := New(gw, nil)
	a.Start()
	defer func() {
		close(gw.gate)
		a.Stop()
	}()

	_, err := a.Enqueue(snapshotNamed("slow"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Flush(ctx), context.DeadlineExceeded)
}

func TestAutosaver_FlushWithNothingQueued(t *testing.T) {
	a := New(&recordingGateway{}, nil)
	assert.NoError(t, a.Flush(context.Background()))
	a.Stop()
}

func TestAutosaver_WithSQLiteStore(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := New(s, nil)
	a.Start()

	_, err := a.Enqueue(testutil.SampleSnapshot())
	require.NoError(t, err)
	_, err = a.Enqueue(snapshotNamed("final"))
	require.NoError(t, err)
	a.Stop()

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "final", got["b"].Name)
}

package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

// SaveState represents the current state of the save loop.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveRunning
	SaveError
)

// SaveStatus holds the state of the most recent save.
type SaveStatus struct {
	State    SaveState
	LastSave time.Time
	Pending  int
	Error    error
}

// SaveResultMsg is a tea.Msg sent when a queued save completes.
type SaveResultMsg struct {
	Seq     uint64
	SavedAt time.Time
	Error   error
}

// ErrStopped is returned by Enqueue after Stop.
var ErrStopped = errors.New("autosaver stopped")

// saveTimeout is the maximum time allowed for a single save.
const saveTimeout = 30 * time.Second

type saveRequest struct {
	seq  uint64
	snap model.Snapshot
	done chan struct{}
}

// Autosaver performs full-state saves in the background, one at a time and in
// the order they were enqueued. Results are delivered as SaveResultMsg through
// WaitForResult.
type Autosaver struct {
	gw       store.Gateway
	log      log.FieldLogger
	resultCh chan SaveResultMsg

	mu       gosync.Mutex
	wake     *gosync.Cond
	queue    []saveRequest
	last     chan struct{}
	seq      uint64
	status   SaveStatus
	running  bool
	stopping bool
	done     chan struct{}
}

// New creates an Autosaver writing through gw. Call Start to begin saving.
func New(gw store.Gateway, logger log.FieldLogger) *Autosaver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	a := &Autosaver{
		gw:       gw,
		log:      logger,
		resultCh: make(chan SaveResultMsg, 16),
		done:     make(chan struct{}),
	}
	a.wake = gosync.NewCond(&a.mu)
	return a
}

// Start launches the save goroutine and returns a tea.Cmd that waits for the
// first result.
func (a *Autosaver) Start() tea.Cmd {
	a.mu.Lock()
	if a.running || a.stopping {
		a.mu.Unlock()
		return nil
	}
	a.running = true
	a.mu.Unlock()

	go a.loop()
	return a.WaitForResult()
}

// Enqueue queues a save of snap and returns its sequence number. The caller
// must not modify snap afterwards.
func (a *Autosaver) Enqueue(snap model.Snapshot) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopping {
		return 0, ErrStopped
	}
	a.seq++
	req := saveRequest{seq: a.seq, snap: snap, done: make(chan struct{})}
	a.queue = append(a.queue, req)
	a.last = req.done
	a.status.Pending = len(a.queue)
	a.wake.Signal()
	return req.seq, nil
}

// Flush blocks until every save enqueued so far has completed or ctx ends.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	last := a.last
	a.mu.Unlock()

	if last == nil {
		return nil
	}
	select {
	case <-last:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new saves, waits for queued ones to finish and stops the loop.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		return
	}
	a.stopping = true
	running := a.running
	a.wake.Broadcast()
	a.mu.Unlock()

	if running {
		<-a.done
	}
}

// Status returns the current save status.
func (a *Autosaver) Status() SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// WaitForResult returns a tea.Cmd that waits for the next save result. Call
// it again after handling each SaveResultMsg to keep listening.
func (a *Autosaver) WaitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-a.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

func (a *Autosaver) loop() {
	defer close(a.done)
	for {
		req, ok := a.next()
		if !ok {
			return
		}
		a.save(req)
	}
}

// next pops the oldest request, waiting while the queue is empty. It reports
// false once stopping with nothing left to save.
func (a *Autosaver) next() (saveRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for len(a.queue) == 0 && !a.stopping {
		a.wake.Wait()
	}
	if len(a.queue) == 0 {
		return saveRequest{}, false
	}
	req := a.queue[0]
	a.queue = a.queue[1:]
	a.status.State = SaveRunning
	a.status.Pending = len(a.queue)
	return req, true
}

func (a *Autosaver) save(req saveRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := a.gw.Save(ctx, req.snap)
	now := time.Now()

	a.mu.Lock()
	if err != nil {
		a.status.State = SaveError
		a.status.Error = err
	} else {
		a.status.State = SaveIdle
		a.status.Error = nil
		a.status.LastSave = now
	}
	a.mu.Unlock()
	close(req.done)

	entry := a.log.WithField("seq", req.seq)
	if err != nil {
		entry.WithError(err).Error("autosave failed")
	} else {
		entry.Debug("autosave complete")
	}
	a.sendResult(SaveResultMsg{Seq: req.seq, SavedAt: now, Error: err})
}

// sendResult sends a SaveResultMsg on the result channel without blocking.
func (a *Autosaver) sendResult(msg SaveResultMsg) {
	select {
	case a.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the save loop
	}
}

package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type trackedJob struct {
	accountID string
	cancel    context.CancelFunc
}

// Tracker runs one poller goroutine per job. The pollers live independently
// of the request that started them and stop when Run returns.
type Tracker struct {
	log    *slog.Logger
	poller *Poller

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	jobs    map[uuid.UUID]trackedJob
	stopped bool
}

func NewTracker(log *slog.Logger, poller *Poller) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		log:    log,
		poller: poller,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[uuid.UUID]trackedJob),
	}
}

// Track starts polling handle for the item. It reports false when the item is
// already tracked or the tracker is stopped.
func (t *Tracker) Track(accountID string, itemID uuid.UUID, handle domain.JobHandle) bool {
	return t.start(accountID, itemID, handle, time.Now().Add(t.poller.Budget()))
}

// Resume restarts polling of an item left in processing by a previous run.
// The budget counts from the item's creation.
func (t *Tracker) Resume(item *domain.FileItem) bool {
	handle, ok := item.Handle()
	if !ok {
		return false
	}

	return t.start(item.AccountID, item.ID, handle, item.CreatedAt.Add(t.poller.Budget()))
}

func (t *Tracker) start(accountID string, itemID uuid.UUID, handle domain.JobHandle, deadline time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		t.log.Warn("tracker stopped, job not tracked", slog.String("item_id", itemID.String()))
		return false
	}

	if _, ok := t.jobs[itemID]; ok {
		return false
	}

	ctx, cancel := context.WithCancel(t.ctx)
	t.jobs[itemID] = trackedJob{accountID: accountID, cancel: cancel}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.forget(itemID)

		err := t.poller.RunUntil(ctx, itemID, handle, deadline)
		if err != nil && !errors.Is(err, context.Canceled) {
			t.log.Error("job tracking ended with error",
				slog.String("item_id", itemID.String()),
				slog.String("account_id", accountID),
				slog.String("err", err.Error()),
			)
		}
	}()

	return true
}

func (t *Tracker) forget(itemID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if job, ok := t.jobs[itemID]; ok {
		job.cancel()
		delete(t.jobs, itemID)
	}
}

// CancelAccount stops every poller of the account and returns how many were stopped.
// The items stay in processing.
func (t *Tracker) CancelAccount(accountID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, job := range t.jobs {
		if job.accountID != accountID {
			continue
		}

		job.cancel()
		delete(t.jobs, id)
		n++
	}

	return n
}

// Active returns the number of running pollers.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.jobs)
}

// Run blocks until ctx is done, then stops all pollers and waits for them.
func (t *Tracker) Run(ctx context.Context) error {
	<-ctx.Done()

	t.Stop()

	return ctx.Err()
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

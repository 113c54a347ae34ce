package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/kurochkinivan/video_uploader/internal/jobs"
	"github.com/kurochkinivan/video_uploader/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	mock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPoller_Run_Completes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	machine := jobs.NewMachine(log, repo, time.Hour)
	item := newProcessingItem(t, repo, machine)

	source := NewMockStatusSource(t)
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{Status: domain.JobProcessing, Progress: 50}, nil).Once()
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{}, errors.New("connection reset")).Once()
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{Status: domain.JobCompleted, Progress: 100, DownloadRef: "out"}, nil).Once()

	poller := jobs.NewPoller(log, source, machine, jobs.PollerConfig{Interval: time.Millisecond, Budget: time.Minute, MaxMisses: 3})

	require.NoError(t, poller.Run(ctx, item.ID, remoteHandle))

	stored, err := repo.FileItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, "out", stored.DownloadRef)
}

func TestPoller_Run_BudgetExceeded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	machine := jobs.NewMachine(log, repo, time.Hour)
	item := newProcessingItem(t, repo, machine)

	// The job never leaves processing.
	source := NewMockStatusSource(t)
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{Status: domain.JobProcessing, Progress: 10}, nil).Maybe()

	poller := jobs.NewPoller(log, source, machine, jobs.PollerConfig{Interval: time.Millisecond, Budget: 30 * time.Millisecond})

	errChan := make(chan error, 1)
	go func() {
		errChan <- poller.Run(ctx, item.ID, remoteHandle)
	}()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, domain.ErrPollTimeout)
	case <-time.After(time.Second):
		t.Fatal("timeout: poller did not give up")
	}

	stored, err := repo.FileItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, domain.ErrPollTimeout.Error())
}

func TestPoller_Run_TooManyMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	machine := jobs.NewMachine(log, repo, time.Hour)
	item := newProcessingItem(t, repo, machine)

	source := NewMockStatusSource(t)
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{}, errors.New("no route to host")).Times(3)

	poller := jobs.NewPoller(log, source, machine, jobs.PollerConfig{Interval: time.Millisecond, Budget: time.Minute, MaxMisses: 3})

	err := poller.Run(ctx, item.ID, remoteHandle)
	require.ErrorIs(t, err, domain.ErrTooManyMisses)

	stored, err := repo.FileItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "no route to host")
}

func TestPoller_Run_CancelLeavesItemProcessing(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	machine := jobs.NewMachine(log, repo, time.Hour)
	item := newProcessingItem(t, repo, machine)

	source := NewMockStatusSource(t)
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{Status: domain.JobProcessing, Progress: 20}, nil).Maybe()

	poller := jobs.NewPoller(log, source, machine, jobs.PollerConfig{Interval: time.Millisecond, Budget: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- poller.Run(ctx, item.ID, remoteHandle)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("timeout: poller did not stop")
	}

	stored, err := repo.FileItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
}

func TestPoller_Run_StopsOnTerminalItem(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	repo := memory.NewFileItemsRepository()
	machine := jobs.NewMachine(log, repo, time.Hour)
	item := newProcessingItem(t, repo, machine)

	require.NoError(t, machine.Fail(ctx, item.ID, "cancelled by operator"))

	source := NewMockStatusSource(t)
	source.EXPECT().PollStatus(mock.Anything, remoteHandle).
		Return(domain.PollResult{Status: domain.JobCompleted, Progress: 100}, nil).Once()

	poller := jobs.NewPoller(log, source, machine, jobs.PollerConfig{Interval: time.Millisecond, Budget: time.Minute})

	require.NoError(t, poller.Run(ctx, item.ID, remoteHandle))

	stored, err := repo.FileItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, stored.Status)
	assert.Equal(t, "cancelled by operator", stored.ErrorMessage)
}

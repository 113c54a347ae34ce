package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const DefaultDownloadWindow = 24 * time.Hour

type Repository interface {
	FileItem(ctx context.Context, id uuid.UUID) (*domain.FileItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update domain.StatusUpdate) error
}

// Machine applies transitions to stored items.
type Machine struct {
	log            *slog.Logger
	repo           Repository
	downloadWindow time.Duration
	now            func() time.Time
}

func NewMachine(log *slog.Logger, repo Repository, downloadWindow time.Duration) *Machine {
	if downloadWindow <= 0 {
		downloadWindow = DefaultDownloadWindow
	}

	return &Machine{
		log:            log,
		repo:           repo,
		downloadWindow: downloadWindow,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Apply loads the item, transitions it with ev and stores the result. It
// returns the status the item ended up in.
func (m *Machine) Apply(ctx context.Context, id uuid.UUID, ev Event) (domain.Status, error) {
	item, err := m.repo.FileItem(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get item %s: %w", id, err)
	}

	update, err := Transition(*item, ev)
	if err != nil {
		return item.Status, err
	}

	if update.Status == domain.StatusCompleted && update.DownloadExpiresAt == nil {
		expiresAt := m.now().Add(m.downloadWindow)
		update.DownloadExpiresAt = &expiresAt
	}

	if err := m.repo.UpdateStatus(ctx, id, update); err != nil {
		return item.Status, fmt.Errorf("failed to update item %s: %w", id, err)
	}

	if update.Status != item.Status {
		m.log.InfoContext(ctx, "item changed status",
			slog.String("item_id", id.String()),
			slog.String("from", string(item.Status)),
			slog.String("to", string(update.Status)),
		)
	}

	return update.Status, nil
}

func (m *Machine) MarkProcessing(ctx context.Context, id uuid.UUID, handle domain.JobHandle) error {
	_, err := m.Apply(ctx, id, Submitted{Handle: handle})
	return err
}

func (m *Machine) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := m.Apply(ctx, id, Failed{Reason: reason})
	return err
}

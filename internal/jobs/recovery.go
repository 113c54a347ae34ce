package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const (
	ReasonInterrupted      = "upload interrupted before the file was submitted"
	ReasonLostJob          = "transcoding job could not be resumed"
	ReasonLostSimulatedJob = "simulated transcoding job was lost on restart"
)

type ItemsByStatus interface {
	FileItemsByStatus(ctx context.Context, status domain.Status) ([]*domain.FileItem, error)
}

type Failer interface {
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

type Resumer interface {
	Resume(item *domain.FileItem) bool
}

type RecoveryStats struct {
	Resumed int
	Failed  int
}

// Recover picks up items a previous run left unfinished. Remote jobs in
// processing are resumed. Simulated jobs live in memory only, so they are
// failed together with items that never reached the transcoding service.
func Recover(ctx context.Context, log *slog.Logger, items ItemsByStatus, failer Failer, resumer Resumer) (RecoveryStats, error) {
	var stats RecoveryStats

	processing, err := items.FileItemsByStatus(ctx, domain.StatusProcessing)
	if err != nil {
		return stats, fmt.Errorf("failed to load processing items: %w", err)
	}

	uploaded, err := items.FileItemsByStatus(ctx, domain.StatusUploaded)
	if err != nil {
		return stats, fmt.Errorf("failed to load uploaded items: %w", err)
	}

	fail := func(item *domain.FileItem, reason string) {
		if err := failer.Fail(ctx, item.ID, reason); err != nil {
			log.WarnContext(ctx, "failed to fail unrecoverable item",
				slog.String("item_id", item.ID.String()),
				slog.String("err", err.Error()),
			)
			return
		}
		stats.Failed++
	}

	for _, item := range processing {
		handle, ok := item.Handle()
		switch {
		case !ok:
			fail(item, ReasonLostJob)
		case handle.Backend == domain.BackendSimulation:
			fail(item, ReasonLostSimulatedJob)
		case resumer.Resume(item):
			stats.Resumed++
		default:
			fail(item, ReasonLostJob)
		}
	}

	for _, item := range uploaded {
		fail(item, ReasonInterrupted)
	}

	if stats.Resumed > 0 || stats.Failed > 0 {
		log.InfoContext(ctx, "recovered items from previous run",
			slog.Int("resumed", stats.Resumed),
			slog.Int("failed", stats.Failed),
		)
	}

	return stats, nil
}

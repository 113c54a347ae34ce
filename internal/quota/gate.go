package quota

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type AccountRepository interface {
	LockQuota(ctx context.Context, accountID string) (domain.Quota, error)
	AddProcessedVideos(ctx context.Context, accountID string, count int) error
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Gate admits or rejects a whole batch against the account's monthly allowance.
type Gate struct {
	log        *slog.Logger
	accounts   AccountRepository
	transactor Transactor
}

func NewGate(log *slog.Logger, accounts AccountRepository, transactor Transactor) *Gate {
	return &Gate{
		log:        log,
		accounts:   accounts,
		transactor: transactor,
	}
}

// Admit consumes count videos of the account's allowance or none at all.
// Read, check and increment happen under the account's row lock, so concurrent
// batches of one account cannot overshoot the limit together.
func (g *Gate) Admit(ctx context.Context, accountID string, count int) error {
	if count == 0 {
		return nil
	}

	var snapshot domain.Quota
	err := g.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		quota, err := g.accounts.LockQuota(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to read quota: %w", err)
		}

		if err := quota.Admit(count); err != nil {
			return err
		}

		if err := g.accounts.AddProcessedVideos(ctx, accountID, count); err != nil {
			return fmt.Errorf("failed to consume quota: %w", err)
		}

		snapshot = quota
		return nil
	})
	if err != nil {
		g.log.InfoContext(ctx, "batch rejected by quota gate",
			slog.String("account_id", accountID),
			slog.Int("requested", count),
			slog.String("err", err.Error()),
		)
		return err
	}

	g.log.DebugContext(ctx, "quota consumed",
		slog.String("account_id", accountID),
		slog.Int("requested", count),
		slog.Int("processed", snapshot.VideosProcessed+count),
		slog.Int("limit", snapshot.MonthlyLimit),
	)

	return nil
}

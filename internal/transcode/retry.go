package transcode

import (
	"context"
	"log/slog"
	"time"

	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/sethvargo/go-retry"
)

const maxRetryDelay = 30 * time.Second

// RetryPolicy bounds how often one external call is attempted. Only
// domain.TransientError failures are retried; the delay doubles from BaseDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p RetryPolicy) backoff() retry.Backoff {
	attempts := max(p.MaxAttempts, 1)

	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(maxRetryDelay, b)

	return retry.WithMaxRetries(uint64(attempts-1), b)
}

func (p RetryPolicy) Do(ctx context.Context, log *slog.Logger, op string, fn func(ctx context.Context) error) error {
	attempt := 0

	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++

		err := fn(ctx)
		if err == nil || !domain.IsTransient(err) {
			return err
		}

		log.DebugContext(ctx, "transcoding service call failed",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.MaxAttempts),
			slog.String("err", err.Error()),
		)

		return retry.RetryableError(err)
	})
}

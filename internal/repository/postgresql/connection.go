package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/video_uploader/internal/config"
	"github.com/sethvargo/go-retry"
)

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

func NewConnection(ctx context.Context, log *slog.Logger, cfg config.PostgreSQL) (*pgxpool.Pool, error) {
	connectionURL := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.DBName,
		RawQuery: "sslmode=disable",
	}

	pool, err := pgxpool.New(ctx, connectionURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := Ping(ctx, log, pool.Ping, maxRetries, retryDelay); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return pool, nil
}

type PingFunction func(context.Context) error

// Ping calls ping until it succeeds, retrying at most retries times with a constant delay.
func Ping(ctx context.Context, log *slog.Logger, ping PingFunction, retries uint64, delay time.Duration) error {
	attempt := 0
	backoff := retry.WithMaxRetries(retries, retry.NewConstant(delay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		if err := ping(ctx); err != nil {
			log.DebugContext(ctx, "database connection attempt failed, retrying",
				slog.Int("attempt", attempt),
				slog.Uint64("max_retries", retries),
				slog.String("err", err.Error()))

			return retry.RetryableError(err)
		}

		return nil
	})
}

package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollBudget   = 24 * time.Hour
	DefaultMaxMisses    = 10
)

type StatusSource interface {
	PollStatus(ctx context.Context, handle domain.JobHandle) (domain.PollResult, error)
}

type Transitioner interface {
	Apply(ctx context.Context, id uuid.UUID, ev Event) (domain.Status, error)
}

type PollerConfig struct {
	Interval time.Duration
	// Budget is the wall-clock time a job may stay pollable.
	Budget time.Duration
	// MaxMisses is the number of consecutive failed polls tolerated.
	MaxMisses int
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.Budget <= 0 {
		c.Budget = DefaultPollBudget
	}
	if c.MaxMisses <= 0 {
		c.MaxMisses = DefaultMaxMisses
	}

	return c
}

// Poller reconciles the state of one external job into its FileItem.
type Poller struct {
	log     *slog.Logger
	source  StatusSource
	machine Transitioner
	cfg     PollerConfig
}

func NewPoller(log *slog.Logger, source StatusSource, machine Transitioner, cfg PollerConfig) *Poller {
	return &Poller{
		log:     log,
		source:  source,
		machine: machine,
		cfg:     cfg.withDefaults(),
	}
}

func (p *Poller) Budget() time.Duration {
	return p.cfg.Budget
}

// Run polls until the item is terminal, the budget is spent or ctx is done.
// Cancellation leaves the item as it is.
func (p *Poller) Run(ctx context.Context, itemID uuid.UUID, handle domain.JobHandle) error {
	return p.RunUntil(ctx, itemID, handle, time.Now().Add(p.cfg.Budget))
}

// RunUntil is Run with an absolute deadline, used when polling resumes after a restart.
func (p *Poller) RunUntil(ctx context.Context, itemID uuid.UUID, handle domain.JobHandle, deadline time.Time) error {
	log := p.log.With(
		slog.String("item_id", itemID.String()),
		slog.String("job", handle.String()),
	)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	timeout := time.NewTimer(time.Until(deadline))
	defer timeout.Stop()

	misses := 0

	for {
		select {
		case <-ticker.C:
			done, err := p.poll(ctx, log, itemID, handle)
			if err == nil {
				misses = 0
				if done {
					return nil
				}
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			misses++
			log.WarnContext(ctx, "status poll failed",
				slog.Int("misses", misses),
				slog.String("err", err.Error()),
			)

			if misses >= p.cfg.MaxMisses {
				return p.fail(ctx, log, itemID, fmt.Errorf("%w: %d in a row, last: %w", domain.ErrTooManyMisses, misses, err))
			}

		case <-timeout.C:
			return p.fail(ctx, log, itemID, fmt.Errorf("%w after %s", domain.ErrPollTimeout, p.cfg.Budget))

		case <-ctx.Done():
			log.DebugContext(ctx, "poller stopped")
			return ctx.Err()
		}
	}
}

// poll reports done once the item has reached a terminal state.
func (p *Poller) poll(ctx context.Context, log *slog.Logger, itemID uuid.UUID, handle domain.JobHandle) (bool, error) {
	result, err := p.source.PollStatus(ctx, handle)
	if err != nil {
		return false, err
	}

	status, err := p.machine.Apply(ctx, itemID, Polled{Result: result})
	if errors.Is(err, domain.ErrTerminalState) {
		log.DebugContext(ctx, "item already terminal")
		return true, nil
	}
	if err != nil {
		return false, err
	}

	log.DebugContext(ctx, "status polled",
		slog.String("job_status", string(result.Status)),
		slog.Int("progress", result.Progress),
	)

	return status.Terminal(), nil
}

func (p *Poller) fail(ctx context.Context, log *slog.Logger, itemID uuid.UUID, cause error) error {
	log.ErrorContext(ctx, "giving up on job", slog.String("err", cause.Error()))

	_, err := p.machine.Apply(ctx, itemID, Failed{Reason: cause.Error()})
	if err != nil && !errors.Is(err, domain.ErrTerminalState) {
		return fmt.Errorf("failed to mark item %s failed: %w", itemID, errors.Join(cause, err))
	}

	return cause
}

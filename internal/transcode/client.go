// Package transcode talks to the external transcoding service. A remote HTTP
// backend and a local simulation backend share the Backend interface; Service
// picks between them and applies the retry policy.
package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type SubmitRequest struct {
	FilePath string
	FileName string
	Options  json.RawMessage
}

type Backend interface {
	Submit(ctx context.Context, req SubmitRequest) (jobID string, err error)
	PollStatus(ctx context.Context, jobID string) (domain.PollResult, error)
	Download(ctx context.Context, downloadRef string) (io.ReadCloser, error)
}

var ErrUnknownBackend = errors.New("unknown transcoding backend")

// Service routes calls to the remote backend when one is configured and to the
// simulation otherwise. Every remote call runs under the retry policy.
type Service struct {
	log           *slog.Logger
	remote        Backend
	simulation    Backend
	retry         RetryPolicy
	allowFallback bool
	fallbacks     atomic.Int64
}

// NewService builds the client. remote may be nil, which means no credential is
// configured and every job is simulated.
func NewService(log *slog.Logger, remote, simulation Backend, retry RetryPolicy, allowFallback bool) *Service {
	return &Service{
		log:           log,
		remote:        remote,
		simulation:    simulation,
		retry:         retry,
		allowFallback: allowFallback,
	}
}

func (s *Service) Simulated() bool {
	return s.remote == nil
}

// Fallbacks returns how many submissions were diverted to the simulation
// after the remote backend failed.
func (s *Service) Fallbacks() int64 {
	return s.fallbacks.Load()
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (domain.JobHandle, error) {
	if s.remote == nil {
		return s.submitSimulated(ctx, req)
	}

	var jobID string
	err := s.retry.Do(ctx, s.log, "submit", func(ctx context.Context) error {
		var err error
		jobID, err = s.remote.Submit(ctx, req)
		return err
	})
	if err == nil {
		return domain.JobHandle{ID: jobID, Backend: domain.BackendRemote}, nil
	}

	if !domain.IsTransient(err) || !s.allowFallback {
		return domain.JobHandle{}, fmt.Errorf("failed to submit %q: %w", req.FileName, err)
	}

	total := s.fallbacks.Add(1)
	s.log.WarnContext(ctx, "transcoding service unavailable, falling back to simulation",
		slog.String("file", req.FileName),
		slog.Int64("fallbacks_total", total),
		slog.String("err", err.Error()),
	)

	return s.submitSimulated(ctx, req)
}

func (s *Service) submitSimulated(ctx context.Context, req SubmitRequest) (domain.JobHandle, error) {
	jobID, err := s.simulation.Submit(ctx, req)
	if err != nil {
		return domain.JobHandle{}, fmt.Errorf("failed to submit %q to simulation: %w", req.FileName, err)
	}

	return domain.JobHandle{ID: jobID, Backend: domain.BackendSimulation}, nil
}

func (s *Service) PollStatus(ctx context.Context, handle domain.JobHandle) (domain.PollResult, error) {
	backend, err := s.backend(handle)
	if err != nil {
		return domain.PollResult{}, err
	}

	var result domain.PollResult
	err = s.retry.Do(ctx, s.log, "poll", func(ctx context.Context) error {
		var err error
		result, err = backend.PollStatus(ctx, handle.ID)
		return err
	})
	if err != nil {
		return domain.PollResult{}, fmt.Errorf("failed to poll job %s: %w", handle, err)
	}

	return result, nil
}

func (s *Service) Download(ctx context.Context, handle domain.JobHandle, downloadRef string) (io.ReadCloser, error) {
	backend, err := s.backend(handle)
	if err != nil {
		return nil, err
	}

	var body io.ReadCloser
	err = s.retry.Do(ctx, s.log, "download", func(ctx context.Context) error {
		var err error
		body, err = backend.Download(ctx, downloadRef)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download job %s: %w", handle, err)
	}

	return body, nil
}

func (s *Service) backend(handle domain.JobHandle) (Backend, error) {
	switch handle.Backend {
	case domain.BackendSimulation:
		return s.simulation, nil
	case domain.BackendRemote:
		if s.remote == nil {
			return nil, fmt.Errorf("job %s: remote backend is not configured", handle)
		}
		return s.remote, nil
	default:
		return nil, fmt.Errorf("job %s: %w", handle, ErrUnknownBackend)
	}
}

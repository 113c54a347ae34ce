// Package jobs owns the lifecycle of a FileItem once it is recorded:
// uploaded -> processing -> completed | failed.
package jobs

import (
	"errors"
	"fmt"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid transition")

const defaultFailureMessage = "transcoding failed"

type Event interface {
	event()
}

// Submitted is raised when the transcoding service accepted the file.
type Submitted struct {
	Handle domain.JobHandle
}

// Polled carries one successful status poll.
type Polled struct {
	Result domain.PollResult
}

// Failed forces the item into the failed state.
type Failed struct {
	Reason string
}

func (Submitted) event() {}
func (Polled) event()    {}
func (Failed) event()    {}

// Transition computes the update ev causes on current. It never touches storage.
// A completed poll without an expiry leaves DownloadExpiresAt nil for the caller to fill.
func Transition(current domain.FileItem, ev Event) (domain.StatusUpdate, error) {
	if current.Status.Terminal() {
		return domain.StatusUpdate{}, fmt.Errorf("item %s is %s: %w", current.ID, current.Status, domain.ErrTerminalState)
	}

	switch ev := ev.(type) {
	case Submitted:
		if current.Status != domain.StatusUploaded {
			return domain.StatusUpdate{}, invalid(current.Status, "submitted")
		}
		if ev.Handle.ID == "" {
			return domain.StatusUpdate{}, fmt.Errorf("submitted without job id: %w", ErrInvalidTransition)
		}

		handle := ev.Handle
		return domain.StatusUpdate{
			Status: domain.StatusProcessing,
			Job:    &handle,
		}, nil

	case Polled:
		if current.Status != domain.StatusProcessing {
			return domain.StatusUpdate{}, invalid(current.Status, "polled")
		}
		return applyPoll(current, ev.Result)

	case Failed:
		reason := ev.Reason
		if reason == "" {
			reason = defaultFailureMessage
		}

		return domain.StatusUpdate{
			Status:       domain.StatusFailed,
			Progress:     current.Progress,
			ErrorMessage: reason,
		}, nil

	default:
		return domain.StatusUpdate{}, fmt.Errorf("unknown event %T: %w", ev, ErrInvalidTransition)
	}
}

func applyPoll(current domain.FileItem, result domain.PollResult) (domain.StatusUpdate, error) {
	progress := max(current.Progress, min(max(result.Progress, 0), domain.MaxProgress))

	switch result.Status {
	case domain.JobQueued, domain.JobProcessing:
		return domain.StatusUpdate{
			Status:   domain.StatusProcessing,
			Progress: progress,
		}, nil

	case domain.JobCompleted:
		return domain.StatusUpdate{
			Status:            domain.StatusCompleted,
			Progress:          domain.MaxProgress,
			DownloadRef:       result.DownloadRef,
			DownloadExpiresAt: result.ExpiresAt,
		}, nil

	case domain.JobFailed:
		return domain.StatusUpdate{
			Status:       domain.StatusFailed,
			Progress:     progress,
			ErrorMessage: (&domain.JobFailedError{Message: result.Error}).Error(),
		}, nil

	default:
		return domain.StatusUpdate{}, fmt.Errorf("unknown job status %q: %w", result.Status, ErrInvalidTransition)
	}
}

func invalid(from domain.Status, event string) error {
	return fmt.Errorf("%s while %s: %w", event, from, ErrInvalidTransition)
}

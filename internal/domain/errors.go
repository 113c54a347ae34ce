package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAccount  = errors.New("invalid account id")
	ErrAlreadyExists   = errors.New("already exists")
	ErrQuotaExceeded   = errors.New("video quota exceeded")
	ErrTerminalState   = errors.New("item is in a terminal state")
	ErrNotCompleted    = errors.New("video processing is not completed")
	ErrDownloadExpired = errors.New("download link has expired")
	ErrPollTimeout     = errors.New("job did not finish within the polling budget")
	ErrTooManyMisses   = errors.New("too many consecutive status poll failures")
)

type QuotaExceededError struct {
	Requested int
	Remaining int
	Limit     int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("video quota exceeded: requested %d, remaining %d of %d", e.Requested, e.Remaining, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrQuotaExceeded
}

// TransientError marks network, timeout and 5xx-class failures of an external
// service. Only these are retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// RejectedError is a 4xx-class answer of an external service.
type RejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.StatusCode, e.Message)
}

// JobFailedError is reported when the transcoding service says the job itself failed.
type JobFailedError struct {
	Message string
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return "transcoding job failed"
	}

	return "transcoding job failed: " + e.Message
}

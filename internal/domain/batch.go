package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// UploadedFile is one multipart file part spooled to a temporary path.
type UploadedFile struct {
	Filename string
	TempPath string
	Size     int64
}

type UploadBatch struct {
	AccountID   string
	Title       string
	Description string
	Options     json.RawMessage
	Files       []UploadedFile
}

type AcceptedFile struct {
	Filename string    `json:"filename"`
	ID       uuid.UUID `json:"id"`
	JobID    string    `json:"jobId"`
	Status   Status    `json:"status"`
}

type RejectedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"error"`
}

type BatchResult struct {
	Successful    []AcceptedFile `json:"successful"`
	Failed        []RejectedFile `json:"failed"`
	TotalUploaded int            `json:"totalUploaded"`
	TotalFailed   int            `json:"totalFailed"`
}

type BatchOutcome int

const (
	OutcomeNoneAccepted BatchOutcome = iota
	OutcomePartial
	OutcomeAllAccepted
)

func (r *BatchResult) Outcome() BatchOutcome {
	switch {
	case r.TotalUploaded == 0:
		return OutcomeNoneAccepted
	case r.TotalFailed == 0:
		return OutcomeAllAccepted
	default:
		return OutcomePartial
	}
}

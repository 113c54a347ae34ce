package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const MaxProgress = 100

type FileItem struct {
	ID                uuid.UUID       `db:"id"`
	AccountID         string          `db:"account_id"`
	OriginalFileName  string          `db:"original_file_name"`
	Title             string          `db:"title"`
	Description       string          `db:"description"`
	StoragePath       string          `db:"storage_path"`
	Size              int64           `db:"size"`
	Format            string          `db:"format"`
	Options           json.RawMessage `db:"options"`
	Status            Status          `db:"status"`
	Progress          int             `db:"processing_progress"`
	JobID             string          `db:"job_id"`
	JobBackend        string          `db:"job_backend"`
	BackupRef         string          `db:"backup_ref"`
	DownloadRef       string          `db:"download_ref"`
	DownloadExpiresAt *time.Time      `db:"download_expires_at"`
	ErrorMessage      string          `db:"error_message"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// Handle returns the external job handle, ok is false until the item was submitted.
func (f *FileItem) Handle() (JobHandle, bool) {
	if f.JobID == "" {
		return JobHandle{}, false
	}

	return JobHandle{ID: f.JobID, Backend: f.JobBackend}, true
}

func (f *FileItem) OwnedBy(accountID string) bool {
	return f.AccountID == accountID
}

// DownloadExpired reports whether the stored download handle is no longer usable at now.
func (f *FileItem) DownloadExpired(now time.Time) bool {
	return f.DownloadExpiresAt != nil && !now.Before(*f.DownloadExpiresAt)
}

// StatusUpdate carries the fields one transition writes. Zero values are left untouched,
// except Status which is always written.
type StatusUpdate struct {
	Status            Status
	Progress          int
	Job               *JobHandle
	DownloadRef       string
	DownloadExpiresAt *time.Time
	ErrorMessage      string
}

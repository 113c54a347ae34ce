package domain

import "time"

const (
	BackendRemote     = "remote"
	BackendSimulation = "simulation"
)

// JobHandle identifies one job of the external transcoding service. Backend
// records which backend issued it so follow-up calls reach the same one.
type JobHandle struct {
	ID      string
	Backend string
}

func (h JobHandle) String() string {
	return h.Backend + ":" + h.ID
}

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

type PollResult struct {
	Status      JobStatus
	Progress    int
	DownloadRef string
	ExpiresAt   *time.Time
	Error       string
}

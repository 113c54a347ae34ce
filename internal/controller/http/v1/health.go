package v1

import "net/http"

type TranscoderStats interface {
	Simulated() bool
	Fallbacks() int64
}

type JobStats interface {
	Active() int
}

type HealthHandler struct {
	transcoder    TranscoderStats
	jobs          JobStats
	backupEnabled bool
}

func NewHealthHandler(transcoder TranscoderStats, jobs JobStats, backupEnabled bool) *HealthHandler {
	return &HealthHandler{
		transcoder:    transcoder,
		jobs:          jobs,
		backupEnabled: backupEnabled,
	}
}

type healthResponse struct {
	Status     string `json:"status"`
	Transcoder string `json:"transcoder"`
	Fallbacks  int64  `json:"fallbacks"`
	ActiveJobs int    `json:"activeJobs"`
	Backup     bool   `json:"backup"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	transcoder := "remote"
	if h.transcoder.Simulated() {
		transcoder = "simulation"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Transcoder: transcoder,
		Fallbacks:  h.transcoder.Fallbacks(),
		ActiveJobs: h.jobs.Active(),
		Backup:     h.backupEnabled,
	})
}

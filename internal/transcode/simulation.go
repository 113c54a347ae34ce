package transcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const DefaultSimulationStep = 25

type simulatedJob struct {
	path     string
	progress int
}

// Simulation stands in for the transcoding service. Every poll advances a job
// by a fixed step until it completes; the "processed" file is the input itself.
type Simulation struct {
	mu   sync.Mutex
	jobs map[string]*simulatedJob
	step int
}

func NewSimulation(step int) *Simulation {
	if step <= 0 {
		step = DefaultSimulationStep
	}

	return &Simulation{
		jobs: make(map[string]*simulatedJob),
		step: step,
	}
}

func (s *Simulation) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := os.Stat(req.FilePath); err != nil {
		return "", &domain.RejectedError{Op: "submit", StatusCode: http.StatusBadRequest, Message: "input file is not readable"}
	}

	id := "sim-" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[id] = &simulatedJob{path: req.FilePath}

	return id, nil
}

func (s *Simulation) PollStatus(ctx context.Context, jobID string) (domain.PollResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PollResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.PollResult{}, fmt.Errorf("simulated job %q: %w", jobID, domain.ErrNotFound)
	}

	job.progress = min(job.progress+s.step, domain.MaxProgress)
	if job.progress < domain.MaxProgress {
		return domain.PollResult{Status: domain.JobProcessing, Progress: job.progress}, nil
	}

	return domain.PollResult{
		Status:      domain.JobCompleted,
		Progress:    domain.MaxProgress,
		DownloadRef: jobID,
	}, nil
}

func (s *Simulation) Download(ctx context.Context, downloadRef string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	job, ok := s.jobs[downloadRef]
	var snapshot simulatedJob
	if ok {
		snapshot = *job
	}
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("simulated download %q: %w", downloadRef, domain.ErrNotFound)
	}

	if snapshot.progress < domain.MaxProgress {
		return nil, &domain.RejectedError{Op: "download", StatusCode: http.StatusConflict, Message: "job is not completed"}
	}

	f, err := os.Open(snapshot.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open simulated output: %w", err)
	}

	return f, nil
}

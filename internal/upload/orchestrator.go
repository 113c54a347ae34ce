// Package upload coordinates one batch: validation, quota, storage, backup,
// submission and job tracking.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/kurochkinivan/video_uploader/internal/media"
	"github.com/kurochkinivan/video_uploader/internal/transcode"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

type Validator interface {
	Validate(file domain.UploadedFile) media.Verdict
}

type QuotaGate interface {
	Admit(ctx context.Context, accountID string, count int) error
}

type FileStore interface {
	Store(tempPath, accountID string, fileID uuid.UUID, format string) (string, error)
	Remove(path string) error
}

type ItemCreator interface {
	CreateFileItem(ctx context.Context, item *domain.FileItem) error
}

type Backuper interface {
	Backup(item *domain.FileItem)
}

type Submitter interface {
	Submit(ctx context.Context, req transcode.SubmitRequest) (domain.JobHandle, error)
}

type Lifecycle interface {
	MarkProcessing(ctx context.Context, id uuid.UUID, handle domain.JobHandle) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

type JobTracker interface {
	Track(accountID string, itemID uuid.UUID, handle domain.JobHandle) bool
}

type Orchestrator struct {
	log         *slog.Logger
	validator   Validator
	gate        QuotaGate
	files       FileStore
	items       ItemCreator
	backup      Backuper
	submitter   Submitter
	lifecycle   Lifecycle
	tracker     JobTracker
	concurrency int
}

func NewOrchestrator(
	log *slog.Logger,
	validator Validator,
	gate QuotaGate,
	files FileStore,
	items ItemCreator,
	backup Backuper,
	submitter Submitter,
	lifecycle Lifecycle,
	tracker JobTracker,
	concurrency int,
) *Orchestrator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Orchestrator{
		log:         log,
		validator:   validator,
		gate:        gate,
		files:       files,
		items:       items,
		backup:      backup,
		submitter:   submitter,
		lifecycle:   lifecycle,
		tracker:     tracker,
		concurrency: concurrency,
	}
}

// outcome is the result for one file; exactly one field is set.
type outcome struct {
	accepted *domain.AcceptedFile
	rejected *domain.RejectedFile
}

type validFile struct {
	index  int
	file   domain.UploadedFile
	format string
}

// Process runs the batch and reports per-file outcomes in input order. When
// the quota cannot take every valid file the whole batch is refused with
// domain.ErrQuotaExceeded and nothing is recorded.
func (o *Orchestrator) Process(ctx context.Context, batch *domain.UploadBatch) (*domain.BatchResult, error) {
	log := o.log.With(
		slog.String("account_id", batch.AccountID),
		slog.Int("files", len(batch.Files)),
	)

	outcomes := make([]outcome, len(batch.Files))
	valid := make([]validFile, 0, len(batch.Files))

	for i, file := range batch.Files {
		verdict := o.validator.Validate(file)
		if verdict.Valid() {
			valid = append(valid, validFile{index: i, file: file, format: verdict.Format})
			continue
		}

		outcomes[i].rejected = &domain.RejectedFile{Filename: file.Filename, Reason: verdict.Reason}
		o.discard(ctx, file.TempPath)
	}

	if err := o.gate.Admit(ctx, batch.AccountID, len(valid)); err != nil {
		for _, v := range valid {
			o.discard(ctx, v.file.TempPath)
		}

		if errors.Is(err, domain.ErrQuotaExceeded) {
			log.InfoContext(ctx, "batch refused by quota", slog.Int("valid", len(valid)))
		}

		return nil, fmt.Errorf("failed to admit batch: %w", err)
	}

	// The quota is spent, so the files are processed even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(o.concurrency)

	for _, v := range valid {
		g.Go(func() error {
			outcomes[v.index] = o.processFile(ctx, log, batch, v)
			return nil
		})
	}

	_ = g.Wait()

	result := aggregate(outcomes)

	log.InfoContext(ctx, "batch processed",
		slog.Int("uploaded", result.TotalUploaded),
		slog.Int("failed", result.TotalFailed),
	)

	return result, nil
}

func (o *Orchestrator) processFile(ctx context.Context, log *slog.Logger, batch *domain.UploadBatch, v validFile) outcome {
	reject := func(reason string) outcome {
		return outcome{rejected: &domain.RejectedFile{Filename: v.file.Filename, Reason: reason}}
	}

	id := uuid.New()
	log = log.With(slog.String("filename", v.file.Filename), slog.String("item_id", id.String()))

	path, err := o.files.Store(v.file.TempPath, batch.AccountID, id, v.format)
	if err != nil {
		log.ErrorContext(ctx, "failed to store file", slog.String("err", err.Error()))
		o.discard(ctx, v.file.TempPath)
		return reject("failed to store file")
	}

	item := &domain.FileItem{
		ID:               id,
		AccountID:        batch.AccountID,
		OriginalFileName: v.file.Filename,
		Title:            batch.Title,
		Description:      batch.Description,
		StoragePath:      path,
		Size:             v.file.Size,
		Format:           v.format,
		Options:          batch.Options,
		Status:           domain.StatusUploaded,
	}

	if err := o.items.CreateFileItem(ctx, item); err != nil {
		log.ErrorContext(ctx, "failed to create file item", slog.String("err", err.Error()))
		o.discard(ctx, path)
		return reject("failed to record file")
	}

	o.backup.Backup(item)

	handle, err := o.submitter.Submit(ctx, transcode.SubmitRequest{
		FilePath: path,
		FileName: v.file.Filename,
		Options:  batch.Options,
	})
	if err != nil {
		log.WarnContext(ctx, "submission failed", slog.String("err", err.Error()))
		o.fail(ctx, log, id, err.Error())
		return reject(submitFailureReason(err))
	}

	if err := o.lifecycle.MarkProcessing(ctx, id, handle); err != nil {
		log.ErrorContext(ctx, "failed to mark item processing", slog.String("job", handle.String()), slog.String("err", err.Error()))
		o.fail(ctx, log, id, "failed to record job: "+err.Error())
		return reject("failed to record job")
	}

	if !o.tracker.Track(batch.AccountID, id, handle) {
		log.WarnContext(ctx, "job not tracked, polling resumes on next start", slog.String("job", handle.String()))
	}

	log.DebugContext(ctx, "file submitted", slog.String("job", handle.String()))

	return outcome{accepted: &domain.AcceptedFile{
		Filename: v.file.Filename,
		ID:       id,
		JobID:    handle.ID,
		Status:   domain.StatusProcessing,
	}}
}

func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, id uuid.UUID, reason string) {
	if err := o.lifecycle.Fail(ctx, id, reason); err != nil {
		log.ErrorContext(ctx, "failed to mark item failed", slog.String("err", err.Error()))
	}
}

func (o *Orchestrator) discard(ctx context.Context, path string) {
	if err := o.files.Remove(path); err != nil {
		o.log.WarnContext(ctx, "failed to discard file", slog.String("path", path), slog.String("err", err.Error()))
	}
}

func submitFailureReason(err error) string {
	var rejected *domain.RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return "transcoding service rejected the file: " + rejected.Message
		}
		return "transcoding service rejected the file"
	}

	return "transcoding service unavailable"
}

func aggregate(outcomes []outcome) *domain.BatchResult {
	result := &domain.BatchResult{
		Successful: []domain.AcceptedFile{},
		Failed:     []domain.RejectedFile{},
	}

	for _, o := range outcomes {
		switch {
		case o.accepted != nil:
			result.Successful = append(result.Successful, *o.accepted)
		case o.rejected != nil:
			result.Failed = append(result.Failed, *o.rejected)
		}
	}

	result.TotalUploaded = len(result.Successful)
	result.TotalFailed = len(result.Failed)

	return result
}

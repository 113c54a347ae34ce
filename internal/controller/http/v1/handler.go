package v1

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type BatchProcessor interface {
	Process(ctx context.Context, batch *domain.UploadBatch) (*domain.BatchResult, error)
}

type ItemsProvider interface {
	FileItem(ctx context.Context, id uuid.UUID) (*domain.FileItem, error)
	FileItemsByAccount(ctx context.Context, accountID string) ([]*domain.FileItem, error)
	FileItemsPage(ctx context.Context, accountID string, limit, offset uint64) ([]*domain.FileItem, int, error)
}

type Downloader interface {
	Download(ctx context.Context, handle domain.JobHandle, downloadRef string) (io.ReadCloser, error)
}

type UploadLimits struct {
	TempDir     string
	MaxFiles    int
	MaxFileSize int64
}

type VideosHandler struct {
	log        *slog.Logger
	batches    BatchProcessor
	items      ItemsProvider
	downloader Downloader
	limits     UploadLimits
}

func NewVideosHandler(
	log *slog.Logger,
	batches BatchProcessor,
	items ItemsProvider,
	downloader Downloader,
	limits UploadLimits,
) *VideosHandler {
	return &VideosHandler{
		log:        log,
		batches:    batches,
		items:      items,
		downloader: downloader,
		limits:     limits,
	}
}

type uploadCreatedResponse struct {
	Successful    []domain.AcceptedFile `json:"successful"`
	TotalUploaded int                   `json:"totalUploaded"`
}

type uploadRejectedResponse struct {
	Successful []domain.AcceptedFile `json:"successful"`
	Failed     []domain.RejectedFile `json:"failed"`
}

func (h *VideosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	accountID, _ := AccountID(r.Context())

	batch, err := h.readBatch(r, accountID)
	if err != nil {
		h.requestError(w, r, err)
		return
	}

	result, err := h.batches.Process(r.Context(), batch)
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "failed to process upload", slog.String("account_id", accountID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}

	switch result.Outcome() {
	case domain.OutcomeAllAccepted:
		writeJSON(w, http.StatusCreated, uploadCreatedResponse{
			Successful:    result.Successful,
			TotalUploaded: result.TotalUploaded,
		})
	case domain.OutcomePartial:
		writeJSON(w, http.StatusMultiStatus, result)
	default:
		writeJSON(w, http.StatusBadRequest, uploadRejectedResponse{
			Successful: []domain.AcceptedFile{},
			Failed:     result.Failed,
		})
	}
}

type statusMetadata struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Size              int64      `json:"size"`
	Format            string     `json:"format"`
	BackedUp          bool       `json:"backedUp"`
	Error             string     `json:"error,omitempty"`
	DownloadExpiresAt *time.Time `json:"downloadExpiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type statusResponse struct {
	ID                 uuid.UUID      `json:"id"`
	OriginalFileName   string         `json:"originalFileName"`
	Status             domain.Status  `json:"status"`
	ProcessingProgress int            `json:"processingProgress"`
	DownloadURL        string         `json:"downloadUrl,omitempty"`
	Metadata           statusMetadata `json:"metadata"`
}

func newStatusResponse(item *domain.FileItem, now time.Time) statusResponse {
	resp := statusResponse{
		ID:                 item.ID,
		OriginalFileName:   item.OriginalFileName,
		Status:             item.Status,
		ProcessingProgress: item.Progress,
		Metadata: statusMetadata{
			Title:             item.Title,
			Description:       item.Description,
			Size:              item.Size,
			Format:            item.Format,
			BackedUp:          item.BackupRef != "",
			Error:             item.ErrorMessage,
			DownloadExpiresAt: item.DownloadExpiresAt,
			CreatedAt:         item.CreatedAt,
			UpdatedAt:         item.UpdatedAt,
		},
	}

	if item.Status == domain.StatusCompleted && !item.DownloadExpired(now) {
		resp.DownloadURL = "/api/videos/" + item.ID.String() + "/download"
	}

	return resp
}

func (h *VideosHandler) Status(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, newStatusResponse(item, time.Now()))
}

func (h *VideosHandler) Download(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if item.Status != domain.StatusCompleted {
		writeError(w, http.StatusBadRequest, domain.ErrNotCompleted.Error())
		return
	}

	if item.DownloadExpired(time.Now()) {
		writeError(w, http.StatusGone, domain.ErrDownloadExpired.Error())
		return
	}

	handle, ok := item.Handle()
	if !ok || item.DownloadRef == "" {
		writeError(w, http.StatusGone, domain.ErrDownloadExpired.Error())
		return
	}

	body, err := h.downloader.Download(r.Context(), handle, item.DownloadRef)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to download processed video",
			slog.String("item_id", item.ID.String()),
			slog.String("err", err.Error()),
		)

		var rejected *domain.RejectedError
		if errors.Is(err, domain.ErrNotFound) ||
			errors.As(err, &rejected) && (rejected.StatusCode == http.StatusNotFound || rejected.StatusCode == http.StatusGone) {
			writeError(w, http.StatusGone, domain.ErrDownloadExpired.Error())
			return
		}

		writeError(w, http.StatusBadGateway, "failed to download processed video")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": item.OriginalFileName}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.log.WarnContext(r.Context(), "download interrupted", slog.String("item_id", item.ID.String()), slog.String("err", err.Error()))
	}
}

type listResponse struct {
	Videos     []statusResponse `json:"videos"`
	Pagination Pagination       `json:"pagination"`
}

func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, _ := AccountID(r.Context())

	page, limit, err := h.parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	offset := (page - 1) * limit

	items, total, err := h.items.FileItemsPage(r.Context(), accountID, limit, offset)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list videos", slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	now := time.Now()
	videos := make([]statusResponse, 0, len(items))
	for _, item := range items {
		videos = append(videos, newStatusResponse(item, now))
	}

	writeJSON(w, http.StatusOK, listResponse{
		Videos: videos,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int(limit) - 1) / int(limit),
		},
	})
}

type exportRow struct {
	ID                 string    `csv:"id"`
	OriginalFileName   string    `csv:"original_file_name"`
	Status             string    `csv:"status"`
	ProcessingProgress int       `csv:"processing_progress"`
	Size               int64     `csv:"size"`
	JobID              string    `csv:"job_id"`
	JobBackend         string    `csv:"job_backend"`
	BackupRef          string    `csv:"backup_ref"`
	ErrorMessage       string    `csv:"error_message"`
	CreatedAt          time.Time `csv:"created_at"`
}

// Export writes the caller's items as CSV. With missingBackup=true only items
// without a backup copy are listed.
func (h *VideosHandler) Export(w http.ResponseWriter, r *http.Request) {
	accountID, _ := AccountID(r.Context())

	missingBackup, err := parseBool(r.URL.Query().Get("missingBackup"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid missingBackup")
		return
	}

	items, err := h.items.FileItemsByAccount(r.Context(), accountID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to export videos", slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to export videos")
		return
	}

	rows := make([]exportRow, 0, len(items))
	for _, item := range items {
		if missingBackup && item.BackupRef != "" {
			continue
		}

		rows = append(rows, exportRow{
			ID:                 item.ID.String(),
			OriginalFileName:   item.OriginalFileName,
			Status:             string(item.Status),
			ProcessingProgress: item.Progress,
			Size:               item.Size,
			JobID:              item.JobID,
			JobBackend:         item.JobBackend,
			BackupRef:          item.BackupRef,
			ErrorMessage:       item.ErrorMessage,
			CreatedAt:          item.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "videos.csv"}))

	writer := csv.NewWriter(w)
	enc := csvutil.NewEncoder(writer)

	if err := enc.EncodeHeader(exportRow{}); err != nil {
		h.log.ErrorContext(r.Context(), "failed to encode csv header", slog.String("err", err.Error()))
		return
	}

	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			h.log.ErrorContext(r.Context(), "failed to encode csv row", slog.String("err", err.Error()))
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		h.log.WarnContext(r.Context(), "failed to write csv", slog.String("err", err.Error()))
	}
}

// ownedItem resolves the {id} parameter. Items of other accounts are reported as missing.
func (h *VideosHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*domain.FileItem, bool) {
	accountID, _ := AccountID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		return nil, false
	}

	item, err := h.items.FileItem(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		return nil, false
	case err != nil:
		h.log.ErrorContext(r.Context(), "failed to get video", slog.String("item_id", id.String()), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to get video")
		return nil, false
	}

	if !item.OwnedBy(accountID) {
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		return nil, false
	}

	return item, true
}

func (h *VideosHandler) requestError(w http.ResponseWriter, r *http.Request, err error) {
	var bad *badRequestError
	if errors.As(err, &bad) {
		writeError(w, http.StatusBadRequest, bad.msg)
		return
	}

	h.log.ErrorContext(r.Context(), "failed to read upload", slog.String("err", err.Error()))
	writeError(w, http.StatusInternalServerError, "failed to read upload")
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}

	return strconv.ParseBool(s)
}

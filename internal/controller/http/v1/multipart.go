package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kurochkinivan/video_uploader/internal/domain"
	"github.com/kurochkinivan/video_uploader/internal/storage"
)

const (
	fieldVideo       = "video"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldEditingData = "editingData"

	maxFieldSize = 64 << 10
)

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// readBatch streams the multipart body, spooling every video part to a temp
// file. On error all spooled files are removed.
func (h *VideosHandler) readBatch(r *http.Request, accountID string) (_ *domain.UploadBatch, err error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest("expected multipart/form-data body")
	}

	batch := &domain.UploadBatch{AccountID: accountID}
	defer func() {
		if err != nil {
			removeSpooled(batch.Files)
		}
	}()

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return batch, badRequest("malformed multipart body")
		}

		switch part.FormName() {
		case fieldVideo:
			if len(batch.Files) == h.limits.MaxFiles {
				return batch, badRequest("too many files, at most %d per upload", h.limits.MaxFiles)
			}

			file, err := h.spool(part.FileName(), part)
			if err != nil {
				return batch, err
			}
			batch.Files = append(batch.Files, file)

		case fieldTitle:
			batch.Title, err = readField(part)
		case fieldDescription:
			batch.Description, err = readField(part)
		case fieldEditingData:
			var raw string
			raw, err = readField(part)
			if err == nil && raw != "" {
				if !json.Valid([]byte(raw)) {
					return batch, badRequest("editingData is not valid JSON")
				}
				batch.Options = json.RawMessage(raw)
			}
		}

		part.Close()

		if err != nil {
			return batch, err
		}
	}

	if len(batch.Files) == 0 {
		return batch, badRequest("no video files uploaded")
	}

	return batch, nil
}

func (h *VideosHandler) spool(filename string, body io.Reader) (_ domain.UploadedFile, err error) {
	if filename == "" {
		return domain.UploadedFile{}, badRequest("video part without file name")
	}

	f, err := os.CreateTemp(h.limits.TempDir, storage.SpoolPrefix+"*")
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	// One byte past the limit is enough for the validator to reject the file.
	n, err := io.Copy(f, io.LimitReader(body, h.limits.MaxFileSize+1))
	if err != nil {
		return domain.UploadedFile{}, badRequest("failed to read %q", filename)
	}

	return domain.UploadedFile{
		Filename: filepath.Base(filename),
		TempPath: f.Name(),
		Size:     n,
	}, nil
}

func readField(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFieldSize+1))
	if err != nil {
		return "", badRequest("malformed form field")
	}

	if len(data) > maxFieldSize {
		return "", badRequest("form field exceeds %d bytes", maxFieldSize)
	}

	return string(data), nil
}

func removeSpooled(files []domain.UploadedFile) {
	for _, f := range files {
		os.Remove(f.TempPath)
	}
}

// Package media checks uploaded files before anything is persisted for them.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const MaxFileSize int64 = 1 << 30 // 1 GiB

var supportedFormats = []string{
	"mp4",
	"mov",
	"avi",
	"mkv",
	"webm",
	"m4v",
	"wmv",
	"flv",
	"mpeg",
	"mpg",
	"3gp",
}

type Verdict struct {
	Format string
	Reason string
}

func (v Verdict) Valid() bool {
	return v.Reason == ""
}

type Validator struct {
	maxSize int64
	formats []string
}

func NewValidator() *Validator {
	return &Validator{
		maxSize: MaxFileSize,
		formats: supportedFormats,
	}
}

func SupportedFormats() []string {
	return slices.Clone(supportedFormats)
}

// Validate stats the temp file and checks its declared extension. It never
// modifies the file.
func (v *Validator) Validate(file domain.UploadedFile) Verdict {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !slices.Contains(v.formats, format) {
		if format == "" {
			return Verdict{Reason: "missing file extension"}
		}
		return Verdict{Reason: fmt.Sprintf("unsupported format %q", format)}
	}

	info, err := os.Stat(file.TempPath)
	if err != nil {
		return Verdict{Reason: "file is not readable"}
	}

	if !info.Mode().IsRegular() {
		return Verdict{Reason: "not a regular file"}
	}

	size := info.Size()
	if size == 0 {
		return Verdict{Reason: "file is empty"}
	}

	if size > v.maxSize {
		return Verdict{Reason: fmt.Sprintf("file size %d exceeds limit of %d bytes", size, v.maxSize)}
	}

	return Verdict{Format: format}
}

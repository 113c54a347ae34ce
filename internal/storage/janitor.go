package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SpoolPrefix starts the name of every file spooled from an upload request.
const SpoolPrefix = "upload-"

// defaultSpoolDir is created under the system temp directory so the janitor
// never sweeps files other processes keep there.
const defaultSpoolDir = "video_uploader"

// SpoolDir returns the directory uploads are spooled to, creating the default
// one when dir is empty.
func SpoolDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}

	dir = filepath.Join(os.TempDir(), defaultSpoolDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create spool directory %q: %w", dir, err)
	}

	return dir, nil
}

// Janitor periodically removes spool files that outlived any request which
// could still own them, such as leftovers of a crashed process.
type Janitor struct {
	log          *slog.Logger
	spoolDir     string
	scanInterval time.Duration
	maxAge       time.Duration
	now          func() time.Time
}

func NewJanitor(log *slog.Logger, spoolDir string, scanInterval, maxAge time.Duration) *Janitor {
	return &Janitor{
		log:          log,
		spoolDir:     spoolDir,
		scanInterval: scanInterval,
		maxAge:       maxAge,
		now:          time.Now,
	}
}

func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.scanInterval)
	defer ticker.Stop()

	for {
		if _, err := j.Sweep(ctx); err != nil {
			j.log.ErrorContext(ctx, "failed to sweep spool directory", slog.String("err", err.Error()))
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Sweep removes stale spool files once and returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(j.spoolDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %q: %w", j.spoolDir, err)
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), SpoolPrefix) {
			continue
		}

		ok, err := j.removeStale(entry, cutoff)
		if err != nil {
			j.log.WarnContext(ctx, "failed to remove spool file, skipping",
				slog.String("filename", entry.Name()),
				slog.String("err", err.Error()),
			)
			continue
		}

		if ok {
			removed++
		}
	}

	if removed > 0 {
		j.log.InfoContext(ctx, "removed stale spool files", slog.Int("count", removed))
	}

	return removed, nil
}

func (j *Janitor) removeStale(entry os.DirEntry, cutoff time.Time) (bool, error) {
	info, err := entry.Info()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if info.ModTime().After(cutoff) {
		return false, nil
	}

	if err := os.Remove(filepath.Join(j.spoolDir, entry.Name())); err != nil && !os.IsNotExist(err) {
		return false, err
	}

	return true, nil
}

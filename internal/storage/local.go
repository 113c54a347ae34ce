// Package storage keeps accepted originals on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640
)

type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir %q: %w", root, err)
	}

	return &Local{root: root}, nil
}

// Path returns where the original of fileID is kept. accountID must be a
// single safe path element.
func (l *Local) Path(accountID string, fileID uuid.UUID, format string) (string, error) {
	if !domain.ValidAccountID(accountID) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAccount, accountID)
	}

	return filepath.Join(l.root, accountID, fileID.String()+"."+format), nil
}

// Store moves tempPath to the file's durable location and returns that path.
func (l *Local) Store(tempPath, accountID string, fileID uuid.UUID, format string) (string, error) {
	dst, err := l.Path(accountID, fileID, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create account dir: %w", err)
	}

	if err := os.Rename(tempPath, dst); err == nil {
		return dst, nil
	}

	// Rename fails across filesystems, fall back to copying.
	if err := copyFile(tempPath, dst); err != nil {
		return "", err
	}

	if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to remove temp file: %w", err)
	}

	return dst, nil
}

// Remove deletes a stored or temporary file. Missing files are ignored.
func (l *Local) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}

	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy to %q: %w", dst, err)
	}

	return out.Sync()
}

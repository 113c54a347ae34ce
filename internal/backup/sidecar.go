// Package backup copies accepted originals to object storage out of band.
// A failed copy only leaves the item's backup reference empty.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultConcurrency  = 4
	DefaultDrainTimeout = 30 * time.Second
)

type ObjectStore interface {
	// EnsureFolder looks up or creates the folder and returns its key prefix.
	EnsureFolder(ctx context.Context, prefix string) (string, error)
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
}

type ItemUpdater interface {
	SetBackupRef(ctx context.Context, id uuid.UUID, ref string) error
}

type Sidecar struct {
	log          *slog.Logger
	store        ObjectStore
	items        ItemUpdater
	sem          *semaphore.Weighted
	drainTimeout time.Duration

	folders     sync.Map
	folderGroup singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewSidecar builds the sidecar. A nil store disables backups.
func NewSidecar(log *slog.Logger, store ObjectStore, items ItemUpdater, concurrency int64, drainTimeout time.Duration) *Sidecar {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if drainTimeout <= 0 {
		drainTimeout = DefaultDrainTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sidecar{
		log:          log,
		store:        store,
		items:        items,
		sem:          semaphore.NewWeighted(concurrency),
		drainTimeout: drainTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (s *Sidecar) Enabled() bool {
	return s.store != nil
}

// FolderFor returns the folder prefix holding the account's originals.
func FolderFor(accountID string) (string, error) {
	if !domain.ValidAccountID(accountID) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAccount, accountID)
	}

	return path.Join("accounts", accountID, "originals") + "/", nil
}

// Backup schedules a copy of the item's stored file and returns at once.
func (s *Sidecar) Backup(item *domain.FileItem) {
	if !s.Enabled() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.WarnContext(s.ctx, "backup skipped, sidecar stopped",
			slog.String("item_id", item.ID.String()),
			slog.String("account_id", item.AccountID),
		)
		return
	}

	id, accountID, storagePath, format := item.ID, item.AccountID, item.StoragePath, item.Format

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.backup(s.ctx, id, accountID, storagePath, format); err != nil {
			s.log.WarnContext(s.ctx, "backup failed",
				slog.String("item_id", id.String()),
				slog.String("account_id", accountID),
				slog.String("err", err.Error()),
			)
		}
	}()
}

func (s *Sidecar) backup(ctx context.Context, id uuid.UUID, accountID, storagePath, format string) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	folder, err := s.folder(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to ensure folder: %w", err)
	}

	f, err := os.Open(storagePath)
	if err != nil {
		return fmt.Errorf("failed to open original: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat original: %w", err)
	}

	key := folder + id.String() + "." + format
	if err := s.store.Upload(ctx, key, f, info.Size()); err != nil {
		return fmt.Errorf("failed to upload %q: %w", key, err)
	}

	if err := s.items.SetBackupRef(ctx, id, key); err != nil {
		return fmt.Errorf("failed to store backup reference: %w", err)
	}

	s.log.DebugContext(ctx, "original backed up", slog.String("item_id", id.String()), slog.String("key", key))

	return nil
}

// folder resolves the account folder once per account. Concurrent first
// lookups share one EnsureFolder call.
func (s *Sidecar) folder(ctx context.Context, accountID string) (string, error) {
	if cached, ok := s.folders.Load(accountID); ok {
		return cached.(string), nil
	}

	v, err, _ := s.folderGroup.Do(accountID, func() (any, error) {
		if cached, ok := s.folders.Load(accountID); ok {
			return cached, nil
		}

		prefix, err := FolderFor(accountID)
		if err != nil {
			return nil, err
		}

		folder, err := s.store.EnsureFolder(ctx, prefix)
		if err != nil {
			return nil, err
		}

		s.folders.Store(accountID, folder)
		return folder, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Run blocks until ctx is done, then waits for in-flight copies. Copies still
// running after the drain timeout are cancelled.
func (s *Sidecar) Run(ctx context.Context) error {
	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(s.drainTimeout):
		s.log.WarnContext(ctx, "backup drain timed out, cancelling in-flight copies")
		s.cancel()
		<-drained
	}

	s.cancel()

	return ctx.Err()
}

// Package memory keeps repositories in process memory. It backs tests and the
// "memory" storage mode.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

// FileItemsRepository stores items in an append-only arena indexed by id.
type FileItemsRepository struct {
	mu    sync.RWMutex
	items []domain.FileItem
	index map[uuid.UUID]int
	now   func() time.Time
}

func NewFileItemsRepository() *FileItemsRepository {
	return &FileItemsRepository{
		index: make(map[uuid.UUID]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *FileItemsRepository) CreateFileItem(_ context.Context, item *domain.FileItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[item.ID]; ok {
		return domain.ErrAlreadyExists
	}

	now := r.now()
	item.CreatedAt, item.UpdatedAt = now, now

	r.index[item.ID] = len(r.items)
	r.items = append(r.items, cloneItem(*item))

	return nil
}

func (r *FileItemsRepository) FileItem(_ context.Context, id uuid.UUID) (*domain.FileItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	item := cloneItem(r.items[i])
	return &item, nil
}

func (r *FileItemsRepository) FileItemsByAccount(_ context.Context, accountID string) ([]*domain.FileItem, error) {
	return r.filter(func(item *domain.FileItem) bool { return item.AccountID == accountID }), nil
}

func (r *FileItemsRepository) FileItemsByStatus(_ context.Context, status domain.Status) ([]*domain.FileItem, error) {
	return r.filter(func(item *domain.FileItem) bool { return item.Status == status }), nil
}

// FileItemsPage returns one page of the account's items, newest first, and the total count.
func (r *FileItemsRepository) FileItemsPage(_ context.Context, accountID string, limit, offset uint64) ([]*domain.FileItem, int, error) {
	items := r.filter(func(item *domain.FileItem) bool { return item.AccountID == accountID })
	slices.Reverse(items)

	total := len(items)
	start := min(offset, uint64(total))
	end := min(start+limit, uint64(total))

	return items[start:end], total, nil
}

func (r *FileItemsRepository) UpdateStatus(_ context.Context, id uuid.UUID, update domain.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.ErrNotFound
	}

	item := &r.items[i]
	if item.Status.Terminal() {
		return domain.ErrTerminalState
	}

	item.Status = update.Status
	item.Progress = max(item.Progress, update.Progress)
	if update.Job != nil {
		item.JobID, item.JobBackend = update.Job.ID, update.Job.Backend
	}
	if update.DownloadRef != "" {
		item.DownloadRef = update.DownloadRef
	}
	if update.DownloadExpiresAt != nil {
		expires := *update.DownloadExpiresAt
		item.DownloadExpiresAt = &expires
	}
	if update.ErrorMessage != "" {
		item.ErrorMessage = update.ErrorMessage
	}
	item.UpdatedAt = r.now()

	return nil
}

func (r *FileItemsRepository) SetBackupRef(_ context.Context, id uuid.UUID, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return domain.ErrNotFound
	}

	r.items[i].BackupRef = ref
	r.items[i].UpdatedAt = r.now()

	return nil
}

// Len returns the number of stored items.
func (r *FileItemsRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

func (r *FileItemsRepository) filter(keep func(*domain.FileItem) bool) []*domain.FileItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.FileItem
	for i := range r.items {
		if keep(&r.items[i]) {
			item := cloneItem(r.items[i])
			out = append(out, &item)
		}
	}

	return out
}

func cloneItem(item domain.FileItem) domain.FileItem {
	item.Options = slices.Clone(item.Options)
	if item.DownloadExpiresAt != nil {
		expires := *item.DownloadExpiresAt
		item.DownloadExpiresAt = &expires
	}

	return item
}

package memory

import (
	"context"
	"sync"

	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type AccountsRepository struct {
	mu           sync.Mutex
	quotas       map[string]domain.Quota
	defaultLimit int
}

// NewAccountsRepository returns an empty repository. With a positive
// defaultLimit unknown accounts are created on first use with that limit.
func NewAccountsRepository(defaultLimit int) *AccountsRepository {
	return &AccountsRepository{
		quotas:       make(map[string]domain.Quota),
		defaultLimit: defaultLimit,
	}
}

// PutAccount creates or replaces an account's quota.
func (r *AccountsRepository) PutAccount(accountID string, videosProcessed, monthlyLimit int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.quotas[accountID] = domain.Quota{
		AccountID:       accountID,
		VideosProcessed: videosProcessed,
		MonthlyLimit:    monthlyLimit,
	}
}

func (r *AccountsRepository) UpsertAccount(_ context.Context, quota domain.Quota) error {
	r.PutAccount(quota.AccountID, quota.VideosProcessed, quota.MonthlyLimit)
	return nil
}

// LockQuota only reads; mutual exclusion comes from Transactor.
func (r *AccountsRepository) LockQuota(_ context.Context, accountID string) (domain.Quota, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quota, ok := r.quotas[accountID]
	if !ok {
		if r.defaultLimit <= 0 {
			return domain.Quota{}, domain.ErrNotFound
		}

		quota = domain.Quota{AccountID: accountID, MonthlyLimit: r.defaultLimit}
		r.quotas[accountID] = quota
	}

	return quota, nil
}

func (r *AccountsRepository) Quota(accountID string) (domain.Quota, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quota, ok := r.quotas[accountID]
	return quota, ok
}

func (r *AccountsRepository) AddProcessedVideos(_ context.Context, accountID string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quota, ok := r.quotas[accountID]
	if !ok {
		return domain.ErrNotFound
	}

	quota.VideosProcessed += count
	r.quotas[accountID] = quota

	return nil
}

// Transactor serialises transactions. It does not roll anything back.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(ctx)
}

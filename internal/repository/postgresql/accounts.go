package postgresql

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const TableAccounts = "accounts"

type AccountsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewAccountsRepository(pool *pgxpool.Pool) *AccountsRepository {
	return &AccountsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// LockQuota reads the account's quota and holds a row lock on it until the
// surrounding transaction ends.
func (r *AccountsRepository) LockQuota(ctx context.Context, accountID string) (domain.Quota, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("id", "videos_processed", "monthly_limit").
		From(TableAccounts).
		Where(sq.Eq{"id": accountID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.Quota{}, createQueryError(err)
	}

	var quota domain.Quota
	err = db.QueryRow(ctx, sql, args...).Scan(&quota.AccountID, &quota.VideosProcessed, &quota.MonthlyLimit)
	if err != nil {
		return domain.Quota{}, scanRowError(err)
	}

	return quota, nil
}

func (r *AccountsRepository) AddProcessedVideos(ctx context.Context, accountID string, count int) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableAccounts).
		Set("videos_processed", sq.Expr("videos_processed + ?", count)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": accountID}).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpsertAccount creates the account or overwrites its counters.
func (r *AccountsRepository) UpsertAccount(ctx context.Context, quota domain.Quota) error {
	db := extractDB(ctx, r.pool)

	now := time.Now().UTC()

	sql, args, err := r.qb.
		Insert(TableAccounts).
		Columns("id", "videos_processed", "monthly_limit", "created_at", "updated_at").
		Values(quota.AccountID, quota.VideosProcessed, quota.MonthlyLimit, now, now).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			videos_processed = EXCLUDED.videos_processed,
			monthly_limit = EXCLUDED.monthly_limit,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return executeQueryError(err)
	}

	return nil
}

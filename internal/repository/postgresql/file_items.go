package postgresql

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

const TableFileItems = "file_items"

var fileItemColumns = []string{
	"id",
	"account_id",
	"original_file_name",
	"title",
	"description",
	"storage_path",
	"size",
	"format",
	"options",
	"status",
	"processing_progress",
	"job_id",
	"job_backend",
	"backup_ref",
	"download_ref",
	"download_expires_at",
	"error_message",
	"created_at",
	"updated_at",
}

var terminalStatuses = []domain.Status{domain.StatusCompleted, domain.StatusFailed}

type FileItemsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewFileItemsRepository(pool *pgxpool.Pool) *FileItemsRepository {
	return &FileItemsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *FileItemsRepository) CreateFileItem(ctx context.Context, item *domain.FileItem) error {
	db := extractDB(ctx, r.pool)

	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	var options any
	if len(item.Options) > 0 {
		options = string(item.Options)
	}

	sql, args, err := r.qb.
		Insert(TableFileItems).
		Columns(
			"id",
			"account_id",
			"original_file_name",
			"title",
			"description",
			"storage_path",
			"size",
			"format",
			"options",
			"status",
			"processing_progress",
			"created_at",
			"updated_at",
		).
		Values(
			item.ID,
			item.AccountID,
			item.OriginalFileName,
			item.Title,
			item.Description,
			item.StoragePath,
			item.Size,
			item.Format,
			options,
			item.Status,
			item.Progress,
			item.CreatedAt,
			item.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *FileItemsRepository) FileItem(ctx context.Context, id uuid.UUID) (*domain.FileItem, error) {
	items, err := r.selectItems(ctx, sq.Eq{"id": id})
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}

	return items[0], nil
}

func (r *FileItemsRepository) FileItemsByAccount(ctx context.Context, accountID string) ([]*domain.FileItem, error) {
	return r.selectItems(ctx, sq.Eq{"account_id": accountID})
}

func (r *FileItemsRepository) FileItemsByStatus(ctx context.Context, status domain.Status) ([]*domain.FileItem, error) {
	return r.selectItems(ctx, sq.Eq{"status": status})
}

// FileItemsPage returns one page of the account's items, newest first, and the total count.
func (r *FileItemsRepository) FileItemsPage(
	ctx context.Context,
	accountID string,
	limit, offset uint64,
) ([]*domain.FileItem, int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableFileItems).
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, -1, scanRowError(err)
	}

	sql, args, err = r.qb.
		Select(fileItemColumns...).
		From(TableFileItems).
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("created_at DESC", "id").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, -1, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, -1, executeQueryError(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.FileItem])
	if err != nil {
		return nil, -1, collectRowsError(err)
	}

	return items, total, nil
}

func (r *FileItemsRepository) selectItems(ctx context.Context, where sq.Sqlizer) ([]*domain.FileItem, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(fileItemColumns...).
		From(TableFileItems).
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.FileItem])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return items, nil
}

// UpdateStatus writes one transition in a single statement. Items already in a
// terminal state are left untouched and ErrTerminalState is returned.
func (r *FileItemsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update domain.StatusUpdate) error {
	db := extractDB(ctx, r.pool)

	query := r.qb.
		Update(TableFileItems).
		Set("status", update.Status).
		Set("processing_progress", sq.Expr("GREATEST(processing_progress, ?)", update.Progress)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"status": terminalStatuses})

	if update.Job != nil {
		query = query.Set("job_id", update.Job.ID).Set("job_backend", update.Job.Backend)
	}
	if update.DownloadRef != "" {
		query = query.Set("download_ref", update.DownloadRef)
	}
	if update.DownloadExpiresAt != nil {
		query = query.Set("download_expires_at", *update.DownloadExpiresAt)
	}
	if update.ErrorMessage != "" {
		query = query.Set("error_message", update.ErrorMessage)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	if tag.RowsAffected() == 0 {
		return r.missOrTerminal(ctx, id)
	}

	return nil
}

func (r *FileItemsRepository) SetBackupRef(ctx context.Context, id uuid.UUID, ref string) error {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Update(TableFileItems).
		Set("backup_ref", ref).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
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

func (r *FileItemsRepository) missOrTerminal(ctx context.Context, id uuid.UUID) error {
	if _, err := r.FileItem(ctx, id); err != nil {
		return err
	}

	return domain.ErrTerminalState
}

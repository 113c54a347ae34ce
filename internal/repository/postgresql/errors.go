package postgresql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

func createQueryError(err error) error {
	return fmt.Errorf("failed to create query: %w", err)
}

const uniqueViolation = "23505"

func executeQueryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("failed to execute query: %w: %s", domain.ErrAlreadyExists, pgErr.ConstraintName)
	}

	return fmt.Errorf("failed to execute query: %w", err)
}

func scanRowError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	return fmt.Errorf("failed to scan row: %w", err)
}

func collectRowsError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	return fmt.Errorf("failed to collect rows: %w", err)
}

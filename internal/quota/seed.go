package quota

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type AccountUpserter interface {
	UpsertAccount(ctx context.Context, quota domain.Quota) error
}

// Seeder loads account allowances from a tab separated file with the header
// account_id, monthly_limit and an optional videos_processed column.
type Seeder struct {
	log        *slog.Logger
	accounts   AccountUpserter
	transactor Transactor
}

func NewSeeder(log *slog.Logger, accounts AccountUpserter, transactor Transactor) *Seeder {
	return &Seeder{
		log:        log,
		accounts:   accounts,
		transactor: transactor,
	}
}

// SeedFile stores every account of the file in one transaction and returns how many were stored.
func (s *Seeder) SeedFile(ctx context.Context, filename string) (_ int, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	quotas, err := ParseAccounts(f)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", filename, err)
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		for _, quota := range quotas {
			if err := s.accounts.UpsertAccount(ctx, quota); err != nil {
				return fmt.Errorf("failed to store account %q: %w", quota.AccountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "accounts seeded", slog.String("file", filename), slog.Int("accounts", len(quotas)))

	return len(quotas), nil
}

func ParseAccounts(r io.Reader) ([]domain.Quota, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'

	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	var quotas []domain.Quota
	for {
		var quota domain.Quota

		err := dec.Decode(&quota)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to decode account record: %w", err)
		}

		if err := quota.Validate(); err != nil {
			return nil, fmt.Errorf("invalid account record #%d: %w", len(quotas)+1, err)
		}

		quotas = append(quotas, quota)
	}

	return quotas, nil
}

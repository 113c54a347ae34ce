package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Account ids name directories and object key prefixes, so they are limited
// to a single safe path element.
var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func ValidAccountID(id string) bool {
	return accountIDPattern.MatchString(id)
}

type Quota struct {
	AccountID       string `db:"id" csv:"account_id"`
	VideosProcessed int    `db:"videos_processed" csv:"videos_processed,omitempty"`
	MonthlyLimit    int    `db:"monthly_limit" csv:"monthly_limit"`
}

func (q Quota) Validate() error {
	switch {
	case q.AccountID == "":
		return errors.New("empty account id")
	case !ValidAccountID(q.AccountID):
		return fmt.Errorf("%w: %q", ErrInvalidAccount, q.AccountID)
	case q.MonthlyLimit < 0:
		return fmt.Errorf("negative monthly limit %d", q.MonthlyLimit)
	case q.VideosProcessed < 0:
		return fmt.Errorf("negative processed count %d", q.VideosProcessed)
	}

	return nil
}

func (q Quota) Remaining() int {
	return max(q.MonthlyLimit-q.VideosProcessed, 0)
}

// Admit checks that count more videos fit into the allowance.
func (q Quota) Admit(count int) error {
	if count < 0 {
		return fmt.Errorf("negative video count %d", count)
	}

	if q.VideosProcessed+count > q.MonthlyLimit {
		return &QuotaExceededError{
			Requested: count,
			Remaining: q.Remaining(),
			Limit:     q.MonthlyLimit,
		}
	}

	return nil
}

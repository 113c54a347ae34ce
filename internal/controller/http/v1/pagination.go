package v1

import (
	"errors"
	"math"
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Pagination struct {
	Page       uint64 `json:"page"`
	Limit      uint64 `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

func (h *VideosHandler) parsePagination(r *http.Request) (page uint64, limit uint64, err error) {
	page, limit = 1, defaultPageLimit

	if p := r.URL.Query().Get("page"); p != "" {
		page, err = strconv.ParseUint(p, 10, 64)
		if err != nil || page == 0 {
			return 0, 0, errors.New("invalid page")
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, errors.New("invalid limit, must be in [1;100]")
		}
	}

	// The offset is a signed 64-bit value in SQL.
	if page-1 > math.MaxInt64/limit {
		return 0, 0, errors.New("invalid page, out of range")
	}

	return page, limit, nil
}

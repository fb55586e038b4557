package shared

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads page and limit, ignoring bad values and capping limit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := DefaultPage
	limit := defaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

func SetTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
}

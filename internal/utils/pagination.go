package utils

import (
	"errors"
	"strconv"
	"strings"
)

// Pagination holds limit/offset parameters.
type Pagination struct {
	Limit  int
	Offset int
}

var (
	ErrInvalidLimit  = errors.New("limit must be a positive integer")
	ErrInvalidOffset = errors.New("offset must be a non-negative integer")
)

// ParsePagination reads raw limit and offset values. Empty values take the
// defaults, anything non-numeric is rejected and limit is capped at maxLimit.
func ParsePagination(rawLimit, rawOffset string, defaultLimit, maxLimit int) (Pagination, error) {
	pg := Pagination{Limit: defaultLimit}

	if v := strings.TrimSpace(rawLimit); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return pg, ErrInvalidLimit
		}
		pg.Limit = limit
	}
	if maxLimit > 0 && pg.Limit > maxLimit {
		pg.Limit = maxLimit
	}

	if v := strings.TrimSpace(rawOffset); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return pg, ErrInvalidOffset
		}
		pg.Offset = offset
	}

	return pg, nil
}

package http

import (
	"evshare/pkg/config"
	apperrors "evshare/pkg/errors"
	"net/http"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractTimeRange parses the from/to RFC3339 query parameters. Both are
// required when requireBoth is set; otherwise either may be absent.
func ExtractTimeRange(r *http.Request, requireBoth bool) (*time.Time, *time.Time, error) {
	query := r.URL.Query()

	var from, to *time.Time
	if s := query.Get("from"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid from parameter, must be RFC3339")
		}
		from = &parsed
	}
	if s := query.Get("to"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, apperrors.InvalidInput("invalid to parameter, must be RFC3339")
		}
		to = &parsed
	}

	if requireBoth && (from == nil || to == nil) {
		return nil, nil, apperrors.InvalidInput("both 'from' and 'to' query parameters are required")
	}
	if from != nil && to != nil && !to.After(*from) {
		return nil, nil, apperrors.InvalidInput("'to' must be after 'from'")
	}

	return from, to, nil
}

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/notifperf-api/internal/domain"
	"github.com/notifperf-api/internal/pkg/validate"
)

// parseID reads the {id} path parameter as a positive integer.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, domain.ErrBadRequest)
	}
	return id, nil
}

// parseDateRange reads the required startDate and endDate query parameters.
func parseDateRange(r *http.Request) (start, end domain.Date, err error) {
	q := r.URL.Query()
	dr := domain.DateRange{Start: q.Get("startDate"), End: q.Get("endDate")}
	if err := validate.Struct(dr); err != nil {
		return start, end, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if start, err = domain.ParseDate(dr.Start); err != nil {
		return start, end, err
	}
	if end, err = domain.ParseDate(dr.End); err != nil {
		return start, end, err
	}
	return start, end, nil
}

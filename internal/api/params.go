package api

import (
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
)

const maxLimit = 1000

// queryParams reads typed query parameters and collects every parse
// failure so a request reports all bad fields at once
type queryParams struct {
	values url.Values
	errs   map[string]any
}

func newQueryParams(c echo.Context) *queryParams {
	return &queryParams{values: c.QueryParams()}
}

func (q *queryParams) fail(key, msg string) {
	if q.errs == nil {
		q.errs = make(map[string]any)
	}
	q.errs[key] = msg
}

// String returns the trimmed value, or "" when absent
func (q *queryParams) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// Uint returns nil when the key is absent
func (q *queryParams) Uint(key string) *uint {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || n == 0 {
		q.fail(key, "must be a positive integer")
		return nil
	}
	v := uint(n)
	return &v
}

// Int returns nil when the key is absent
func (q *queryParams) Int(key string) *int {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "must be an integer")
		return nil
	}
	return &n
}

// Date parses YYYY-MM-DD as a UTC day
func (q *queryParams) Date(key string) *time.Time {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		q.fail(key, "must be a date formatted YYYY-MM-DD")
		return nil
	}
	return &t
}

// RequiredDate is Date but records a failure when the key is absent
func (q *queryParams) RequiredDate(key string) time.Time {
	if q.String(key) == "" {
		q.fail(key, "is required")
		return time.Time{}
	}
	if t := q.Date(key); t != nil {
		return *t
	}
	return time.Time{}
}

// Page reads limit (1..1000, default 100) and offset (>= 0)
func (q *queryParams) Page() models.Page {
	page := models.Page{Limit: models.DefaultLimit}
	if limit := q.Int("limit"); limit != nil {
		if *limit < 1 || *limit > maxLimit {
			q.fail("limit", "must be between 1 and 1000")
		} else {
			page.Limit = *limit
		}
	}
	if offset := q.Int("offset"); offset != nil {
		if *offset < 0 {
			q.fail("offset", "must be 0 or greater")
		} else {
			page.Offset = *offset
		}
	}
	return page
}

// Err returns a validation error naming every bad parameter, or nil
func (q *queryParams) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(q.errs))
	for k := range q.errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return &apperr.Error{
		Kind:    apperr.KindValidation,
		Message: "invalid query parameter " + strings.Join(keys, ", "),
		Details: q.errs,
	}
}

// pathID parses a positive integer path parameter
func pathID(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || n == 0 {
		return 0, apperr.Validation("invalid %s", name).WithDetail(name, "must be a positive integer")
	}
	return uint(n), nil
}

// bind decodes the JSON body into dst
func bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		return apperr.Validation("invalid request body: %s", msg)
	}
	return nil
}

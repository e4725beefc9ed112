package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/reporting"
)

func (s *Server) revenue(c echo.Context) error {
	bucket, err := reporting.ParseBucket(c.Param("bucket"))
	if err != nil {
		return apperr.Wrap(apperr.KindNotFound, err, "unknown revenue report %q", c.Param("bucket")).
			WithDetail("bucket", "must be one of daily, weekly, monthly, annual")
	}

	q := newQueryParams(c)
	query := reporting.Query{
		Bucket:     bucket,
		Start:      q.Date("start_date"),
		End:        q.Date("end_date"),
		CategoryID: q.Uint("category_id"),
	}
	if err := q.Err(); err != nil {
		return err
	}

	buckets, err := s.reporter.Aggregate(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

func (s *Server) compareRevenue(c echo.Context) error {
	q := newQueryParams(c)
	query := reporting.CompareQuery{
		Bucket:     reporting.Monthly,
		AStart:     q.RequiredDate("period1_start"),
		AEnd:       q.RequiredDate("period1_end"),
		BStart:     q.RequiredDate("period2_start"),
		BEnd:       q.RequiredDate("period2_end"),
		CategoryID: q.Uint("category_id"),
	}
	if raw := q.String("period"); raw != "" {
		bucket, err := reporting.ParseBucket(raw)
		if err != nil {
			q.fail("period", "must be one of daily, weekly, monthly, annual")
		}
		query.Bucket = bucket
	}
	if err := q.Err(); err != nil {
		return err
	}

	cmp, err := s.reporter.Compare(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cmp)
}

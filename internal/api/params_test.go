package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
)

func contextFor(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestQueryParams(t *testing.T) {
	q := newQueryParams(contextFor("/?category_id=3&threshold=-2&start_date=2024-01-31&name=%20saw%20"))

	require.NotNil(t, q.Uint("category_id"))
	assert.Equal(t, uint(3), *q.Uint("category_id"))
	assert.Equal(t, -2, *q.Int("threshold"))
	assert.Equal(t, "2024-01-31", q.Date("start_date").Format("2006-01-02"))
	assert.Equal(t, "saw", q.String("name"))
	assert.Nil(t, q.Uint("product_id"))
	assert.Equal(t, models.Page{Limit: models.DefaultLimit}, q.Page())
	assert.NoError(t, q.Err())
}

func TestQueryParamsCollectsErrors(t *testing.T) {
	q := newQueryParams(contextFor("/?category_id=x&start_date=yesterday&limit=2000"))

	q.Uint("category_id")
	q.Date("start_date")
	q.Page()
	q.RequiredDate("period1_start")

	err := q.Err()
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 4)
	assert.Contains(t, appErr.Message, "category_id")
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, apperr.KindNotFound, kindForStatus(http.StatusNotFound))
	assert.Equal(t, apperr.Kind("method_not_allowed"), kindForStatus(http.StatusMethodNotAllowed))
}

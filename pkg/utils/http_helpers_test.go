package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "erp-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFilterFromQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{})
		assert.Equal(t, DefaultLimit, f.Limit)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 0, f.Offset)
		assert.True(t, f.WithPagination)
	})

	t.Run("limit is capped and page drives offset", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"limit": {"1000"}, "page": {"3"}})
		assert.Equal(t, MaxLimit, f.Limit)
		assert.Equal(t, 2*MaxLimit, f.Offset)
	})

	t.Run("sort, filter and search", func(t *testing.T) {
		q := url.Values{
			"search":          {"steel"},
			"sort[total]":     {"DESC"},
			"sort[bogus]":     {"sideways"},
			"filter[status]":  {"CREATED", "SHIPPED"},
			"withPagination":  {"false"},
			"filter[project]": {""},
		}
		f := ParseFilterFromQuery(q)
		assert.Equal(t, "steel", f.Search)
		assert.Equal(t, map[string]string{"total": "desc"}, f.Sort)
		assert.Equal(t, "CREATED,SHIPPED", f.Filter["status"])
		assert.NotContains(t, f.Filter, "project")
		assert.False(t, f.WithPagination)
	})
}

func TestApplySortByParams(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
		want  map[string]string
	}{
		{"defaults to id desc", url.Values{}, map[string]string{"id": "desc"}},
		{"sortBy and sortDir", url.Values{"sortBy": {"totalAmount"}, "sortDir": {"ASC"}}, map[string]string{"totalAmount": "asc"}},
		{"bad direction falls back", url.Values{"sortBy": {"poNumber"}, "sortDir": {"up"}}, map[string]string{"poNumber": "desc"}},
		{"sortBy wins over sort keys", url.Values{"sortBy": {"id"}, "sort[poNumber]": {"asc"}}, map[string]string{"id": "desc"}},
		{"sort keys kept without sortBy", url.Values{"sort[poNumber]": {"asc"}}, map[string]string{"poNumber": "asc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ParseFilterFromQuery(tc.query)
			ApplySortByParams(&f, tc.query, "id", "desc")
			assert.Equal(t, tc.want, f.Sort)
		})
	}
}

func TestSuccessResponse_WithPagination(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?withPagination=true&limit=10&page=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, SuccessResponse(c, []int{1, 2}, "ok", http.StatusOK, 25))

	var body struct {
		Status bool `json:"status"`
		Body   struct {
			List       []int `json:"list"`
			Pagination struct {
				TotalCount uint64 `json:"total_count"`
				Page       int    `json:"page"`
				TotalPages int    `json:"total_pages"`
			} `json:"pagination"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Status)
	assert.Equal(t, []int{1, 2}, body.Body.List)
	assert.Equal(t, uint64(25), body.Body.Pagination.TotalCount)
	assert.Equal(t, 2, body.Body.Pagination.Page)
	assert.Equal(t, 3, body.Body.Pagination.TotalPages)
}

func TestErrorResponse(t *testing.T) {
	logger := zap.NewNop()
	e := echo.New()

	type payload struct {
		Name string `validate:"required"`
	}
	validationErr := validator.New().Struct(payload{})

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"http error", apperrors.NewHttpError(http.StatusConflict, "dup", nil, nil), http.StatusConflict},
		{"sentinel", apperrors.ErrNotFound, http.StatusNotFound},
		{"validation", validationErr, http.StatusBadRequest},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, ErrorResponse(c, tt.err, logger))
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":false`)
		})
	}
}

func TestParseUint64List(t *testing.T) {
	ids, err := ParseUint64List("1, 2,,3")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	_, err = ParseUint64List("1,x")
	assert.Error(t, err)
}

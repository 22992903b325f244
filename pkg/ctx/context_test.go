package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	appctx "github.com/shashiranjanraj/orderdesk/pkg/ctx"
	"github.com/shashiranjanraj/orderdesk/pkg/orm"
)

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			return
		}
		got = id
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/12", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(12), got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `Invalid id \"abc\"`)
}

func TestQueryHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?page=3&active=true&per_page=x", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 15, c.QueryInt("per_page", 15))
		assert.True(t, c.QueryBool("active"))
		assert.Equal(t, "1.2.3.4", c.ClientIP())
		c.Paginated([]int{1}, orm.Pagination{Page: 3, PerPage: 15, Total: 31, LastPage: 3})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"last_page":3`)
}

func TestBindJSON(t *testing.T) {
	type input struct {
		Status string `json:"status" validate:"required"`
	}

	cases := []struct {
		body string
		code int
	}{
		{`{"status":"completed"}`, http.StatusOK},
		{`{"status":""}`, http.StatusUnprocessableEntity},
		{`{"status":`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tc.body))
		appctx.Wrap(func(c *appctx.Context) {
			var in input
			if !c.BindJSON(&in) {
				return
			}
			c.Success(in)
		})(rec, req)

		assert.Equal(t, tc.code, rec.Code, tc.body)
	}
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.NotFound("Order not found.")
		assert.Equal(t, http.StatusNotFound, c.WrittenStatus())
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.JSONEq(t, `{"status":404,"message":"Order not found."}`, rec.Body.String())
}

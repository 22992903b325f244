package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupMiddlewareOrderAndRouteTable(t *testing.T) {
	r := New()
	var trail []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	api := r.Group("/api/", tag("group"))
	api.Get("/orders/{id}", "orders.show", ok, tag("route"))
	api.Delete("/orders/{id}", "orders.destroy", ok)
	api.Group("admin").Patch("orders/{id}/status", "", ok)
	r.Get("/healthz", "health", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, trail)

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, RouteInfo{Method: http.MethodPatch, Path: "/api/admin/orders/{id}/status"}, routes[0])
	assert.Equal(t, RouteInfo{Method: http.MethodDelete, Path: "/api/orders/{id}", Name: "orders.destroy"}, routes[1])
	assert.Equal(t, "/healthz", routes[3].Path)
}

func TestURL(t *testing.T) {
	r := New()
	r.Group("/api").Get("/users/{id}/orders", "users.orders", ok)

	url, err := r.URL("users.orders", map[string]string{"id": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/api/users/3/orders", url)

	_, err = r.URL("users.orders", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/httpx"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler
	mw := Middleware(DefaultConfig())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/token", ok, mw)
	e.POST("/refresh", ok, mw)
	return e
}

func TestMiddleware_DoubleSubmit(t *testing.T) {
	e := newServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	req.Header.Set("X-CSRF-Token", token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_Rejects(t *testing.T) {
	e := newServer()

	cases := map[string]func(r *http.Request){
		"no cookie": func(r *http.Request) { r.Header.Set("X-CSRF-Token", "abc") },
		"mismatch": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
			r.Header.Set("X-CSRF-Token", "abd")
		},
		"foreign origin": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
			r.Header.Set("X-CSRF-Token", "abc")
			r.Header.Set("Origin", "http://evil.example")
		},
	}
	for name, prep := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
			prep(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/domain"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewValidator()
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func TestErrorHandler_Classes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		class  string
		msg    string
	}{
		{"validation", fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation), 400, "ValidationError", "invalid input: quantity must be at least 1"},
		{"state", fmt.Errorf("%w: cart is empty", domain.ErrInvalidState), 400, "InvalidState", "invalid state: cart is empty"},
		{"auth", domain.ErrUnauthenticated, 401, "Unauthenticated", "unauthenticated"},
		{"forbidden", domain.ErrForbidden, 403, "Forbidden", "forbidden"},
		{"not found", domain.ErrNotFound, 404, "NotFound", "not found"},
		{"conflict", domain.ErrConflict, 409, "Conflict", "conflict"},
		{"internal", errors.New("pq: connection refused"), 500, "InternalError", "internal server error"},
		{"echo 404", echo.ErrNotFound, 404, "NotFound", "Not Found"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tc.err, c)

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.class, body.Error)
			assert.Equal(t, tc.msg, body.Message)
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

type addReq struct {
	UserID   uint `json:"user_id"   validate:"required"`
	Quantity int  `json:"quantity"  validate:"required,min=1"`
}

func TestBind(t *testing.T) {
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user_id":1,"quantity":0}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	var r addReq
	err := Bind(c, &r)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "quantity is required")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user_id":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	assert.ErrorIs(t, Bind(c, &r), domain.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"user_id":1,"quantity":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	require.NoError(t, Bind(c, &r))
	assert.Equal(t, 2, r.Quantity)
}

func TestCallerFrom(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := CallerFrom(c)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	c.Set(CallerKey, access.Caller{UserID: 3, Role: "user"})
	caller, err := CallerFrom(c)
	require.NoError(t, err)
	assert.Equal(t, uint(3), caller.UserID)
}

func TestParseUint(t *testing.T) {
	n, err := ParseUint("12", "id")
	require.NoError(t, err)
	assert.Equal(t, uint(12), n)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseUint(raw, "id")
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}

func TestList(t *testing.T) {
	e := newEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=2&limit=5", nil), rec)

	p, err := PageFrom(c)
	require.NoError(t, err)
	require.NoError(t, List(c, "ok", []int{1}, p.Meta(11)))

	body := decode(t, rec)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 3, body.Pagination.TotalPages)
	assert.True(t, body.Pagination.HasNextPage)
	assert.True(t, body.Pagination.HasPrevPage)
}

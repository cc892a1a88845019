package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpx"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

var secret = []byte("catalog-secret")

type env struct {
	e      *echo.Echo
	admin  models.User
	user   models.User
	events *events.Recorder
	index  *search.Memory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	v := &env{events: &events.Recorder{}, index: search.NewMemory()}
	v.user = models.User{Fullname: "Ann", Email: "ann@shop.io", PhoneNumber: "0123456789", PasswordHash: "x", Role: models.RoleUser}
	v.admin = models.User{Fullname: "Root", Email: "root@shop.io", PhoneNumber: "0000000000", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&v.user).Error)
	require.NoError(t, db.Create(&v.admin).Error)

	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler
	e.Validator = httpx.NewValidator()
	bearer := authmw.NewBearerAuth(secret)
	Register(e.Group("/api/v1"), &Deps{
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{
			Repo:   &repo.GormRepo{DB: db},
			Events: v.events,
			Index:  v.index,
		}},
		RequireAuth:  bearer.RequireAuth,
		RequireAdmin: bearer.RequireAdmin,
	})
	v.e = e
	return v
}

func (v *env) do(t *testing.T, method, path, body string, u *models.User) (*httptest.ResponseRecorder, httpx.Response) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if u != nil {
		iss := tokens.Issuer{AccessSecret: secret, AccessTTL: time.Minute}
		tok, err := iss.Access(u.ID, u.Email, u.Role, time.Now())
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)

	var resp httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func (v *env) id(t *testing.T, resp httpx.Response, key string) string {
	t.Helper()
	n, ok := resp.Data.(map[string]any)[key].(float64)
	require.True(t, ok, "missing %s", key)
	return strconv.FormatUint(uint64(n), 10)
}

func TestCategoryHandlers(t *testing.T) {
	v := newEnv(t)

	rec, _ := v.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Shirts"}`, &v.user)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = v.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Shirts"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := v.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Shirts"}`, &v.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	catID := v.id(t, resp, "id_category")

	rec, resp = v.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Shirts"}`, &v.admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", resp.Error)

	rec, resp = v.do(t, http.MethodPut, "/api/v1/categories/"+catID, `{"name":"Tops"}`, &v.admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Tops", resp.Data.(map[string]any)["name"])

	rec, resp = v.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, _ = v.do(t, http.MethodDelete, "/api/v1/categories/"+catID, "", &v.admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = v.do(t, http.MethodDelete, "/api/v1/categories/"+catID, "", &v.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandlers(t *testing.T) {
	v := newEnv(t)

	_, resp := v.do(t, http.MethodPost, "/api/v1/categories", `{"name":"Shirts"}`, &v.admin)
	catID := v.id(t, resp, "id_category")

	rec, resp := v.do(t, http.MethodPost, "/api/v1/galleries",
		`{"name":"polo","thumbnails":["https://cdn.shop.io/p1.jpg","https://cdn.shop.io/p2.jpg"]}`, &v.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	galID := v.id(t, resp, "id_gallery")

	rec, resp = v.do(t, http.MethodPost, "/api/v1/galleries", `{"name":"bad","thumbnails":["nope"]}`, &v.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", resp.Error)

	body := `{"id_category":` + catID + `,"id_gallery":` + galID + `,"title":"Polo","price":3000,"discount":10,"size":"M","description":"Cotton.\nSlim fit."}`
	rec, resp = v.do(t, http.MethodPost, "/api/v1/products", body, &v.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	prodID := v.id(t, resp, "id_product")
	assert.True(t, v.index.Has(mustUint(t, prodID)))

	rec, resp = v.do(t, http.MethodPost, "/api/v1/products",
		`{"id_category":`+catID+`,"id_gallery":`+galID+`,"title":"Bad","price":10,"discount":100,"size":"M","description":"x"}`, &v.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", resp.Error)

	rec, resp = v.do(t, http.MethodGet, "/api/v1/products/"+prodID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2700), data["effective_price"])
	assert.Equal(t, "Shirts", data["category_name"])

	rec, resp = v.do(t, http.MethodGet, "/api/v1/products?category_id="+catID+"&limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(1), resp.Pagination.TotalItems)

	rec, _ = v.do(t, http.MethodGet, "/api/v1/products?category_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = v.do(t, http.MethodGet, "/api/v1/products/search/polo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, resp = v.do(t, http.MethodGet, "/api/v1/products/category-name/shirts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, resp = v.do(t, http.MethodGet, "/api/v1/products/fulltext?q=polo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, _ = v.do(t, http.MethodDelete, "/api/v1/galleries/"+galID, "", &v.admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = v.do(t, http.MethodDelete, "/api/v1/products/"+prodID, "", &v.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, v.index.Has(mustUint(t, prodID)))

	rec, _ = v.do(t, http.MethodGet, "/api/v1/products/"+prodID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{events.ProductCreated, events.ProductDeleted}, v.events.Types())
}

func mustUint(t *testing.T, s string) uint {
	t.Helper()
	n, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err)
	return uint(n)
}

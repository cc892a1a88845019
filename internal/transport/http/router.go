package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	authhttp "github.com/Skotchmaster/storefront/internal/auth/httpserver"
	cataloghttp "github.com/Skotchmaster/storefront/internal/catalog/httpserver"
	"github.com/Skotchmaster/storefront/internal/httpx"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	orderhttp "github.com/Skotchmaster/storefront/internal/order/httpserver"
)

const bodyLimit = "1M"

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger

	AuthHandler    *authhttp.AuthHTTP
	CatalogHandler *cataloghttp.CatalogHTTP
	OrderHandler   *orderhttp.OrderHTTP

	Bearer *authmw.BearerAuth
	// CSRF is nil when the double-submit check is disabled.
	CSRF *csrf.Config
}

// New builds the echo instance with the shared middleware chain and every
// route mounted under /api/v1.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpx.ErrorHandler
	e.Validator = httpx.NewValidator()

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		loggingmw.RequestLogger(d.Logger),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
			ExposeHeaders:    []string{echo.HeaderXRequestID, "X-CSRF-Token"},
			AllowCredentials: true,
		}),
		middleware.BodyLimit(bodyLimit),
	)

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	v1 := e.Group("/api/v1")

	v1.GET("/health/live", func(c echo.Context) error {
		return httpx.OK(c, "alive", nil)
	})
	v1.GET("/health/ready", func(c echo.Context) error {
		return ready(c, d.DB)
	})

	var csrfMw echo.MiddlewareFunc
	if d.CSRF != nil {
		csrfMw = csrf.Middleware(*d.CSRF)
	}

	authhttp.Register(v1, &authhttp.Deps{
		AuthHandler:  d.AuthHandler,
		RequireAuth:  d.Bearer.RequireAuth,
		RequireAdmin: d.Bearer.RequireAdmin,
		CSRF:         csrfMw,
	})
	cataloghttp.Register(v1, &cataloghttp.Deps{
		CatalogHandler: d.CatalogHandler,
		RequireAuth:    d.Bearer.RequireAuth,
		RequireAdmin:   d.Bearer.RequireAdmin,
	})
	orderhttp.Register(v1, &orderhttp.Deps{
		OrderHandler: d.OrderHandler,
		RequireAuth:  d.Bearer.RequireAuth,
		RequireAdmin: d.Bearer.RequireAdmin,
	})
}

func ready(c echo.Context, db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
	}
	return httpx.OK(c, "ready", nil)
}

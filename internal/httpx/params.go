package httpx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

const CallerKey = "caller"

// CallerFrom returns the identity stored by the bearer middleware.
func CallerFrom(c echo.Context) (access.Caller, error) {
	caller, ok := c.Get(CallerKey).(access.Caller)
	if !ok {
		return access.Caller{}, fmt.Errorf("%w: missing access token", domain.ErrUnauthenticated)
	}
	return caller, nil
}

func ParseUintParam(c echo.Context, name string) (uint, error) {
	return ParseUint(c.Param(name), name)
}

func ParseUint(raw, name string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrValidation, name)
	}
	return uint(n), nil
}

func PageFrom(c echo.Context) (pagination.Page, error) {
	return pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
}

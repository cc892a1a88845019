package httpx

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/pagination"
)

// Response is the envelope every endpoint renders.
type Response struct {
	Message    string           `json:"message"`
	Data       any              `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

func OK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Response{Message: message, Data: data})
}

func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, Response{Message: message, Data: data})
}

func List(c echo.Context, message string, data any, meta pagination.Meta) error {
	return c.JSON(http.StatusOK, Response{Message: message, Data: data, Pagination: &meta})
}

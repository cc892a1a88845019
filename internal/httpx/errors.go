package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/logging"
)

const internalMessage = "internal server error"

// ErrorHandler renders every error returned by a handler or middleware in
// the response envelope. It is installed as echo's HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := render(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("internal_error", "error", fmt.Sprintf("%+v", err))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

func render(err error) (int, Response) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			if class, ok := domain.Classify(he.Internal); ok {
				return class.Status, Response{Message: he.Internal.Error(), Error: class.Name}
			}
		}
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		if he.Code >= http.StatusInternalServerError {
			msg = internalMessage
		}
		return he.Code, Response{Message: msg, Error: className(he.Code)}
	}

	class, ok := domain.Classify(err)
	if !ok {
		return class.Status, Response{Message: internalMessage, Error: class.Name}
	}
	return class.Status, Response{Message: err.Error(), Error: class.Name}
}

func className(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusUnauthorized:
		return "Unauthenticated"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "Conflict"
	}
	if status >= http.StatusInternalServerError {
		return domain.InternalClass.Name
	}
	return http.StatusText(status)
}

// Fail logs a handler error with its resolved status and hands it back for
// ErrorHandler to render.
func Fail(l *slog.Logger, event string, err error) error {
	status, body := render(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", body.Error, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", body.Message, "error", err)
	}
	return err
}

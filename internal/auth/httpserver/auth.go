package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth/service"
	"github.com/Skotchmaster/storefront/internal/auth/transport"
	"github.com/Skotchmaster/storefront/internal/httpx"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func refreshCookie(c echo.Context) string {
	cookie, err := c.Cookie(tokens.RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "register_error", err)
	}
	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpx.Fail(l, "register_error", err)
	}
	return httpx.Created(c, "user registered", user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "login_error", err)
	}
	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return httpx.Fail(l, "login_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, res.RefreshToken, "/", res.RefreshExp, h.CookieSecure))
	return httpx.OK(c, "login successful", transport.LoginView{User: res.User, AccessToken: res.AccessToken})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	tok, err := h.Svc.Refresh(ctx, refreshCookie(c))
	if err != nil {
		return httpx.Fail(l, "refresh_error", err)
	}
	return httpx.OK(c, "token refreshed", tok)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	err := h.Svc.Logout(ctx, refreshCookie(c))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/", h.CookieSecure))
	if err != nil {
		return httpx.Fail(l, "logout_error", err)
	}
	return httpx.OK(c, "logged out", nil)
}

// CSRFToken hands the current double-submit token to clients that cannot
// read the cookie themselves.
func (h *AuthHTTP) CSRFToken(c echo.Context) error {
	token, _ := c.Get(csrf.ContextKey).(string)
	return c.JSON(http.StatusOK, httpx.Response{Message: "csrf token", Data: map[string]string{"csrfToken": token}})
}

func (h *AuthHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "get_user_error", err)
	}
	id, err := httpx.ParseUintParam(c, "id")
	if err != nil {
		return httpx.Fail(l, "get_user_error", err)
	}
	user, err := h.Svc.GetUser(ctx, caller, id)
	if err != nil {
		return httpx.Fail(l, "get_user_error", err)
	}
	return httpx.OK(c, "user", user)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_users_error", err)
	}
	page, err := httpx.PageFrom(c)
	if err != nil {
		return httpx.Fail(l, "list_users_error", err)
	}
	users, meta, err := h.Svc.ListUsers(ctx, caller, page)
	if err != nil {
		return httpx.Fail(l, "list_users_error", err)
	}
	return httpx.List(c, "users", users, meta)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "update_profile_error", err)
	}
	var req transport.UpdateProfileRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "update_profile_error", err)
	}
	user, err := h.Svc.UpdateProfile(ctx, caller, req)
	if err != nil {
		return httpx.Fail(l, "update_profile_error", err)
	}
	return httpx.OK(c, "profile updated", user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_password")

	caller, err := httpx.CallerFrom(c)
	if err != nil {
		return httpx.Fail(l, "change_password_error", err)
	}
	var req transport.ChangePasswordRequest
	if err := httpx.Bind(c, &req); err != nil {
		return httpx.Fail(l, "change_password_error", err)
	}
	if err := h.Svc.ChangePassword(ctx, caller, req); err != nil {
		return httpx.Fail(l, "change_password_error", err)
	}
	l.Info("password changed", "user_id", caller.UserID)
	return httpx.OK(c, "password changed", nil)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/auth/repo"
	"github.com/Skotchmaster/storefront/internal/auth/transport"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pagination"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const MinPasswordLen = 6

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10,15}$`)

	errBadCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	errBadRefresh     = fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthenticated)
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens tokens.Issuer
	Events events.Publisher
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("%w: email is malformed", domain.ErrValidation)
	}
	return email, nil
}

func checkPhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return "", fmt.Errorf("%w: phone_number must be 10 to 15 digits", domain.ErrValidation)
	}
	return phone, nil
}

func checkPassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLen)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (transport.UserView, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	fullname := strings.TrimSpace(req.Fullname)
	if fullname == "" {
		return transport.UserView{}, fmt.Errorf("%w: fullname is required", domain.ErrValidation)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return transport.UserView{}, err
	}
	phone, err := checkPhone(req.PhoneNumber)
	if err != nil {
		return transport.UserView{}, err
	}
	if err := checkPassword(req.Password); err != nil {
		return transport.UserView{}, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return transport.UserView{}, err
	}
	user := &models.User{
		Fullname:     fullname,
		Email:        email,
		PhoneNumber:  phone,
		Address:      strings.TrimSpace(req.Address),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return transport.UserView{}, err
	}
	l.Info("user registered", "user_id", user.ID)

	if s.Events != nil {
		ev := events.UserEvent{Type: events.UserRegistered, UserID: user.ID, Email: user.Email, At: s.now()}
		if err := s.Events.Publish(ctx, events.TopicUsers, strconv.FormatUint(uint64(user.ID), 10), ev); err != nil {
			l.Warn("publish_error", "topic", events.TopicUsers, "event", ev.Type, "error", err)
		}
	}
	return transport.NewUserView(user), nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, errBadCredentials
	}

	now := s.now()
	issued, err := s.Tokens.Access(user.ID, user.Email, user.Role, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.Refresh(user.ID, user.Email, user.Role, now)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefresh(ctx, user.ID, refresh.Token, refresh.JTI, refresh.ExpiresAt); err != nil {
		return nil, err
	}
	l.Info("login successful", "user_id", user.ID)

	return &transport.LoginResult{
		User:         transport.NewUserView(user),
		AccessToken:  issued.Token,
		RefreshToken: refresh.Token,
		RefreshExp:   refresh.ExpiresAt,
	}, nil
}

// Refresh mints a new access token from a stored, live refresh token. The
// claims carried by the refresh token are reused as is.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (transport.TokenView, error) {
	if refreshToken == "" {
		return transport.TokenView{}, fmt.Errorf("%w: refresh token is missing", domain.ErrUnauthenticated)
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.Tokens.RefreshSecret)
	if err != nil {
		return transport.TokenView{}, errBadRefresh
	}

	row, err := s.Repo.FindRefreshByJTI(ctx, claims.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return transport.TokenView{}, errBadRefresh
	}
	if err != nil {
		return transport.TokenView{}, err
	}
	now := s.now()
	if row.Revoked || row.ExpiresAt < now.Unix() || row.Token != tokens.Sha256Hex(refreshToken) {
		return transport.TokenView{}, errBadRefresh
	}

	issued, err := s.Tokens.Access(claims.UserID, claims.Email, claims.Role, now)
	if err != nil {
		return transport.TokenView{}, err
	}
	return transport.TokenView{AccessToken: issued.Token}, nil
}

// Logout revokes the refresh token if one was presented.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	n, err := s.Repo.Revoke(ctx, refreshToken)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("refresh token revoked", "rows", n)
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, caller access.Caller, id uint) (transport.UserView, error) {
	if err := access.OwnerOrAdmin(caller, id); err != nil {
		return transport.UserView{}, err
	}
	user, err := s.Repo.FindUser(ctx, id)
	if err != nil {
		return transport.UserView{}, err
	}
	return transport.NewUserView(user), nil
}

func (s *AuthService) ListUsers(ctx context.Context, caller access.Caller, p pagination.Page) ([]transport.UserView, pagination.Meta, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, pagination.Meta{}, err
	}
	users, total, err := s.Repo.ListUsers(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewUserViews(users), p.Meta(total), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller access.Caller, req transport.UpdateProfileRequest) (transport.UserView, error) {
	if caller.UserID == 0 {
		return transport.UserView{}, fmt.Errorf("%w: missing caller", domain.ErrUnauthenticated)
	}
	if req.Fullname == nil && req.Email == nil && req.PhoneNumber == nil && req.Address == nil {
		return transport.UserView{}, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	user, err := s.Repo.UpdateUser(ctx, caller.UserID, func(u *models.User) error {
		if req.Fullname != nil {
			name := strings.TrimSpace(*req.Fullname)
			if name == "" {
				return fmt.Errorf("%w: fullname is required", domain.ErrValidation)
			}
			u.Fullname = name
		}
		if req.Email != nil {
			email, err := normalizeEmail(*req.Email)
			if err != nil {
				return err
			}
			u.Email = email
		}
		if req.PhoneNumber != nil {
			phone, err := checkPhone(*req.PhoneNumber)
			if err != nil {
				return err
			}
			u.PhoneNumber = phone
		}
		if req.Address != nil {
			u.Address = strings.TrimSpace(*req.Address)
		}
		return nil
	})
	if err != nil {
		return transport.UserView{}, err
	}
	return transport.NewUserView(user), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, caller access.Caller, req transport.ChangePasswordRequest) error {
	if caller.UserID == 0 {
		return fmt.Errorf("%w: missing caller", domain.ErrUnauthenticated)
	}
	if err := checkPassword(req.NewPassword); err != nil {
		return err
	}
	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.Repo.UpdateUser(ctx, caller.UserID, func(u *models.User) error {
		if !hash.CheckPassword(u.PasswordHash, req.CurrentPassword) {
			return fmt.Errorf("%w: current password is incorrect", domain.ErrValidation)
		}
		u.PasswordHash = pwHash
		return nil
	})
	return err
}

// BootstrapAdmin makes sure an admin account exists for email. An existing
// user with that email is promoted and keeps its password.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.bootstrap_admin")

	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := checkPassword(password); err != nil {
		return err
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Fullname:     "Administrator",
		Email:        email,
		PhoneNumber:  "0000000000",
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}
	created, err := s.Repo.EnsureAdmin(ctx, admin)
	if err != nil {
		return err
	}
	l.Info("admin ensured", "user_id", admin.ID, "created", created)
	return nil
}

// PurgeExpiredTokens drops refresh rows that can no longer be used.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.Repo.PurgeExpired(ctx, s.now())
}

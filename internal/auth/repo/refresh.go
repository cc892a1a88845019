package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

// SaveRefresh stores the sha256 of a signed refresh token keyed by its jti.
func (r *GormRepo) SaveRefresh(ctx context.Context, userID uint, token, jti string, exp time.Time) error {
	row := models.RefreshToken{
		Token:     tokens.Sha256Hex(token),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: exp.Unix(),
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return write(err, "refresh token %s", jti)
	}
	return nil
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&row).Error; err != nil {
		return nil, miss(err, "refresh token %s", jti)
	}
	return &row, nil
}

// Revoke marks the row holding this token as revoked. Unknown tokens are a
// no-op.
func (r *GormRepo) Revoke(ctx context.Context, token string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", tokens.Sha256Hex(token), false).
		Update("revoked", true)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "revoke refresh token")
	}
	return res.RowsAffected, nil
}

// PurgeExpired deletes refresh rows that expired before now.
func (r *GormRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at < ?", now.Unix()).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "purge refresh tokens")
	}
	return res.RowsAffected, nil
}

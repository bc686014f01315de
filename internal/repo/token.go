package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) RefreshTokenByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	return first[models.RefreshToken](r.DB.WithContext(ctx).Where("jti = ?", jti))
}

// RotateRefreshToken revokes oldJTI and stores next. A token can be rotated once.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND token = ? AND revoked = ? AND expires_at > ?", oldJTI, oldHash, false, time.Now().Unix()).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeUserTokens(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func (r *GormRepo) SaveResetToken(ctx context.Context, t *models.PasswordResetToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// ConsumeResetToken marks an unused, unexpired token as used. It succeeds once per token.
func (r *GormRepo) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	res := r.DB.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("token_hash = ? AND used = ? AND expires_at > ?", tokenHash, false, now.Unix()).
		Update("used", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenRevoked
	}
	return first[models.PasswordResetToken](r.DB.WithContext(ctx).Where("token_hash = ?", tokenHash))
}

package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CreateUser stores the user and, when given, their delivery data in one transaction.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User, delivery *models.DeliveryInfo) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
			}
			return err
		}
		if delivery != nil {
			delivery.UserID = u.ID
			if err := tx.Create(delivery).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](r.DB.WithContext(ctx).Where("email = ?", email))
}

// UserByID implements checkout.UserDirectory.
func (r *GormRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](r.DB.WithContext(ctx).Where("id = ?", id))
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CountOrders(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// DeleteUser removes the account with its cart, favorites, delivery data and
// tokens. Users that have placed orders are kept.
func (r *GormRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return ErrHasOrders
		}

		for _, m := range []any{&models.CartItem{}, &models.Favorite{}, &models.DeliveryInfo{}, &models.RefreshToken{}, &models.PasswordResetToken{}} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

// DeliveryInfo implements checkout.DeliveryLookup.
func (r *GormRepo) DeliveryInfo(ctx context.Context, userID uuid.UUID) (*models.DeliveryInfo, error) {
	return first[models.DeliveryInfo](r.DB.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *GormRepo) UpsertDeliveryInfo(ctx context.Context, d *models.DeliveryInfo) error {
	res := r.DB.WithContext(ctx).Model(&models.DeliveryInfo{}).
		Where("user_id = ?", d.UserID).
		Updates(map[string]any{
			"address":     d.Address,
			"country":     d.Country,
			"city":        d.City,
			"postal_code": d.PostalCode,
			"phone":       d.Phone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return r.DB.WithContext(ctx).Where("user_id = ?", d.UserID).First(d).Error
	}
	return r.DB.WithContext(ctx).Create(d).Error
}

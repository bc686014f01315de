package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name_sr") })
}

// FindOrderByKey implements checkout.OrderStore.
func (r *GormRepo) FindOrderByKey(ctx context.Context, userID uuid.UUID, key string) (*models.Order, error) {
	return first[models.Order](withItems(r.DB.WithContext(ctx)).Where("user_id = ? AND idempotency_key = ?", userID, key))
}

// CreateOrder implements checkout.OrderStore; items are inserted with the order.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("order key %q: %w", o.IdempotencyKey, checkout.ErrDuplicateOrder)
		}
		return err
	}
	return nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	if err := withItems(q).Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return first[models.Order](withItems(r.DB.WithContext(ctx)).Where("id = ?", id))
}

// TransitionOrder moves an order from one status to another and reports
// whether the order was in the expected status.
func (r *GormRepo) TransitionOrder(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

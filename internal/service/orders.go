package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Notifier checkout.Notifier
}

func (s *OrderService) List(ctx context.Context, userID uuid.UUID, page, size int) (*Page[models.Order], error) {
	offset, limit := util.Calculate(page, size)
	orders, total, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &Page[models.Order]{Items: orders, Total: total, Page: offset/limit + 1, Size: limit}, nil
}

// Get returns an order owned by userID. Admins can read any order.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID, admin bool) (*models.Order, error) {
	o, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || (!admin && o.UserID != userID) {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	return o, nil
}

type PaymentResult struct {
	Order *models.Order
	// NotificationErr is set when the confirmation mail failed; the payment stands.
	NotificationErr error
}

// ConfirmPayment completes a pending order and sends the payment confirmation.
func (s *OrderService) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, lang string) (*PaymentResult, error) {
	o, err := s.Get(ctx, userID, orderID, false)
	if err != nil {
		return nil, err
	}
	ok, err := s.Repo.TransitionOrder(ctx, o.ID, models.OrderPending, models.OrderCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("order is %s: %w", o.Status, ErrConflict)
	}
	o.Status = models.OrderCompleted

	return &PaymentResult{Order: o, NotificationErr: s.notify(ctx, o, notify.KindPaymentConfirmed, lang)}, nil
}

func (s *OrderService) notify(ctx context.Context, o *models.Order, kind notify.Kind, lang string) error {
	if s.Notifier == nil {
		return nil
	}
	u, err := s.Repo.UserByID(ctx, o.UserID)
	if err != nil || u == nil {
		return fmt.Errorf("%w: load recipient: %v", notify.ErrNotification, err)
	}
	if err := s.Notifier.NotifyOrder(ctx, checkout.OrderPayload(u, o, kind, NormalizeLang(lang))); err != nil {
		logging.FromContext(ctx).Warn("payment_notification_failed", "order_id", o.ID.String(), "error", err)
		return err
	}
	return nil
}

// UpdateStatus is the admin transition. Only pending orders move; cancelling
// puts the items back into stock in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if status != models.OrderCompleted && status != models.OrderCancelled {
		return nil, fmt.Errorf("status must be %s or %s: %w", models.OrderCompleted, models.OrderCancelled, ErrValidation)
	}

	var out *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.OrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("order: %w", ErrNotFound)
		}

		ok, err := tx.TransitionOrder(ctx, o.ID, models.OrderPending, status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("order is %s: %w", o.Status, ErrConflict)
		}

		if status == models.OrderCancelled {
			inv := checkout.InventoryAdjuster{Stock: tx}
			for _, it := range o.Items {
				if err := inv.Restock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}
		o.Status = status
		out = o
		return nil
	})
	if err != nil {
		if errors.Is(err, checkout.ErrInventoryUpdate) {
			logging.FromContext(ctx).Error("restock_failed", "order_id", orderID.String(), "error", err)
		}
		return nil, err
	}
	return out, nil
}

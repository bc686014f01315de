package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mykafka"
)

const eventTimeout = 2 * time.Second

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, data any) error
}

type CartService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

type CartLineView struct {
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  uint      `json:"quantity"`
	LineTotal int64     `json:"line_total"`
	Available bool      `json:"available"`
}

type CartView struct {
	Items []CartLineView `json:"items"`
	Total int64          `json:"total"`
	Count int64          `json:"count"`
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID, lang string) (*CartView, error) {
	lines, err := s.Repo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLineView, 0, len(lines))}
	for _, l := range lines {
		v := CartLineView{ItemID: l.Item.ID, ProductID: l.Item.ProductID, Quantity: l.Item.Quantity}
		if l.Product != nil {
			v.Name = l.Product.Name(lang)
			v.Image = l.Product.FirstImage()
			v.UnitPrice = l.Product.Price
			v.LineTotal = l.Product.Price * int64(l.Item.Quantity)
			v.Available = l.Product.Stock >= int(l.Item.Quantity)
		}
		view.Items = append(view.Items, v)
		view.Total += v.LineTotal
		view.Count += int64(l.Item.Quantity)
	}
	return view, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty uint) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id must be set: %w", ErrValidation)
	}
	if qty == 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	p, err := s.Repo.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product: %w", ErrNotFound)
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	s.publish(ctx, userID, "cart_item_added", map[string]any{"product_id": productID, "quantity": item.Quantity})
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, qty uint) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least one: %w", ErrValidation)
	}
	item, err := s.Repo.UpdateCartItemQuantity(ctx, userID, itemID, qty)
	if err != nil {
		return nil, fromRepo(err, "cart item")
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return fromRepo(s.Repo.DeleteCartItem(ctx, userID, itemID), "cart item")
}

func (s *CartService) DeleteOneFromCart(ctx context.Context, userID, productID uuid.UUID) (bool, *models.CartItem, error) {
	if productID == uuid.Nil {
		return false, nil, fmt.Errorf("product id must be set: %w", ErrValidation)
	}
	deleted, item, err := s.Repo.DeleteOneFromCart(ctx, userID, productID)
	if err != nil {
		return false, nil, fromRepo(err, "cart item")
	}
	return deleted, item, nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id must be set: %w", ErrValidation)
	}
	n, err := s.Repo.DeleteAllFromCart(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.publish(ctx, userID, "cart_cleared", map[string]any{"items": n})
	}
	return nil
}

func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("user id must be set: %w", ErrValidation)
	}
	return s.Repo.CartCount(ctx, userID)
}

func (s *CartService) publish(ctx context.Context, userID uuid.UUID, eventType string, data map[string]any) {
	if s.Events == nil {
		return
	}
	data["user_id"] = userID
	pctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()
	if err := s.Events.PublishEvent(pctx, mykafka.TopicCartEvents, userID.String(), eventType, data); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", mykafka.TopicCartEvents, "type", eventType, "error", err)
	}
}

package checkout

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

// BuildOrder snapshots cart lines into a pending order. Prices come from the
// product rows, never from the caller.
func BuildOrder(userID uuid.UUID, key string, lines []models.CartLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		IdempotencyKey: key,
		Status:         models.OrderPending,
		Items:          make([]models.OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.Product == nil {
			return nil, fmt.Errorf("product %s is no longer available: %w", line.Item.ProductID, ErrValidation)
		}
		if line.Item.Quantity == 0 {
			return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
		}
		if line.Product.Price < 0 {
			return nil, fmt.Errorf("product %s has a negative price: %w", line.Product.ID, ErrValidation)
		}

		lineTotal := line.Product.Price * int64(line.Item.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.Product.ID,
			Quantity:  line.Item.Quantity,
			UnitPrice: line.Product.Price,
			LineTotal: lineTotal,
			Image:     line.Product.FirstImage(),
			NameSR:    line.Product.NameSR,
			NameEN:    line.Product.NameEN,
		})
		order.Total += lineTotal
	}
	return order, nil
}

// DeriveKey fingerprints a cart for callers that send no idempotency key.
// Cart item ids change whenever the cart is refilled, so the same products
// bought again later produce a different key.
func DeriveKey(userID uuid.UUID, lines []models.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s:%s:%d", l.Item.ID, l.Item.ProductID, l.Item.Quantity))
	}
	sort.Strings(parts)

	h := sha256.New()
	h.Write([]byte(userID.String()))
	for _, p := range parts {
		h.Write([]byte{'|'})
		h.Write([]byte(p))
	}
	return "cart-" + hex.EncodeToString(h.Sum(nil))
}

package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InventoryAdjuster is the only writer of product stock.
type InventoryAdjuster struct {
	Stock StockStore
}

func (a InventoryAdjuster) Decrement(ctx context.Context, productID uuid.UUID, qty uint) error {
	if qty == 0 {
		return fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}
	ok, err := a.Stock.DecrementStock(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock of %s: %w: %w", productID, ErrInventoryUpdate, err)
	}
	if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
	}
	return nil
}

func (a InventoryAdjuster) Restock(ctx context.Context, productID uuid.UUID, qty uint) error {
	if qty == 0 {
		return nil
	}
	if err := a.Stock.IncrementStock(ctx, productID, qty); err != nil {
		return fmt.Errorf("restock %s: %w: %w", productID, ErrInventoryUpdate, err)
	}
	return nil
}

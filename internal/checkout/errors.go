package checkout

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/notify"
)

var (
	ErrValidation          = errors.New("validation")
	ErrMissingDeliveryInfo = fmt.Errorf("missing delivery info: %w", ErrValidation)
	ErrEmptyCart           = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOrderPersistence    = errors.New("order persistence")
	ErrInventoryUpdate     = errors.New("inventory update")
	ErrCheckoutInProgress  = errors.New("checkout already in progress")

	// ErrNotification is never returned from Checkout, only carried in Result.NotificationErr.
	ErrNotification = notify.ErrNotification

	// ErrDuplicateOrder is reported by an OrderStore when the (user, idempotency key) pair already exists.
	ErrDuplicateOrder = errors.New("duplicate order")
)

// Code maps a checkout error to the short machine-readable code used in API responses.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrMissingDeliveryInfo):
		return "missing_delivery_info"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrCheckoutInProgress):
		return "checkout_in_progress"
	case errors.Is(err, ErrInventoryUpdate):
		return "inventory_update"
	case errors.Is(err, ErrOrderPersistence):
		return "order_persistence"
	case errors.Is(err, ErrNotification):
		return "notification"
	default:
		return "internal"
	}
}

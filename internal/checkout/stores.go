package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
)

type CartStore interface {
	CartLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	DeleteCartItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type OrderStore interface {
	// FindOrderByKey returns nil, nil when no such order exists.
	FindOrderByKey(ctx context.Context, userID uuid.UUID, key string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
}

type StockStore interface {
	// DecrementStock reports false when stock is lower than qty; nothing is changed then.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty uint) (bool, error)
	IncrementStock(ctx context.Context, productID uuid.UUID, qty uint) error
}

// Stores are bound to a single transaction.
type Stores struct {
	Orders OrderStore
	Stock  StockStore
	Cart   CartStore
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type UserDirectory interface {
	// UserByID returns nil, nil for unknown users.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type DeliveryLookup interface {
	// DeliveryInfo returns nil, nil when the user has not filled it in.
	DeliveryInfo(ctx context.Context, userID uuid.UUID) (*models.DeliveryInfo, error)
}

type Notifier interface {
	NotifyOrder(ctx context.Context, p notify.Payload) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, data any) error
}

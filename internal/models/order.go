package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"                                 json:"id"`
	UserID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_order_user_key"   json:"user_id"`
	IdempotencyKey string      `gorm:"size:128;not null;uniqueIndex:idx_order_user_key"    json:"-"`
	Total          int64       `gorm:"not null"                                             json:"total"`
	Status         string      `gorm:"not null;default:pending;index"                       json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"     json:"items"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is a snapshot of a product at purchase time and is never updated.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"            json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"                  json:"product_id"`
	Quantity  uint      `gorm:"not null;check:quantity > 0"         json:"quantity"`
	UnitPrice int64     `gorm:"not null"                            json:"unit_price"`
	LineTotal int64     `gorm:"not null"                            json:"line_total"`
	Image     string    `json:"image"`
	NameSR    string    `json:"name_sr"`
	NameEN    string    `json:"name_en"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i *OrderItem) Name(lang string) string {
	if lang == "en" && i.NameEN != "" {
		return i.NameEN
	}
	return i.NameSR
}

// All is the migration set in dependency order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&PasswordResetToken{},
		&Product{},
		&CartItem{},
		&Favorite{},
		&DeliveryInfo{},
		&Order{},
		&OrderItem{},
	}
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                             json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product"  json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product"  json:"product_id"`
	Quantity  uint      `gorm:"not null;default:1;check:quantity > 0"            json:"quantity"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// CartLine is a cart item joined with the product row it points at.
// Product is nil when the product has been deleted since it was added.
type CartLine struct {
	Item    CartItem
	Product *Product
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_fav_user_product" json:"product_id"`
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type DeliveryInfo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Address    string    `gorm:"not null"                      json:"address"`
	Country    string    `json:"country,omitempty"`
	City       string    `gorm:"not null"                      json:"city"`
	PostalCode string    `gorm:"not null"                      json:"postal_code"`
	Phone      string    `gorm:"not null"                      json:"phone"`
}

func (d *DeliveryInfo) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

func (DeliveryInfo) TableName() string { return "delivery_info" }

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product prices are integer minor units (cents).
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"        json:"id"`
	Price         int64          `gorm:"not null;check:price >= 0"   json:"price"`
	Stock         int            `gorm:"not null;check:stock >= 0"   json:"stock"`
	NameSR        string         `gorm:"not null"                    json:"name_sr"`
	NameEN        string         `gorm:"not null"                    json:"name_en"`
	DescriptionSR string         `json:"description_sr"`
	DescriptionEN string         `json:"description_en"`
	FeaturesSR    string         `json:"features_sr"`
	FeaturesEN    string         `json:"features_en"`
	CategorySR    string         `gorm:"index"                       json:"category_sr"`
	CategoryEN    string         `gorm:"index"                       json:"category_en"`
	Images        ImageList      `json:"images"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Name returns the localized name, falling back to Serbian.
func (p *Product) Name(lang string) string {
	if lang == "en" && p.NameEN != "" {
		return p.NameEN
	}
	return p.NameSR
}

func (p *Product) Description(lang string) string {
	if lang == "en" && p.DescriptionEN != "" {
		return p.DescriptionEN
	}
	return p.DescriptionSR
}

func (p *Product) Category(lang string) string {
	if lang == "en" && p.CategoryEN != "" {
		return p.CategoryEN
	}
	return p.CategorySR
}

func (p *Product) Features(lang string) string {
	if lang == "en" && p.FeaturesEN != "" {
		return p.FeaturesEN
	}
	return p.FeaturesSR
}

func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

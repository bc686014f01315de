package service

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

const (
	LangSR = "sr"
	LangEN = "en"
)

func NormalizeLang(l string) string {
	if l == LangEN {
		return LangEN
	}
	return LangSR
}

type ProductView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Features    string    `json:"features"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
}

func NewProductView(p *models.Product, lang string) ProductView {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProductView{
		ID:          p.ID,
		Name:        p.Name(lang),
		Description: p.Description(lang),
		Features:    p.Features(lang),
		Category:    p.Category(lang),
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      images,
	}
}

func productViews(ps []models.Product, lang string) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for i := range ps {
		out = append(out, NewProductView(&ps[i], lang))
	}
	return out
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

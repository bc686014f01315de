package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/util"
)

type ProductIndex interface {
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type CatalogService struct {
	Repo  *repo.GormRepo
	Index ProductIndex
}

type ListQuery struct {
	Page     int
	Size     int
	Lang     string
	Category string
}

func (s *CatalogService) List(ctx context.Context, q ListQuery) (*Page[ProductView], error) {
	lang := NormalizeLang(q.Lang)
	offset, limit := util.Calculate(q.Page, q.Size)

	items, total, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Category: q.Category, Lang: lang, Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &Page[ProductView]{Items: productViews(items, lang), Total: total, Page: offset/limit + 1, Size: limit}, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID, lang string) (*ProductView, error) {
	p, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product: %w", ErrNotFound)
	}
	v := NewProductView(p, NormalizeLang(lang))
	return &v, nil
}

// Search prefers the search index and falls back to SQL when it is absent or failing.
func (s *CatalogService) Search(ctx context.Context, query string, q ListQuery) (*Page[ProductView], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", ErrValidation)
	}
	lang := NormalizeLang(q.Lang)
	offset, limit := util.Calculate(q.Page, q.Size)
	page := offset/limit + 1

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &Page[ProductView]{Items: productViews(items, lang), Total: total, Page: page, Size: limit}, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "query", query, "error", err)
	}

	items, total, err := s.Repo.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page[ProductView]{Items: productViews(items, lang), Total: total, Page: page, Size: limit}, nil
}

type ProductInput struct {
	Price         *int64   `json:"price"`
	Stock         *int     `json:"stock"`
	NameSR        *string  `json:"name_sr"`
	NameEN        *string  `json:"name_en"`
	DescriptionSR *string  `json:"description_sr"`
	DescriptionEN *string  `json:"description_en"`
	FeaturesSR    *string  `json:"features_sr"`
	FeaturesEN    *string  `json:"features_en"`
	CategorySR    *string  `json:"category_sr"`
	CategoryEN    *string  `json:"category_en"`
	Images        []string `json:"images"`
}

func (in ProductInput) validate() error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}
	if in.NameSR != nil && strings.TrimSpace(*in.NameSR) == "" {
		return fmt.Errorf("name_sr must not be empty: %w", ErrValidation)
	}
	return nil
}

func (in ProductInput) updates() map[string]any {
	u := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			u[col] = strings.TrimSpace(*v)
		}
	}
	if in.Price != nil {
		u["price"] = *in.Price
	}
	if in.Stock != nil {
		u["stock"] = *in.Stock
	}
	set("name_sr", in.NameSR)
	set("name_en", in.NameEN)
	set("description_sr", in.DescriptionSR)
	set("description_en", in.DescriptionEN)
	set("features_sr", in.FeaturesSR)
	set("features_en", in.FeaturesEN)
	set("category_sr", in.CategorySR)
	set("category_en", in.CategoryEN)
	if in.Images != nil {
		u["images"] = models.ImageList(in.Images)
	}
	return u
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.NameSR == nil || in.Price == nil {
		return nil, fmt.Errorf("name_sr and price are required: %w", ErrValidation)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &models.Product{
		Price:         *in.Price,
		Stock:         deref(in.Stock),
		NameSR:        strings.TrimSpace(*in.NameSR),
		NameEN:        strings.TrimSpace(deref(in.NameEN)),
		DescriptionSR: deref(in.DescriptionSR),
		DescriptionEN: deref(in.DescriptionEN),
		FeaturesSR:    deref(in.FeaturesSR),
		FeaturesEN:    deref(in.FeaturesEN),
		CategorySR:    deref(in.CategorySR),
		CategoryEN:    deref(in.CategoryEN),
		Images:        models.ImageList(in.Images),
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.syncIndex(ctx, p)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Repo.UpdateProduct(ctx, id, in.updates())
	if err != nil {
		return nil, fromRepo(err, "product")
	}
	s.syncIndex(ctx, p)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fromRepo(err, "product")
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_delete_failed", "product_id", id.String(), "error", err)
		}
	}
	return nil
}

// syncIndex is best-effort; the database is authoritative and search falls back to SQL.
func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_sync_failed", "product_id", p.ID.String(), "error", err)
	}
}

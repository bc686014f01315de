package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/repo"
)

type FavoritesService struct {
	Repo *repo.GormRepo
}

func (s *FavoritesService) List(ctx context.Context, userID uuid.UUID, lang string) ([]ProductView, error) {
	ps, err := s.Repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return productViews(ps, NormalizeLang(lang)), nil
}

// Add is idempotent and reports whether the favorite is new.
func (s *FavoritesService) Add(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	p, err := s.Repo.ProductByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("product: %w", ErrNotFound)
	}
	return s.Repo.AddFavorite(ctx, userID, productID)
}

func (s *FavoritesService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return fromRepo(s.Repo.RemoveFavorite(ctx, userID, productID), "favorite")
}

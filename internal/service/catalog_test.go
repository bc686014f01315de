package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

type fakeIndex struct {
	searchErr error
	ids       []uuid.UUID
	indexed   []uuid.UUID
	deleted   []uuid.UUID
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.ids)), f.ids, nil
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCatalog_ListLocalizesAndPaginates(t *testing.T) {
	t.Parallel()
	s := &CatalogService{Repo: newRepo(t)}
	for _, n := range []string{"A", "B", "C"} {
		dbtest.Product(t, s.Repo.DB, n, 100, 1)
	}

	page, err := s.List(context.Background(), ListQuery{Page: 2, Size: 2, Lang: "en"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Other", page.Items[0].Category)
}

func TestCatalog_Get(t *testing.T) {
	t.Parallel()
	s := &CatalogService{Repo: newRepo(t)}
	p := dbtest.Product(t, s.Repo.DB, "Lampa", 4200, 3)

	v, err := s.Get(context.Background(), p.ID, "sr")
	require.NoError(t, err)
	assert.Equal(t, "Lampa", v.Name)
	assert.Equal(t, []string{"/img/Lampa.jpg"}, v.Images)

	_, err = s.Get(context.Background(), uuid.New(), "sr")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_SearchUsesIndexThenFallsBack(t *testing.T) {
	t.Parallel()
	idx := &fakeIndex{}
	s := &CatalogService{Repo: newRepo(t), Index: idx}
	lamp := dbtest.Product(t, s.Repo.DB, "Lampa", 4200, 3)
	dbtest.Product(t, s.Repo.DB, "Stolica", 9900, 3)
	ctx := context.Background()

	idx.ids = []uuid.UUID{lamp.ID}
	page, err := s.Search(ctx, "whatever", ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, lamp.ID, page.Items[0].ID)

	idx.searchErr = errors.New("cluster unavailable")
	page, err = s.Search(ctx, "stol", ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Stolica", page.Items[0].Name)

	_, err = s.Search(ctx, "   ", ListQuery{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_CreateUpdateDelete(t *testing.T) {
	t.Parallel()
	idx := &fakeIndex{}
	s := &CatalogService{Repo: newRepo(t), Index: idx}
	ctx := context.Background()

	_, err := s.Create(ctx, ProductInput{NameSR: ptr("Bez cene")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(ctx, ProductInput{NameSR: ptr("Minus"), Price: ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrValidation)

	p, err := s.Create(ctx, ProductInput{NameSR: ptr(" Sat "), Price: ptr(int64(1999)), Stock: ptr(4), Images: []string{"/img/sat.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, "Sat", p.NameSR)

	updated, err := s.Update(ctx, p.ID, ProductInput{Stock: ptr(7), NameEN: ptr("Clock")})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "Clock", updated.NameEN)
	assert.EqualValues(t, 1999, updated.Price)

	_, err = s.Update(ctx, uuid.New(), ProductInput{Stock: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), ErrNotFound)

	assert.Equal(t, []uuid.UUID{p.ID, p.ID}, idx.indexed)
	assert.Equal(t, []uuid.UUID{p.ID}, idx.deleted)
}

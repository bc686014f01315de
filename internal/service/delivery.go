package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type DeliveryService struct {
	Repo *repo.GormRepo
}

type DeliveryInput struct {
	Address    string `json:"address"`
	Country    string `json:"country"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

func (in DeliveryInput) Empty() bool {
	return strings.TrimSpace(in.Address+in.Country+in.City+in.PostalCode+in.Phone) == ""
}

func (in DeliveryInput) toModel(userID uuid.UUID) (*models.DeliveryInfo, error) {
	d := &models.DeliveryInfo{
		UserID:     userID,
		Address:    strings.TrimSpace(in.Address),
		Country:    strings.TrimSpace(in.Country),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Phone:      strings.TrimSpace(in.Phone),
	}
	var missing []string
	for name, v := range map[string]string{"address": d.Address, "city": d.City, "postal_code": d.PostalCode, "phone": d.Phone} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing delivery fields %v: %w", missing, ErrValidation)
	}
	return d, nil
}

func (s *DeliveryService) Get(ctx context.Context, userID uuid.UUID) (*models.DeliveryInfo, error) {
	d, err := s.Repo.DeliveryInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("delivery info: %w", ErrNotFound)
	}
	return d, nil
}

func (s *DeliveryService) Save(ctx context.Context, userID uuid.UUID, in DeliveryInput) (*models.DeliveryInfo, error) {
	d, err := in.toModel(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpsertDeliveryInfo(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
)

type StorageService struct {
	units StorageUnitStore
}

func NewStorageService(units StorageUnitStore) *StorageService {
	return &StorageService{units: units}
}

type CreateStorageUnitInput struct {
	Name        string   `validate:"required"`
	Capacity    *int     `validate:"required"`
	Temperature *float64 `validate:"required"`
	Location    string
}

func (s *StorageService) Create(ctx context.Context, ownerID string, in CreateStorageUnitInput) (*model.StorageUnit, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in, nil); err != nil {
		return nil, err
	}
	if *in.Capacity <= 0 {
		return nil, apperr.Validation("capacity must be positive")
	}
	if *in.Capacity > maxCount {
		return nil, apperr.Validation("capacity is too large")
	}

	unit := &model.StorageUnit{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Capacity:    *in.Capacity,
		Temperature: *in.Temperature,
		Location:    strings.TrimSpace(in.Location),
		Status:      model.StorageUnitStatusActive,
	}
	if err := s.units.CreateStorageUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *StorageService) List(ctx context.Context, ownerID string) ([]model.StorageUnit, error) {
	return s.units.ListStorageUnitsByOwner(ctx, ownerID)
}

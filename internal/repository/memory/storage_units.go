package memory

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

func (s *Store) CreateStorageUnit(ctx context.Context, unit *model.StorageUnit) error {
	defer s.lock(ctx)()

	unit.CreatedAt = s.now()
	s.units = append(s.units, *unit)

	onRollback(ctx, func() { s.units = s.units[:len(s.units)-1] })
	return nil
}

func (s *Store) ListStorageUnitsByOwner(ctx context.Context, ownerID string) ([]model.StorageUnit, error) {
	defer s.rlock(ctx)()

	out := []model.StorageUnit{}
	for i := len(s.units) - 1; i >= 0; i-- {
		if s.units[i].OwnerID == ownerID {
			out = append(out, s.units[i])
		}
	}
	return out, nil
}

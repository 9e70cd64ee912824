package repository

import (
	"context"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
)

var errStorageUnitNotFound = apperr.NotFound("storage unit not found")

func (s *Store) CreateStorageUnit(ctx context.Context, unit *model.StorageUnit) error {
	err := s.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO storage_units (id, owner_id, name, capacity, temperature, location, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		unit.ID, unit.OwnerID, unit.Name, unit.Capacity, unit.Temperature, unit.Location, unit.Status,
	).Scan(&unit.CreatedAt)
	return classify(err, errStorageUnitNotFound, "create storage unit")
}

func (s *Store) ListStorageUnitsByOwner(ctx context.Context, ownerID string) ([]model.StorageUnit, error) {
	rows, err := s.getExecutor(ctx).Query(ctx,
		`SELECT id, owner_id, name, capacity, temperature, location, status, created_at
		 FROM storage_units WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, classify(err, errStorageUnitNotFound, "list storage units")
	}
	defer rows.Close()

	out := []model.StorageUnit{}
	for rows.Next() {
		var u model.StorageUnit
		if err := rows.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Capacity, &u.Temperature, &u.Location, &u.Status, &u.CreatedAt); err != nil {
			return nil, classify(err, errStorageUnitNotFound, "scan storage unit")
		}
		out = append(out, u)
	}
	return out, classify(rows.Err(), errStorageUnitNotFound, "list storage units")
}

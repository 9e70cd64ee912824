package repository

import (
	"context"

	"fsanano/glacierfarm/internal/model"
)

const accountColumns = `id, email, username, farm_name, location, phone, password_hash, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.FarmName, &a.Location, &a.Phone, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	err := s.getExecutor(ctx).QueryRow(ctx,
		`INSERT INTO accounts (id, email, username, farm_name, location, phone, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		account.ID, account.Email, account.Username, account.FarmName, account.Location, account.Phone, account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return classify(err, errAccountNotFound, "create account")
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	a, err := scanAccount(s.getExecutor(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, errAccountNotFound, "get account")
	}
	return a, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, err := scanAccount(s.getExecutor(ctx).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if err != nil {
		return nil, classify(err, errAccountNotFound, "get account")
	}
	return a, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.getExecutor(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, classify(err, errAccountNotFound, "check username")
	}
	return exists, nil
}

func (s *Store) UpdateAccountProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error) {
	a, err := scanAccount(s.getExecutor(ctx).QueryRow(ctx,
		`UPDATE accounts SET
			farm_name = COALESCE($2::text, farm_name),
			location  = COALESCE($3::text, location),
			phone     = COALESCE($4::text, phone),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, patch.FarmName, patch.Location, patch.Phone))
	if err != nil {
		return nil, classify(err, errAccountNotFound, "update account")
	}
	return a, nil
}

func (s *Store) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.getExecutor(ctx).Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return classify(err, errAccountNotFound, "update password")
	}
	if tag.RowsAffected() == 0 {
		return errAccountNotFound
	}
	return nil
}

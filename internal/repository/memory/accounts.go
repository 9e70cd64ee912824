package memory

import (
	"context"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/model"
)

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	defer s.lock(ctx)()

	for _, existing := range s.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return apperr.Conflict("user already exists")
		}
	}

	now := s.now()
	account.CreatedAt, account.UpdatedAt = now, now
	s.accounts[account.ID] = *account

	id := account.ID
	onRollback(ctx, func() { delete(s.accounts, id) })
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	defer s.rlock(ctx)()

	a, ok := s.accounts[id]
	if !ok {
		return nil, errAccountNotFound
	}
	return &a, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	defer s.rlock(ctx)()

	for _, a := range s.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, errAccountNotFound
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	defer s.rlock(ctx)()

	for _, a := range s.accounts {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateAccountProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error) {
	defer s.lock(ctx)()

	a, ok := s.accounts[id]
	if !ok {
		return nil, errAccountNotFound
	}
	before := a

	if patch.FarmName != nil {
		a.FarmName = *patch.FarmName
	}
	if patch.Location != nil {
		a.Location = *patch.Location
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	a.UpdatedAt = s.now()
	s.accounts[id] = a

	onRollback(ctx, func() { s.accounts[id] = before })
	return &a, nil
}

func (s *Store) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	defer s.lock(ctx)()

	a, ok := s.accounts[id]
	if !ok {
		return errAccountNotFound
	}
	before := a

	a.PasswordHash = passwordHash
	a.UpdatedAt = s.now()
	s.accounts[id] = a

	onRollback(ctx, func() { s.accounts[id] = before })
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fsanano/glacierfarm/internal/apperr"
	"fsanano/glacierfarm/internal/auth"
	"fsanano/glacierfarm/internal/model"
)

// maxUsernameAttempts bounds the numeric suffix search for a free username.
const maxUsernameAttempts = 50

var errInvalidCredentials = apperr.Unauthenticated("invalid credentials")

type TokenIssuer interface {
	Issue(accountID string) (string, error)
	Verify(token string) (string, error)
}

type AuthService struct {
	accounts AccountStore
	tokens   TokenIssuer
	log      *logrus.Logger
}

func NewAuthService(accounts AccountStore, tokens TokenIssuer, log *logrus.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, log: log}
}

type RegisterInput struct {
	FarmName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Location        string `validate:"required"`
	Phone           string `validate:"required"`
	Password        string `validate:"required,min=6,max=72"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

var registerMessages = map[string]string{
	"Password.min": fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength),
	"Password.max": errPasswordTooLong.Error(),
}

var errPasswordTooLong = apperr.Validation(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordLength))

// checkNewPassword bounds a password before it reaches bcrypt. The max tag
// counts runes, bcrypt counts bytes.
func checkNewPassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}
	if len(password) > auth.MaxPasswordLength {
		return errPasswordTooLong
	}
	return nil
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Account, string, error) {
	in.FarmName = strings.TrimSpace(in.FarmName)
	in.Email = normalizeEmail(in.Email)
	in.Location = strings.TrimSpace(in.Location)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateStruct(in, registerMessages); err != nil {
		return nil, "", err
	}
	if err := checkNewPassword(in.Password); err != nil {
		return nil, "", err
	}

	if _, err := s.accounts.GetAccountByEmail(ctx, in.Email); err == nil {
		return nil, "", apperr.Conflict("user already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, "", err
	}

	username, err := s.freeUsername(ctx, usernameFromEmail(in.Email))
	if err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Username:     username,
		FarmName:     in.FarmName,
		Location:     in.Location,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	// The unique indexes are the final word: a concurrent signup with the
	// same email surfaces here as Conflict.
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"account_id": account.ID, "username": account.Username}).Info("account registered")
	return account, token, nil
}

// Login never distinguishes an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation("email and password required")
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}
	return account, token, nil
}

// VerifyToken maps a bearer token to an account id. An empty token is
// Unauthenticated; a present but invalid or expired one is Forbidden.
func (s *AuthService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthenticated("access token required")
	}
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return "", apperr.Forbidden("invalid or expired token")
	}
	return accountID, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.PasswordHash, currentPassword) {
		return apperr.Unauthenticated("current password is incorrect")
	}
	if err := checkNewPassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.accounts.UpdateAccountPassword(ctx, accountID, hash); err != nil {
		return err
	}

	s.log.WithField("account_id", accountID).Info("password changed")
	return nil
}

func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return s.accounts.GetAccountByID(ctx, accountID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, patch model.ProfilePatch) (*model.Account, error) {
	for name, field := range map[string]*string{"farmName": patch.FarmName, "location": patch.Location, "phone": patch.Phone} {
		if field == nil {
			continue
		}
		*field = strings.TrimSpace(*field)
		if *field == "" {
			return nil, apperr.Validation(name + " cannot be empty")
		}
	}
	return s.accounts.UpdateAccountProfile(ctx, accountID, patch)
}

func (s *AuthService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 2; i < maxUsernameAttempts+2; i++ {
		taken, err := s.accounts.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", apperr.Conflict("could not derive a free username")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

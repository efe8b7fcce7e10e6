package services

import (
	"context"
	"errors"

	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown username and for a wrong
// password alike, so a caller cannot tell which one failed.
var ErrBadCredentials = errors.New("bad username or password")

// CredentialRepository defines persistence operations for login accounts.
type CredentialRepository interface {
	GetByUsername(ctx context.Context, username string) (types.Credential, error)
	Create(ctx context.Context, credential types.Credential) error
}

// AuthService verifies login credentials against the users table.
type AuthService struct {
	repo CredentialRepository
}

func NewAuthService(repo CredentialRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Authenticate checks a username/password pair and returns the account's
// identity on success.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (types.Identity, error) {
	credential, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Identity{}, ErrBadCredentials
		}
		return types.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return types.Identity{}, ErrBadCredentials
	}

	return types.Identity{
		Username:     credential.Username,
		AccessRights: credential.AccessRights,
	}, nil
}

// Provision creates a login account with a freshly hashed password.
// Used by the seed command; the API never writes to the users table.
func (s *AuthService) Provision(ctx context.Context, username, password string, accessRights int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.Create(ctx, types.Credential{
		Username:     username,
		PasswordHash: string(hashed),
		AccessRights: accessRights,
	})
}

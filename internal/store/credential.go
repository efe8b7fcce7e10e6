package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/memberdir/apiserver/types"
)

// CredentialRepository handles persistence for login accounts. The API
// core only reads credentials; Create exists for the seed command.
type CredentialRepository struct {
	db     *sql.DB
	driver string
}

func NewCredentialRepository(db *sql.DB, driver string) *CredentialRepository {
	return &CredentialRepository{db: db, driver: driver}
}

func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (types.Credential, error) {
	query := rebind(r.driver, `
		SELECT username, password_hash, access_rights
		FROM users
		WHERE username = $1`)
	var credential types.Credential
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&credential.Username,
		&credential.PasswordHash,
		&credential.AccessRights,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Credential{}, ErrNotFound
		}
		return types.Credential{}, err
	}
	return credential, nil
}

func (r *CredentialRepository) Create(ctx context.Context, credential types.Credential) error {
	query := rebind(r.driver, `
		INSERT INTO users (username, password_hash, access_rights)
		VALUES ($1, $2, $3)`)
	_, err := r.db.ExecContext(
		ctx,
		query,
		credential.Username,
		credential.PasswordHash,
		credential.AccessRights,
	)
	return err
}

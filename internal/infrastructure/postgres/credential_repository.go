package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/identity"
)

// CredentialRepository stores sign-in credentials in the auth_users table.
type CredentialRepository struct {
	db DB
}

func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Insert(ctx context.Context, email, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO auth_users (email, password_hash)
		VALUES ($1, $2)
	`, email, passwordHash)
	if isUniqueViolation(err) {
		return identity.ErrCredentialExists
	}
	return err
}

func (r *CredentialRepository) Get(ctx context.Context, email string) (identity.Credential, error) {
	c := identity.Credential{}
	row := r.db.QueryRow(ctx, `
		SELECT email, password_hash, confirmed
		FROM auth_users
		WHERE email = $1
	`, email)
	if err := row.Scan(&c.Email, &c.PasswordHash, &c.Confirmed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Credential{}, fmt.Errorf("credential %s: %w", email, repository.ErrNotFound)
		}
		return identity.Credential{}, err
	}
	return c, nil
}

func (r *CredentialRepository) Confirm(ctx context.Context, email string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE auth_users
		SET confirmed = TRUE, confirmed_at = now()
		WHERE email = $1
	`, email)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("credential %s: %w", email, repository.ErrNotFound)
	}
	return nil
}

// Delete drops an unconfirmed credential. Confirmed rows are never removed here.
func (r *CredentialRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM auth_users
		WHERE email = $1 AND confirmed = FALSE
	`, email)
	return err
}

var _ identity.CredentialStore = (*CredentialRepository)(nil)

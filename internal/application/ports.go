package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrStorageNotConfigured = errors.New("storage not configured")
)

// UserService is the application entry point for user profile changes.
type UserService interface {
	CreateUser(ctx context.Context, u entity.User) error
	Update(ctx context.Context, u entity.User) error
}

// UserCache caches profile documents by user id.
type UserCache interface {
	Get(ctx context.Context, id string) (UserDocument, bool, error)
	Set(ctx context.Context, doc UserDocument) error
	Delete(ctx context.Context, id string) error
}

// UserIndex is the search side of user profiles.
type UserIndex interface {
	Index(ctx context.Context, doc UserDocument) error
	Search(ctx context.Context, q string, size int) ([]UserDocument, error)
}

// IconStore stores profile icon objects.
type IconStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error
}

// CodeResender re-sends a pending verification code.
type CodeResender interface {
	ResendCode(ctx context.Context, email entity.Email) error
}

// SessionTokens parses refresh tokens and signs new pairs.
type SessionTokens interface {
	ParseRefreshToken(token string) (*helpers.Claims, error)
	GeneratePair(email string) (access, refresh string, err error)
}

// TokenDenylist records revoked refresh token ids until they expire.
// Revoke reports false when jti was already revoked.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) (bool, error)
}

// AccountChecker reports whether email may still hold a session.
type AccountChecker interface {
	Active(ctx context.Context, email entity.Email) error
}

package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

// AuthUserRepository is the credential side of identity: sign-up, code
// verification and authentication. Failures are *entity.AuthUserError.
type AuthUserRepository interface {
	Authenticate(ctx context.Context, auth entity.AuthUser) (entity.Token, error)
	SignUp(ctx context.Context, auth entity.AuthUser) error
	VerifyCode(ctx context.Context, email entity.Email, code string) error
}

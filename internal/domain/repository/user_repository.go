package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

// UserRepository persists User aggregates.
// Failures are *entity.UserError of kind FindByID, Create or Update.
// Implementations must be safe for concurrent use.
type UserRepository interface {
	FindByID(ctx context.Context, id entity.UserID) (entity.User, error)
	Create(ctx context.Context, u entity.User) error
	Update(ctx context.Context, u entity.User) error
}

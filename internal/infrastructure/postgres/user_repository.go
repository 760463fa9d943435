package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

// noIconPlaceholder is how older rows marked a user without a profile icon.
const noIconPlaceholder = "0"

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id entity.UserID) (entity.User, error) {
	var (
		rowID, email, name string
		userType           int16
		icon               *string
	)
	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, user_type, profile_icon_path
		FROM users
		WHERE id = $1
	`, id.String())
	if err := row.Scan(&rowID, &email, &name, &userType, &icon); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, &entity.UserError{Kind: entity.UserErrFindByID, Reason: id.String(), Err: repository.ErrNotFound}
		}
		return entity.User{}, &entity.UserError{Kind: entity.UserErrFindByID, Reason: id.String(), Err: err}
	}

	u, err := userFromRow(rowID, email, name, userType, icon)
	if err != nil {
		return entity.User{}, &entity.UserError{Kind: entity.UserErrFindByID, Reason: "corrupt row " + rowID, Err: err}
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u entity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, user_type, profile_icon_path)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID().String(), u.Email().String(), u.Name().String(), u.UserType().Code(), iconParam(u))
	if err != nil {
		if dup, ok := duplicateReason(err, u); ok {
			return &entity.UserError{Kind: entity.UserErrCreate, Reason: dup, Err: repository.ErrDuplicate}
		}
		return &entity.UserError{Kind: entity.UserErrCreate, Reason: err.Error(), Err: err}
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, user_type = $4, profile_icon_path = $5, updated_at = now()
		WHERE id = $1
	`, u.ID().String(), u.Email().String(), u.Name().String(), u.UserType().Code(), iconParam(u))
	if err != nil {
		if dup, ok := duplicateReason(err, u); ok {
			return &entity.UserError{Kind: entity.UserErrUpdate, Reason: dup, Err: repository.ErrDuplicate}
		}
		return &entity.UserError{Kind: entity.UserErrUpdate, Reason: err.Error(), Err: err}
	}
	if res.RowsAffected() == 0 {
		return &entity.UserError{Kind: entity.UserErrUpdate, Reason: "user not found: " + u.ID().String(), Err: repository.ErrNotFound}
	}
	return nil
}

func duplicateReason(err error, u entity.User) (string, bool) {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return "", false
	}
	if constraint == usersEmailKey {
		return "email already registered: " + u.Email().String(), true
	}
	return "user already exists: " + u.ID().String(), true
}

// userFromRow rebuilds the aggregate from stored columns. NULL and the
// legacy "0" placeholder both mean no icon.
func userFromRow(id, email, name string, userType int16, icon *string) (entity.User, error) {
	if icon != nil && (*icon == "" || *icon == noIconPlaceholder) {
		icon = nil
	}
	return entity.BuildUser(id, email, name, int(userType), icon)
}

func iconParam(u entity.User) *string {
	if p, ok := u.ProfileIconPath(); ok {
		return &p
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

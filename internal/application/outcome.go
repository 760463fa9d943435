package application

import (
	"errors"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
)

// outcome is the metrics label for the result of an operation.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var ae *entity.AuthUserError
	if errors.As(err, &ae) {
		switch ae.Kind {
		case entity.AuthErrInvalidField:
			return "invalid_field"
		case entity.AuthErrAuthenticationFailed:
			return "auth_failed"
		case entity.AuthErrTokenMissing:
			return "token_missing"
		case entity.AuthErrUserAlreadyExists:
			return "already_exists"
		case entity.AuthErrInvalidPassword:
			return "invalid_password"
		}
		return "internal"
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return "already_exists"
	}
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, repository.ErrNotFound) {
		return "not_found"
	}
	if entity.IsInvalidValue(err) {
		return "invalid_field"
	}
	return "error"
}

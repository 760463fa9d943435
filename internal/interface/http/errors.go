package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

// statusFor maps domain and application errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, application.ErrStorageNotConfigured):
		return http.StatusServiceUnavailable, "storage not configured"
	case entity.IsInvalidValue(err):
		return http.StatusBadRequest, err.Error()
	case entity.IsAuthKind(err, entity.AuthErrUserAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, "user already exists"
	case entity.IsAuthKind(err, entity.AuthErrAuthenticationFailed),
		entity.IsAuthKind(err, entity.AuthErrInvalidPassword),
		entity.IsAuthKind(err, entity.AuthErrTokenMissing):
		return http.StatusUnauthorized, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	response.Error[any](c, status, msg, nil)
}

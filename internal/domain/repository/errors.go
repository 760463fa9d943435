package repository

import "errors"

var (
	// ErrNotFound is wrapped by adapters when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped by adapters when a unique id or email is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrAlreadyConfirmed is wrapped by AuthUserRepository.VerifyCode for a credential confirmed earlier.
	ErrAlreadyConfirmed = errors.New("already confirmed")
)

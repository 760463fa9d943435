package entity

import (
	"errors"
	"fmt"
)

// EmailErrorKind enumerates the reasons an email address is rejected.
type EmailErrorKind int

const (
	EmailRegexCompilationFailed EmailErrorKind = iota + 1
	EmailValidateFailed
)

// EmailError is returned by ParseEmail.
type EmailError struct {
	Kind   EmailErrorKind
	Detail string
}

func (e *EmailError) Error() string {
	if e.Kind == EmailRegexCompilationFailed {
		return "regex compile failed " + e.Detail
	}
	return "email validate error"
}

// Is matches on Kind so sentinel values work with errors.Is.
func (e *EmailError) Is(target error) bool {
	t, ok := target.(*EmailError)
	return ok && t.Kind == e.Kind
}

// PasswordError is returned by ParsePassword. There is a single kind.
type PasswordError struct{}

func (e *PasswordError) Error() string { return "password validate error" }

func (e *PasswordError) Is(target error) bool {
	_, ok := target.(*PasswordError)
	return ok
}

// NameError carries the rejected display name.
type NameError struct {
	Value string
}

func (e *NameError) Error() string { return "invalid validate name " + e.Value }

func (e *NameError) Is(target error) bool {
	_, ok := target.(*NameError)
	return ok
}

// UserTypeError carries the rejected user type value.
type UserTypeError struct {
	Value string
}

func (e *UserTypeError) Error() string {
	return fmt.Sprintf("invalid user type value: %s. expected values are 1 (Registered) or 2 (Guest)", e.Value)
}

func (e *UserTypeError) Is(target error) bool {
	_, ok := target.(*UserTypeError)
	return ok
}

// IdentifierErrorKind enumerates identifier parse failures.
type IdentifierErrorKind int

const (
	IdentifierInvalidFormat IdentifierErrorKind = iota + 1
	IdentifierInvalidUUID
)

type IdentifierError struct {
	Kind IdentifierErrorKind
}

func (e *IdentifierError) Error() string {
	if e.Kind == IdentifierInvalidUUID {
		return "invalid UUID format"
	}
	return "it is not in the prefix_UUID format"
}

func (e *IdentifierError) Is(target error) bool {
	t, ok := target.(*IdentifierError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks against leaf kinds.
var (
	ErrEmailValidateFailed    = &EmailError{Kind: EmailValidateFailed}
	ErrEmailRegexCompilation  = &EmailError{Kind: EmailRegexCompilationFailed}
	ErrPasswordValidateFailed = &PasswordError{}
	ErrInvalidName            = &NameError{}
	ErrInvalidUserType        = &UserTypeError{}
	ErrInvalidFormat          = &IdentifierError{Kind: IdentifierInvalidFormat}
	ErrInvalidUUID            = &IdentifierError{Kind: IdentifierInvalidUUID}
)

// UserErrorKind enumerates UserError variants.
type UserErrorKind int

const (
	// UserErrInvalidField wraps a value-object error in Err.
	UserErrInvalidField UserErrorKind = iota + 1
	UserErrFindByID
	UserErrCreate
	UserErrUpdate
)

// UserError is the error type of the User aggregate and of UserRepository.
type UserError struct {
	Kind   UserErrorKind
	Reason string
	Err    error
}

func (e *UserError) Error() string {
	switch e.Kind {
	case UserErrFindByID:
		return "failed to find by id user: " + e.Reason
	case UserErrCreate:
		return "failed to create user: " + e.Reason
	case UserErrUpdate:
		return "failed to update user: " + e.Reason
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "invalid user"
}

func (e *UserError) Unwrap() error { return e.Err }

func userFieldError(err error) *UserError {
	return &UserError{Kind: UserErrInvalidField, Err: err}
}

func NewFindByIDError(reason string) *UserError {
	return &UserError{Kind: UserErrFindByID, Reason: reason}
}

func NewCreateUserError(reason string) *UserError {
	return &UserError{Kind: UserErrCreate, Reason: reason}
}

func NewUpdateUserError(reason string) *UserError {
	return &UserError{Kind: UserErrUpdate, Reason: reason}
}

// AuthUserErrorKind enumerates AuthUserError variants.
type AuthUserErrorKind int

const (
	// AuthErrInvalidField wraps an Email or Password error in Err.
	AuthErrInvalidField AuthUserErrorKind = iota + 1
	AuthErrAuthenticationFailed
	AuthErrInternalServer
	AuthErrTokenMissing
	AuthErrUserAlreadyExists
	AuthErrInvalidPassword
)

// AuthUserError is the error type of the AuthUser aggregate and of AuthUserRepository.
type AuthUserError struct {
	Kind   AuthUserErrorKind
	Reason string
	Err    error
}

func (e *AuthUserError) Error() string {
	switch e.Kind {
	case AuthErrAuthenticationFailed:
		return "authentication failed: " + e.Reason
	case AuthErrInternalServer:
		return "internal server error: " + e.Reason
	case AuthErrTokenMissing:
		return "token is missing"
	case AuthErrUserAlreadyExists:
		return "user already exists"
	case AuthErrInvalidPassword:
		return "invalid password"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "invalid auth user"
}

func (e *AuthUserError) Unwrap() error { return e.Err }

// Is matches the reason-less kinds so the sentinels below work with errors.Is.
func (e *AuthUserError) Is(target error) bool {
	t, ok := target.(*AuthUserError)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.Kind != AuthErrInvalidField
}

var (
	ErrTokenMissing      = &AuthUserError{Kind: AuthErrTokenMissing}
	ErrUserAlreadyExists = &AuthUserError{Kind: AuthErrUserAlreadyExists}
	ErrInvalidPassword   = &AuthUserError{Kind: AuthErrInvalidPassword}
)

func authFieldError(err error) *AuthUserError {
	return &AuthUserError{Kind: AuthErrInvalidField, Err: err}
}

func NewAuthenticationFailedError(reason string) *AuthUserError {
	return &AuthUserError{Kind: AuthErrAuthenticationFailed, Reason: reason}
}

func NewInternalServerError(reason string) *AuthUserError {
	return &AuthUserError{Kind: AuthErrInternalServer, Reason: reason}
}

// IsAuthKind reports whether err is an AuthUserError of the given kind.
func IsAuthKind(err error, kind AuthUserErrorKind) bool {
	var ae *AuthUserError
	return errors.As(err, &ae) && ae.Kind == kind
}

// IsUserKind reports whether err is a UserError of the given kind.
func IsUserKind(err error, kind UserErrorKind) bool {
	var ue *UserError
	return errors.As(err, &ue) && ue.Kind == kind
}

// IsInvalidValue reports whether err carries a value-object or identifier validation error.
func IsInvalidValue(err error) bool {
	var (
		emailErr *EmailError
		passErr  *PasswordError
		nameErr  *NameError
		typeErr  *UserTypeError
		idErr    *IdentifierError
	)
	switch {
	case errors.As(err, &emailErr):
		return emailErr.Kind == EmailValidateFailed
	case errors.As(err, &passErr), errors.As(err, &nameErr), errors.As(err, &typeErr), errors.As(err, &idErr):
		return true
	}
	return false
}

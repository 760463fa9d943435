package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/metrics"
)

// AuthService drives sign-up, verification and login, and creates
// the user profile once an email is verified.
type AuthService struct {
	Auth     repo.AuthUserRepository
	Users    UserService
	Resender CodeResender
	Logger   *logrus.Logger
	Metrics  metrics.Recorder
}

func NewAuthService(auth repo.AuthUserRepository, users UserService, resender CodeResender, logger *logrus.Logger, rec metrics.Recorder) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{Auth: auth, Users: users, Resender: resender, Logger: logger, Metrics: rec}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) error {
	auth, err := entity.BuildAuthUser(email, password, nil)
	if err == nil {
		err = s.Auth.SignUp(ctx, auth)
	}
	s.Metrics.RecordAuth("signup", outcome(err))
	return err
}

// Verify confirms the sign-up code and creates the Registered profile named name.
// The name is validated before the code is spent. A credential confirmed by an
// earlier call whose profile was never written resumes at profile creation, so
// a failed CreateUser can be retried.
func (s *AuthService) Verify(ctx context.Context, email, code, name string) (entity.User, error) {
	u, err := s.verify(ctx, email, code, name)
	s.Metrics.RecordAuth("verify", outcome(err))
	return u, err
}

func (s *AuthService) verify(ctx context.Context, email, code, name string) (entity.User, error) {
	u, err := entity.NewUser(email, name, entity.Registered.Code(), nil)
	if err != nil {
		return entity.User{}, err
	}
	verifyErr := s.Auth.VerifyCode(ctx, u.Email(), code)
	resumed := errors.Is(verifyErr, repo.ErrAlreadyConfirmed)
	if verifyErr != nil && !resumed {
		return entity.User{}, verifyErr
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			if resumed {
				return entity.User{}, verifyErr
			}
			return entity.User{}, fmt.Errorf("%w: %w", entity.ErrUserAlreadyExists, err)
		}
		s.Logger.WithError(err).WithField("email", email).Error("profile creation after verification failed")
		return entity.User{}, err
	}
	if resumed {
		s.Logger.WithField("email", email).Info("profile created for previously confirmed credential")
	}
	return u, nil
}

func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	e, err := entity.ParseEmail(email)
	if err == nil {
		if s.Resender == nil {
			err = entity.NewInternalServerError("resending codes is not supported")
		} else {
			err = s.Resender.ResendCode(ctx, e)
		}
	}
	s.Metrics.RecordAuth("resend", outcome(err))
	return err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (entity.Token, error) {
	auth, err := entity.BuildAuthUser(email, password, nil)
	if err != nil {
		s.Metrics.RecordAuth("login", outcome(err))
		return entity.Token{}, err
	}
	tok, err := s.Auth.Authenticate(ctx, auth)
	s.Metrics.RecordAuth("login", outcome(err))
	if err != nil {
		s.Logger.WithError(err).WithField("email", email).Info("login rejected")
		if entity.IsAuthKind(err, entity.AuthErrInvalidPassword) || entity.IsAuthKind(err, entity.AuthErrAuthenticationFailed) {
			return entity.Token{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return entity.Token{}, err
	}
	return tok, nil
}

// CreateGuest creates a Guest user without credentials.
func (s *AuthService) CreateGuest(ctx context.Context, email, name string) (entity.User, error) {
	u, err := entity.NewUser(email, name, entity.Guest.Code(), nil)
	if err != nil {
		return entity.User{}, err
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

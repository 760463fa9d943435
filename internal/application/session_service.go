package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/metrics"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// SessionService rotates and revokes refresh tokens. A refresh token is
// single use: rotating it revokes its id. Access tokens stay valid until
// they expire.
type SessionService struct {
	Tokens   SessionTokens
	Denylist TokenDenylist
	Accounts AccountChecker
	Logger   *logrus.Logger
	Metrics  metrics.Recorder
}

func NewSessionService(tokens SessionTokens, denylist TokenDenylist, accounts AccountChecker, logger *logrus.Logger, rec metrics.Recorder) *SessionService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &SessionService{Tokens: tokens, Denylist: denylist, Accounts: accounts, Logger: logger, Metrics: rec}
}

// Refresh exchanges a refresh token for a new pair after checking that the
// credential is still confirmed and the token was not used or revoked before.
func (s *SessionService) Refresh(ctx context.Context, refresh string) (entity.Token, error) {
	tok, err := s.refresh(ctx, refresh)
	s.Metrics.RecordAuth("refresh", outcome(err))
	return tok, err
}

func (s *SessionService) refresh(ctx context.Context, refresh string) (entity.Token, error) {
	if refresh == "" {
		return entity.Token{}, entity.ErrTokenMissing
	}
	claims, email, err := s.parse(refresh)
	if err != nil {
		return entity.Token{}, err
	}
	if err := s.Accounts.Active(ctx, email); err != nil {
		return entity.Token{}, err
	}
	fresh, err := s.Denylist.Revoke(ctx, claims.ID, expiry(claims))
	if err != nil {
		s.Logger.WithError(err).WithField("email", email.String()).Error("revoke refresh token failed")
		return entity.Token{}, entity.NewInternalServerError("revoke refresh token: " + err.Error())
	}
	if !fresh {
		s.Logger.WithField("email", email.String()).Warn("revoked refresh token presented")
		return entity.Token{}, entity.NewAuthenticationFailedError("refresh token revoked")
	}
	access, next, err := s.Tokens.GeneratePair(email.String())
	if err != nil {
		return entity.Token{}, entity.NewInternalServerError("generate tokens: " + err.Error())
	}
	if access == "" || next == "" {
		return entity.Token{}, entity.ErrTokenMissing
	}
	return entity.NewToken(access, next), nil
}

// Logout revokes refresh. Tokens that do not parse have nothing to revoke.
func (s *SessionService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	claims, _, err := s.parse(refresh)
	if err != nil {
		return nil
	}
	if _, err := s.Denylist.Revoke(ctx, claims.ID, expiry(claims)); err != nil {
		s.Logger.WithError(err).WithField("email", claims.Email).Error("revoke refresh token failed")
		return entity.NewInternalServerError("revoke refresh token: " + err.Error())
	}
	s.Metrics.RecordAuth("logout", "success")
	return nil
}

func (s *SessionService) parse(refresh string) (*helpers.Claims, entity.Email, error) {
	claims, err := s.Tokens.ParseRefreshToken(refresh)
	if err != nil || claims.ID == "" {
		return nil, entity.Email{}, entity.NewAuthenticationFailedError("invalid refresh token")
	}
	email, err := entity.ParseEmail(claims.Email)
	if err != nil {
		return nil, entity.Email{}, entity.NewAuthenticationFailedError("invalid refresh token")
	}
	return claims, email, nil
}

func expiry(c *helpers.Claims) time.Time {
	if c.ExpiresAt == nil {
		return time.Now().Add(24 * time.Hour)
	}
	return c.ExpiresAt.Time
}

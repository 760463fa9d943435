package identity

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// ErrCredentialExists is returned by CredentialStore.Insert for a taken email.
var ErrCredentialExists = errors.New("credential already exists")

// Credential is the stored sign-in record of an email.
type Credential struct {
	Email        string
	PasswordHash string
	Confirmed    bool
}

// CredentialStore persists credentials. Get and Confirm wrap repository.ErrNotFound for unknown emails.
// Delete removes an unconfirmed credential and is a no-op for confirmed or unknown emails.
type CredentialStore interface {
	Insert(ctx context.Context, email, passwordHash string) error
	Get(ctx context.Context, email string) (Credential, error)
	Confirm(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

// CodeStore keeps pending verification codes.
// Check reports whether code matches and consumes it on success.
type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Check(ctx context.Context, email, code string) (bool, error)
}

// Notifier delivers a verification code to its owner.
type Notifier interface {
	SendVerifyCode(ctx context.Context, email, code string) error
}

// TokenIssuer signs the access and refresh tokens of an authenticated email.
type TokenIssuer interface {
	GeneratePair(email string) (access, refresh string, err error)
}

// Provider implements repository.AuthUserRepository on top of local stores.
type Provider struct {
	Credentials CredentialStore
	Codes       CodeStore
	Notifier    Notifier
	Tokens      TokenIssuer
	CodeTTL     time.Duration
	Logger      *logrus.Logger

	hash    func(plain string) (string, error)
	compare func(hash, plain string) bool
	genCode func() (string, error)
}

func NewProvider(creds CredentialStore, codes CodeStore, notifier Notifier, tokens TokenIssuer, codeTTL time.Duration, logger *logrus.Logger) *Provider {
	return &Provider{
		Credentials: creds,
		Codes:       codes,
		Notifier:    notifier,
		Tokens:      tokens,
		CodeTTL:     codeTTL,
		Logger:      logger,
		hash:        helpers.HashPassword,
		compare:     helpers.CompareHashAndPassword,
		genCode:     helpers.GenVerifyCode,
	}
}

// SignUp registers an unconfirmed credential and sends its verification code.
// The credential is removed again when the code cannot be issued, so the email stays free for a retry.
func (p *Provider) SignUp(ctx context.Context, auth entity.AuthUser) error {
	email := auth.Email().String()
	hash, err := p.hash(auth.Password().String())
	if err != nil {
		return p.internal("hash password", email, err)
	}
	if err := p.Credentials.Insert(ctx, email, hash); err != nil {
		if errors.Is(err, ErrCredentialExists) {
			return entity.ErrUserAlreadyExists
		}
		return p.internal("insert credential", email, err)
	}
	if err := p.issueCode(ctx, email); err != nil {
		// the request context may already be done
		if derr := p.Credentials.Delete(context.WithoutCancel(ctx), email); derr != nil && p.Logger != nil {
			p.Logger.WithError(derr).WithField("email", email).Error("rollback credential failed")
		}
		return err
	}
	return nil
}

// ResendCode replaces the pending code of an unconfirmed credential.
func (p *Provider) ResendCode(ctx context.Context, email entity.Email) error {
	cred, err := p.Credentials.Get(ctx, email.String())
	if err != nil {
		return p.lookupError(email.String(), err)
	}
	if cred.Confirmed {
		return entity.NewAuthenticationFailedError("user is already confirmed")
	}
	return p.issueCode(ctx, email.String())
}

func (p *Provider) issueCode(ctx context.Context, email string) error {
	code, err := p.genCode()
	if err != nil {
		return p.internal("generate code", email, err)
	}
	if err := p.Codes.Save(ctx, email, code, p.CodeTTL); err != nil {
		return p.internal("save code", email, err)
	}
	if err := p.Notifier.SendVerifyCode(ctx, email, code); err != nil {
		return p.internal("send code", email, err)
	}
	return nil
}

// VerifyCode confirms the credential of email when code matches the pending one.
func (p *Provider) VerifyCode(ctx context.Context, email entity.Email, code string) error {
	cred, err := p.Credentials.Get(ctx, email.String())
	if err != nil {
		return p.lookupError(email.String(), err)
	}
	if cred.Confirmed {
		return errAlreadyConfirmed
	}
	ok, err := p.Codes.Check(ctx, email.String(), code)
	if err != nil {
		return p.internal("check code", email.String(), err)
	}
	if !ok {
		return entity.NewAuthenticationFailedError("invalid verification code")
	}
	if err := p.Credentials.Confirm(ctx, email.String()); err != nil {
		return p.internal("confirm credential", email.String(), err)
	}
	return nil
}

// Authenticate checks a confirmed credential and issues a token pair.
func (p *Provider) Authenticate(ctx context.Context, auth entity.AuthUser) (entity.Token, error) {
	email := auth.Email().String()
	cred, err := p.Credentials.Get(ctx, email)
	if err != nil {
		return entity.Token{}, p.lookupError(email, err)
	}
	if !cred.Confirmed {
		return entity.Token{}, entity.NewAuthenticationFailedError("user is not confirmed")
	}
	if !p.compare(cred.PasswordHash, auth.Password().String()) {
		return entity.Token{}, entity.ErrInvalidPassword
	}
	access, refresh, err := p.Tokens.GeneratePair(email)
	if err != nil {
		return entity.Token{}, p.internal("generate tokens", email, err)
	}
	if access == "" || refresh == "" {
		return entity.Token{}, entity.ErrTokenMissing
	}
	return entity.NewToken(access, refresh), nil
}

// Active reports whether email still has a confirmed credential.
func (p *Provider) Active(ctx context.Context, email entity.Email) error {
	cred, err := p.Credentials.Get(ctx, email.String())
	if err != nil {
		return p.lookupError(email.String(), err)
	}
	if !cred.Confirmed {
		return entity.NewAuthenticationFailedError("user is not confirmed")
	}
	return nil
}

var errAlreadyConfirmed = &entity.AuthUserError{
	Kind:   entity.AuthErrAuthenticationFailed,
	Reason: "user is already confirmed",
	Err:    repository.ErrAlreadyConfirmed,
}

func (p *Provider) lookupError(email string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return entity.NewAuthenticationFailedError("user not found")
	}
	return p.internal("get credential", email, err)
}

func (p *Provider) internal(op, email string, err error) error {
	if p.Logger != nil {
		p.Logger.WithError(err).WithFields(logrus.Fields{"op": op, "email": email}).Error("identity provider failure")
	}
	return entity.NewInternalServerError(op + ": " + err.Error())
}

var _ repository.AuthUserRepository = (*Provider)(nil)

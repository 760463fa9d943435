package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
	"golang.org/x/crypto/bcrypt"
)

type mockCredentials struct{ mock.Mock }

func (m *mockCredentials) Insert(ctx context.Context, email, hash string) error {
	return m.Called(ctx, email, hash).Error(0)
}

func (m *mockCredentials) Get(ctx context.Context, email string) (Credential, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(Credential), args.Error(1)
}

func (m *mockCredentials) Confirm(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockCredentials) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// memCredentials mirrors the auth_users table semantics in memory.
type memCredentials struct {
	mu   sync.Mutex
	rows map[string]Credential
}

func newMemCredentials() *memCredentials {
	return &memCredentials{rows: map[string]Credential{}}
}

func (m *memCredentials) Insert(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[email]; ok {
		return ErrCredentialExists
	}
	m.rows[email] = Credential{Email: email, PasswordHash: hash}
	return nil
}

func (m *memCredentials) Get(_ context.Context, email string) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[email]
	if !ok {
		return Credential{}, fmt.Errorf("credential %s: %w", email, repository.ErrNotFound)
	}
	return c, nil
}

func (m *memCredentials) Confirm(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[email]
	if !ok {
		return fmt.Errorf("credential %s: %w", email, repository.ErrNotFound)
	}
	c.Confirmed = true
	m.rows[email] = c
	return nil
}

func (m *memCredentials) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[email]; ok && !c.Confirmed {
		delete(m.rows, email)
	}
	return nil
}

type mockCodes struct{ mock.Mock }

func (m *mockCodes) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return m.Called(ctx, email, code, ttl).Error(0)
}

func (m *mockCodes) Check(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendVerifyCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) GeneratePair(email string) (string, string, error) {
	args := m.Called(email)
	return args.String(0), args.String(1), args.Error(2)
}

type fixture struct {
	creds    *mockCredentials
	codes    *mockCodes
	notifier *mockNotifier
	tokens   *mockTokens
	provider *Provider
}

func newFixture() *fixture {
	f := &fixture{
		creds:    &mockCredentials{},
		codes:    &mockCodes{},
		notifier: &mockNotifier{},
		tokens:   &mockTokens{},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	f.provider = NewProvider(f.creds, f.codes, f.notifier, f.tokens, 15*time.Minute, logger)
	f.provider.hash = func(plain string) (string, error) { return "hashed:" + plain, nil }
	f.provider.compare = func(hash, plain string) bool { return hash == "hashed:"+plain }
	f.provider.genCode = func() (string, error) { return "123456", nil }
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.creds.AssertExpectations(t)
	f.codes.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func mustAuthUser(t *testing.T, email, password string) entity.AuthUser {
	t.Helper()
	a, err := entity.BuildAuthUser(email, password, nil)
	require.NoError(t, err)
	return a
}

func mustEmail(t *testing.T, s string) entity.Email {
	t.Helper()
	e, err := entity.ParseEmail(s)
	require.NoError(t, err)
	return e
}

func TestSignUp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Insert", ctx, "a@example.com", "hashed:Password123").Return(nil)
	f.codes.On("Save", ctx, "a@example.com", "123456", 15*time.Minute).Return(nil)
	f.notifier.On("SendVerifyCode", ctx, "a@example.com", "123456").Return(nil)

	err := f.provider.SignUp(ctx, mustAuthUser(t, "a@example.com", "Password123"))
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestSignUp_AlreadyExists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Insert", ctx, "a@example.com", mock.Anything).Return(ErrCredentialExists)

	err := f.provider.SignUp(ctx, mustAuthUser(t, "a@example.com", "Password123"))
	assert.ErrorIs(t, err, entity.ErrUserAlreadyExists)
	f.codes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "SendVerifyCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_NotifierFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Insert", ctx, "a@example.com", mock.Anything).Return(nil)
	f.codes.On("Save", ctx, "a@example.com", "123456", mock.Anything).Return(nil)
	f.notifier.On("SendVerifyCode", ctx, "a@example.com", "123456").Return(errors.New("amqp closed"))
	f.creds.On("Delete", mock.Anything, "a@example.com").Return(nil)

	err := f.provider.SignUp(ctx, mustAuthUser(t, "a@example.com", "Password123"))
	require.Error(t, err)
	assert.True(t, entity.IsAuthKind(err, entity.AuthErrInternalServer))
	assert.Contains(t, err.Error(), "amqp closed")
	f.creds.AssertCalled(t, "Delete", mock.Anything, "a@example.com")
}

func TestSignUp_CodeStoreFailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Insert", ctx, "a@example.com", mock.Anything).Return(nil)
	f.codes.On("Save", ctx, "a@example.com", "123456", mock.Anything).Return(errors.New("redis down"))
	f.creds.On("Delete", mock.Anything, "a@example.com").Return(nil).Once()

	err := f.provider.SignUp(ctx, mustAuthUser(t, "a@example.com", "Password123"))
	require.Error(t, err)
	assert.True(t, entity.IsAuthKind(err, entity.AuthErrInternalServer))
	f.notifier.AssertNotCalled(t, "SendVerifyCode", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSignUp_RetryAfterCodeFailure(t *testing.T) {
	f := newFixture()
	creds := newMemCredentials()
	f.provider.Credentials = creds
	ctx := context.Background()
	f.codes.On("Save", ctx, "a@example.com", "123456", mock.Anything).Return(errors.New("redis down")).Once()
	f.codes.On("Save", ctx, "a@example.com", "123456", mock.Anything).Return(nil).Once()
	f.notifier.On("SendVerifyCode", ctx, "a@example.com", "123456").Return(nil).Once()

	auth := mustAuthUser(t, "a@example.com", "Password123")
	require.Error(t, f.provider.SignUp(ctx, auth))
	_, err := creds.Get(ctx, "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, f.provider.SignUp(ctx, auth))
	c, err := creds.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, c.Confirmed)
	f.assertExpectations(t)
}

func TestSignUp_LongPassword(t *testing.T) {
	prev := helpers.BcryptCost
	helpers.BcryptCost = bcrypt.MinCost
	t.Cleanup(func() { helpers.BcryptCost = prev })

	f := newFixture()
	creds := newMemCredentials()
	f.provider.Credentials = creds
	f.provider.hash = helpers.HashPassword
	f.provider.compare = helpers.CompareHashAndPassword
	ctx := context.Background()
	f.codes.On("Save", ctx, "a@example.com", "123456", mock.Anything).Return(nil)
	f.notifier.On("SendVerifyCode", ctx, "a@example.com", "123456").Return(nil)
	f.tokens.On("GeneratePair", "a@example.com").Return("jwt_token", "refresh_token", nil)

	password := strings.Repeat("a", 80) + "1"
	require.NoError(t, f.provider.SignUp(ctx, mustAuthUser(t, "a@example.com", password)))
	require.NoError(t, creds.Confirm(ctx, "a@example.com"))

	tok, err := f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", password))
	require.NoError(t, err)
	assert.Equal(t, "jwt_token", tok.JWT())

	_, err = f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", strings.Repeat("a", 80)+"2"))
	assert.ErrorIs(t, err, entity.ErrInvalidPassword)
}

func TestVerifyCode(t *testing.T) {
	ctx := context.Background()
	notFound := fmt.Errorf("credential: %w", repository.ErrNotFound)

	tests := []struct {
		name     string
		cred     Credential
		getErr   error
		match    bool
		wantKind entity.AuthUserErrorKind
		confirms bool
	}{
		{name: "confirms", cred: Credential{Email: "a@example.com"}, match: true, confirms: true},
		{name: "wrong code", cred: Credential{Email: "a@example.com"}, match: false, wantKind: entity.AuthErrAuthenticationFailed},
		{name: "unknown email", getErr: notFound, wantKind: entity.AuthErrAuthenticationFailed},
		{name: "already confirmed", cred: Credential{Email: "a@example.com", Confirmed: true}, wantKind: entity.AuthErrAuthenticationFailed},
		{name: "store failure", getErr: errors.New("conn reset"), wantKind: entity.AuthErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.creds.On("Get", ctx, "a@example.com").Return(tt.cred, tt.getErr)
			if tt.getErr == nil && !tt.cred.Confirmed {
				f.codes.On("Check", ctx, "a@example.com", "123456").Return(tt.match, nil)
			}
			if tt.confirms {
				f.creds.On("Confirm", ctx, "a@example.com").Return(nil)
			}

			err := f.provider.VerifyCode(ctx, mustEmail(t, "a@example.com"), "123456")
			if tt.wantKind == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, entity.IsAuthKind(err, tt.wantKind), err.Error())
			}
			assert.Equal(t, tt.cred.Confirmed, errors.Is(err, repository.ErrAlreadyConfirmed))
			f.assertExpectations(t)
		})
	}
}

func TestActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.creds.On("Get", ctx, "a@example.com").Return(Credential{Email: "a@example.com", Confirmed: true}, nil).Once()
	f.creds.On("Get", ctx, "b@example.com").Return(Credential{Email: "b@example.com"}, nil).Once()
	f.creds.On("Get", ctx, "c@example.com").Return(Credential{}, fmt.Errorf("gone: %w", repository.ErrNotFound)).Once()

	require.NoError(t, f.provider.Active(ctx, mustEmail(t, "a@example.com")))
	err := f.provider.Active(ctx, mustEmail(t, "b@example.com"))
	assert.Equal(t, "authentication failed: user is not confirmed", err.Error())
	err = f.provider.Active(ctx, mustEmail(t, "c@example.com"))
	assert.Equal(t, "authentication failed: user not found", err.Error())
	f.assertExpectations(t)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Get", ctx, "a@example.com").
		Return(Credential{Email: "a@example.com", PasswordHash: "hashed:Password123", Confirmed: true}, nil)
	f.tokens.On("GeneratePair", "a@example.com").Return("jwt_token", "refresh_token", nil)

	tok, err := f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", "Password123"))
	require.NoError(t, err)
	assert.Equal(t, "jwt_token", tok.JWT())
	assert.Equal(t, "refresh_token", tok.Refresh())
	f.assertExpectations(t)
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture()
		f.creds.On("Get", ctx, "a@example.com").
			Return(Credential{PasswordHash: "hashed:Password123", Confirmed: true}, nil)

		_, err := f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", "Password999"))
		assert.ErrorIs(t, err, entity.ErrInvalidPassword)
		f.tokens.AssertNotCalled(t, "GeneratePair", mock.Anything)
	})

	t.Run("unconfirmed", func(t *testing.T) {
		f := newFixture()
		f.creds.On("Get", ctx, "a@example.com").
			Return(Credential{PasswordHash: "hashed:Password123"}, nil)

		_, err := f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", "Password123"))
		require.Error(t, err)
		assert.Equal(t, "authentication failed: user is not confirmed", err.Error())
	})

	t.Run("empty token", func(t *testing.T) {
		f := newFixture()
		f.creds.On("Get", ctx, "a@example.com").
			Return(Credential{PasswordHash: "hashed:Password123", Confirmed: true}, nil)
		f.tokens.On("GeneratePair", "a@example.com").Return("", "refresh_token", nil)

		_, err := f.provider.Authenticate(ctx, mustAuthUser(t, "a@example.com", "Password123"))
		assert.ErrorIs(t, err, entity.ErrTokenMissing)
	})
}

func TestResendCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.creds.On("Get", ctx, "a@example.com").Return(Credential{Email: "a@example.com"}, nil)
	f.codes.On("Save", ctx, "a@example.com", "123456", 15*time.Minute).Return(nil)
	f.notifier.On("SendVerifyCode", ctx, "a@example.com", "123456").Return(nil)

	require.NoError(t, f.provider.ResendCode(ctx, mustEmail(t, "a@example.com")))
	f.assertExpectations(t)
}

type recordingPublisher struct {
	bodies []any
}

func (r *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	r.bodies = append(r.bodies, body)
	return nil
}

func TestQueueNotifier(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	pub := &recordingPublisher{}

	n := NewQueueNotifier(pub, "Identity", time.Minute, true, logger)
	require.NoError(t, n.SendVerifyCode(context.Background(), "a@example.com", "654321"))
	require.Len(t, pub.bodies, 1)

	job, ok := pub.bodies[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", job.To)
	assert.Equal(t, mailer.VerifyCode, job.Template)
	assert.Equal(t, "654321", job.Data["Code"])

	disabled := NewQueueNotifier(pub, "Identity", time.Minute, false, logger)
	require.NoError(t, disabled.SendVerifyCode(context.Background(), "a@example.com", "654321"))
	assert.Len(t, pub.bodies, 1)
}

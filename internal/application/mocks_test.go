package application

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) FindByID(ctx context.Context, id entity.UserID) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u entity.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, id string) (UserDocument, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(UserDocument), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, doc UserDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockIndex struct{ mock.Mock }

func (m *mockIndex) Index(ctx context.Context, doc UserDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, q string, size int) ([]UserDocument, error) {
	args := m.Called(ctx, q, size)
	return args.Get(0).([]UserDocument), args.Error(1)
}

type mockIcons struct{ mock.Mock }

func (m *mockIcons) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	return m.Called(ctx, objectPath, contentType, r).Error(0)
}

type mockAuthRepo struct{ mock.Mock }

func (m *mockAuthRepo) Authenticate(ctx context.Context, auth entity.AuthUser) (entity.Token, error) {
	args := m.Called(ctx, auth)
	return args.Get(0).(entity.Token), args.Error(1)
}

func (m *mockAuthRepo) SignUp(ctx context.Context, auth entity.AuthUser) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *mockAuthRepo) VerifyCode(ctx context.Context, email entity.Email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) CreateUser(ctx context.Context, u entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) Update(ctx context.Context, u entity.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockResender struct{ mock.Mock }

func (m *mockResender) ResendCode(ctx context.Context, email entity.Email) error {
	return m.Called(ctx, email).Error(0)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Active(ctx context.Context, email entity.Email) error {
	return m.Called(ctx, email).Error(0)
}

// memDenylist is a TokenDenylist without expiry.
type memDenylist struct {
	revoked map[string]time.Time
	err     error
}

func (d *memDenylist) Revoke(_ context.Context, jti string, until time.Time) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.revoked == nil {
		d.revoked = map[string]time.Time{}
	}
	if _, ok := d.revoked[jti]; ok {
		return false, nil
	}
	d.revoked[jti] = until
	return true, nil
}

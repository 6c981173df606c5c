package accounts_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	accounts "github.com/leaptrade/go-accounts"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements accounts.RepositoryManager. RunInTx
// executes the callback against a zero bun.Tx and propagates its error, so
// handler tests exercise the real transaction body.
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Users() accounts.Users {
	args := m.Called()
	return args.Get(0).(accounts.Users)
}

// MockUsers implements the methods the handlers reach for. The embedded
// interface covers the rest of the repository surface; calling an unmocked
// method panics, which is what we want in a test.
type MockUsers struct {
	mock.Mock
	accounts.Users
}

func userReturn(args mock.Arguments) (*accounts.User, error) {
	var user *accounts.User
	if v := args.Get(0); v != nil {
		user = v.(*accounts.User)
	}
	return user, args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*accounts.User, error) {
	args := m.Called(ctx, id)
	return userReturn(args)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	return userReturn(args)
}

func (m *MockUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.User, error) {
	args := m.Called(ctx, tx, email)
	return userReturn(args)
}

func (m *MockUsers) GetByActivationFingerprint(ctx context.Context, fingerprint string) (*accounts.User, error) {
	args := m.Called(ctx, fingerprint)
	return userReturn(args)
}

func (m *MockUsers) GetByActivationFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*accounts.User, error) {
	args := m.Called(ctx, tx, fingerprint)
	return userReturn(args)
}

func (m *MockUsers) GetByResetFingerprint(ctx context.Context, fingerprint string) (*accounts.User, error) {
	args := m.Called(ctx, fingerprint)
	return userReturn(args)
}

func (m *MockUsers) GetByResetFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*accounts.User, error) {
	args := m.Called(ctx, tx, fingerprint)
	return userReturn(args)
}

func (m *MockUsers) Create(ctx context.Context, record *accounts.User, criteria ...repository.InsertCriteria) (*accounts.User, error) {
	args := m.Called(ctx, record)
	return userReturn(args)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.User, criteria ...repository.InsertCriteria) (*accounts.User, error) {
	args := m.Called(ctx, tx, record)
	return userReturn(args)
}

func (m *MockUsers) Activate(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, id)
	return userReturn(args)
}

func (m *MockUsers) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, tx, id)
	return userReturn(args)
}

func (m *MockUsers) SetResetToken(ctx context.Context, id uuid.UUID, fingerprint string, expiresAt time.Time) (*accounts.User, error) {
	args := m.Called(ctx, id, fingerprint, expiresAt)
	return userReturn(args)
}

func (m *MockUsers) SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, fingerprint string, expiresAt time.Time) (*accounts.User, error) {
	args := m.Called(ctx, tx, id, fingerprint, expiresAt)
	return userReturn(args)
}

func (m *MockUsers) ClearResetToken(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, id)
	return userReturn(args)
}

func (m *MockUsers) ClearResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, tx, id)
	return userReturn(args)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) (*accounts.User, error) {
	args := m.Called(ctx, id, passwordHash)
	return userReturn(args)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*accounts.User, error) {
	args := m.Called(ctx, tx, id, passwordHash)
	return userReturn(args)
}

func (m *MockUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*accounts.User, error) {
	args := m.Called(ctx, id, passwordHash)
	return userReturn(args)
}

func (m *MockUsers) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*accounts.User, error) {
	args := m.Called(ctx, tx, id, passwordHash)
	return userReturn(args)
}

// MockTokenService implements accounts.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(raw string) (*accounts.Session, error) {
	args := m.Called(raw)
	var session *accounts.Session
	if v := args.Get(0); v != nil {
		session = v.(*accounts.Session)
	}
	return session, args.Error(1)
}

// MockMailer implements accounts.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMailer) SendActivationLink(ctx context.Context, user *accounts.User, url string) error {
	args := m.Called(ctx, user, url)
	return args.Error(0)
}

func (m *MockMailer) SendActivationConfirmation(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetLink(ctx context.Context, email, url string) error {
	args := m.Called(ctx, email, url)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetConfirmation(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordUpdateConfirmation(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

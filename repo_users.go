package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Field-clearing mutations go through raw SQL: the ORM update path skips
// zero-value columns, and these statements must NULL fingerprints and the
// reset expiry atomically with their companion columns.
var ActivateUserSQL = `UPDATE "users" AS "usr"
SET
	"active" = TRUE,
	"activation_token_fingerprint" = NULL
WHERE
	"usr"."id" = ?
RETURNING *;`

var ResetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"password_reset_token_fingerprint" = NULL,
	"password_reset_expires_at" = NULL
WHERE
	"usr"."id" = ?
RETURNING *;`

var SetResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"password_reset_token_fingerprint" = ?,
	"password_reset_expires_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

var ClearResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"password_reset_token_fingerprint" = NULL,
	"password_reset_expires_at" = NULL
WHERE
	"usr"."id" = ?
RETURNING *;`

var UpdatePasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

// Users is the account store. Lookups return a record-not-found error
// (repository.IsRecordNotFound) rather than nil when absent; Create enforces
// email uniqueness through the storage layer and maps violations to
// ErrEmailTaken.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByActivationFingerprint(ctx context.Context, fingerprint string) (*User, error)
	GetByActivationFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*User, error)
	GetByResetFingerprint(ctx context.Context, fingerprint string) (*User, error)
	GetByResetFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*User, error)

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	Save(ctx context.Context, record *User) (*User, error)
	SaveTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	Activate(ctx context.Context, id uuid.UUID) (*User, error)
	ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, fingerprint string, expiresAt time.Time) (*User, error)
	SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, fingerprint string, expiresAt time.Time) (*User, error)
	ClearResetToken(ctx context.Context, id uuid.UUID) (*User, error)
	ClearResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error)
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error)
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository builds the Bun-backed account store.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumn(ctx, tx, "email", NormalizeEmail(email))
}

func (a *users) GetByActivationFingerprint(ctx context.Context, fingerprint string) (*User, error) {
	return a.GetByActivationFingerprintTx(ctx, a.db, fingerprint)
}

func (a *users) GetByActivationFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*User, error) {
	return a.getByColumn(ctx, tx, "activation_token_fingerprint", fingerprint)
}

func (a *users) GetByResetFingerprint(ctx context.Context, fingerprint string) (*User, error) {
	return a.GetByResetFingerprintTx(ctx, a.db, fingerprint)
}

func (a *users) GetByResetFingerprintTx(ctx context.Context, tx bun.IDB, fingerprint string) (*User, error) {
	return a.getByColumn(ctx, tx, "password_reset_token_fingerprint", fingerprint)
}

func (a *users) getByColumn(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	if value == "" {
		return nil, repository.NewRecordNotFound()
	}

	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"column": column})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)

	created, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return created, nil
}

func (a *users) Save(ctx context.Context, record *User) (*User, error) {
	return a.SaveTx(ctx, a.db, record)
}

func (a *users) SaveTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(record.ID.String()))
}

func (a *users) Activate(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.ActivateTx(ctx, a.db, id)
}

func (a *users) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	return a.rawMutation(ctx, tx, ActivateUserSQL, id.String())
}

func (a *users) SetResetToken(ctx context.Context, id uuid.UUID, fingerprint string, expiresAt time.Time) (*User, error) {
	return a.SetResetTokenTx(ctx, a.db, id, fingerprint, expiresAt)
}

func (a *users) SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, fingerprint string, expiresAt time.Time) (*User, error) {
	return a.rawMutation(ctx, tx, SetResetTokenSQL, fingerprint, expiresAt, id.String())
}

func (a *users) ClearResetToken(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.ClearResetTokenTx(ctx, a.db, id)
}

func (a *users) ClearResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	return a.rawMutation(ctx, tx, ClearResetTokenSQL, id.String())
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error) {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error) {
	return a.rawMutation(ctx, tx, ResetUserPasswordSQL, passwordHash, id.String())
}

func (a *users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (*User, error) {
	return a.UpdatePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) (*User, error) {
	return a.rawMutation(ctx, tx, UpdatePasswordSQL, passwordHash, id.String())
}

func (a *users) rawMutation(ctx context.Context, tx bun.IDB, query string, args ...any) (*User, error) {
	res, err := a.Repository.RawTx(ctx, tx, query, args...)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound()
	}

	return res[0], nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// isUniqueViolation recognizes duplicate-key failures from the drivers we
// run against: SQLite's constraint message and Postgres' 23505.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}

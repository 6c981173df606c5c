package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted account record. The password hash, the token
// fingerprints, and the reset expiry never serialize outward; UserInfo is
// the only shape handed to callers.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName string    `bun:"first_name" json:"first_name,omitempty"`
	LastName  string    `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email     string    `bun:"email,notnull,unique" json:"email,omitempty"`

	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	Active       bool   `bun:"active,notnull" json:"active"`

	// ActivationTokenFingerprint is set at signup and cleared exactly once,
	// on successful activation.
	ActivationTokenFingerprint *string `bun:"activation_token_fingerprint,nullzero" json:"-"`

	// The reset fingerprint and its expiry are set and cleared together;
	// one without the other is an invariant breach.
	PasswordResetTokenFingerprint *string    `bun:"password_reset_token_fingerprint,nullzero" json:"-"`
	PasswordResetExpiresAt        *time.Time `bun:"password_reset_expires_at,nullzero" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPendingReset reports whether a reset token is on file.
func (u *User) HasPendingReset() bool {
	return u.PasswordResetTokenFingerprint != nil && u.PasswordResetExpiresAt != nil
}

// UserInfo is the public projection of a user record, built by explicit
// allowlist. Add a field here only if it is safe in every outward response.
type UserInfo struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Active    bool   `json:"active"`
}

// PublicUser builds the outward-facing projection of a user.
func PublicUser(u *User) *UserInfo {
	if u == nil {
		return nil
	}

	return &UserInfo{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Active:    u.Active,
	}
}

// NormalizeEmail trims and lowercases an email address. Every lookup and
// every stored row goes through this, which is what makes email uniqueness
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

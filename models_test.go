package accounts_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	accounts "github.com/leaptrade/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicUser(t *testing.T) {
	fingerprint := "deadbeef"
	expires := time.Now().Add(10 * time.Minute)

	user := &accounts.User{
		ID:                            uuid.New(),
		FirstName:                     "Ada",
		LastName:                      "Lovelace",
		Email:                         "ada@example.com",
		PasswordHash:                  "$2a$12$secret",
		Active:                        true,
		ActivationTokenFingerprint:    &fingerprint,
		PasswordResetTokenFingerprint: &fingerprint,
		PasswordResetExpiresAt:        &expires,
	}

	info := accounts.PublicUser(user)
	require.NotNil(t, info)

	assert.Equal(t, user.ID.String(), info.ID)
	assert.Equal(t, "Ada", info.FirstName)
	assert.Equal(t, "Lovelace", info.LastName)
	assert.Equal(t, "ada@example.com", info.Email)
	assert.True(t, info.Active)

	// the projection must never leak credential material, even through JSON
	payload, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
	assert.NotContains(t, string(payload), fingerprint)

	assert.Nil(t, accounts.PublicUser(nil))
}

func TestUserJSONHidesSecrets(t *testing.T) {
	fingerprint := "deadbeef"

	user := &accounts.User{
		ID:                         uuid.New(),
		LastName:                   "Lovelace",
		Email:                      "ada@example.com",
		PasswordHash:               "$2a$12$secret",
		ActivationTokenFingerprint: &fingerprint,
	}

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(payload), "secret")
	assert.NotContains(t, string(payload), fingerprint)
	assert.Contains(t, string(payload), "ada@example.com")
}

func TestHasPendingReset(t *testing.T) {
	fingerprint := "deadbeef"
	expires := time.Now().Add(10 * time.Minute)

	user := &accounts.User{}
	assert.False(t, user.HasPendingReset())

	user.PasswordResetTokenFingerprint = &fingerprint
	assert.False(t, user.HasPendingReset())

	user.PasswordResetExpiresAt = &expires
	assert.True(t, user.HasPendingReset())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", accounts.NormalizeEmail("  Ada@Example.COM "))
	assert.Equal(t, "ada@example.com", accounts.NormalizeEmail("ada@example.com"))
	assert.Equal(t, "", accounts.NormalizeEmail("   "))
}

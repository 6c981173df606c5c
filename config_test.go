package accounts_test

import (
	"context"
	"testing"
	"time"

	accounts "github.com/leaptrade/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("loads defaults", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "super-secret")

		cfg, err := accounts.LoadConfig(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "super-secret", cfg.GetSigningKey())
		assert.Equal(t, "go-accounts", cfg.GetIssuer())
		assert.Equal(t, 2160*time.Hour, cfg.GetSessionTTL())
		assert.Equal(t, 10*time.Minute, cfg.GetResetTokenTTL())
		assert.Equal(t, 24*time.Hour, cfg.GetActivationWindow())
		assert.Equal(t, "http://localhost:3000", cfg.GetBaseURL())
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "super-secret")
		t.Setenv("ACCOUNTS_ISSUER", "leaptrade")
		t.Setenv("ACCOUNTS_SESSION_TTL", "1h")
		t.Setenv("ACCOUNTS_RESET_TOKEN_TTL", "5m")

		cfg, err := accounts.LoadConfig(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "leaptrade", cfg.GetIssuer())
		assert.Equal(t, time.Hour, cfg.GetSessionTTL())
		assert.Equal(t, 5*time.Minute, cfg.GetResetTokenTTL())
	})

	t.Run("requires a signing key", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "")

		_, err := accounts.LoadConfig(context.Background())
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := &accounts.Config{
		SigningKey:    "super-secret",
		SessionTTL:    time.Hour,
		ResetTokenTTL: 10 * time.Minute,
	}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&accounts.Config{SessionTTL: time.Hour, ResetTokenTTL: time.Minute}).Validate())
	assert.Error(t, (&accounts.Config{SigningKey: "k", ResetTokenTTL: time.Minute}).Validate())
	assert.Error(t, (&accounts.Config{SigningKey: "k", SessionTTL: time.Hour}).Validate())
}

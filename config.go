package accounts

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/sethvargo/go-envconfig"
)

// Config holds the package options. Load it from the environment with
// LoadConfig or fill the struct directly when embedding in a larger app
// config.
type Config struct {
	// SigningKey is the HMAC secret for session assertions. Required.
	SigningKey string `env:"ACCOUNTS_SIGNING_KEY"`
	// Issuer is stamped into and checked against every session assertion.
	Issuer string `env:"ACCOUNTS_ISSUER, default=go-accounts"`
	// Audience restricts which services accept the assertion. Optional.
	Audience []string `env:"ACCOUNTS_AUDIENCE"`
	// SessionTTL is how long issued sessions stay valid. 90 days by default.
	SessionTTL time.Duration `env:"ACCOUNTS_SESSION_TTL, default=2160h"`
	// ResetTokenTTL bounds the password reset window.
	ResetTokenTTL time.Duration `env:"ACCOUNTS_RESET_TOKEN_TTL, default=10m"`
	// ActivationWindow is how long an activation link stays usable.
	ActivationWindow time.Duration `env:"ACCOUNTS_ACTIVATION_WINDOW, default=24h"`
	// BaseURL is the public origin used to build activation and reset links
	// when the caller does not supply one.
	BaseURL string `env:"ACCOUNTS_BASE_URL, default=http://localhost:3000"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load accounts configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the options that have no usable default.
func (c *Config) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key is required", errors.CategoryBadInput).
			WithMetadata(map[string]any{"env": "ACCOUNTS_SIGNING_KEY"})
	}

	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive", errors.CategoryBadInput)
	}

	if c.ResetTokenTTL <= 0 {
		return errors.New("reset token TTL must be positive", errors.CategoryBadInput)
	}

	return nil
}

func (c *Config) GetSigningKey() string             { return c.SigningKey }
func (c *Config) GetIssuer() string                 { return c.Issuer }
func (c *Config) GetAudience() []string             { return c.Audience }
func (c *Config) GetSessionTTL() time.Duration      { return c.SessionTTL }
func (c *Config) GetResetTokenTTL() time.Duration   { return c.ResetTokenTTL }
func (c *Config) GetActivationWindow() time.Duration { return c.ActivationWindow }
func (c *Config) GetBaseURL() string                { return c.BaseURL }

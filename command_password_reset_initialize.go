package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// InitializePasswordResetMessage starts the forgot-password flow.
type InitializePasswordResetMessage struct {
	Email string `json:"email"`
	// OriginBaseURL is the origin the reset link should point at, usually
	// the requesting front-end. Falls back to the configured base URL.
	OriginBaseURL string `json:"origin_base_url"`
	OnResponse    func(*InitializePasswordResetResponse)
}

func (m InitializePasswordResetMessage) Type() string { return "account.password_reset" }

// Validate will run validation rules
func (m InitializePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
	)
}

// InitializePasswordResetResponse reports the reset window.
type InitializePasswordResetResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InitializePasswordResetHandler mints a reset token, stores its fingerprint
// with an expiry, and mails the link. The mail dispatch is NOT
// fire-and-forget here: if it fails the reset fields are reverted, so a
// token nobody received can never linger.
type InitializePasswordResetHandler struct {
	repo   RepositoryManager
	mailer Mailer
	cfg    *Config
	logger Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager, mailer Mailer, cfg *Config) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	// Unknown emails surface as not-found. This leaks account existence and
	// is a deliberate product decision; see DESIGN.md before "fixing" it.
	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrAccountNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	resetToken, err := NewOpaqueToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint reset token")
	}
	fingerprint := TokenFingerprint(resetToken)
	expiresAt := time.Now().Add(h.cfg.GetResetTokenTTL())

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().SetResetTokenTx(ctx, tx, user.ID, fingerprint, expiresAt); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store reset token")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize password reset")
	}

	base := event.OriginBaseURL
	if base == "" {
		base = h.cfg.GetBaseURL()
	}
	resetURL := joinLink(base, "password-reset", resetToken)

	if err := h.mailer.SendPasswordResetLink(ctx, user.Email, resetURL); err != nil {
		h.logger.Error("failed to send password reset mail, reverting token", "error", err)

		if _, revertErr := h.repo.Users().ClearResetToken(ctx, user.ID); revertErr != nil {
			h.logger.Error("failed to revert reset token", "error", revertErr, "user_id", user.ID)
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send password reset email")
	}

	h.logger.Info("password reset initialized", "user_id", user.ID)

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			Email:     user.Email,
			ExpiresAt: expiresAt,
		})
	}

	return nil
}

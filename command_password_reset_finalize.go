package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// FinalizePasswordResetMessage completes the forgot-password flow with the
// token from the reset link and the replacement password.
type FinalizePasswordResetMessage struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	OnResponse      func(*FinalizePasswordResetResponse)
}

func (m FinalizePasswordResetMessage) Type() string { return "account.password_reset_finalize" }

// Validate will run validation rules
func (m FinalizePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Token, validation.Required),
		validation.Field(&m.Password, PasswordRules()...),
		validation.Field(&m.PasswordConfirm, validation.Required),
	)
}

// FinalizePasswordResetResponse is handed to OnResponse after the password
// is replaced. A fresh session is issued so the user is logged in right
// after resetting.
type FinalizePasswordResetResponse struct {
	User  *UserInfo `json:"user"`
	Token string    `json:"token"`
}

// FinalizePasswordResetHandler validates the token against its stored
// fingerprint and expiry, replaces the password hash, and clears the reset
// fields.
type FinalizePasswordResetHandler struct {
	repo   RepositoryManager
	tokens TokenService
	mailer Mailer
	logger Logger
}

// NewFinalizePasswordResetHandler creates a handler with sane defaults.
func NewFinalizePasswordResetHandler(repo RepositoryManager, tokens TokenService, mailer Mailer) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if event.Password != event.PasswordConfirm {
		return ErrPasswordConfirmMismatch
	}

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	fingerprint := TokenFingerprint(event.Token)
	user := &User{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := h.repo.Users().GetByResetFingerprintTx(ctx, tx, fingerprint)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidResetToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve password reset request")
		}

		if found.PasswordResetExpiresAt == nil {
			return goerrors.New("reset fingerprint present without expiry", goerrors.CategoryInternal)
		}

		// the boundary instant counts as expired
		if IsExpiredAt(time.Now(), *found.PasswordResetExpiresAt) {
			return ErrInvalidResetToken
		}

		passwordHash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
		}

		updated, err := h.repo.Users().ResetPasswordTx(ctx, tx, found.ID, passwordHash)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
		}

		user = updated
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize password reset")
	}

	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session")
	}

	go func() {
		if err := h.mailer.SendPasswordResetConfirmation(context.Background(), user); err != nil {
			h.logger.Warn("failed to send reset confirmation", "error", err)
		}
	}()

	h.logger.Info("password reset finalized", "user_id", user.ID)

	if event.OnResponse != nil {
		event.OnResponse(&FinalizePasswordResetResponse{
			User:  PublicUser(user),
			Token: token,
		})
	}

	return nil
}

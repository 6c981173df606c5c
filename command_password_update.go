package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpdatePasswordMessage changes the password of an authenticated user. The
// external layer resolves the session to a user id before building this
// message.
type UpdatePasswordMessage struct {
	UserID          uuid.UUID `json:"-"`
	CurrentPassword string    `json:"current_password"`
	Password        string    `json:"password"`
	PasswordConfirm string    `json:"password_confirm"`
	OnResponse      func(*UpdatePasswordResponse)
}

func (m UpdatePasswordMessage) Type() string { return "account.password_update" }

// Validate will run validation rules
func (m UpdatePasswordMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.CurrentPassword, validation.Required),
		validation.Field(&m.Password, PasswordRules()...),
		validation.Field(&m.PasswordConfirm, validation.Required),
	)
}

// UpdatePasswordResponse carries the refreshed session.
type UpdatePasswordResponse struct {
	User  *UserInfo `json:"user"`
	Token string    `json:"token"`
}

// UpdatePasswordHandler verifies the current password before replacing it.
type UpdatePasswordHandler struct {
	repo   RepositoryManager
	tokens TokenService
	mailer Mailer
	logger Logger
}

// NewUpdatePasswordHandler creates a handler with sane defaults.
func NewUpdatePasswordHandler(repo RepositoryManager, tokens TokenService, mailer Mailer) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *UpdatePasswordHandler) WithLogger(logger Logger) *UpdatePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password update",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdatePasswordHandler) execute(ctx context.Context, event UpdatePasswordMessage) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	user, err := h.repo.Users().GetByID(ctx, event.UserID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrInvalidSession
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password update")
	}

	if err := ComparePasswordAndHash(event.CurrentPassword, user.PasswordHash); err != nil {
		return ErrMismatchedHashAndPassword
	}

	if event.Password == event.CurrentPassword {
		return ErrPasswordReused
	}

	if event.Password != event.PasswordConfirm {
		return ErrPasswordConfirmInvalid
	}

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password update payload")
	}

	passwordHash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash new password")
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		updated, err := h.repo.Users().UpdatePasswordTx(ctx, tx, user.ID, passwordHash)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}

		user = updated
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
	}

	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session")
	}

	go func() {
		if err := h.mailer.SendPasswordUpdateConfirmation(context.Background(), user); err != nil {
			h.logger.Warn("failed to send password update confirmation", "error", err)
		}
	}()

	h.logger.Info("password updated", "user_id", user.ID)

	if event.OnResponse != nil {
		event.OnResponse(&UpdatePasswordResponse{
			User:  PublicUser(user),
			Token: token,
		})
	}

	return nil
}

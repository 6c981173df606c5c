package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// ActivateMessage proves control of the signup email address via the opaque
// token from the activation link.
type ActivateMessage struct {
	Token      string `json:"token"`
	OnResponse func(*ActivateResponse)
}

func (m ActivateMessage) Type() string { return "account.activate" }

// Validate will run validation rules
func (m ActivateMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Token, validation.Required),
	)
}

// ActivateResponse is handed to OnResponse after activation.
type ActivateResponse struct {
	User *UserInfo `json:"user"`
}

// ActivateHandler flips the account to active and clears the activation
// fingerprint, exactly once.
type ActivateHandler struct {
	repo   RepositoryManager
	mailer Mailer
	cfg    *Config
	logger Logger
}

// NewActivateHandler creates a handler with sane defaults.
func NewActivateHandler(repo RepositoryManager, mailer Mailer, cfg *Config) *ActivateHandler {
	return &ActivateHandler{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ActivateHandler) WithLogger(logger Logger) *ActivateHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateHandler) Execute(ctx context.Context, event ActivateMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account activation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateHandler) execute(ctx context.Context, event ActivateMessage) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid activation payload")
	}

	fingerprint := TokenFingerprint(event.Token)
	user := &User{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		found, err := h.repo.Users().GetByActivationFingerprintTx(ctx, tx, fingerprint)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				// covers unknown tokens and tokens already consumed
				return ErrInvalidActivationToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for activation")
		}

		if found.CreatedAt != nil && IsOutsideThresholdPeriod(*found.CreatedAt, h.cfg.GetActivationWindow()) {
			return ErrInvalidActivationToken
		}

		activated, err := h.repo.Users().ActivateTx(ctx, tx, found.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate user")
		}

		user = activated
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
	}

	go func() {
		if err := h.mailer.SendActivationConfirmation(context.Background(), user); err != nil {
			h.logger.Warn("failed to send activation confirmation", "error", err)
		}
	}()

	h.logger.Info("user activated", "user_id", user.ID)

	if event.OnResponse != nil {
		event.OnResponse(&ActivateResponse{User: PublicUser(user)})
	}

	return nil
}

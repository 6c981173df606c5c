package accounts

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// commandTimeout bounds every lifecycle operation.
const commandTimeout = time.Second * 10

// SignupMessage carries a new registration.
type SignupMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	// UseHashid derives the user id deterministically from the email instead
	// of minting a random one. Useful for idempotent imports.
	UseHashid  bool `json:"-"`
	OnResponse func(*SignupResponse)
}

func (m SignupMessage) Type() string { return "account.signup" }

// Validate will run validation rules
func (m SignupMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.FirstName, validation.Length(0, 50)),
		validation.Field(&m.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&m.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&m.Password, PasswordRules()...),
	)
}

// SignupResponse is handed to OnResponse after the account is created.
type SignupResponse struct {
	User  *UserInfo `json:"user"`
	Token string    `json:"token"`
}

// SignupHandler creates the inactive account, issues a session, and fires
// the welcome and activation mails.
type SignupHandler struct {
	repo   RepositoryManager
	tokens TokenService
	mailer Mailer
	cfg    *Config
	logger Logger
}

// NewSignupHandler creates a handler with sane defaults.
func NewSignupHandler(repo RepositoryManager, tokens TokenService, mailer Mailer, cfg *Config) *SignupHandler {
	return &SignupHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *SignupHandler) WithLogger(logger Logger) *SignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid signup payload")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	activationToken, err := NewOpaqueToken()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint activation token")
	}
	fingerprint := TokenFingerprint(activationToken)

	user := &User{
		FirstName:                  event.FirstName,
		LastName:                   event.LastName,
		Email:                      NormalizeEmail(event.Email),
		PasswordHash:               hash,
		Active:                     false,
		ActivationTokenFingerprint: &fingerprint,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Users().CreateTx(ctx, tx, user)
		if err != nil {
			return err
		}

		user = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session")
	}

	activationURL := joinLink(h.cfg.GetBaseURL(), "activate", activationToken)
	go h.sendSignupMail(user, activationURL)

	h.logger.Info("user created", "user_id", user.ID, "email", user.Email)

	if event.OnResponse != nil {
		event.OnResponse(&SignupResponse{
			User:  PublicUser(user),
			Token: token,
		})
	}

	return nil
}

func (h *SignupHandler) sendSignupMail(user *User, activationURL string) {
	ctx := context.Background()

	if err := h.mailer.SendWelcome(ctx, user); err != nil {
		h.logger.Warn("failed to send welcome mail", "error", err)
	}

	if err := h.mailer.SendActivationLink(ctx, user, activationURL); err != nil {
		h.logger.Warn("failed to send activation mail", "error", err)
	}
}

// joinLink builds a user-facing URL from a base origin and path segments.
func joinLink(base string, parts ...string) string {
	segments := append([]string{strings.TrimRight(base, "/")}, parts...)
	return strings.Join(segments, "/")
}

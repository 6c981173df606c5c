package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	SessionFromToken(raw string) (*Session, error)
	CurrentUser(ctx context.Context, session *Session) (*User, error)
}

// LoginResult is what a successful login hands back to the transport layer:
// the public user projection and an opaque session token. Whether the token
// travels as a cookie or a bearer header is the caller's decision.
type LoginResult struct {
	User  *UserInfo `json:"user"`
	Token string    `json:"token"`
}

// Auther implements Authenticator over the user store and token service.
type Auther struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens TokenService) *Auther {
	return &Auther{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies the email/password pair and issues a session assertion.
// Unknown email and wrong password produce the identical error: callers get
// no signal about which accounts exist.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Debug("Login rejected unknown email")
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Debug("Login rejected bad password", "user_id", user.ID)
		return nil, ErrMismatchedHashAndPassword
	}

	token, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		s.logger.Error("Login failed to issue session", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue session")
	}

	return &LoginResult{
		User:  PublicUser(user),
		Token: token,
	}, nil
}

// SessionFromToken validates a raw session assertion.
func (s *Auther) SessionFromToken(raw string) (*Session, error) {
	return s.tokens.Validate(raw)
}

// CurrentUser resolves the user record behind a verified session.
func (s *Auther) CurrentUser(ctx context.Context, session *Session) (*User, error) {
	if session == nil {
		return nil, ErrInvalidSession
	}

	user, err := s.repo.Users().GetByID(ctx, session.GetUserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidSession
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve session user")
	}

	return user, nil
}

var _ Authenticator = (*Auther)(nil)

package accounts

import (
	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside rich errors so callers can branch without
// string-matching messages.
const (
	TextCodeInvalidCredentials     = "INVALID_CREDENTIALS"
	TextCodeInvalidSession         = "INVALID_SESSION"
	TextCodeEmailTaken             = "EMAIL_TAKEN"
	TextCodeInvalidActivationToken = "INVALID_ACTIVATION_TOKEN"
	TextCodeInvalidResetToken      = "INVALID_RESET_TOKEN"
	TextCodePasswordMismatch       = "PASSWORD_CONFIRM_MISMATCH"
	TextCodePasswordReused         = "PASSWORD_REUSED"
	TextCodeWeakPassword           = "WEAK_PASSWORD"
	TextCodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
)

// ErrNoEmptyString rejects empty plaintext before it reaches the hasher
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput)

// ErrMismatchedHashAndPassword is the single credential failure returned for
// unknown email, wrong password, or an unreadable stored hash. Keeping one
// error shape means callers cannot probe which accounts exist.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredentials)

// ErrInvalidSession is returned for every session assertion failure: expired,
// malformed, or bad signature. The reason is logged, never surfaced.
var ErrInvalidSession = errors.New("invalid session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidSession)

// ErrEmailTaken is the signup conflict for an email already on file
var ErrEmailTaken = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// ErrInvalidActivationToken covers unknown, already used, and stale
// activation tokens alike.
var ErrInvalidActivationToken = errors.New("invalid or expired activation token", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidActivationToken)

// ErrInvalidResetToken covers unknown and expired reset tokens alike.
var ErrInvalidResetToken = errors.New("invalid or expired password reset token", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidResetToken)

// ErrPasswordConfirmMismatch rejects a reset whose confirmation does not
// match the new password. Finalize treats this as not-acceptable rather than
// plain bad input so clients can re-render just the confirmation field.
var ErrPasswordConfirmMismatch = errors.New("password confirmation does not match", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch)

// ErrPasswordConfirmInvalid is the bad-input variant used by the
// authenticated update flow.
var ErrPasswordConfirmInvalid = errors.New("password confirmation does not match", errors.CategoryBadInput).
	WithTextCode(TextCodePasswordMismatch)

// ErrPasswordReused rejects an update where the new password equals the
// current one.
var ErrPasswordReused = errors.New("new password must be different from the current password", errors.CategoryBadInput).
	WithTextCode(TextCodePasswordReused)

// ErrAccountNotFound is returned by forgot-password for an unknown email.
// This leaks account existence on purpose; see DESIGN.md, it is a recorded
// product decision rather than an oversight.
var ErrAccountNotFound = errors.New("no account with that email", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeAccountNotFound)

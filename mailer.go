package accounts

import "context"

// Mailer is the outbound notification port. Implementations deliver
// transactional email; the core treats every dispatch as fire-and-forget
// except the reset link, whose failure triggers a compensating rollback.
type Mailer interface {
	SendWelcome(ctx context.Context, user *User) error
	SendActivationLink(ctx context.Context, user *User, url string) error
	SendActivationConfirmation(ctx context.Context, user *User) error
	SendPasswordResetLink(ctx context.Context, email, url string) error
	SendPasswordResetConfirmation(ctx context.Context, user *User) error
	SendPasswordUpdateConfirmation(ctx context.Context, user *User) error
}

// LogMailer writes every notification through the logger instead of
// delivering it. Useful in development and as the default until a real
// transport is wired in.
type LogMailer struct {
	logger Logger
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendWelcome(ctx context.Context, user *User) error {
	m.logger.Info("mail to=%s subject=%q", user.Email, "Welcome! "+user.FirstName)
	return nil
}

func (m *LogMailer) SendActivationLink(ctx context.Context, user *User, url string) error {
	m.logger.Info("mail to=%s subject=%q link=%s", user.Email, "Activate your account", url)
	return nil
}

func (m *LogMailer) SendActivationConfirmation(ctx context.Context, user *User) error {
	m.logger.Info("mail to=%s subject=%q", user.Email, "Your account is active")
	return nil
}

func (m *LogMailer) SendPasswordResetLink(ctx context.Context, email, url string) error {
	m.logger.Info("mail to=%s subject=%q link=%s", email, "Your password reset token (valid for only 10 minutes)", url)
	return nil
}

func (m *LogMailer) SendPasswordResetConfirmation(ctx context.Context, user *User) error {
	m.logger.Info("mail to=%s subject=%q", user.Email, "Password Changed!")
	return nil
}

func (m *LogMailer) SendPasswordUpdateConfirmation(ctx context.Context, user *User) error {
	m.logger.Info("mail to=%s subject=%q", user.Email, "Password Updated!")
	return nil
}

var _ Mailer = (*LogMailer)(nil)

package accounts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the verified content of a session assertion. It is ephemeral,
// never persisted, and carries just enough to identify the caller.
type Session struct {
	UserID    string     `json:"user_id,omitempty"`
	Issuer    string     `json:"issuer,omitempty"`
	Audience  []string   `json:"audience,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// GetUserID returns the authenticated user id.
func (s *Session) GetUserID() string {
	return s.UserID
}

// GetUserUUID parses the user id as a UUID.
func (s *Session) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s Session) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("user=%s aud=%v iss=%s iat=%s", s.UserID, s.Audience, s.Issuer, issuedAt)
}

// sessionFromClaims builds a Session from validated claims.
func sessionFromClaims(claims *SessionClaims) (*Session, error) {
	if claims == nil {
		return nil, ErrInvalidSession
	}

	var audience []string
	if claims.RegisteredClaims.Audience != nil {
		audience = append(audience, claims.RegisteredClaims.Audience...)
	}

	issuedAt := claims.Issued()
	expiresAt := claims.Expires()

	return &Session{
		UserID:    claims.UserID(),
		Issuer:    claims.RegisteredClaims.Issuer,
		Audience:  audience,
		IssuedAt:  &issuedAt,
		ExpiresAt: &expiresAt,
	}, nil
}

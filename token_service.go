package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates session assertions.
type TokenService interface {
	Generate(userID string) (string, error)
	Validate(raw string) (*Session, error)
}

// TokenServiceImpl implements TokenService with HMAC-SHA256 signatures.
type TokenServiceImpl struct {
	signingKey []byte
	sessionTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, sessionTTL time.Duration, issuer string, audience []string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		sessionTTL: sessionTTL,
		issuer:     issuer,
		audience:   audience,
		logger:     logger,
	}
}

// Generate signs a session assertion for the given user id.
func (ts *TokenServiceImpl) Generate(userID string) (string, error) {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.sessionTTL)),
		},
		UID: userID,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary session claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", ErrInvalidSession
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		ts.logger.Error("TokenService failed to sign session assertion", "error", err)
		return "", err
	}

	return signedString, nil
}

// Validate parses and verifies an assertion, returning the embedded session.
// Expired, malformed, and forged tokens are indistinguishable to the caller:
// every failure is ErrInvalidSession, with the reason logged at debug only.
func (ts *TokenServiceImpl) Validate(raw string) (*Session, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("TokenService rejected session assertion", "reason", err)
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		ts.logger.Debug("TokenService could not decode session claims")
		return nil, ErrInvalidSession
	}

	return sessionFromClaims(claims)
}

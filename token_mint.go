package accounts

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/goliatone/go-errors"
)

// opaqueTokenBytes gives 256 bits of entropy per token.
const opaqueTokenBytes = 32

// NewOpaqueToken mints a random, URL-safe token for activation and password
// reset links. The raw value is shown to the user exactly once and never
// stored; persist only its fingerprint.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate opaque token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokenFingerprint returns the SHA-256 hex digest of a token. Deterministic,
// one-way: the fingerprint is the storage and lookup key, and possessing the
// database alone is not enough to forge a valid token.
func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package accounts

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hash latency for brute-force resistance. Passwords are
// capped at 32 chars by policy, well under bcrypt's 72-byte input limit.
const bcryptCost = 12

// HashPassword will generate a salted password hash. The salt is embedded in
// the output, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the stored hash. Every failure mode, including a malformed stored hash,
// collapses into ErrMismatchedHashAndPassword so the caller never learns
// more than "no".
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a placeholder hash for accounts provisioned without
// a password, e.g. admin-created records pending a reset.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

package accounts

import (
	"errors"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

// PasswordRules is the shared rule set for any field that accepts a new
// password: signup, reset, and authenticated update. Policy runs before any
// hashing happens.
func PasswordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 32),
		validation.By(ValidatePasswordStrength),
	}
}

// ValidatePasswordStrength enforces the character-class policy: at least one
// uppercase, one lowercase, and one digit or symbol.
func ValidatePasswordStrength(value any) error {
	password, _ := value.(string)

	var hasUpper, hasLower, hasDigitOrSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			hasDigitOrSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigitOrSymbol {
		return errors.New("must contain an uppercase letter, a lowercase letter, and a digit or symbol")
	}

	return nil
}

// ValidateStringEquals builds a rule asserting the value matches str.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("value does not match")
		}
		return nil
	}
}

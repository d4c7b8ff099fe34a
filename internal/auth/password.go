package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 12

// ValidatePassword checks password strength and returns the first failing
// rule's message, or "" if the password is acceptable.
func ValidatePassword(plain string) string {
	if len(plain) < minPasswordLength {
		return "password must be at least 12 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range plain {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return "password must contain an uppercase letter"
	case !hasLower:
		return "password must contain a lowercase letter"
	case !hasDigit:
		return "password must contain a digit"
	case !hasSymbol:
		return "password must contain a symbol"
	}
	return ""
}

// HashPassword creates a bcrypt hash of a password for storage.
func HashPassword(plain string) (string, error) {
	// Use bcrypt cost 12
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a bcrypt hash.
func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

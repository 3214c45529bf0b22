package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// MinSecretLength is the shortest signing secret accepted outside development.
const MinSecretLength = 32

// knownWeakSecrets are values that have shipped as defaults somewhere and must
// be treated as public.
var knownWeakSecrets = map[string]struct{}{
	"default-secret-change-me": {},
	"secret":                   {},
	"changeme":                 {},
}

// CheckSecret tells a missing secret apart from one that is present but weak.
func CheckSecret(secret []byte) error {
	if len(secret) == 0 {
		return ErrMissingSecret
	}
	if _, known := knownWeakSecrets[string(secret)]; known {
		return fmt.Errorf("%w: value is a published default", ErrWeakSecret)
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrWeakSecret, len(secret), MinSecretLength)
	}
	return nil
}

// GenerateSecret returns n random bytes as unpadded base64url text.
func GenerateSecret(n int) (string, error) {
	if n < MinSecretLength {
		return "", fmt.Errorf("%w: secret length must be >= %d, got %d", ErrInvalidOption, MinSecretLength, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("auth: generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

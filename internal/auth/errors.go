package auth

import "errors"

var (
	ErrMissingSecret = errors.New("auth: signing secret is not configured")
	ErrWeakSecret    = errors.New("auth: signing secret is too weak")
	ErrInvalidOption = errors.New("auth: invalid option value")
	ErrInvalidTTL    = errors.New("auth: invalid ttl")
	// ErrKDF wraps failures of the key derivation itself (for example an
	// allocation the runtime refused). It is never returned for a wrong password.
	ErrKDF = errors.New("auth: key derivation failed")
)

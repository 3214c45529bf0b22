package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultScryptN, DefaultScryptR and DefaultScryptP match the parameters
	// existing stored credentials were produced with (N=2^14, r=8, p=1).
	DefaultScryptN = 1 << 14
	DefaultScryptR = 8
	DefaultScryptP = 1

	DefaultKeyLen  = 64
	DefaultSaltLen = 16

	MinKeyLen  = 32
	MinSaltLen = 16

	credentialSeparator = ":"
)

// HasherOptions configures a Hasher.
type HasherOptions struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
	// MaxConcurrent bounds how many derivations run at once. Each scrypt call
	// needs 128*N*R bytes of working memory (16 MiB with the defaults).
	MaxConcurrent int64
}

func DefaultHasherOptions() HasherOptions {
	return HasherOptions{
		N:             DefaultScryptN,
		R:             DefaultScryptR,
		P:             DefaultScryptP,
		KeyLen:        DefaultKeyLen,
		SaltLen:       DefaultSaltLen,
		MaxConcurrent: int64(runtime.GOMAXPROCS(0)),
	}
}

func validateHasherOptions(opts HasherOptions) error {
	if opts.N <= 1 || opts.N&(opts.N-1) != 0 {
		return fmt.Errorf("%w: scrypt N must be a power of two > 1, got %d", ErrInvalidOption, opts.N)
	}
	if opts.R < 1 || opts.P < 1 {
		return fmt.Errorf("%w: scrypt r and p must be >= 1, got r=%d p=%d", ErrInvalidOption, opts.R, opts.P)
	}
	if opts.KeyLen < MinKeyLen {
		return fmt.Errorf("%w: key length must be >= %d, got %d", ErrInvalidOption, MinKeyLen, opts.KeyLen)
	}
	if opts.SaltLen < MinSaltLen {
		return fmt.Errorf("%w: salt length must be >= %d, got %d", ErrInvalidOption, MinSaltLen, opts.SaltLen)
	}
	if opts.MaxConcurrent < 1 {
		return fmt.Errorf("%w: max concurrent derivations must be >= 1, got %d", ErrInvalidOption, opts.MaxConcurrent)
	}
	return nil
}

// Hasher turns passwords into "<hex salt>:<hex key>" credentials and checks
// passwords against them.
type Hasher struct {
	opts  HasherOptions
	slots *semaphore.Weighted
	// decoySalt is derived against when a stored credential cannot be parsed,
	// so that path costs one derivation like a wrong password does.
	decoySalt string
}

func NewHasher(opts HasherOptions) (*Hasher, error) {
	if err := validateHasherOptions(opts); err != nil {
		return nil, err
	}
	return &Hasher{
		opts:      opts,
		slots:     semaphore.NewWeighted(opts.MaxConcurrent),
		decoySalt: strings.Repeat("0", 2*opts.SaltLen),
	}, nil
}

func (h *Hasher) Options() HasherOptions { return h.opts }

// Hash derives a credential from password with a fresh random salt. Two calls
// with the same password never return the same string.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	raw := make([]byte, h.opts.SaltLen)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	key, err := h.derive(ctx, password, salt)
	if err != nil {
		return "", err
	}
	return salt + credentialSeparator + hex.EncodeToString(key), nil
}

// Verify reports whether password matches stored. A stored value that cannot
// be parsed is a mismatch, not an error; errors are reserved for the
// derivation itself failing or ctx ending while waiting for a slot.
func (h *Hasher) Verify(ctx context.Context, password, stored string) (bool, error) {
	salt, expected, ok := parseCredential(stored)
	if !ok {
		if _, err := h.derive(ctx, password, h.decoySalt); err != nil {
			return false, err
		}
		return false, nil
	}
	key, err := h.derive(ctx, password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// derive runs scrypt with the hex text of the salt as the salt input.
func (h *Hasher) derive(ctx context.Context, password, salt string) ([]byte, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("auth: wait for kdf slot: %w", err)
	}
	defer h.slots.Release(1)

	key, err := scrypt.Key([]byte(password), []byte(salt), h.opts.N, h.opts.R, h.opts.P, h.opts.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKDF, err)
	}
	return key, nil
}

func parseCredential(stored string) (salt string, key []byte, ok bool) {
	salt, encodedKey, found := strings.Cut(stored, credentialSeparator)
	if !found || salt == "" || encodedKey == "" {
		return "", nil, false
	}
	if _, err := hex.DecodeString(salt); err != nil {
		return "", nil, false
	}
	key, err := hex.DecodeString(encodedKey)
	if err != nil {
		return "", nil, false
	}
	return salt, key, true
}

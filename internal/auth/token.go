package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimExpiry is the claim the codec owns: absolute expiry in unix seconds.
const ClaimExpiry = "exp"

// Claims is the open claim set carried by a token.
type Claims map[string]any

// String returns the claim under key when it is a non-empty string.
func (c Claims) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok && s != ""
}

type CodecOption func(*Codec)

// WithClock replaces time.Now as the codec's source of "now".
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// Codec issues and verifies HS256 tokens with a single process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
		// exp is checked by Verify itself: jwt's own validation also judges
		// nbf/iat, which this codec never sets. Strict decoding rejects
		// segments whose unused trailing bits were altered.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs claims with exp set to now+ttl. A caller supplied exp is
// overwritten.
func (c *Codec) Issue(claims Claims, ttl TTL) (string, error) {
	payload := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		payload[k] = v
	}
	payload[ClaimExpiry] = c.now().Unix() + ttl.Seconds()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the claims of a token this codec signed and that has not
// expired. Every other outcome is (nil, false).
func (c *Codec) Verify(token string) (Claims, bool) {
	if !wellFormed(token) {
		return nil, false
	}
	payload := jwt.MapClaims{}
	if _, err := c.parser.ParseWithClaims(token, payload, c.key); err != nil {
		return nil, false
	}
	exp, err := payload.GetExpirationTime()
	if err != nil {
		return nil, false
	}
	// Tokens without exp never expire; Issue always sets one.
	if exp != nil && exp.Unix() < c.now().Unix() {
		return nil, false
	}
	return Claims(payload), true
}

func (c *Codec) key(*jwt.Token) (any, error) { return c.secret, nil }

// DecodePayload returns a token's claims without checking its signature or
// expiry. Tokens are signed, not encrypted: anyone holding one can read it.
func DecodePayload(token string) (Claims, error) {
	if !wellFormed(token) {
		return nil, fmt.Errorf("auth: token must have three non-empty segments")
	}
	payload := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, payload); err != nil {
		return nil, fmt.Errorf("auth: decode token: %w", err)
	}
	return Claims(payload), nil
}

func wellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastHasherOpts keeps scrypt cheap for unit tests. Do not use in production.
func fastHasherOpts() HasherOptions {
	return HasherOptions{N: 16, R: 8, P: 1, KeyLen: MinKeyLen, SaltLen: MinSaltLen, MaxConcurrent: 2}
}

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(fastHasherOpts())
	require.NoError(t, err)
	return h
}

func TestNewHasher_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HasherOptions)
	}{
		{"N=1", func(o *HasherOptions) { o.N = 1 }},
		{"N not power of two", func(o *HasherOptions) { o.N = 1000 }},
		{"r=0", func(o *HasherOptions) { o.R = 0 }},
		{"p=0", func(o *HasherOptions) { o.P = 0 }},
		{"key too short", func(o *HasherOptions) { o.KeyLen = 16 }},
		{"salt too short", func(o *HasherOptions) { o.SaltLen = 8 }},
		{"no slots", func(o *HasherOptions) { o.MaxConcurrent = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fastHasherOpts()
			tt.mutate(&opts)
			_, err := NewHasher(opts)
			assert.ErrorIs(t, err, ErrInvalidOption)
		})
	}
}

func TestDefaultHasherOptions(t *testing.T) {
	opts := DefaultHasherOptions()
	assert.Equal(t, 16384, opts.N)
	assert.Equal(t, 8, opts.R)
	assert.Equal(t, 1, opts.P)
	assert.Equal(t, 64, opts.KeyLen)
	assert.Equal(t, 16, opts.SaltLen)
	assert.GreaterOrEqual(t, opts.MaxConcurrent, int64(1))
	assert.NoError(t, validateHasherOptions(opts))
}

func TestHash_Format(t *testing.T) {
	h := newTestHasher(t)

	stored, err := h.Hash(context.Background(), "correct horse")
	require.NoError(t, err)

	salt, key, ok := strings.Cut(stored, ":")
	require.True(t, ok)
	assert.Len(t, salt, 2*MinSaltLen)
	assert.Len(t, key, 2*MinKeyLen)
	assert.Equal(t, strings.ToLower(stored), stored)
	assert.NotContains(t, stored, "correct horse")
}

func TestHash_IsSaltedAndVerifies(t *testing.T) {
	ctx := context.Background()
	h := newTestHasher(t)

	first, err := h.Hash(ctx, "hunter2")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, stored := range []string{first, second} {
		ok, err := h.Verify(ctx, "hunter2", stored)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify(ctx, "hunter3", stored)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHash_EmptyPasswordIsNotRejected(t *testing.T) {
	ctx := context.Background()
	h := newTestHasher(t)

	stored, err := h.Hash(ctx, "")
	require.NoError(t, err)
	ok, err := h.Verify(ctx, "", stored)
	require.NoError(t, err)
	assert.True(t, ok)
}

// Key comparison goes through subtle.ConstantTimeCompare; only results are
// checked here, not timing.
func TestVerify_ExistingCredential(t *testing.T) {
	if testing.Short() {
		t.Skip("runs scrypt with production parameters")
	}
	h, err := NewHasher(DefaultHasherOptions())
	require.NoError(t, err)

	// produced by the previous deployment for the password "hunter2"
	stored := "00112233445566778899aabbccddeeff:" +
		"67bf50310292c39d1895ee3bf25c3ac2535ab2d2645950e4ade8ed0c9c8ec168" +
		"02e3950e7be8c5dd813e97b2f90ff8f64637abb6898d92fd8a16d09be91ed861"

	ok, err := h.Verify(context.Background(), "hunter2", stored)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(context.Background(), "Hunter2", stored)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedStoredValue(t *testing.T) {
	ctx := context.Background()
	h := newTestHasher(t)
	valid, err := h.Hash(ctx, "pw")
	require.NoError(t, err)
	salt, key, _ := strings.Cut(valid, ":")

	cases := map[string]string{
		"empty":           "",
		"no separator":    salt + key,
		"empty salt":      ":" + key,
		"empty key":       salt + ":",
		"extra separator": salt + ":" + key + ":" + key,
		"salt not hex":    "zz" + salt[2:] + ":" + key,
		"key not hex":     salt + ":" + "zz" + key[2:],
		"odd key length":  salt + ":" + key[1:],
		"truncated key":   salt + ":" + key[:len(key)-2],
		"bcrypt string":   "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			var ok bool
			var err error
			require.NotPanics(t, func() { ok, err = h.Verify(ctx, "pw", stored) })
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHasher_ContextCancelledWhileWaitingForSlot(t *testing.T) {
	opts := fastHasherOpts()
	opts.MaxConcurrent = 1
	h, err := NewHasher(opts)
	require.NoError(t, err)

	require.NoError(t, h.slots.Acquire(context.Background(), 1))
	defer h.slots.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := h.Verify(ctx, "pw", "00:00")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestHasher_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	h := newTestHasher(t)
	stored, err := h.Hash(ctx, "shared")
	require.NoError(t, err)

	errs := make(chan error, 16)
	results := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		go func() {
			ok, err := h.Verify(ctx, "shared", stored)
			errs <- err
			results <- ok
		}()
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-errs)
		assert.True(t, <-results)
	}
}

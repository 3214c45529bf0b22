// Package auth holds the authentication core: salted scrypt password hashing
// and stateless HS256 session tokens.
//
// Both halves are safe for concurrent use. Negative outcomes are plain
// (false / invalid) results so callers cannot tell a malformed input from a
// cryptographic mismatch; only environment failures surface as errors.
package auth

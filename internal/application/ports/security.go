package ports

// PasswordHasher hashes and verifies passwords (Argon2id). Hash is salted:
// two calls with the same input yield different encodings, and both verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenSource mints opaque identifiers for sessions and reset flows. Tokens
// carry at least 128 bits of entropy so collisions are implausible across the
// process lifetime.
type TokenSource interface {
	NewToken() (string, error)
}

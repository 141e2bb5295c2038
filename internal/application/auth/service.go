// Package auth implements the credential-management core: registration,
// login verification, session lifecycle, and the password-reset flow. It owns
// all business rules and delegates hashing, token minting, and persistence to
// injected ports.
package auth

import (
	"github.com/gatehouse/gatehouse/internal/application/ports"
)

// Service orchestrates the user store, the password hasher, and the token
// source. It keeps no state beyond the injected handles and performs no
// internal concurrency; each operation is a short synchronous sequence of
// store accesses and is safe to call from many goroutines at once.
type Service struct {
	store  ports.UserStore
	hasher ports.PasswordHasher
	tokens ports.TokenSource
}

// NewService builds the auth service from its collaborators.
func NewService(store ports.UserStore, hasher ports.PasswordHasher, tokens ports.TokenSource) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

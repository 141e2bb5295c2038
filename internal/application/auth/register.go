package auth

import (
	"context"
	"errors"

	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
)

// Register creates a new user with a hashed password, no session, and no
// pending reset. Returns domain errors.ErrAlreadyRegistered when an account
// with the email exists; the store's uniqueness constraint is kept as a final
// guard against a concurrent registration slipping past the pre-check.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	existing, err := s.store.FindUser(ctx, ports.ByEmail(email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrAlreadyRegistered
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := s.store.AddUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, domerrors.ErrDuplicateEmail) {
			return nil, domerrors.ErrAlreadyRegistered
		}
		return nil, err
	}
	return user, nil
}

// VerifyLogin reports whether the password matches the stored credential for
// the email. An unknown email is (false, nil), not an error. No side effects.
func (s *Service) VerifyLogin(ctx context.Context, email, password string) (bool, error) {
	user, err := s.store.FindUser(ctx, ports.ByEmail(email))
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.hasher.Verify(password, user.HashedPassword), nil
}

package auth

import (
	"context"
	"errors"

	"github.com/gatehouse/gatehouse/internal/application/ports"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
)

// RequestPasswordReset mints a reset token for the email and stores it,
// overwriting any pending token: only the most recently issued reset token is
// valid. Returns domain errors.ErrUnknownUser when the email has no account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindUser(ctx, ports.ByEmail(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domerrors.ErrUnknownUser
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateUser(ctx, user.ID, ports.Updates{ports.FieldResetToken: &token}); err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			return "", domerrors.ErrUnknownUser
		}
		return "", err
	}
	return token, nil
}

// CompletePasswordReset replaces the user's password and consumes the reset
// token in one atomic update, so the token is single-use. An empty or unknown
// token is domain errors.ErrInvalidResetToken. Any active session survives a
// completed reset.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domerrors.ErrInvalidResetToken
	}
	user, err := s.store.FindUser(ctx, ports.ByResetToken(token))
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrInvalidResetToken
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	err = s.store.UpdateUser(ctx, user.ID, ports.Updates{
		ports.FieldHashedPassword: &hash,
		ports.FieldResetToken:     nil,
	})
	if err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			return domerrors.ErrInvalidResetToken
		}
		return err
	}
	return nil
}

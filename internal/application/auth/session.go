package auth

import (
	"context"
	"errors"

	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
)

// CreateSession mints a session token for the email and stores it on the
// user record, overwriting any prior token: at most one session is live per
// user, and only the most recently issued token resolves. An unknown email
// yields ("", nil); the caller treats the empty token as an auth failure.
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindUser(ctx, ports.ByEmail(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateUser(ctx, user.ID, ports.Updates{ports.FieldSessionID: &token}); err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			// The record vanished between fetch and update; same quiet
			// failure as an unknown email.
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// ResolveSession returns the user bound to the session token, or (nil, nil)
// when the token is empty or matches nobody. No side effects; this runs on
// every authenticated request.
func (s *Service) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	return s.store.FindUser(ctx, ports.BySessionID(token))
}

// DestroySession clears the user's session token. Clearing an already-absent
// session is a no-op; an unknown user id is ErrUnknownUser.
func (s *Service) DestroySession(ctx context.Context, id domain.UserID) error {
	if err := s.store.UpdateUser(ctx, id, ports.Updates{ports.FieldSessionID: nil}); err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			return domerrors.ErrUnknownUser
		}
		return err
	}
	return nil
}

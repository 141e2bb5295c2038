// Package memory provides an in-process UserStore suitable for
// single-instance deployments and tests. For multi-instance, use the
// postgres store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
)

// Store keeps user records in a mutex-guarded map. All mutations happen
// under the write lock, so a multi-field update is atomic with respect to
// concurrent lookups and updates.
type Store struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{users: make(map[domain.UserID]*domain.User)}
}

// FindUser returns a copy of the matching record, or (nil, nil) when no user
// matches the criterion.
func (s *Store) FindUser(_ context.Context, c ports.Criterion) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if matches(u, c) {
			return clone(u), nil
		}
	}
	return nil, nil
}

// AddUser assigns an id and persists a new record. The email uniqueness
// check runs under the write lock, so it holds even against concurrent adds.
func (s *Store) AddUser(_ context.Context, email, hashedPassword string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, domerrors.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user := &domain.User{
		ID:             domain.NewUserID(uuid.New()),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[user.ID] = user
	return clone(user), nil
}

// UpdateUser applies all field updates in one critical section.
func (s *Store) UpdateUser(_ context.Context, id domain.UserID, updates ports.Updates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	for field, value := range updates {
		switch field {
		case ports.FieldHashedPassword:
			if value != nil {
				u.HashedPassword = *value
			}
		case ports.FieldSessionID:
			u.SessionID = copyPtr(value)
		case ports.FieldResetToken:
			u.ResetToken = copyPtr(value)
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func matches(u *domain.User, c ports.Criterion) bool {
	switch c.Field() {
	case ports.FieldSessionID:
		return u.SessionID != nil && *u.SessionID == c.Value()
	case ports.FieldResetToken:
		return u.ResetToken != nil && *u.ResetToken == c.Value()
	default:
		return u.Email == c.Value()
	}
}

// clone returns a deep copy so callers never alias store-owned state.
func clone(u *domain.User) *domain.User {
	out := *u
	out.SessionID = copyPtr(u.SessionID)
	out.ResetToken = copyPtr(u.ResetToken)
	return &out
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ ports.UserStore = (*Store)(nil)

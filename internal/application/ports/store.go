package ports

import (
	"context"

	"github.com/gatehouse/gatehouse/internal/domain"
)

// Field names a mutable column of a user record. The set is closed so store
// implementations can whitelist columns instead of trusting caller strings.
type Field string

const (
	FieldHashedPassword Field = "hashed_password"
	FieldSessionID      Field = "session_id"
	FieldResetToken     Field = "reset_token"
)

// Updates maps fields to new values. A nil value clears a nullable field.
// A store must apply all entries of one call atomically.
type Updates map[Field]*string

// Criterion names a lookup key for FindUser. Closed variant: users are found
// by email, session token, or reset token, nothing else.
type Criterion struct {
	field Field
	value string
}

// ByEmail looks a user up by email address.
func ByEmail(email string) Criterion { return Criterion{field: "email", value: email} }

// BySessionID looks a user up by active session token.
func BySessionID(token string) Criterion { return Criterion{field: FieldSessionID, value: token} }

// ByResetToken looks a user up by pending password-reset token.
func ByResetToken(token string) Criterion { return Criterion{field: FieldResetToken, value: token} }

// Field returns the column the criterion matches on.
func (c Criterion) Field() Field { return c.field }

// Value returns the value the criterion matches against.
func (c Criterion) Value() string { return c.value }

// UserStore defines persistence for user records. The auth service holds no
// record past a single operation; every lookup goes back to the store.
//
// FindUser returns (nil, nil) when no user matches — absence is an expected
// outcome, not an error. AddUser assigns the id and enforces email uniqueness
// as a final guard (domain errors.ErrDuplicateEmail). UpdateUser applies all
// given fields atomically and returns errors.ErrUserNotFound for an unknown
// id. Implementations must provide at least read-committed isolation between
// FindUser and UpdateUser.
type UserStore interface {
	FindUser(ctx context.Context, c Criterion) (*domain.User, error)
	AddUser(ctx context.Context, email, hashedPassword string) (*domain.User, error)
	UpdateUser(ctx context.Context, id domain.UserID, updates Updates) error
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// ParseUserID parses the canonical string form of a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID{UUID: id}, nil
}

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is a credential record. HashedPassword is the PHC-encoded digest;
// the plaintext never touches this struct. SessionID is non-nil iff the user
// has an active session, ResetToken non-nil iff a password reset is pending.
// Both tokens are opaque and bound to exactly one user.
type User struct {
	ID             UserID
	Email          string
	HashedPassword string
	SessionID      *string
	ResetToken     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasSession reports whether the user holds a live session token.
func (u *User) HasSession() bool { return u.SessionID != nil && *u.SessionID != "" }

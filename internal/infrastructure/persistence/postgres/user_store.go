// Package postgres implements the user store on PostgreSQL via pgx.
//
// Reference schema:
//
//	CREATE TABLE users (
//	    id              UUID PRIMARY KEY,
//	    email           TEXT NOT NULL UNIQUE,
//	    hashed_password TEXT NOT NULL,
//	    session_id      TEXT UNIQUE,
//	    reset_token     TEXT UNIQUE,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gatehouse/gatehouse/internal/application/ports"
	"github.com/gatehouse/gatehouse/internal/domain"
	domerrors "github.com/gatehouse/gatehouse/internal/domain/errors"
)

const userColumns = "id, email, hashed_password, session_id, reset_token, created_at, updated_at"

// lookupColumns whitelists the columns a Criterion may match on.
var lookupColumns = map[ports.Field]string{
	"email":               "email",
	ports.FieldSessionID:  "session_id",
	ports.FieldResetToken: "reset_token",
}

// updateColumns whitelists the columns UpdateUser may touch.
var updateColumns = map[ports.Field]string{
	ports.FieldHashedPassword: "hashed_password",
	ports.FieldSessionID:      "session_id",
	ports.FieldResetToken:     "reset_token",
}

// updateOrder fixes the SET-clause ordering so generated SQL is stable.
var updateOrder = []ports.Field{ports.FieldHashedPassword, ports.FieldSessionID, ports.FieldResetToken}

// DB is the slice of pgxpool.Pool the store needs. pgxmock satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserStore implements ports.UserStore on PostgreSQL. Single-statement
// operations; the UPDATE applies all its fields atomically and the email
// uniqueness constraint is the final guard behind the service's pre-check.
type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindUser(ctx context.Context, c ports.Criterion) (*domain.User, error) {
	col, ok := lookupColumns[c.Field()]
	if !ok {
		return nil, fmt.Errorf("unsupported lookup field %q", c.Field())
	}
	row := s.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, col),
		c.Value())
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return user, nil
}

func (s *UserStore) AddUser(ctx context.Context, email, hashedPassword string) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{
		ID:             domain.NewUserID(uuid.New()),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, email, hashed_password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID.UUID, user.Email, user.HashedPassword, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domerrors.ErrDuplicateEmail
		}
		return nil, storeErr(err)
	}
	return user, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id domain.UserID, updates ports.Updates) error {
	if len(updates) == 0 {
		return nil
	}
	sets := []string{"updated_at = $1"}
	args := []any{time.Now()}
	for _, field := range updateOrder {
		value, present := updates[field]
		if !present {
			continue
		}
		col, ok := updateColumns[field]
		if !ok {
			return fmt.Errorf("unsupported update field %q", field)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id.UUID)
	tag, err := s.db.Exec(ctx,
		fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id   uuid.UUID
		user domain.User
	)
	err := row.Scan(&id, &user.Email, &user.HashedPassword, &user.SessionID, &user.ResetToken,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ID = domain.NewUserID(id)
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// storeErr marks persistence failures so the service layer and handlers can
// match on domain errors.ErrStoreUnavailable without seeing driver details.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domerrors.ErrStoreUnavailable, err)
}

var _ ports.UserStore = (*UserStore)(nil)

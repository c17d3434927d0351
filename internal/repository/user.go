package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eastbayacademics/tutoring-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Email        *string
	PasswordHash *string
}

type userSQLiteRepository struct {
	db *sql.DB
}

// NewUserSQLiteRepository creates a SQLite-backed user repository.
func NewUserSQLiteRepository(store *Store) UserRepository {
	return &userSQLiteRepository{db: store.DB()}
}

func (r *userSQLiteRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		toMillis(user.CreatedAt), toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return user, nil
}

func (r *userSQLiteRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id)
}

func (r *userSQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE username = ?`, username)
}

func (r *userSQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, email)
}

func (r *userSQLiteRepository) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		user      model.User
		createdAt int64
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)

	return &user, nil
}

func (r *userSQLiteRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	// Build update statement
	set := ""
	args := []any{}
	if params.Email != nil {
		set += "email = ?, "
		args = append(args, *params.Email)
	}
	if params.PasswordHash != nil {
		set += "password_hash = ?, "
		args = append(args, *params.PasswordHash)
	}

	if len(args) == 0 {
		return nil, errors.New("no user fields to update")
	}

	set += "updated_at = ?"
	args = append(args, toMillis(time.Now()), id)

	result, err := r.db.ExecContext(ctx, "UPDATE users SET "+set+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.GetUser(ctx, id)
}

func (r *userSQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

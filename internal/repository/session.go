package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eastbayacademics/tutoring-api/internal/model"
)

// SessionRepository defines the interface for session-related database operations.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) (*model.Session, error)
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions sweeps every session whose expiry has passed and
	// reports how many rows were removed.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type sessionSQLiteRepository struct {
	db *sql.DB
}

// NewSessionSQLiteRepository creates a SQLite-backed session repository.
func NewSessionSQLiteRepository(store *Store) SessionRepository {
	return &sessionSQLiteRepository{db: store.DB()}
}

func (r *sessionSQLiteRepository) CreateSession(
	ctx context.Context,
	session *model.Session,
) (*model.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now()

	remember := 0
	if session.Remember {
		remember = 1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, remember, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.UserID, remember,
		toMillis(session.ExpiresAt), toMillis(session.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *sessionSQLiteRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var (
		session   model.Session
		remember  int
		expiresAt int64
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, remember, expires_at, created_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.UserID, &remember, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	session.Remember = remember != 0
	session.ExpiresAt = fromMillis(expiresAt)
	session.CreatedAt = fromMillis(createdAt)

	return &session, nil
}

func (r *sessionSQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionSQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`,
		toMillis(time.Now()),
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

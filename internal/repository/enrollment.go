package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/eastbayacademics/tutoring-api/internal/model"
)

// EnrollmentRepository defines the interface for enrollment-related database
// operations. Class names are stored verbatim; validating them against the
// catalog is the caller's responsibility.
type EnrollmentRepository interface {
	// CreateEnrollment persists a new enrollment. It returns ErrDuplicate
	// when the user already holds an enrollment with the same name.
	CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, error)

	// ListEnrollmentsByUser returns every enrollment owned by the user.
	ListEnrollmentsByUser(ctx context.Context, userID string) ([]*model.Enrollment, error)

	// DeleteEnrollmentsByUserAndName deletes every enrollment of the user
	// matching name exactly and reports how many rows were removed.
	DeleteEnrollmentsByUserAndName(ctx context.Context, userID, name string) (int64, error)
}

type enrollmentSQLiteRepository struct {
	db *sql.DB
}

// NewEnrollmentSQLiteRepository creates a SQLite-backed enrollment repository.
func NewEnrollmentSQLiteRepository(store *Store) EnrollmentRepository {
	return &enrollmentSQLiteRepository{db: store.DB()}
}

func (r *enrollmentSQLiteRepository) CreateEnrollment(
	ctx context.Context,
	enrollment *model.Enrollment,
) (*model.Enrollment, error) {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	enrollment.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, name, user_id, created_at) VALUES (?, ?, ?, ?)`,
		enrollment.ID, enrollment.Name, enrollment.UserID, toMillis(enrollment.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}

	return enrollment, nil
}

func (r *enrollmentSQLiteRepository) ListEnrollmentsByUser(
	ctx context.Context,
	userID string,
) ([]*model.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, user_id, created_at FROM enrollments WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		var (
			enrollment model.Enrollment
			createdAt  int64
		)
		if err := rows.Scan(&enrollment.ID, &enrollment.Name, &enrollment.UserID, &createdAt); err != nil {
			return nil, err
		}
		enrollment.CreatedAt = fromMillis(createdAt)
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentSQLiteRepository) DeleteEnrollmentsByUserAndName(
	ctx context.Context,
	userID, name string,
) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE user_id = ? AND name = ?`,
		userID, name,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/repository"
)

// EnrollmentUsecase defines the business logic for the enrollment ledger.
type EnrollmentUsecase interface {
	// ListEnrollments returns the user's enrollments. Set semantics; the
	// order carries no meaning.
	ListEnrollments(ctx context.Context, user *model.User) ([]*model.Enrollment, error)

	// ListEnrollmentsByUsername resolves the named user and returns that
	// user's enrollments. Used by the public profile view.
	ListEnrollmentsByUsername(ctx context.Context, username string) (*model.User, []*model.Enrollment, error)

	// SignUp enrolls the user in the named class. A repeat signup for the
	// same class mutates nothing and reports SignUpAlreadyEnrolled.
	SignUp(ctx context.Context, user *model.User, className string) (SignUpOutcome, error)

	// Unregister removes every enrollment of the user matching className and
	// reports how many were removed. Zero removals is a committed no-op.
	Unregister(ctx context.Context, user *model.User, className string) (int64, error)
}

// SignUpOutcome tags the result of a signup attempt.
type SignUpOutcome int

const (
	// SignUpEnrolled means a new enrollment was created.
	SignUpEnrolled SignUpOutcome = iota
	// SignUpAlreadyEnrolled means the user already held the enrollment and
	// nothing was mutated or notified.
	SignUpAlreadyEnrolled
)

// ErrUserNotFound reports that a named user does not exist.
var ErrUserNotFound = errors.New("user not found")

type enrollmentUsecase struct {
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	notifier       Notifier
	logger         *zerolog.Logger
}

// NewEnrollmentUsecase creates a new instance of EnrollmentUsecase.
func NewEnrollmentUsecase(
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notifier Notifier,
	logger *zerolog.Logger,
) EnrollmentUsecase {
	return &enrollmentUsecase{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		logger:         logger,
	}
}

func (u *enrollmentUsecase) ListEnrollments(
	ctx context.Context,
	user *model.User,
) ([]*model.Enrollment, error) {
	return u.enrollmentRepo.ListEnrollmentsByUser(ctx, user.ID)
}

func (u *enrollmentUsecase) ListEnrollmentsByUsername(
	ctx context.Context,
	username string,
) (*model.User, []*model.Enrollment, error) {
	user, err := u.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	enrollments, err := u.enrollmentRepo.ListEnrollmentsByUser(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, enrollments, nil
}

func (u *enrollmentUsecase) SignUp(
	ctx context.Context,
	user *model.User,
	className string,
) (SignUpOutcome, error) {
	enrollments, err := u.enrollmentRepo.ListEnrollmentsByUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	for _, enrollment := range enrollments {
		if enrollment.Name == className {
			return SignUpAlreadyEnrolled, nil
		}
	}

	_, err = u.enrollmentRepo.CreateEnrollment(ctx, &model.Enrollment{
		Name:   className,
		UserID: user.ID,
	})
	if err != nil {
		// Two identical signups can both pass the scan above; the unique
		// constraint turns the loser into the same informational outcome.
		if errors.Is(err, repository.ErrDuplicate) {
			return SignUpAlreadyEnrolled, nil
		}
		return 0, err
	}

	if err := u.notifier.SendRegisteredEmail(user.Username, className); err != nil {
		u.logger.Error().Err(err).Str("class", className).Msg("failed to send registration email")
	}

	return SignUpEnrolled, nil
}

func (u *enrollmentUsecase) Unregister(
	ctx context.Context,
	user *model.User,
	className string,
) (int64, error) {
	removed, err := u.enrollmentRepo.DeleteEnrollmentsByUserAndName(ctx, user.ID, className)
	if err != nil {
		return 0, err
	}

	for i := int64(0); i < removed; i++ {
		if err := u.notifier.SendUnregisteredEmail(user.Username, className); err != nil {
			u.logger.Error().Err(err).Str("class", className).Msg("failed to send unregistration email")
		}
	}

	return removed, nil
}

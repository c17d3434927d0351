package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/repository"
	"github.com/eastbayacademics/tutoring-api/shared/security"
)

// AuthUsecase defines the business logic for registration, login and the
// session gate.
type AuthUsecase interface {
	// Register creates a new user. Usernames and emails are globally unique;
	// a clash on either surfaces as ErrUserAlreadyExists.
	Register(ctx context.Context, params RegisterParams) (*model.User, error)

	// Login authenticates the credentials and opens a session. Unknown
	// usernames and wrong passwords fail with the same error.
	Login(ctx context.Context, params LoginParams) (*model.Session, error)

	// Logout invalidates the session binding.
	Logout(ctx context.Context, sessionID string) error

	// Authenticate resolves a session ID to its user. Missing, expired or
	// orphaned sessions fail with ErrUnauthenticated.
	Authenticate(ctx context.Context, sessionID string) (*model.User, error)

	// SetPassword recomputes and overwrites the stored password hash.
	SetPassword(ctx context.Context, userID, rawPassword string) error

	// DeleteAccount removes the user together with all of its enrollments
	// and sessions in one atomic operation.
	DeleteAccount(ctx context.Context, userID string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Username string
	Password string
	Remember bool
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// AuthConfig holds session lifetimes for the auth usecase.
type AuthConfig struct {
	SessionTTL         time.Duration
	RememberSessionTTL time.Duration
}

type authUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         AuthConfig
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cfg AuthConfig,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.Session, error) {
	user, err := u.userRepo.GetUserByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	ttl := u.cfg.SessionTTL
	if params.Remember {
		ttl = u.cfg.RememberSessionTTL
	}

	return u.sessionRepo.CreateSession(ctx, &model.Session{
		UserID:    user.ID,
		Remember:  params.Remember,
		ExpiresAt: time.Now().Add(ttl),
	})
}

func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	return u.sessionRepo.DeleteSession(ctx, sessionID)
}

func (u *authUsecase) Authenticate(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := u.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}

		return nil, err
	}

	if !time.Now().Before(session.ExpiresAt) {
		// Opportunistic sweep; an expired session is as good as absent.
		_ = u.sessionRepo.DeleteSession(ctx, session.ID)
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}

		return nil, err
	}

	return user, nil
}

func (u *authUsecase) SetPassword(ctx context.Context, userID, rawPassword string) error {
	passwordHash, err := security.HashPassword(rawPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})

	return err
}

func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	// Enrollments and sessions go with the user via ON DELETE CASCADE.
	return u.userRepo.DeleteUser(ctx, userID)
}

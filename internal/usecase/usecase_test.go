package usecase

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eastbayacademics/tutoring-api/internal/repository"
	"github.com/eastbayacademics/tutoring-api/shared/auth"
)

func newTestJWTAuth() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator("tutoring-api", "tutoring-api")
}

// fakeNotifier records notification calls instead of dialing SMTP.
type fakeNotifier struct {
	mu           sync.Mutex
	resetEmails  []string
	registered   []string
	unregistered []string
	fail         bool
}

func (f *fakeNotifier) SendPasswordResetEmail(email, resetURL string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSendFailed
	}
	f.resetEmails = append(f.resetEmails, email)
	return nil
}

func (f *fakeNotifier) SendRegisteredEmail(username, className string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSendFailed
	}
	f.registered = append(f.registered, className)
	return nil
}

func (f *fakeNotifier) SendUnregisteredEmail(username, className string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSendFailed
	}
	f.unregistered = append(f.unregistered, className)
	return nil
}

var errSendFailed = errors.New("smtp unavailable")

type testEnv struct {
	users       repository.UserRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	notifier    *fakeNotifier
	logger      *zerolog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zerolog.Nop()

	return &testEnv{
		users:       repository.NewUserSQLiteRepository(store),
		sessions:    repository.NewSessionSQLiteRepository(store),
		enrollments: repository.NewEnrollmentSQLiteRepository(store),
		notifier:    &fakeNotifier{},
		logger:      &logger,
	}
}

func (e *testEnv) authUsecase() AuthUsecase {
	return NewAuthUsecase(e.users, e.sessions, AuthConfig{
		SessionTTL:         12 * time.Hour,
		RememberSessionTTL: 30 * 24 * time.Hour,
	})
}

func (e *testEnv) resetUsecase(ttl time.Duration) PasswordResetUsecase {
	return NewPasswordResetUsecase(e.users, newTestJWTAuth(), e.notifier, PasswordResetConfig{
		SecretKey: "test-secret-key",
		BaseURL:   "http://localhost:8080",
		Issuer:    "tutoring-api",
		TokenTTL:  ttl,
	}, e.logger)
}

func (e *testEnv) enrollmentUsecase() EnrollmentUsecase {
	return NewEnrollmentUsecase(e.users, e.enrollments, e.notifier, e.logger)
}

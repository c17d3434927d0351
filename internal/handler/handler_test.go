package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eastbayacademics/tutoring-api/internal/catalog"
	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/repository"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
	"github.com/eastbayacademics/tutoring-api/shared/auth"
)

type fakeNotifier struct {
	resetEmails  []string
	registered   []string
	unregistered []string
}

func (f *fakeNotifier) SendPasswordResetEmail(email, resetURL string, ttl time.Duration) error {
	f.resetEmails = append(f.resetEmails, email)
	return nil
}

func (f *fakeNotifier) SendRegisteredEmail(username, className string) error {
	f.registered = append(f.registered, className)
	return nil
}

func (f *fakeNotifier) SendUnregisteredEmail(username, className string) error {
	f.unregistered = append(f.unregistered, className)
	return nil
}

type testApp struct {
	mux      *http.ServeMux
	auth     usecase.AuthUsecase
	reset    usecase.PasswordResetUsecase
	notifier *fakeNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zerolog.Nop()
	notifier := &fakeNotifier{}

	userRepo := repository.NewUserSQLiteRepository(store)
	sessionRepo := repository.NewSessionSQLiteRepository(store)
	enrollmentRepo := repository.NewEnrollmentSQLiteRepository(store)

	jwtAuth := auth.NewJWTAuthenticator("tutoring-api", "tutoring-api")

	authUsecase := usecase.NewAuthUsecase(userRepo, sessionRepo, usecase.AuthConfig{
		SessionTTL:         12 * time.Hour,
		RememberSessionTTL: 30 * 24 * time.Hour,
	})
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, jwtAuth, notifier, usecase.PasswordResetConfig{
		SecretKey: "test-secret-key",
		BaseURL:   "http://localhost:8080",
		Issuer:    "tutoring-api",
		TokenTTL:  10 * time.Minute,
	}, &logger)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(userRepo, enrollmentRepo, notifier, &logger)

	h, err := New(&logger, authUsecase, resetUsecase, enrollmentUsecase, catalog.Default())
	require.NoError(t, err)

	return &testApp{
		mux:      h.Routes(),
		auth:     authUsecase,
		reset:    resetUsecase,
		notifier: notifier,
	}
}

func (app *testApp) registerUser(t *testing.T, username, email, password string) *model.User {
	t.Helper()

	user, err := app.auth.Register(context.Background(), usecase.RegisterParams{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return user
}

// loginCookie opens a session for the user and returns the session cookie.
func (app *testApp) loginCookie(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	session, err := app.auth.Login(context.Background(), usecase.LoginParams{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)

	return &http.Cookie{Name: sessionCookieName, Value: session.ID}
}

func postForm(mux *http.ServeMux, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func get(mux *http.ServeMux, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestPostLogin_Success(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	w := postForm(app.mux, "/login", url.Values{
		"username": {"alice"},
		"password": {"longenoughpw"},
	})

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))

	cookie := sessionCookieFrom(t, w)
	assert.True(t, cookie.HttpOnly)
}

func TestPostLogin_UniformErrorMessage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	wrongPassword := postForm(app.mux, "/login", url.Values{
		"username": {"alice"},
		"password": {"wrong-password"},
	})
	unknownUser := postForm(app.mux, "/login", url.Values{
		"username": {"nobody"},
		"password": {"wrong-password"},
	})

	// Both render the form again with HTTP 200 and the same message.
	require.Equal(t, http.StatusOK, wrongPassword.Code)
	require.Equal(t, http.StatusOK, unknownUser.Code)
	assert.Contains(t, wrongPassword.Body.String(), "Invalid username or password")
	assert.Contains(t, unknownUser.Body.String(), "Invalid username or password")
}

func TestPostLogin_NextRedirect(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	tests := []struct {
		name string
		next string
		want string
	}{
		{"relative path honored", "/classes", "/classes"},
		{"absolute url rejected", "http://evil.example.com/", "/profile"},
		{"protocol-relative rejected", "//evil.example.com/", "/profile"},
		{"missing next falls back", "", "/profile"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(app.mux, "/login", url.Values{
				"username": {"alice"},
				"password": {"longenoughpw"},
				"next":     {tc.next},
			})

			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tc.want, w.Header().Get("Location"))
		})
	}
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	w := get(app.mux, "/profile")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fprofile", w.Header().Get("Location"))
}

func TestPostRegister_DuplicateIdentity(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	w := postForm(app.mux, "/register", url.Values{
		"username": {"alice"},
		"email":    {"fresh@example.com"},
		"password": {"longenoughpw"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")
}

func TestPostRegister_ValidationError(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	w := postForm(app.mux, "/register", url.Values{
		"username": {"alice"},
		"email":    {"not-an-email"},
		"password": {"longenoughpw"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}

func TestPostResetRequest_UniformResponse(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	known := postForm(app.mux, "/reset_password_request", url.Values{"email": {"alice@example.com"}})
	unknown := postForm(app.mux, "/reset_password_request", url.Values{"email": {"ghost@example.com"}})

	// Identical responses either way; mail only goes to the real account.
	require.Equal(t, http.StatusSeeOther, known.Code)
	require.Equal(t, http.StatusSeeOther, unknown.Code)
	assert.Equal(t, known.Header().Get("Location"), unknown.Header().Get("Location"))
	assert.Equal(t, []string{"alice@example.com"}, app.notifier.resetEmails)
}

func TestResetPassword_BadTokenRedirectsSilently(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	w := get(app.mux, "/reset_password/garbage-token")

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))
}

func TestResetPassword_FullFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	user := app.registerUser(t, "alice", "alice@example.com", "originalpassword")

	token, err := app.reset.IssueResetToken(user, 10*time.Minute)
	require.NoError(t, err)

	form := get(app.mux, "/reset_password/"+token)
	require.Equal(t, http.StatusOK, form.Code)

	w := postForm(app.mux, "/reset_password/"+token, url.Values{"password": {"replacementpw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, err = app.auth.Login(context.Background(), usecase.LoginParams{
		Username: "alice",
		Password: "replacementpw",
	})
	require.NoError(t, err)
}

func TestSignUpAndUnregister(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")
	cookie := app.loginCookie(t, "alice", "longenoughpw")

	w := postForm(app.mux, "/signup/Debate", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
	assert.Equal(t, []string{"Debate"}, app.notifier.registered)

	profile := get(app.mux, "/profile", cookie)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "Debate")

	w = postForm(app.mux, "/unregister/Debate", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []string{"Debate"}, app.notifier.unregistered)
}

func TestSignUp_UnknownClass(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")
	cookie := app.loginCookie(t, "alice", "longenoughpw")

	w := postForm(app.mux, "/signup/Underwater%20Basket%20Weaving", nil, cookie)

	// Unknown names never reach the ledger through the web surface.
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/classes", w.Header().Get("Location"))
	assert.Empty(t, app.notifier.registered)
}

func TestClasses_ListsCatalog(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	w := get(app.mux, "/classes")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "SAT Tutoring")
	assert.Contains(t, body, "Debate")
	assert.Contains(t, body, "Advanced Math")
	assert.Contains(t, body, "Writing and Grammar")
}

func TestUserView(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	user := app.registerUser(t, "alice", "alice@example.com", "longenoughpw")

	cookie := app.loginCookie(t, "alice", "longenoughpw")
	postForm(app.mux, "/signup/Debate", nil, cookie)

	w := get(app.mux, "/user/"+user.Username)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Debate")

	missing := get(app.mux, "/user/nobody")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.registerUser(t, "alice", "alice@example.com", "longenoughpw")
	cookie := app.loginCookie(t, "alice", "longenoughpw")

	w := get(app.mux, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	// The session is gone server-side, not just in the browser.
	profile := get(app.mux, "/profile", cookie)
	require.Equal(t, http.StatusSeeOther, profile.Code)
	assert.Equal(t, "/login?next=%2Fprofile", profile.Header().Get("Location"))
}

package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
)

// requireAuth gates a route behind the session cookie. Anonymous requests
// are redirected to login with the original destination preserved.
func (h *Handler) requireAuth(next func(http.ResponseWriter, *http.Request, *model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID, ok := readSessionCookie(r); ok {
			user, err := h.auth.Authenticate(r.Context(), sessionID)
			if err == nil {
				next(w, r, user)
				return
			}
			if !errors.Is(err, usecase.ErrUnauthenticated) {
				h.serverError(w, err, "failed to authenticate session")
				return
			}
		}

		login := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, login, http.StatusSeeOther)
	}
}

// currentUser resolves the session cookie without gating the route.
func (h *Handler) currentUser(r *http.Request) *model.User {
	sessionID, ok := readSessionCookie(r)
	if !ok {
		return nil
	}
	user, err := h.auth.Authenticate(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return user
}

// safeNext validates a post-login redirect target. Only same-origin relative
// paths are allowed; anything with an authority component is an open
// redirect and gets dropped.
func safeNext(next string) (string, bool) {
	if next == "" {
		return "", false
	}
	parsed, err := url.Parse(next)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil {
		return "", false
	}
	if !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(parsed.Path, "//") {
		return "", false
	}
	return parsed.RequestURI(), true
}

func (h *Handler) getLogin(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title: "Sign In",
		Flash: popFlash(w, r),
		Next:  r.URL.Query().Get("next"),
	}
	_ = h.renderer.render(w, http.StatusOK, "login", data)
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	formError, err := h.decodeForm(r, &form)
	if err != nil {
		h.serverError(w, err, "failed to decode login form")
		return
	}
	if formError != "" {
		_ = h.renderer.render(w, http.StatusOK, "login", pageData{
			Title:     "Sign In",
			FormError: formError,
			Next:      form.Next,
		})
		return
	}

	session, err := h.auth.Login(r.Context(), usecase.LoginParams{
		Username: form.Username,
		Password: form.Password,
		Remember: form.RememberMe,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// Same message for unknown username and wrong password.
			_ = h.renderer.render(w, http.StatusOK, "login", pageData{
				Title:     "Sign In",
				FormError: "Invalid username or password",
				Next:      form.Next,
			})
			return
		}
		h.serverError(w, err, "failed to log in")
		return
	}

	// The cookie and the server-side session expire together.
	writeSessionCookie(w, r, session.ID, session.Remember, time.Until(session.ExpiresAt))

	target := "/profile"
	if next, ok := safeNext(form.Next); ok {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) getRegister(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.render(w, http.StatusOK, "register", pageData{
		Title: "Register",
		Flash: popFlash(w, r),
	})
}

func (h *Handler) postRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	formError, err := h.decodeForm(r, &form)
	if err != nil {
		h.serverError(w, err, "failed to decode register form")
		return
	}
	if formError != "" {
		_ = h.renderer.render(w, http.StatusOK, "register", pageData{
			Title:     "Register",
			FormError: formError,
		})
		return
	}

	_, err = h.auth.Register(r.Context(), usecase.RegisterParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			_ = h.renderer.render(w, http.StatusOK, "register", pageData{
				Title:     "Register",
				FormError: "That username or email is already taken",
			})
			return
		}
		h.serverError(w, err, "failed to register user")
		return
	}

	setFlash(w, "Registration complete. Please sign in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := readSessionCookie(r); ok {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			h.logger.Error().Err(err).Msg("failed to delete session")
		}
	}
	clearSessionCookie(w, r)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

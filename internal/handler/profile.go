package handler

import (
	"errors"
	"net/http"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
)

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.render(w, http.StatusOK, "home", pageData{
		Title: "Home",
		Flash: popFlash(w, r),
		User:  h.currentUser(r),
	})
}

func (h *Handler) aboutUs(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.render(w, http.StatusOK, "aboutus", pageData{
		Title: "About Us",
		User:  h.currentUser(r),
	})
}

// profile is always self-scoped: it shows the authenticated user's own
// enrollments no matter how it was reached.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request, user *model.User) {
	enrollments, err := h.enrollment.ListEnrollments(r.Context(), user)
	if err != nil {
		h.serverError(w, err, "failed to list enrollments")
		return
	}

	_ = h.renderer.render(w, http.StatusOK, "profile", pageData{
		Title:       "Profile",
		Flash:       popFlash(w, r),
		User:        user,
		Enrollments: enrollments,
	})
}

// userView is the explicit public view of a named user's enrollments.
func (h *Handler) userView(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	named, enrollments, err := h.enrollment.ListEnrollmentsByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err, "failed to load user view")
		return
	}

	_ = h.renderer.render(w, http.StatusOK, "user", pageData{
		Title:       named.Username,
		User:        h.currentUser(r),
		Username:    named.Username,
		Enrollments: enrollments,
	})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/eastbayacademics/tutoring-api/internal/model"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
)

func (h *Handler) classes(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.render(w, http.StatusOK, "classes", pageData{
		Title:   "Classes",
		Flash:   popFlash(w, r),
		User:    h.currentUser(r),
		Classes: h.catalog.Classes(),
	})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request, user *model.User) {
	className := r.PathValue("className")

	// The ledger stores any name it is handed; the catalog check lives here.
	class, ok := h.catalog.Lookup(className)
	if !ok {
		setFlash(w, fmt.Sprintf("No class named %q is offered.", className))
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}

	outcome, err := h.enrollment.SignUp(r.Context(), user, class.Name)
	if err != nil {
		h.serverError(w, err, "failed to sign up for class")
		return
	}

	switch outcome {
	case usecase.SignUpEnrolled:
		setFlash(w, fmt.Sprintf("You are now signed up for %s.", class.Name))
	case usecase.SignUpAlreadyEnrolled:
		setFlash(w, fmt.Sprintf("You are already signed up for %s.", class.Name))
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request, user *model.User) {
	className := r.PathValue("className")

	class, ok := h.catalog.Lookup(className)
	if !ok {
		setFlash(w, fmt.Sprintf("No class named %q is offered.", className))
		http.Redirect(w, r, "/classes", http.StatusSeeOther)
		return
	}

	removed, err := h.enrollment.Unregister(r.Context(), user, class.Name)
	if err != nil {
		h.serverError(w, err, "failed to unregister from class")
		return
	}

	if removed == 0 {
		setFlash(w, fmt.Sprintf("You are not signed up for %s.", class.Name))
	} else {
		setFlash(w, fmt.Sprintf("You have been unregistered from %s.", class.Name))
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

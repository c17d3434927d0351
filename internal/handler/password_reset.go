package handler

import (
	"net/http"

	"github.com/eastbayacademics/tutoring-api/internal/usecase"
)

// resetRequestedMessage is shown whether or not the email exists, so the
// form cannot be used to probe for accounts.
const resetRequestedMessage = "Check your email for instructions to reset your password."

func (h *Handler) getResetRequest(w http.ResponseWriter, r *http.Request) {
	_ = h.renderer.render(w, http.StatusOK, "reset_request", pageData{
		Title: "Reset Password",
		Flash: popFlash(w, r),
	})
}

func (h *Handler) postResetRequest(w http.ResponseWriter, r *http.Request) {
	var form resetRequestForm
	formError, err := h.decodeForm(r, &form)
	if err != nil {
		h.serverError(w, err, "failed to decode reset request form")
		return
	}
	if formError != "" {
		_ = h.renderer.render(w, http.StatusOK, "reset_request", pageData{
			Title:     "Reset Password",
			FormError: formError,
		})
		return
	}

	if err := h.reset.RequestPasswordReset(r.Context(), form.Email); err != nil {
		h.serverError(w, err, "failed to request password reset")
		return
	}

	setFlash(w, resetRequestedMessage)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) getResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	verification := h.reset.VerifyResetToken(r.Context(), token)
	if verification.Status != usecase.TokenValid {
		// Invalid or expired tokens redirect away without explanation.
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	_ = h.renderer.render(w, http.StatusOK, "reset_password", pageData{
		Title: "Reset Password",
		Token: token,
	})
}

func (h *Handler) postResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var form resetPasswordForm
	formError, err := h.decodeForm(r, &form)
	if err != nil {
		h.serverError(w, err, "failed to decode reset password form")
		return
	}
	if formError != "" {
		_ = h.renderer.render(w, http.StatusOK, "reset_password", pageData{
			Title:     "Reset Password",
			FormError: formError,
			Token:     token,
		})
		return
	}

	if err := h.reset.ResetPassword(r.Context(), token, form.Password); err != nil {
		// Bad tokens get the same silent redirect as on GET.
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	setFlash(w, "Your password has been reset. Please sign in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

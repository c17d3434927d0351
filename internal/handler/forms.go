package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Username   string `form:"username"    validate:"required"`
	Password   string `form:"password"    validate:"required"`
	RememberMe bool   `form:"remember_me"`
	Next       string `form:"next"`
}

type registerForm struct {
	Username string `form:"username" validate:"required,min=3,max=64"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type resetRequestForm struct {
	Email string `form:"email" validate:"required,email"`
}

type resetPasswordForm struct {
	Password string `form:"password" validate:"required,min=8"`
}

// decodeForm parses the request body into dst and validates it. The returned
// message is a translated, user-facing description of the first validation
// failure, or empty when the form is valid.
func (h *Handler) decodeForm(r *http.Request, dst any) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", err
	}

	if err := h.decoder.Decode(dst, r.PostForm); err != nil {
		return "", err
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return verrs[0].Translate(h.translator), nil
		}
		return "", err
	}

	return "", nil
}

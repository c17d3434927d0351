// Package handler serves the HTML route surface: registration, login,
// password reset, the class catalog and enrollment actions.
package handler

import (
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"

	"github.com/eastbayacademics/tutoring-api/internal/catalog"
	"github.com/eastbayacademics/tutoring-api/internal/usecase"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	logger     *zerolog.Logger
	auth       usecase.AuthUsecase
	reset      usecase.PasswordResetUsecase
	enrollment usecase.EnrollmentUsecase
	catalog    *catalog.Catalog
	renderer   *renderer
	decoder    *form.Decoder
	validate   *validator.Validate
	translator ut.Translator
}

// New creates the route handler.
func New(
	logger *zerolog.Logger,
	auth usecase.AuthUsecase,
	reset usecase.PasswordResetUsecase,
	enrollment usecase.EnrollmentUsecase,
	classCatalog *catalog.Catalog,
) (*Handler, error) {
	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	universal := ut.New(enLocale, enLocale)
	translator, _ := universal.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	return &Handler{
		logger:     logger,
		auth:       auth,
		reset:      reset,
		enrollment: enrollment,
		catalog:    classCatalog,
		renderer:   renderer,
		decoder:    form.NewDecoder(),
		validate:   validate,
		translator: translator,
	}, nil
}

// Routes builds the HTTP route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /home", h.home)
	mux.HandleFunc("GET /aboutus", h.aboutUs)
	mux.HandleFunc("GET /classes", h.classes)

	mux.HandleFunc("GET /login", h.getLogin)
	mux.HandleFunc("POST /login", h.postLogin)
	mux.HandleFunc("GET /register", h.getRegister)
	mux.HandleFunc("POST /register", h.postRegister)
	mux.HandleFunc("GET /logout", h.logout)

	mux.HandleFunc("GET /reset_password_request", h.getResetRequest)
	mux.HandleFunc("POST /reset_password_request", h.postResetRequest)
	mux.HandleFunc("GET /reset_password/{token}", h.getResetPassword)
	mux.HandleFunc("POST /reset_password/{token}", h.postResetPassword)

	mux.HandleFunc("GET /signup/{className}", h.requireAuth(h.signUp))
	mux.HandleFunc("POST /signup/{className}", h.requireAuth(h.signUp))
	mux.HandleFunc("GET /unregister/{className}", h.requireAuth(h.unregister))
	mux.HandleFunc("POST /unregister/{className}", h.requireAuth(h.unregister))

	mux.HandleFunc("GET /profile", h.requireAuth(h.profile))
	mux.HandleFunc("GET /user/{username}", h.userView)

	return mux
}

// serverError logs err and renders a bare 500. Nothing here is fatal to the
// process.
func (h *Handler) serverError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

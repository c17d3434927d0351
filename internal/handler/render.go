package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/eastbayacademics/tutoring-api/internal/catalog"
	"github.com/eastbayacademics/tutoring-api/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData carries everything the page templates can show.
type pageData struct {
	Title       string
	Flash       string
	FormError   string
	User        *model.User
	Classes     []catalog.Class
	Enrollments []*model.Enrollment
	Username    string
	Token       string
	Next        string
}

type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{templates: templates}, nil
}

// render writes the named page. The template runs into a buffer first so a
// render failure can still become a clean 500 instead of a torn page.
func (rd *renderer) render(w http.ResponseWriter, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := rd.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"hostelpass/internal/models"
)

//go:embed templates/pass.html
var templateFS embed.FS

var passTemplate = template.Must(template.ParseFS(templateFS, "templates/pass.html"))

type passView struct {
	Found    bool
	Resident models.Resident
}

// PassPageHandler renders the live pass a QR code points at.
func (s *Server) PassPageHandler(w http.ResponseWriter, r *http.Request) {
	res, ok, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
	}
	if err := passTemplate.Execute(w, passView{Found: ok, Resident: res}); err != nil {
		s.log.Error().Err(err).Msg("Failed to render pass page")
	}
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"hostelpass/internal/auth"
	"hostelpass/internal/logging"
	"hostelpass/internal/models"
)

// Registry is the store the handlers work against.
type Registry interface {
	List() ([]models.Resident, error)
	Get(id string) (models.Resident, bool, error)
	Create(p models.ResidentPayload) (models.Resident, error)
	Update(id string, patch models.ResidentPatch) (models.Resident, bool, error)
	Delete(id string) (bool, error)
}

type Options struct {
	// BaseURL prefixes pass links. Empty derives it from each request.
	BaseURL string
	// EnforceAuth requires an admin bearer token on write routes.
	EnforceAuth bool
}

type Server struct {
	store Registry
	auth  *auth.Authenticator
	opts  Options
	log   zerolog.Logger
}

func NewServer(store Registry, authn *auth.Authenticator, opts Options) *Server {
	return &Server{
		store: store,
		auth:  authn,
		opts:  opts,
		log:   logging.GetLogger("api"),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/api/login", s.LoginHandler).Methods("POST")

	r.HandleFunc("/api/students", s.ListStudentsHandler).Methods("GET")
	r.HandleFunc("/api/students", s.requireAdmin(s.CreateStudentHandler)).Methods("POST")
	r.HandleFunc("/api/students/{id}", s.GetStudentHandler).Methods("GET")
	r.HandleFunc("/api/students/{id}", s.requireAdmin(s.UpdateStudentHandler)).Methods("PUT")
	r.HandleFunc("/api/students/{id}", s.requireAdmin(s.DeleteStudentHandler)).Methods("DELETE")
	r.HandleFunc("/api/students/{id}/qr", s.StudentQRHandler).Methods("GET")

	r.HandleFunc("/api/stats", s.StatsHandler).Methods("GET")
	r.HandleFunc("/api/scan", s.ScanHandler).Methods("POST")
	r.HandleFunc("/pass/{id}", s.PassPageHandler).Methods("GET")
	return r
}

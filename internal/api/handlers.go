package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hostelpass/internal/errors"
	"hostelpass/internal/models"
	"hostelpass/internal/pass"
	"hostelpass/internal/registry"
)

var errStudentNotFound = errors.New(errors.ErrNotFound, "Student not found")

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler exchanges fixed credentials for the account's static token.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}
	acc, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		s.log.Warn().Str("username", req.Username).Msg("Login failed")
		ErrorResponse(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, acc)
}

// ListStudentsHandler returns every resident. Filter and sort parameters
// (block, gender, status, q, sort) are optional; without them the persisted
// order is kept.
func (s *Server) ListStudentsHandler(w http.ResponseWriter, r *http.Request) {
	residents, err := s.store.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	values := r.URL.Query()
	q := registry.Query{
		Block:  models.Block(values.Get("block")),
		Gender: models.Gender(values.Get("gender")),
		Status: models.Status(values.Get("status")),
		Search: values.Get("q"),
		Sort:   values.Get("sort"),
	}
	if !q.IsZero() {
		residents = q.Apply(residents)
	}
	JSONResponse(w, http.StatusOK, residents)
}

func (s *Server) CreateStudentHandler(w http.ResponseWriter, r *http.Request) {
	var p models.ResidentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		ErrorResponse(w, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}
	if field := p.MissingField(); field != "" {
		ErrorResponse(w, errors.Newf(errors.ErrValidation, "Missing field: %s", field))
		return
	}
	if field := p.InvalidField(); field != "" {
		ErrorResponse(w, errors.Newf(errors.ErrValidation, "Invalid field: %s", field))
		return
	}
	created, err := s.store.Create(p)
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResponse(w, http.StatusCreated, created)
}

func (s *Server) GetStudentHandler(w http.ResponseWriter, r *http.Request) {
	res, ok, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	if !ok {
		ErrorResponse(w, errStudentNotFound)
		return
	}
	JSONResponse(w, http.StatusOK, res)
}

func (s *Server) UpdateStudentHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.ResidentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		ErrorResponse(w, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}
	if field := patch.InvalidField(); field != "" {
		ErrorResponse(w, errors.Newf(errors.ErrValidation, "Invalid field: %s", field))
		return
	}
	updated, ok, err := s.store.Update(mux.Vars(r)["id"], patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !ok {
		ErrorResponse(w, errStudentNotFound)
		return
	}
	JSONResponse(w, http.StatusOK, updated)
}

func (s *Server) DeleteStudentHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.Delete(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	if !removed {
		ErrorResponse(w, errStudentNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StudentQRHandler renders the resident's pass link as a PNG. An optional
// size parameter sets the edge length in pixels.
func (s *Server) StudentQRHandler(w http.ResponseWriter, r *http.Request) {
	res, ok, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	if !ok {
		ErrorResponse(w, errStudentNotFound)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size > 1024 {
		size = 1024
	}
	png, err := pass.QRCode(pass.URL(s.baseURL(r), res.ID), size)
	if err != nil {
		s.fail(w, errors.Wrap(err, errors.ErrInternal, "render qr"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+downloadName(res)+`"`)
	w.Write(png)
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	residents, err := s.store.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	JSONResponse(w, http.StatusOK, registry.Summarize(residents))
}

type scanRequest struct {
	Text string `json:"text"`
}

// ScanResult reports what a scanned pass resolved to.
type ScanResult struct {
	RawText   string           `json:"rawText"`
	StudentID string           `json:"studentId,omitempty"`
	Student   *models.Resident `json:"student,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// ScanHandler extracts a resident id from scanned text and looks it up.
// A miss is still a 200: the scanner shows the message and lets the
// operator try again.
func (s *Server) ScanHandler(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, errors.Wrap(err, errors.ErrInvalidInput, "invalid request body"))
		return
	}
	result := ScanResult{RawText: req.Text}
	id, ok := pass.ExtractID(req.Text)
	if !ok {
		result.Message = pass.NoIDMessage
		JSONResponse(w, http.StatusOK, result)
		return
	}
	result.StudentID = id
	res, found, err := s.store.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !found {
		result.Message = "No resident record matches this pass."
	} else {
		result.Student = &res
	}
	s.log.Debug().Str("studentId", id).Bool("found", found).Msg("Pass scanned")
	JSONResponse(w, http.StatusOK, result)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("Request failed")
	ErrorResponse(w, err)
}

func (s *Server) baseURL(r *http.Request) string {
	if s.opts.BaseURL != "" {
		return s.opts.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

func downloadName(r models.Resident) string {
	name := r.StudentID
	if name == "" {
		name = r.Name
	}
	return safeFilename(name) + "-hostel-pass.png"
}

func safeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

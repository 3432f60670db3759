package api

import (
	"net/http"
	"time"

	"hostelpass/internal/auth"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// requireAdmin guards write routes when enforcement is on.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	if !s.opts.EnforceAuth {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		acc, err := s.auth.Authorize(r, auth.RoleAdmin)
		if err != nil {
			s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected write")
			ErrorResponse(w, err)
			return
		}
		s.log.Debug().Str("account", acc.Name).Str("path", r.URL.Path).Msg("Write authorized")
		next(w, r)
	}
}

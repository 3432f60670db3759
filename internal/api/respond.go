package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"hostelpass/internal/errors"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// JSONResponse writes payload as JSON with the given status.
func JSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ErrorResponse writes err with the status its code maps to. Only the
// message of an AppError reaches the client; wrapped causes stay in the log.
func ErrorResponse(w http.ResponseWriter, err error) {
	body := errorBody{Message: "Internal server error", Code: string(errors.ErrInternal)}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		body.Code = string(code)
		if code != errors.ErrStorage && code != errors.ErrInternal {
			body.Message = appMessage(err)
		}
	}
	JSONResponse(w, errors.HTTPStatus(err), body)
}

func appMessage(err error) string {
	var e *errors.AppError
	if stderrors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

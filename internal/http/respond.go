package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"nobudget/internal/core"
	"nobudget/internal/log"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already out; a failed body write has no recovery.
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		verr *core.ValidationError
		nf   *core.NotFoundError
		dup  *core.DuplicateError
		serr *core.StoreError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &dup):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &serr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends {"error": msg}. Unknown errors are logged and their text
// is not leaked to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	var serr *core.StoreError
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
		if !errors.As(err, &serr) {
			msg = "Internal server error"
		}
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decodePayload reads a JSON object body. An empty body yields an empty
// payload so the validators report the missing fields.
func decodePayload(w http.ResponseWriter, r *http.Request) (core.Payload, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var p core.Payload
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Payload{}, nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, core.NewValidationError("Request body too large")
		}
		return nil, core.NewValidationError("Invalid JSON body")
	}
	if p == nil {
		p = core.Payload{}
	}
	return p, nil
}

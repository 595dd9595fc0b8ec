package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/internal/graph"
	"github.com/diewo77/sms-api/internal/logging"
)

// Error kinds reported in ErrorResponse.Error.
const (
	KindUnauthorized = "unauthorized"
	KindBadRequest   = "bad_request"
	KindNotFound     = "not_found"
	KindInternal     = "internal_error"
	KindUpstream     = "upstream_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the success body of the data endpoints.
type Envelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			logging.WithError(err).Error("encoding response")
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// OK writes {"ok": true, "data": data}.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{OK: true, Data: data})
}

// Status maps an error to its HTTP status and error kind.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, errors.Unauthorized):
		return http.StatusUnauthorized, KindUnauthorized
	case errors.Is(err, errors.NotValid),
		errors.Is(err, errors.NotSupported),
		errors.Is(err, errors.BadRequest):
		return http.StatusBadRequest, KindBadRequest
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, graph.ErrUpstream):
		return http.StatusInternalServerError, KindUpstream
	}
	return http.StatusInternalServerError, KindInternal
}

// WriteError reports err with the status of its kind. The message is passed
// through as details; server errors are also logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := Status(err)
	if status >= http.StatusInternalServerError {
		logging.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	JSONError(w, status, kind, err.Error())
}

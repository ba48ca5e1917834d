// Package httputil provides the uniform response envelope and the request
// pipeline every HTTP handler is composed through.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/Commitlabs-Org/commitlabs/internal/errors"
)

// errorBody is the wire shape of every failure response.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON serializes data as the success envelope at the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError serializes a failure envelope. Details are omitted from the wire
// when empty rather than encoded as null.
func WriteError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := errorBody{Code: code, Message: message}
	if len(details) > 0 {
		body.Details = details
	}
	_ = json.NewEncoder(w).Encode(body)
}

// WriteAPIError serializes a taxonomy error at its canonical status (or its
// explicit override).
func WriteAPIError(w http.ResponseWriter, err *errors.Error) {
	WriteError(w, err.HTTPStatus(), string(err.Kind), err.Message, err.Details)
}

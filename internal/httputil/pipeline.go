package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/Commitlabs-Org/commitlabs/internal/errors"
	"github.com/Commitlabs-Org/commitlabs/pkg/logger"
)

// HandlerFunc is the shape of every route handler. Handlers signal failure by
// returning an error (ideally a taxonomy error); they never write to the
// response themselves.
type HandlerFunc func(r *http.Request) (any, error)

// Result lets a handler choose a non-200 success status.
type Result struct {
	Status int
	Data   any
}

// Created wraps data in a 201 result.
func Created(data any) Result {
	return Result{Status: http.StatusCreated, Data: data}
}

// NoContent is a 204 result with an empty body.
func NoContent() Result {
	return Result{Status: http.StatusNoContent}
}

// Pipeline builds http.HandlerFuncs from HandlerFuncs. It is the sole point
// where handler errors and panics are caught, normalized, logged, and turned
// into a failure envelope. Exactly one envelope is written per request.
type Pipeline struct {
	log *logger.Logger
}

// NewPipeline returns a pipeline logging through log.
func NewPipeline(log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewDefault("http")
	}
	return &Pipeline{log: log}
}

// Handle wraps a handler. On success the returned value is serialized as-is
// (status 200, or the Result's status). On error the original error, cause
// included, is logged server-side and only the normalized client-safe
// envelope is written.
func (p *Pipeline) Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				p.log.WithFields(map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  fmt.Sprint(rec),
					"stack":  string(debug.Stack()),
				}).Error("handler panicked")
				WriteAPIError(w, errors.Internal("", fmt.Errorf("panic: %v", rec)))
			}
		}()

		data, err := h(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		if res, ok := data.(Result); ok {
			status := res.Status
			if status == 0 {
				status = http.StatusOK
			}
			WriteJSON(w, status, res.Data)
			return
		}
		WriteJSON(w, http.StatusOK, data)
	}
}

func (p *Pipeline) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := errors.Normalize(err, "")

	log := p.log.WithFields(map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"kind":   string(apiErr.Kind),
		"status": apiErr.HTTPStatus(),
	})
	if cause := apiErr.Cause(); cause != nil {
		log = log.WithError(cause)
	}
	if apiErr.HTTPStatus() >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Warn("request rejected")
	}

	WriteAPIError(w, apiErr)
}

// NotFoundHandler serves the taxonomy envelope for unrouted paths.
func (p *Pipeline) NotFoundHandler() http.Handler {
	return p.Handle(func(r *http.Request) (any, error) {
		return nil, errors.NotFound("route", "")
	})
}

// MethodNotAllowedHandler serves a BadRequest envelope at 405.
func (p *Pipeline) MethodNotAllowedHandler() http.Handler {
	return p.Handle(func(r *http.Request) (any, error) {
		return nil, errors.BadRequest("method not allowed").WithStatus(http.StatusMethodNotAllowed)
	})
}

// ReadJSON decodes a request body into dst, rejecting unknown fields and
// trailing garbage with a BadRequest taxonomy error.
func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	if dec.More() {
		return errors.BadRequest("invalid JSON body")
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

// Package handlers implements the JSON API surface. Handlers decode and
// validate transport concerns only; all domain rules live in the
// lifecycle, engagement, and analytics services.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"blogpulse/internal/errs"
)

// errResponse is the uniform JSON error body.
type errResponse struct {
	Error string `json:"error"`
}

// respondErr maps a service error onto an HTTP status and writes the JSON
// error body. Internal details are logged, never leaked to the client.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	msg := err.Error()

	switch errs.KindOf(err) {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindPermission:
		status = http.StatusForbidden
	case errs.KindConflict:
		if errors.Is(err, errs.ErrSelfLike) {
			status = http.StatusForbidden
		} else {
			status = http.StatusConflict
		}
	case errs.KindTransient:
		status = http.StatusServiceUnavailable
		msg = "Database connection error. Please try again later."
		slog.Warn("transient failure surfaced to client", "error", err, "path", r.URL.Path)
	default:
		status = http.StatusInternalServerError
		msg = "internal server error"
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}

	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: msg})
}

// decode reads the request body as JSON into dst. Unknown fields are
// rejected so typos fail loudly instead of silently dropping data.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Wrap(errs.KindValidation, "invalid request body", err)
	}
	return nil
}

// urlID parses the {id} route parameter as a UUID.
func urlID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.KindValidation, "invalid id", err)
	}
	return id, nil
}

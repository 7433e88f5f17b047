package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/session"
)

// asUser returns a request carrying a session for the given user, the way
// LoadSession would have left it.
func asUser(r *http.Request, userID uuid.UUID, role models.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.SessionKey, &session.Data{
		UserID:      userID,
		Email:       "user@test.local",
		DisplayName: "Test User",
		Role:        role,
	})
	return r.WithContext(ctx)
}

// withURLID attaches a chi route context with the {id} parameter set.
func withURLID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRespondErrStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.New(errs.KindValidation, "bad input"), http.StatusBadRequest},
		{"not found", errs.New(errs.KindNotFound, "gone"), http.StatusNotFound},
		{"permission", errs.New(errs.KindPermission, "nope"), http.StatusForbidden},
		{"conflict", errs.ErrAlreadyLiked, http.StatusConflict},
		{"self like is forbidden not conflict", errs.ErrSelfLike, http.StatusForbidden},
		{"transient", errs.New(errs.KindTransient, "db down"), http.StatusServiceUnavailable},
		{"state", errs.New(errs.KindState, "counter drift"), http.StatusInternalServerError},
		{"unclassified", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondErr(w, httptest.NewRequest("GET", "/", nil), tt.err)
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}

			var body errResponse
			decodeBody(t, w, &body)
			if body.Error == "" {
				t.Error("expected non-empty error message")
			}
		})
	}
}

func TestRespondErrHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	respondErr(w, httptest.NewRequest("GET", "/", nil), errs.New(errs.KindInternal, "pq: deadlock detected on relation x"))

	var body errResponse
	decodeBody(t, w, &body)
	if strings.Contains(body.Error, "deadlock") {
		t.Errorf("internal detail leaked to client: %q", body.Error)
	}
}

func TestRespondErrTransientMessage(t *testing.T) {
	w := httptest.NewRecorder()
	respondErr(w, httptest.NewRequest("GET", "/", nil), errs.New(errs.KindTransient, "dial tcp: connection refused"))

	var body errResponse
	decodeBody(t, w, &body)
	if !strings.Contains(body.Error, "try again") {
		t.Errorf("expected retry hint, got %q", body.Error)
	}
	if strings.Contains(body.Error, "dial tcp") {
		t.Errorf("connection detail leaked to client: %q", body.Error)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","tittle":"typo"}`))
	if err := decode(r, &dst); !errs.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestURLID(t *testing.T) {
	id := uuid.New()
	r := withURLID(httptest.NewRequest("GET", "/", nil), id.String())
	got, err := urlID(r)
	if err != nil || got != id {
		t.Errorf("got %v, %v, want %v, nil", got, err, id)
	}

	r = withURLID(httptest.NewRequest("GET", "/", nil), "not-a-uuid")
	if _, err := urlID(r); !errs.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}

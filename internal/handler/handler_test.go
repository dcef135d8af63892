package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/taskmesh/taskmesh/internal/handler/dto"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/service"
	"github.com/taskmesh/taskmesh/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newServiceRouter mounts all three resource handlers on one router.
func newServiceRouter() (http.Handler, *store.Memory[model.User], *store.Memory[model.Task], *store.Memory[model.Comment]) {
	logger := discardLogger()
	users := store.NewMemory[model.User]()
	tasks := store.NewMemory[model.Task]()
	comments := store.NewMemory[model.Comment]()

	uh := NewUserHandler(service.NewUserService(users, nil), logger)
	th := NewTaskHandler(service.NewTaskService(tasks, nil), logger)
	ch := NewCommentHandler(service.NewCommentService(comments, nil), logger)

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Get("/", uh.List)
		r.Post("/", uh.Create)
		r.Delete("/", uh.Clear)
		r.Put("/{id}", uh.Replace)
		r.Delete("/{id}", uh.Delete)
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Delete("/", th.Clear)
		r.Put("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
	})
	r.Route("/comments", func(r chi.Router) {
		r.Post("/", ch.Create)
		r.Delete("/", ch.Clear)
		r.Get("/{taskId}", ch.ListByTask)
	})
	return r, users, tasks, comments
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestHandler_Info(t *testing.T) {
	h := New("gateway")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Info(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	response := decode[map[string]string](t, rec)
	if response["service"] != "gateway" {
		t.Errorf("unexpected service: %s", response["service"])
	}
	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New("users")

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	response := decode[dto.ErrorResponse](t, rec)
	if response.Code != "NOT_FOUND" || response.Error != "resource not found" {
		t.Errorf("unexpected error body: %+v", response)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New("users")

	rec := httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/users", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	response := decode[dto.ErrorResponse](t, rec)
	if response.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("unexpected error code: %s", response.Code)
	}
}

func TestHandleServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"validation", &service.ValidationError{Field: "email"}, http.StatusBadRequest, "VALIDATION_ERROR", "email"},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{"invalid json", errInvalidJSON, http.StatusBadRequest, "INVALID_JSON", ""},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", ""},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handleServiceError(rec, discardLogger(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode[dto.ErrorResponse](t, rec)
			if body.Code != tt.wantCode || body.Field != tt.wantField {
				t.Errorf("body = %+v, want code %s field %q", body, tt.wantCode, tt.wantField)
			}
		})
	}
}

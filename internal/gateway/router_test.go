package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskmesh/taskmesh/internal/config"
)

func TestRouter_Dispatch(t *testing.T) {
	users := echoServer(t)
	tasks := echoServer(t)
	comments := echoServer(t)

	routes, err := NewRoutes([]config.Backend{
		{Name: "users", URL: users.URL},
		{Name: "tasks", URL: tasks.URL},
		{Name: "comments", URL: comments.URL},
	})
	if err != nil {
		t.Fatalf("NewRoutes() error = %v", err)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rt, err := NewRouter(routes, NewTransport(time.Second), discardLogger(), nil, notFound)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	tests := []struct {
		path       string
		wantStatus int
		wantPath   string
	}{
		{"/api/users", http.StatusAccepted, "/users"},
		{"/api/tasks/t-9", http.StatusAccepted, "/tasks/t-9"},
		{"/api/comments/task-1", http.StatusAccepted, "/comments/task-1"},
		{"/api/usersX", http.StatusTeapot, ""},
		{"/api/other", http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantPath == "" {
				return
			}
			var got echoed
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("backend path = %s, want %s", got.Path, tt.wantPath)
			}
		})
	}
}

func TestNewRouter_NoRoutes(t *testing.T) {
	t.Parallel()

	if _, err := NewRouter(nil, NewTransport(time.Second), discardLogger(), nil, nil); err == nil {
		t.Fatal("expected error for empty routes")
	}
}

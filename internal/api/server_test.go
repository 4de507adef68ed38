package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/service"
	"github.com/Makepad-fr/tasktrackr/internal/store/memory"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockService struct {
	ListFunc   func(ctx context.Context) ([]model.Task, error)
	CreateFunc func(ctx context.Context, title string) (model.Task, error)
	SetFunc    func(ctx context.Context, id string, completed bool) (model.Task, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockService) ListTasks(ctx context.Context) ([]model.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []model.Task{}, nil
}

func (m *mockService) CreateTask(ctx context.Context, title string) (model.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, title)
	}
	return model.Task{ID: "1", Title: title}, nil
}

func (m *mockService) SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, id, completed)
	}
	return model.Task{ID: id, Completed: completed}, nil
}

func (m *mockService) DeleteTask(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc, err := service.New(memory.New())
	if err != nil {
		t.Fatalf("service.New() err = %v", err)
	}
	return NewServer(svc, quietLogger())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestServer_EndToEnd(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/tasks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /tasks status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("GET /tasks body = %s, want []", got)
	}

	w = do(t, h, http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /tasks status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[model.Task](t, w)
	if created.ID == "" || created.Title != "Buy milk" || created.Completed {
		t.Fatalf("created = %+v", created)
	}

	w = do(t, h, http.MethodGet, "/tasks", "")
	list := decode[[]model.Task](t, w)
	if len(list) != 1 || list[0] != created {
		t.Fatalf("list = %+v, want [%+v]", list, created)
	}

	w = do(t, h, http.MethodPatch, "/tasks/"+created.ID, `{"completed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decode[model.Task](t, w)
	want := model.Task{ID: created.ID, Title: "Buy milk", Completed: true}
	if updated != want {
		t.Fatalf("updated = %+v, want %+v", updated, want)
	}

	w = do(t, h, http.MethodDelete, "/tasks/"+created.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	if msg := decode[messageResponse](t, w); msg.Message != "Deleted" {
		t.Fatalf("DELETE message = %q, want Deleted", msg.Message)
	}

	w = do(t, h, http.MethodGet, "/tasks", "")
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("final GET /tasks body = %s, want []", got)
	}
}

func TestServer_CreateTrimsTitle(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/tasks", `{"title":"  Walk dog  ","completed":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[model.Task](t, w)
	if got.Title != "Walk dog" || got.Completed {
		t.Fatalf("created = %+v, want trimmed title and completed=false", got)
	}
}

func TestServer_BadRequests(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodPost, "/tasks", `{"title":"seed"}`)
	seed := decode[model.Task](t, w)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create missing title", http.MethodPost, "/tasks", `{}`},
		{"create blank title", http.MethodPost, "/tasks", `{"title":"   "}`},
		{"create numeric title", http.MethodPost, "/tasks", `{"title":5}`},
		{"create malformed", http.MethodPost, "/tasks", `{"title":`},
		{"create array body", http.MethodPost, "/tasks", `["x"]`},
		{"update missing flag", http.MethodPatch, "/tasks/" + seed.ID, `{}`},
		{"update string flag", http.MethodPatch, "/tasks/" + seed.ID, `{"completed":"yes"}`},
		{"update malformed", http.MethodPatch, "/tasks/" + seed.ID, `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if e := decode[errorResponse](t, w); e.Error == "" {
				t.Fatal("error message is empty")
			}
		})
	}

	// nothing above may have changed the stored task
	list := decode[[]model.Task](t, do(t, h, http.MethodGet, "/tasks", ""))
	if len(list) != 1 || list[0] != seed {
		t.Fatalf("list = %+v, want only %+v", list, seed)
	}
}

func TestServer_NotFound(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, tt := range []struct {
		method, path, body string
	}{
		{http.MethodPatch, "/tasks/missing", `{"completed":true}`},
		{http.MethodPatch, "/tasks/507f1f77bcf86cd799439011", `{"completed":false}`},
		{http.MethodDelete, "/tasks/missing", ""},
	} {
		w := do(t, h, tt.method, tt.path, tt.body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s status = %d, want 404", tt.method, tt.path, w.Code)
		}
		if e := decode[errorResponse](t, w); e.Error != "task not found" {
			t.Fatalf("%s %s error = %q", tt.method, tt.path, e.Error)
		}
	}

	w := do(t, h, http.MethodGet, "/nowhere", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nowhere status = %d, want 404", w.Code)
	}
}

func TestServer_ServiceFailures(t *testing.T) {
	unavailable := fmt.Errorf("%w: connection refused", service.ErrUnavailable)

	tests := []struct {
		name    string
		svc     *mockService
		method  string
		path    string
		body    string
		wantMsg string
	}{
		{
			name:    "list unavailable",
			svc:     &mockService{ListFunc: func(context.Context) ([]model.Task, error) { return nil, unavailable }},
			method:  http.MethodGet,
			path:    "/tasks",
			wantMsg: "service unavailable",
		},
		{
			name: "create internal",
			svc: &mockService{CreateFunc: func(context.Context, string) (model.Task, error) {
				return model.Task{}, errors.New("write conflict on replica set")
			}},
			method:  http.MethodPost,
			path:    "/tasks",
			body:    `{"title":"x"}`,
			wantMsg: "internal server error",
		},
		{
			name:    "delete unavailable",
			svc:     &mockService{DeleteFunc: func(context.Context, string) error { return unavailable }},
			method:  http.MethodDelete,
			path:    "/tasks/abc",
			wantMsg: "service unavailable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewServer(tt.svc, quietLogger()).Handler()
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}
			e := decode[errorResponse](t, w)
			if e.Error != tt.wantMsg {
				t.Fatalf("error = %q, want %q", e.Error, tt.wantMsg)
			}
			if strings.Contains(w.Body.String(), "replica") || strings.Contains(w.Body.String(), "refused") {
				t.Fatalf("internal detail leaked: %s", w.Body.String())
			}
		})
	}
}

func TestServer_RecoversFromPanic(t *testing.T) {
	svc := &mockService{ListFunc: func(context.Context) ([]model.Task, error) { panic("boom") }}
	h := NewServer(svc, quietLogger()).Handler()

	w := do(t, h, http.MethodGet, "/tasks", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if e := decode[errorResponse](t, w); e.Error != "internal server error" {
		t.Fatalf("error = %q", e.Error)
	}

	// the server keeps serving after a panic
	if w := do(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /health after panic status = %d", w.Code)
	}
}

func TestServer_BodyTooLarge(t *testing.T) {
	h := newTestServer(t).Handler()

	big := `{"title":"` + strings.Repeat("a", maxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(big))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestServer_Health(t *testing.T) {
	w := do(t, newTestServer(t).Handler(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[statusResponse](t, w); got.Status != "ok" {
		t.Fatalf("status body = %+v", got)
	}
}

func TestServer_LogsEveryRequest(t *testing.T) {
	var buf bytes.Buffer
	svc, _ := service.New(memory.New())
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel, Formatter: log.LogfmtFormatter})
	h := NewServer(svc, logger).Handler()

	do(t, h, http.MethodGet, "/tasks", "")
	do(t, h, http.MethodPatch, "/tasks/missing", `{"completed":true}`)

	out := buf.String()
	for _, want := range []string{
		"method=GET path=/tasks status=200",
		"method=PATCH path=/tasks/missing status=404",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager.com/task-manager/internal/limiter"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

func newTestServer(t *testing.T, l limiter.Limiter) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewTaskService(repository.NewMemoryTaskRepository())
	return NewServer(NewHandler(service), l, logger)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok", "service": "Task Manager API"}, decode[map[string]string](t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Task](t, rec)
	assert.Equal(t, "pending", string(created.Status))
	assert.False(t, created.Completed)
	assert.Equal(t, "", created.Description)

	rec = do(t, srv, http.MethodGet, "/tasks?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, ids(decode[[]model.Task](t, rec)), created.ID)

	rec = do(t, srv, http.MethodPut, "/tasks/"+created.ID, `{"completed":true,"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Task](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "completed", string(updated.Status))
	assert.Equal(t, "Buy milk", updated.Title)

	rec = do(t, srv, http.MethodGet, "/tasks?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, ids(decode[[]model.Task](t, rec)), created.ID)

	rec = do(t, srv, http.MethodDelete, "/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"success": true}, decode[map[string]bool](t, rec))

	rec = do(t, srv, http.MethodGet, "/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]string{"error": "Task not found"}, decode[map[string]string](t, rec))
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing title", body: `{"description":"x"}`, message: "title is required and must be a string"},
		{name: "empty title", body: `{"title":""}`, message: "title is required and must be a string"},
		{name: "numeric title", body: `{"title":42}`, message: "title is required and must be a string"},
		{name: "invalid status", body: `{"title":"t","status":"done"}`, message: "status must be one of 'pending' | 'in-progress' | 'completed'"},
		{name: "empty status", body: `{"title":"t","status":""}`, message: "status must be one of 'pending' | 'in-progress' | 'completed'"},
		{name: "malformed json", body: `{"title":`, message: "invalid JSON payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil)

			rec := do(t, srv, http.MethodPost, "/tasks", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode[map[string]string](t, rec)["error"])

			rec = do(t, srv, http.MethodGet, "/tasks", "")
			assert.Empty(t, decode[[]model.Task](t, rec))
		})
	}
}

func TestListTasksFiltering(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, body := range []string{
		`{"title":"Alpha one"}`,
		`{"title":"Second","description":"has alpha inside","status":"in-progress"}`,
		`{"title":"Third","status":"in-progress"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/tasks", body).Code)
	}

	list := func(target string) []string {
		rec := do(t, srv, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code)
		return titlesOf(decode[[]model.Task](t, rec))
	}

	assert.Equal(t, []string{"Alpha one", "Second", "Third"}, list("/tasks"))
	assert.Equal(t, []string{"Second", "Third"}, list("/tasks?status=in-progress"))
	assert.Equal(t, []string{"Alpha one", "Second"}, list("/tasks?q=alpha"))
	assert.Equal(t, []string{"Alpha one", "Second"}, list("/tasks?q=ALPHA"))
	assert.Equal(t, []string{"Second"}, list("/tasks?status=in-progress&q=alpha"))
	assert.Equal(t, []string{"Alpha one", "Second", "Third"}, list("/tasks?status=bogus"))
}

func TestUpdateTask(t *testing.T) {
	srv := newTestServer(t, nil)
	created := decode[model.Task](t, do(t, srv, http.MethodPost, "/tasks", `{"title":"t","description":"d"}`))

	rec := do(t, srv, http.MethodPut, "/tasks/"+created.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.Task](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "pending", string(updated.Status))
	assert.Equal(t, "d", updated.Description)

	rec = do(t, srv, http.MethodPut, "/tasks/"+created.ID, `{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/tasks/"+created.ID, `{"status":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status must be one of 'pending' | 'in-progress' | 'completed'", decode[map[string]string](t, rec)["error"])

	rec = do(t, srv, http.MethodPut, "/tasks/999", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPut, "/tasks/not-a-number", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMissingTask(t *testing.T) {
	srv := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/tasks", `{"title":"keep"}`).Code)

	rec := do(t, srv, http.MethodDelete, "/tasks/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/tasks", "")
	assert.Len(t, decode[[]model.Task](t, rec), 1)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, limiter.NewMemoryLimiter(2, time.Minute))

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/", "").Code)

	rec := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode[map[string]string](t, rec)["error"])
}

func TestConsolePageIsServed(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/ui/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Task Manager</title>")
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "error")
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func titlesOf(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

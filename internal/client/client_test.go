package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraerrors "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/errors"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/api"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/board"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/client"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/handlers"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

var _ board.API = (*client.Client)(nil)

// newServer serves the real routes over a MemoryStore.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewTodoHandler(repository.NewMemoryStore(), nil, nil, infralogger.NewNop())
	api.SetupRoutes(router, handler, nil)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func titles(todos []models.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.Title
	}
	return out
}

func TestClient_RoundTrip(t *testing.T) {
	c := client.New(client.Config{BaseURL: newServer(t).URL + "/", Timeout: 5 * time.Second})
	ctx := t.Context()

	var created []models.Todo
	for _, title := range []string{"A", "B", "C"} {
		todo, err := c.Add(ctx, title, "https://example.com/"+title)
		require.NoError(t, err)
		created = append(created, *todo)
	}
	assert.Equal(t, 2, created[2].Position)

	reordered := []models.Todo{created[2], created[0], created[1]}
	require.NoError(t, c.UpdateOrder(ctx, reordered))
	require.NoError(t, c.UpdateCompletion(ctx, created[0].ID, true))
	require.NoError(t, c.Delete(ctx, created[1].ID))

	todos, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, titles(todos))
	assert.True(t, todos[1].Completed)
}

func TestClient_NotFoundIsHTTPError(t *testing.T) {
	c := client.New(client.Config{BaseURL: newServer(t).URL})

	err := c.Delete(t.Context(), "missing")
	require.Error(t, err)

	code, ok := infraerrors.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, err.Error(), "todo not found")
}

func TestClient_ValidationError(t *testing.T) {
	c := client.New(client.Config{BaseURL: newServer(t).URL})

	_, err := c.Add(t.Context(), "", "")
	code, ok := infraerrors.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestClient_SuccessFalseIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.SuccessResponse{Success: false, Error: "busy"})
	}))
	t.Cleanup(srv.Close)

	err := client.New(client.Config{BaseURL: srv.URL}).Delete(t.Context(), "x")
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Contains(t, err.Error(), "busy")
}

func TestClient_SendsUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(client.Config{BaseURL: srv.URL}).List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "todoctl", agent)
}

func TestClient_DrivesBoard(t *testing.T) {
	c := client.New(client.Config{BaseURL: newServer(t).URL})
	b := board.New(c, infralogger.NewNop())
	ctx := t.Context()

	for _, title := range []string{"A", "B", "C"} {
		_, err := b.Add(ctx, title, "https://example.com")
		require.NoError(t, err)
	}
	dest := 0
	require.NoError(t, b.Reorder(ctx, board.DragResult{Source: 2, Destination: &dest}))

	require.NoError(t, b.Load(ctx))
	assert.Equal(t, []string{"C", "A", "B"}, titles(b.Items()))
}

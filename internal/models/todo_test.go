package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

func TestTodo_JSONUsesUnderscoreID(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(models.Todo{ID: "abc", Title: "Read", Link: "http://x", Position: 2})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "abc", raw["_id"])
	assert.NotContains(t, raw, "id")
	assert.InDelta(t, 2, raw["position"], 0)
	assert.Equal(t, false, raw["completed"])
}

func TestUpdateOrderRequest_IDs(t *testing.T) {
	t.Parallel()

	var req models.UpdateOrderRequest
	body := `{"todos":[{"_id":"c","title":"C","position":2},{"_id":"a","position":0},{"_id":"b"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, []string{"c", "a", "b"}, req.IDs())
}

func TestUpdateCompletionRequest_ExplicitFalse(t *testing.T) {
	t.Parallel()

	var req models.UpdateCompletionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"completed":false}`), &req))
	require.NotNil(t, req.Completed)
	assert.False(t, *req.Completed)

	var missing models.UpdateCompletionRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	assert.Nil(t, missing.Completed)
}

func TestCreateTodoRequest_Normalize(t *testing.T) {
	t.Parallel()

	req := models.CreateTodoRequest{Title: "  Write tests ", Link: " https://go.dev "}
	req.Normalize()
	assert.Equal(t, "Write tests", req.Title)
	assert.Equal(t, "https://go.dev", req.Link)
}

func TestSuccessResponse_OmitsEmptyError(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(models.SuccessResponse{Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(data))
}

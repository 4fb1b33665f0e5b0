// Package handlers implements the todo HTTP API.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/events"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/metrics"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/repository"
)

// TodoHandler serves the /api routes. publisher and metrics may be nil.
type TodoHandler struct {
	store     repository.Store
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    infralogger.Logger
}

func NewTodoHandler(
	store repository.Store,
	publisher *events.Publisher,
	m *metrics.Metrics,
	log infralogger.Logger,
) *TodoHandler {
	return &TodoHandler{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// List handles GET /api/todos.
func (h *TodoHandler) List(c *gin.Context) {
	start := time.Now()
	todos, err := h.store.List(c.Request.Context())
	h.metrics.ObserveOperation(metrics.OpList, start, err)
	if err != nil {
		h.logger.Error("Failed to list todos", infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, todos)
}

// Create handles POST /api/addTodo.
func (h *TodoHandler) Create(c *gin.Context) {
	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid create request", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "title and link are required"})
		return
	}
	req.Normalize()
	if req.Title == "" || req.Link == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "title and link are required"})
		return
	}

	start := time.Now()
	todo, err := h.store.Create(c.Request.Context(), req.Title, req.Link)
	h.metrics.ObserveOperation(metrics.OpCreate, start, err)
	if err != nil {
		h.logger.Error("Failed to create todo",
			infralogger.String("title", req.Title),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info("Todo created",
		infralogger.String("todo_id", todo.ID),
		infralogger.Int("position", todo.Position),
	)
	h.publisher.PublishAsync(events.TodoEvent{
		EventType: events.TodoCreated,
		TodoID:    todo.ID,
		Payload:   events.CreatedPayload{Title: todo.Title, Link: todo.Link, Position: todo.Position},
	})

	c.JSON(http.StatusOK, todo)
}

// UpdateOrder handles POST /api/updateOrder. The array index of each todo
// becomes its position.
func (h *TodoHandler) UpdateOrder(c *gin.Context) {
	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid reorder request", infralogger.Error(err))
		c.JSON(http.StatusBadRequest, models.SuccessResponse{Error: "todos is required"})
		return
	}

	ids := req.IDs()
	h.metrics.ObserveReorder(len(ids))

	start := time.Now()
	err := h.store.SetOrder(c.Request.Context(), ids)
	h.metrics.ObserveOperation(metrics.OpSetOrder, start, err)
	if err != nil {
		h.logger.Error("Failed to update order",
			infralogger.Int("count", len(ids)),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.SuccessResponse{Error: err.Error()})
		return
	}

	h.publisher.PublishAsync(events.TodoEvent{
		EventType: events.TodosReordered,
		Payload:   events.ReorderedPayload{IDs: ids},
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// Delete handles DELETE /api/deleteTodo/:id.
func (h *TodoHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	start := time.Now()
	err := h.store.Delete(c.Request.Context(), id)
	h.metrics.ObserveOperation(metrics.OpDelete, start, err)
	if err != nil {
		h.logger.Error("Failed to delete todo",
			infralogger.String("todo_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.SuccessResponse{Error: err.Error()})
		return
	}

	h.logger.Info("Todo deleted", infralogger.String("todo_id", id))
	h.publisher.PublishAsync(events.TodoEvent{EventType: events.TodoDeleted, TodoID: id})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// UpdateCompletion handles POST /api/updateTodo/:id.
func (h *TodoHandler) UpdateCompletion(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid completion request",
			infralogger.String("todo_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusBadRequest, models.SuccessResponse{Error: "completed is required"})
		return
	}

	start := time.Now()
	err := h.store.UpdateCompletion(c.Request.Context(), id, *req.Completed)
	h.metrics.ObserveOperation(metrics.OpUpdateCompletion, start, err)
	if err != nil {
		h.logger.Error("Failed to update todo",
			infralogger.String("todo_id", id),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.SuccessResponse{Error: err.Error()})
		return
	}

	h.publisher.PublishAsync(events.TodoEvent{
		EventType: events.TodoCompletionChanged,
		TodoID:    id,
		Payload:   events.CompletionPayload{Completed: *req.Completed},
	})
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

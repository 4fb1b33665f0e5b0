// Package api registers the todo-manager routes on a gin engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/handlers"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/metrics"
)

// SetupRoutes mounts the todo API and, when m is non-nil, GET /metrics.
func SetupRoutes(router *gin.Engine, todos *handlers.TodoHandler, m *metrics.Metrics) {
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	api.GET("/todos", todos.List)
	api.POST("/addTodo", todos.Create)
	api.POST("/updateOrder", todos.UpdateOrder)
	api.DELETE("/deleteTodo/:id", todos.Delete)
	api.POST("/updateTodo/:id", todos.UpdateCompletion)
}

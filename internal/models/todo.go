package models

import (
	"strings"
	"time"
)

// Todo is a single list item. The JSON id field is "_id" so existing
// browser clients keep working.
type Todo struct {
	ID        string    `db:"id"         json:"_id"`
	Title     string    `db:"title"      json:"title"`
	Link      string    `db:"link"       json:"link"`
	Position  int       `db:"position"   json:"position"`
	Completed bool      `db:"completed"  json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateTodoRequest is the body of POST /api/addTodo.
type CreateTodoRequest struct {
	Title string `binding:"required" json:"title"`
	Link  string `binding:"required" json:"link"`
}

// Normalize trims surrounding whitespace from both fields.
func (r *CreateTodoRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Link = strings.TrimSpace(r.Link)
}

// UpdateOrderRequest is the body of POST /api/updateOrder. Only the id of
// each entry is read; its index in Todos becomes its position.
type UpdateOrderRequest struct {
	Todos []Todo `binding:"required" json:"todos"`
}

// IDs returns the ids of r.Todos in order.
func (r *UpdateOrderRequest) IDs() []string {
	ids := make([]string, len(r.Todos))
	for i := range r.Todos {
		ids[i] = r.Todos[i].ID
	}
	return ids
}

// UpdateCompletionRequest is the body of POST /api/updateTodo/:id.
// Completed is a pointer so an explicit false passes presence validation.
type UpdateCompletionRequest struct {
	Completed *bool `binding:"required" json:"completed"`
}

// SuccessResponse is returned by the order, delete and completion routes.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is returned by the list and create routes on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

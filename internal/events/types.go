package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream todo events are appended to.
const StreamName = "todo-events"

// EventType names a todo lifecycle change.
type EventType string

const (
	TodoCreated           EventType = "TODO_CREATED"
	TodoCompletionChanged EventType = "TODO_COMPLETION_CHANGED"
	TodoDeleted           EventType = "TODO_DELETED"
	TodosReordered        EventType = "TODOS_REORDERED"
)

// TodoEvent is the envelope written to the stream. TodoID is empty for
// TODOS_REORDERED, which concerns the whole list.
type TodoEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	TodoID    string    `json:"todo_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// CreatedPayload accompanies TODO_CREATED.
type CreatedPayload struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Position int    `json:"position"`
}

// CompletionPayload accompanies TODO_COMPLETION_CHANGED.
type CompletionPayload struct {
	Completed bool `json:"completed"`
}

// ReorderedPayload accompanies TODOS_REORDERED.
type ReorderedPayload struct {
	IDs []string `json:"ids"`
}

// Package client talks to the todo-manager HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	infraerrors "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/errors"
	infrahttp "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/http"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://localhost:5000"

// ErrRejected is returned when the server answers 2xx with success=false.
var ErrRejected = errors.New("request rejected by server")

// Config configures New.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client implements board.API. It does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "todoctl"
	}
	return &Client{
		baseURL: baseURL,
		httpClient: infrahttp.NewClient(&infrahttp.ClientConfig{
			Timeout:   cfg.Timeout,
			UserAgent: userAgent,
		}),
	}
}

// List fetches every todo in server order.
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Add creates a todo and returns the stored record.
func (c *Client) Add(ctx context.Context, title, link string) (*models.Todo, error) {
	var todo models.Todo
	req := models.CreateTodoRequest{Title: title, Link: link}
	if err := c.do(ctx, http.MethodPost, "/api/addTodo", req, &todo); err != nil {
		return nil, fmt.Errorf("add todo: %w", err)
	}
	return &todo, nil
}

func (c *Client) UpdateCompletion(ctx context.Context, id string, completed bool) error {
	req := models.UpdateCompletionRequest{Completed: &completed}
	if err := c.doSuccess(ctx, http.MethodPost, "/api/updateTodo/"+url.PathEscape(id), req); err != nil {
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.doSuccess(ctx, http.MethodDelete, "/api/deleteTodo/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

// UpdateOrder sends the full sequence; each todo's index is its new position.
func (c *Client) UpdateOrder(ctx context.Context, todos []models.Todo) error {
	req := models.UpdateOrderRequest{Todos: todos}
	if req.Todos == nil {
		req.Todos = []models.Todo{}
	}
	if err := c.doSuccess(ctx, http.MethodPost, "/api/updateOrder", req); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func (c *Client) doSuccess(ctx context.Context, method, path string, body any) error {
	var resp models.SuccessResponse
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, resp.Error)
		}
		return ErrRejected
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

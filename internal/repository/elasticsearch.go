package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	infraes "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/elasticsearch"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

const (
	// DefaultIndex is the index todos live in unless configured otherwise.
	DefaultIndex = "todos"
	// DefaultOrderConcurrency bounds in-flight updates during SetOrder.
	DefaultOrderConcurrency = 8

	// DefaultListPageSize is the number of hits List fetches per request.
	DefaultListPageSize = 1000

	// maxListPageSize is the index.max_result_window default.
	maxListPageSize = 10000
	refreshWait     = "wait_for"
)

var todoMapping = map[string]any{
	"mappings": map[string]any{
		"dynamic": "strict",
		"properties": map[string]any{
			"id":         map[string]any{"type": "keyword"},
			"title":      map[string]any{"type": "text"},
			"link":       map[string]any{"type": "keyword", "index": false},
			"position":   map[string]any{"type": "integer"},
			"completed":  map[string]any{"type": "boolean"},
			"created_at": map[string]any{"type": "date"},
			"updated_at": map[string]any{"type": "date"},
		},
	},
}

// esTodo is the stored document. "_id" is reserved by Elasticsearch so
// the id is kept in a keyword field as well.
type esTodo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Position  int       `json:"position"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d esTodo) model() models.Todo {
	return models.Todo(d)
}

// DocumentStoreConfig configures NewDocumentStore.
type DocumentStoreConfig struct {
	Index            string
	OrderConcurrency int
	// ListPageSize is the page size List walks the index with.
	ListPageSize int
	// Ping is used for health checks.
	Ping infraes.Config
}

// DocumentStore keeps one Elasticsearch document per todo.
//
// Writes wait for a refresh so a following List sees them. SetOrder sends
// one partial update per item concurrently and is not atomic.
type DocumentStore struct {
	client *es.Client
	cfg    DocumentStoreConfig
	logger infralogger.Logger
}

// NewDocumentStore wraps client. Call EnsureIndex before use.
func NewDocumentStore(client *es.Client, cfg DocumentStoreConfig, log infralogger.Logger) *DocumentStore {
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.OrderConcurrency <= 0 {
		cfg.OrderConcurrency = DefaultOrderConcurrency
	}
	if cfg.ListPageSize <= 0 || cfg.ListPageSize > maxListPageSize {
		cfg.ListPageSize = DefaultListPageSize
	}
	return &DocumentStore{client: client, cfg: cfg, logger: log}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *DocumentStore) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.cfg.Index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.cfg.Index, err)
	}
	s.closeResponse(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(todoMapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	res, err = s.client.Indices.Create(
		s.cfg.Index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.cfg.Index, err)
	}
	defer s.closeResponse(res)

	if res.IsError() && !strings.Contains(readBody(res), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", s.cfg.Index, res.Status())
	}

	s.logger.Info("Created todo index", infralogger.String("index", s.cfg.Index))
	return nil
}

// Create indexes the todo at position = document count. Count and insert
// are two requests, so concurrent creates can share a position.
func (s *DocumentStore) Create(ctx context.Context, title, link string) (*models.Todo, error) {
	count, err := s.count(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := esTodo{
		ID:        uuid.NewString(),
		Title:     title,
		Link:      link,
		Position:  count,
		CreatedAt: now,
		UpdatedAt: now,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode todo: %w", err)
	}

	res, err := s.client.Index(
		s.cfg.Index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(doc.ID),
		s.client.Index.WithOpType("create"),
		s.client.Index.WithRefresh(refreshWait),
	)
	if err != nil {
		return nil, fmt.Errorf("index todo: %w", err)
	}
	defer s.closeResponse(res)

	if res.IsError() {
		return nil, fmt.Errorf("index todo: %s: %s", res.Status(), readBody(res))
	}

	todo := doc.model()
	return &todo, nil
}

func (s *DocumentStore) count(ctx context.Context) (int, error) {
	res, err := s.client.Count(s.client.Count.WithContext(ctx), s.client.Count.WithIndex(s.cfg.Index))
	if err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	defer s.closeResponse(res)

	if res.IsError() {
		return 0, fmt.Errorf("count todos: %s", res.Status())
	}

	var out struct {
		Count int `json:"count"`
	}
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return out.Count, nil
}

// List walks the whole index in (position, created_at, id) order, one page
// at a time with search_after, until a short page comes back.
func (s *DocumentStore) List(ctx context.Context) ([]models.Todo, error) {
	var (
		todos []models.Todo
		after []json.RawMessage
	)
	for {
		page, last, err := s.searchPage(ctx, after)
		if err != nil {
			return nil, err
		}
		todos = append(todos, page...)
		if len(page) < s.cfg.ListPageSize {
			break
		}
		after = last
	}

	if todos == nil {
		todos = []models.Todo{}
	}
	sortTodos(todos)
	return todos, nil
}

// searchPage returns one page of todos following after, plus the sort
// values of its last hit.
func (s *DocumentStore) searchPage(ctx context.Context, after []json.RawMessage) ([]models.Todo, []json.RawMessage, error) {
	query := map[string]any{
		"size":             s.cfg.ListPageSize,
		"track_total_hits": false,
		"query":            map[string]any{"match_all": map[string]any{}},
		"sort": []any{
			map[string]any{"position": "asc"},
			map[string]any{"created_at": "asc"},
			map[string]any{"id": "asc"},
		},
	}
	if len(after) > 0 {
		query["search_after"] = after
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.cfg.Index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("search todos: %w", err)
	}
	defer s.closeResponse(res)

	if res.IsError() {
		return nil, nil, fmt.Errorf("search todos: %s: %s", res.Status(), readBody(res))
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source esTodo            `json:"_source"`
				Sort   []json.RawMessage `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, nil, fmt.Errorf("decode search: %w", err)
	}

	hits := out.Hits.Hits
	todos := make([]models.Todo, 0, len(hits))
	for _, h := range hits {
		todos = append(todos, h.Source.model())
	}
	if len(hits) == 0 {
		return todos, nil, nil
	}

	last := hits[len(hits)-1].Sort
	if len(last) == 0 && len(hits) == s.cfg.ListPageSize {
		return nil, nil, errors.New("search todos: full page returned without sort values")
	}
	return todos, last, nil
}

// SetOrder updates every position concurrently and waits for all of them.
// Missing documents are skipped. Any other failure yields a
// *PartialOrderError listing the ids whose position was not written; the
// others keep their new position.
func (s *DocumentStore) SetOrder(ctx context.Context, ids []string) error {
	batch := assignments(ids)
	if len(batch) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		failed   []string
		firstErr error
	)
	now := time.Now().UTC()

	var g errgroup.Group
	g.SetLimit(s.cfg.OrderConcurrency)
	for _, a := range batch {
		g.Go(func() error {
			err := s.update(ctx, a.ID, map[string]any{"position": a.Position, "updated_at": now}, false)
			if err == nil || errors.Is(err, ErrNotFound) {
				return nil
			}
			mu.Lock()
			failed = append(failed, a.ID)
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := s.refresh(ctx); err != nil {
		s.logger.Warn("Refresh after reorder failed", infralogger.Error(err))
	}

	if len(failed) > 0 {
		s.logger.Error("Reorder partially applied",
			infralogger.Int("failed", len(failed)),
			infralogger.Int("total", len(batch)),
			infralogger.Strings("failed_ids", failed),
		)
		return &PartialOrderError{Failed: failed, Total: len(batch), Err: firstErr}
	}
	return nil
}

func (s *DocumentStore) UpdateCompletion(ctx context.Context, id string, completed bool) error {
	return s.update(ctx, id, map[string]any{"completed": completed, "updated_at": time.Now().UTC()}, true)
}

func (s *DocumentStore) update(ctx context.Context, id string, fields map[string]any, wait bool) error {
	body, err := json.Marshal(map[string]any{"doc": fields})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	opts := []func(*esapi.UpdateRequest){s.client.Update.WithContext(ctx)}
	if wait {
		opts = append(opts, s.client.Update.WithRefresh(refreshWait))
	}
	res, err := s.client.Update(s.cfg.Index, id, bytes.NewReader(body), opts...)
	if err != nil {
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	defer s.closeResponse(res)

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("update todo %s: %s", id, res.Status())
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	res, err := s.client.Delete(
		s.cfg.Index,
		id,
		s.client.Delete.WithContext(ctx),
		s.client.Delete.WithRefresh(refreshWait),
	)
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	defer s.closeResponse(res)

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("delete todo %s: %s", id, res.Status())
	}
	return nil
}

func (s *DocumentStore) refresh(ctx context.Context) error {
	res, err := s.client.Indices.Refresh(
		s.client.Indices.Refresh.WithContext(ctx),
		s.client.Indices.Refresh.WithIndex(s.cfg.Index),
	)
	if err != nil {
		return err
	}
	defer s.closeResponse(res)

	if res.IsError() {
		return fmt.Errorf("refresh %s: %s", s.cfg.Index, res.Status())
	}
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return infraes.Ping(ctx, s.client, s.cfg.Ping)
}

// Close is a no-op; the client holds no resources that need releasing.
func (s *DocumentStore) Close() error { return nil }

func (s *DocumentStore) closeResponse(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		s.logger.Debug("Failed to drain elasticsearch response", infralogger.Error(err))
	}
	if err := res.Body.Close(); err != nil {
		s.logger.Debug("Failed to close elasticsearch response", infralogger.Error(err))
	}
}

func readBody(res *esapi.Response) string {
	b, err := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

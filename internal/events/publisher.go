// Package events publishes todo lifecycle events to Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

const (
	asyncPublishTimeout = 5 * time.Second
	// maxStreamLen caps the stream approximately so it cannot grow forever.
	maxStreamLen = 10000
)

// Publisher appends events to StreamName. A nil *Publisher is valid and
// publishes nothing, which is how a disabled Redis is represented.
type Publisher struct {
	client *redis.Client
	log    infralogger.Logger
	wg     sync.WaitGroup
}

// NewPublisher returns nil when client is nil.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Publisher{client: client, log: log}
}

// Publish appends event, filling EventID and Timestamp when unset.
func (p *Publisher) Publish(ctx context.Context, event TodoEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	streamID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"event":      string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish to stream: %w", err)
	}

	p.log.Debug("Published todo event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.String("todo_id", event.TodoID),
		infralogger.String("stream_id", streamID),
	)
	return nil
}

// PublishAsync publishes in the background. Failures are logged only.
func (p *Publisher) PublishAsync(event TodoEvent) {
	if p == nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				infralogger.String("event_type", string(event.EventType)),
				infralogger.String("todo_id", event.TodoID),
				infralogger.Error(err),
			)
		}
	}()
}

// Wait blocks until every PublishAsync call has finished.
func (p *Publisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.client.Ping(ctx).Err()
}

// Close waits for in-flight publishes and closes the client.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.wg.Wait()
	return p.client.Close()
}

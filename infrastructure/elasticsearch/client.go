// Package elasticsearch builds a verified go-elasticsearch client.
package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/retry"
)

// NewClient creates a client for cfg.URL and pings the cluster, retrying
// with backoff until it answers or cfg.Retry gives up.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*es.Client, error) {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	url := normalizeURL(cfg.URL)
	client, err := es.NewClient(es.Config{
		Addresses:  []string{url},
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	log.Info("Verifying Elasticsearch connection", logger.String("url", url))

	retryCfg := *cfg.Retry
	retryCfg.IsRetryable = func(error) bool { return true }
	err = retry.Retry(ctx, retryCfg, func() error {
		pingErr := Ping(ctx, client, cfg)
		if pingErr != nil {
			log.Debug("Elasticsearch ping failed", logger.Error(pingErr))
		}
		return pingErr
	})
	if err != nil {
		return nil, fmt.Errorf("connect to elasticsearch at %s: %w", url, err)
	}

	log.Info("Elasticsearch connection established", logger.String("url", url))
	return client, nil
}

// Ping performs one bounded connectivity check.
func Ping(ctx context.Context, client *es.Client, cfg Config) error {
	pingCtx := ctx
	if cfg.PingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.PingTimeout)
		defer cancel()
	}

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("ping returned %s: %s", res.Status(), strings.TrimSpace(string(body)))
	}
	return nil
}

func normalizeURL(url string) string {
	switch {
	case url == "":
		return "http://localhost:9200"
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return strings.TrimRight(url, "/")
	default:
		return "http://" + strings.TrimRight(url, "/")
	}
}

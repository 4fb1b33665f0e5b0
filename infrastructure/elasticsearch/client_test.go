package elasticsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/retry"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"http://elasticsearch:9200", "http://elasticsearch:9200"},
		{"https://elasticsearch:9200/", "https://elasticsearch:9200"},
		{"elasticsearch:9200", "http://elasticsearch:9200"},
		{"", "http://localhost:9200"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, normalizeURL(tt.input))
		})
	}
}

func TestConfig_SetDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{URL: "http://custom:9200", MaxRetries: 7}
	cfg.SetDefaults()

	assert.Equal(t, "http://custom:9200", cfg.URL)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.PingTimeout)
	require.NotNil(t, cfg.Retry)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestNewClient_RetriesUntilClusterAnswers(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), Config{
		URL:   srv.URL,
		Retry: &retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond},
	}, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.GreaterOrEqual(t, hits.Load(), int32(2))
}

func TestNewClient_GivesUp(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(context.Background(), Config{
		URL:   srv.URL,
		Retry: &retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond},
	}, nil)
	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
}

package elasticsearch

import (
	"time"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/retry"
)

// Config configures NewClient.
type Config struct {
	URL      string
	Username string
	Password string
	// MaxRetries is passed to the transport for per-request retries.
	MaxRetries int
	// PingTimeout bounds each connectivity check.
	PingTimeout time.Duration
	// Retry controls how long NewClient waits for the cluster to come up.
	Retry *retry.Config
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.Retry == nil {
		c.Retry = &retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}

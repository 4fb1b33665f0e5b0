// Package gin assembles the gin engine todo-manager serves from: standard
// middleware, CORS, health endpoints and graceful shutdown.
package gin

import (
	"net"
	"net/http"
	"strconv"
	"time"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour
)

// Config is the HTTP server configuration.
type Config struct {
	// Host is the interface to bind; empty binds all of them.
	Host            string
	Port            int
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORS            CORSConfig
	ServiceName     string
	ServiceVersion  string
}

// CORSConfig configures CORSMiddleware. An AllowedOrigins entry of "*"
// allows every origin.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	c.CORS.SetDefaults()
}

// SetDefaults fills unset CORS fields. With no origins configured CORS is
// enabled for every origin, which is what the browser client expects.
func (c *CORSConfig) SetDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.Enabled = true
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{
			"Origin", "Content-Type", "Content-Length", "Accept",
			"Accept-Encoding", "Cache-Control", "X-Requested-With", "X-Request-ID",
		}
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}

// Address is the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewConfig returns a defaulted Config for serviceName on port.
func NewConfig(serviceName string, port int) *Config {
	cfg := &Config{Port: port, ServiceName: serviceName}
	cfg.SetDefaults()
	return cfg
}

package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the state reported for the service or one dependency.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency's health.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker reports one dependency's health.
type HealthChecker func() CheckResult

// HealthOptions configures RegisterHealthRoutes.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	// StartTime defaults to registration time.
	StartTime time.Time
	Checks    map[string]HealthChecker
}

// RegisterHealthRoutes adds GET and HEAD /health. GET runs every check and
// answers 503 when any is unhealthy.
func RegisterHealthRoutes(router *gin.Engine, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}

	router.GET("/health", func(c *gin.Context) {
		resp := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: opts.ServiceName,
			Version: opts.ServiceVersion,
			Uptime:  time.Since(opts.StartTime).Truncate(time.Second).String(),
		}

		if len(opts.Checks) > 0 {
			resp.Checks = make(map[string]CheckResult, len(opts.Checks))
			for name, check := range opts.Checks {
				result := check()
				resp.Checks[name] = result
				resp.Status = worse(resp.Status, result.Status)
			}
		}

		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func worse(a, b HealthStatus) HealthStatus {
	rank := map[HealthStatus]int{HealthStatusHealthy: 0, HealthStatusDegraded: 1, HealthStatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// PingChecker times pingFunc and reports failStatus when it errors.
func PingChecker(component string, failStatus HealthStatus, pingFunc func() error) HealthChecker {
	return func() CheckResult {
		start := time.Now()
		err := pingFunc()
		latency := time.Since(start).String()

		if err != nil {
			return CheckResult{Status: failStatus, Message: component + " connection failed", Latency: latency}
		}
		return CheckResult{Status: HealthStatusHealthy, Message: component + " connection OK", Latency: latency}
	}
}

// DatabaseHealthChecker is a PingChecker that reports Unhealthy on failure.
func DatabaseHealthChecker(pingFunc func() error) HealthChecker {
	return PingChecker("Database", HealthStatusUnhealthy, pingFunc)
}

// RedisHealthChecker is a PingChecker that reports Degraded on failure.
func RedisHealthChecker(pingFunc func() error) HealthChecker {
	return PingChecker("Redis", HealthStatusDegraded, pingFunc)
}

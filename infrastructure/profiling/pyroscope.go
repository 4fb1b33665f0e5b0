package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/config"
	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

// PyroscopeProfiler wraps a running Pyroscope profiler. A nil value is
// safe to Stop.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope starts continuous profiling when
// ENABLE_CONTINUOUS_PROFILING is true. It returns nil, nil when disabled.
// PYROSCOPE_SERVER_URL and PYROSCOPE_ENVIRONMENT override the defaults.
func StartPyroscope(serviceName, version string, log logger.Logger) (*PyroscopeProfiler, error) {
	if !config.ParseBool(os.Getenv("ENABLE_CONTINUOUS_PROFILING")) {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	serverURL := envOr("PYROSCOPE_SERVER_URL", "http://pyroscope:4040")
	environment := envOr("PYROSCOPE_ENVIRONMENT", "development")
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	cfg := pyroscope.Config{
		ApplicationName: "north-cloud." + serviceName,
		ServerAddress:   serverURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    hostname,
			"go_version":  runtime.Version(),
		},
	}

	profiler, err := pyroscope.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", cfg.ApplicationName),
		logger.String("server", serverURL),
		logger.String("environment", environment),
	)
	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

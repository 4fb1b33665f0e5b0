// Package profiling starts the optional pprof and Pyroscope profilers.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/config"
	"github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

const defaultPprofPort = "6060"

// StartPprofServer serves /debug/pprof on localhost:$PPROF_PORT when
// ENABLE_PROFILING is true. It returns the server, or nil when disabled.
func StartPprofServer(log logger.Logger) *http.Server {
	if !config.ParseBool(os.Getenv("ENABLE_PROFILING")) {
		return nil
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:              "localhost:" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server stopped", logger.Error(err))
		}
	}()
	return srv
}

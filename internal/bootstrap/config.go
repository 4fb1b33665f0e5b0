package bootstrap

import (
	"flag"
	"fmt"

	infraconfig "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/config"
)

// LoadConfig loads configuration. Uses -config flag with infraconfig default.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", infraconfig.GetConfigPath("config.yml"), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config, version string) (infralogger.Logger, error) {
	log, err := infralogger.New(infralogger.Config{
		Level:       cfg.Logging.Level,
		Format:      "json",
		Development: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", serviceName),
		infralogger.String("version", version),
	), nil
}

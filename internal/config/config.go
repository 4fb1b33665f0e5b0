package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/config"
)

const (
	defaultServerPort      = 5000
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultESURL           = "http://localhost:9200"
	defaultESIndex         = "todos"
	defaultESMaxRetries    = 3
	defaultESConcurrency   = 8
	defaultESListPageSize  = 1000
	defaultRedisAddress    = "localhost:6379"
)

// Storage drivers.
const (
	DriverPostgres      = "postgres"
	DriverElasticsearch = "elasticsearch"
	DriverMemory        = "memory"
)

type Config struct {
	Debug         bool                `env:"APP_DEBUG" yaml:"debug"`
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"   yaml:"host"`
	Port         int           `env:"SERVER_PORT"   yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS"  yaml:"cors_origins"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" yaml:"driver"`
}

type DatabaseConfig struct {
	// URL, when set, is used as the DSN instead of the discrete fields.
	URL             string        `env:"DATABASE_URL"     yaml:"url"`
	Host            string        `env:"DB_HOST"          yaml:"host"`
	Port            int           `env:"DB_PORT"          yaml:"port"`
	User            string        `env:"DB_USER"          yaml:"user"`
	Password        string        `env:"DB_PASSWORD"      yaml:"password"`
	DBName          string        `env:"DB_NAME"          yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"       yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE"  yaml:"auto_migrate"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH"  yaml:"migrations_path"`
}

// DSN returns URL when set, otherwise a key=value connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns a postgres:// URL suitable for golang-migrate.
func (c *DatabaseConfig) MigrateURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type ElasticsearchConfig struct {
	URL              string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username         string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password         string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	Index            string `env:"ELASTICSEARCH_INDEX"    yaml:"index"`
	MaxRetries       int    `yaml:"max_retries"`
	OrderConcurrency int    `yaml:"order_concurrency"`
	ListPageSize     int    `yaml:"list_page_size"`
}

// RedisConfig configures event publishing. Events are off unless Enabled.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("storage.driver", c.Storage.Driver,
		DriverPostgres, DriverElasticsearch, DriverMemory); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.URL != "" {
			return nil
		}
		for field, value := range map[string]string{
			"database.host":   c.Database.Host,
			"database.user":   c.Database.User,
			"database.dbname": c.Database.DBName,
		} {
			if err := infraconfig.ValidateRequired(field, value); err != nil {
				return err
			}
		}
		return infraconfig.ValidatePort("database.port", c.Database.Port)
	case DriverElasticsearch:
		return infraconfig.ValidateURL("elasticsearch.url", c.Elasticsearch.URL)
	}
	return nil
}

// Load reads path, applies defaults and environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyLegacyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyLegacyEnv honors PORT and DB_URL, the variable names the first
// deployment of the service used, when the current names are unset.
func applyLegacyEnv(cfg *Config) {
	if os.Getenv("SERVER_PORT") == "" {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DB_URL")
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverPostgres
	}

	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = defaultESURL
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = defaultESIndex
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = defaultESMaxRetries
	}
	if cfg.Elasticsearch.OrderConcurrency == 0 {
		cfg.Elasticsearch.OrderConcurrency = defaultESConcurrency
	}
	if cfg.Elasticsearch.ListPageSize == 0 {
		cfg.Elasticsearch.ListPageSize = defaultESListPageSize
	}

	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if cfg.Debug {
			cfg.Logging.Level = "debug"
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `toml:"http"`
	Graph   GraphConfig   `toml:"graph"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
	Viewer  ViewerConfig  `toml:"viewer"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `toml:"host"`
	Port              int           `toml:"port"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	IdleTimeout       time.Duration `toml:"idle_timeout"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout"`
	MetricsEnabled    bool          `toml:"metrics_enabled"`
	AllowedOriginsCSV string        `toml:"allowed_origins"`
}

// GraphConfig describes connectivity to the Neo4j graph holding lots and movements.
type GraphConfig struct {
	URI            string `toml:"uri"`
	Database       string `toml:"database"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	MaxConnections int    `toml:"max_connections"`
}

// CacheConfig configures the Redis trace cache. An empty Addr disables caching.
type CacheConfig struct {
	Addr      string        `toml:"addr"`
	Password  string        `toml:"password"`
	DB        int           `toml:"db"`
	TTL       time.Duration `toml:"ttl"`
	KeyPrefix string        `toml:"key_prefix"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `toml:"level"`
	Format        string `toml:"format"` // text|logfmt|json
	IncludeCaller bool   `toml:"include_caller"`
}

// ViewerConfig holds defaults for the trace viewer CLI.
type ViewerConfig struct {
	APIBaseURL string `toml:"api_base_url"`
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultCacheTTL         = 5 * time.Minute
	defaultCacheKeyPrefix   = "lottrace:"
	defaultAPIBaseURL       = "http://localhost:8080"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
		},
		Cache: CacheConfig{
			TTL:       defaultCacheTTL,
			KeyPrefix: defaultCacheKeyPrefix,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
		Viewer: ViewerConfig{
			APIBaseURL: defaultAPIBaseURL,
		},
	}
}

// Load starts from Default, applies the TOML file named by CONFIG_FILE if
// set, then applies environment variable overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)
	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	cfg.HTTP.AllowedOriginsCSV = valueOrDefault("SERVER_ALLOWED_ORIGINS", cfg.HTTP.AllowedOriginsCSV)

	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"CACHE_TTL", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.dst); err != nil {
			return err
		}
	}

	cfg.Graph.URI = valueOrDefault("GRAPH_URI", cfg.Graph.URI)
	cfg.Graph.Database = valueOrDefault("GRAPH_DATABASE", cfg.Graph.Database)
	cfg.Graph.Username = valueOrDefault("GRAPH_USERNAME", cfg.Graph.Username)
	cfg.Graph.Password = valueOrDefault("GRAPH_PASSWORD", cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)

	cfg.Cache.Addr = valueOrDefault("CACHE_REDIS_ADDR", cfg.Cache.Addr)
	cfg.Cache.Password = valueOrDefault("CACHE_REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Cache.DB = parseIntWithDefault("CACHE_REDIS_DB", cfg.Cache.DB)
	cfg.Cache.KeyPrefix = valueOrDefault("CACHE_KEY_PREFIX", cfg.Cache.KeyPrefix)

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	cfg.Viewer.APIBaseURL = valueOrDefault("LOTTRACE_API_URL", cfg.Viewer.APIBaseURL)
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

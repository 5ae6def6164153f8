package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the triage service and the demo client
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Model  ModelConfig  `mapstructure:"model"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Demo   DemoConfig   `mapstructure:"demo"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// ModelConfig selects and locates the classification artifact
type ModelConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	Device   string        `mapstructure:"device"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds prediction cache configuration
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	SizeMB  int           `mapstructure:"size_mb"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DemoConfig holds configuration for the demo web client
type DemoConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	APIURL         string        `mapstructure:"api_url"`
	HealthTimeout  time.Duration `mapstructure:"health_timeout"`
	PredictTimeout time.Duration `mapstructure:"predict_timeout"`
}

// Model backends
const (
	BackendSVM         = "svm"
	BackendTransformer = "transformer"
)

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Load reads configuration from defaults, an optional config file and
// TRIAGE_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The demo's base URL keeps its historical variable name.
	if err := v.BindEnv("demo.api_url", "TRIAGE_API_URL", "TRIAGE_DEMO_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Model.Backend = strings.ToLower(strings.TrimSpace(cfg.Model.Backend))
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Demo.APIURL = strings.TrimRight(cfg.Demo.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")

	// Model
	v.SetDefault("model.backend", BackendSVM)
	v.SetDefault("model.dir", "models")
	v.SetDefault("model.device", "cpu")
	v.SetDefault("model.endpoint", "http://localhost:8080")
	v.SetDefault("model.timeout", 30*time.Second)

	// Cache
	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.size_mb", 32)
	v.SetDefault("cache.ttl", time.Hour)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Demo
	v.SetDefault("demo.host", "0.0.0.0")
	v.SetDefault("demo.port", 8501)
	v.SetDefault("demo.api_url", "http://localhost:8000")
	v.SetDefault("demo.health_timeout", 3*time.Second)
	v.SetDefault("demo.predict_timeout", 10*time.Second)
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case BackendSVM, BackendTransformer:
	default:
		return fmt.Errorf("unknown model backend %q", c.Model.Backend)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheMemory && c.Cache.SizeMB <= 0 {
		return fmt.Errorf("invalid cache size: %d MB", c.Cache.SizeMB)
	}
	return nil
}

// ArtifactDir returns the directory holding the artifacts of the configured
// backend. Relative model dirs resolve against the executable's directory.
func (m *ModelConfig) ArtifactDir() string {
	dir := m.Dir
	if !filepath.IsAbs(dir) {
		if exe, err := os.Executable(); err == nil {
			dir = filepath.Join(filepath.Dir(exe), dir)
		}
	}
	return filepath.Join(dir, m.Backend)
}

// Address returns the host:port the service listens on
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the host:port the demo listens on
func (d *DemoConfig) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// Address returns the Redis host:port
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

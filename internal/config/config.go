package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported HTTP engines.
const (
	EngineFastHTTP = "fasthttp"
	EngineNetHTTP  = "nethttp"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	JWT         JWTConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Envelope    EnvelopeConfig
}

type HTTPConfig struct {
	Host               string
	Port               string
	Engine             string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int
}

// JWTConfig enables the bearer guard on /api/v1 when Secret is set.
type JWTConfig struct {
	Secret string
	Issuer string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type EnvelopeConfig struct {
	ContentType string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "envelope"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:               getString("SERVER_HOST", "0.0.0.0"),
			Port:               getString("SERVER_PORT", "8080"),
			Engine:             strings.ToLower(getString("SERVER_ENGINE", EngineFastHTTP)),
			ReadTimeout:        getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:        getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxRequestBodySize: getInt("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: os.Getenv("JWT_ISSUER"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Envelope: EnvelopeConfig{
			ContentType: getString("ENVELOPE_CONTENT_TYPE", "application/json"),
		},
	}

	switch cfg.HTTP.Engine {
	case EngineFastHTTP, EngineNetHTTP:
	default:
		return nil, fmt.Errorf("config: unsupported SERVER_ENGINE %q", cfg.HTTP.Engine)
	}
	if cfg.HTTP.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("config: SERVER_MAX_BODY_BYTES must be positive, got %d", cfg.HTTP.MaxRequestBodySize)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "http://localhost:3000/api"
	defaultPort           = "8501"
	defaultBackendTimeout = 10 * time.Second
	defaultUserID         = "123"
	defaultAuthToken      = "abc123"
	defaultLogDir         = "./logs"
	defaultAuditTopic     = "console.activity"
)

// Config aggregates every setting the console reads from the environment.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Logging LoggingConfig
	Kafka   KafkaConfig
}

type ServerConfig struct {
	Port string
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds the values prefilled in the session bar.
type SessionConfig struct {
	DefaultUserID    string
	DefaultAuthToken string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// AuditEnabled reports whether activity events should be written to Kafka.
func (c KafkaConfig) AuditEnabled() bool {
	return len(c.Brokers) > 0 && c.AuditTopic != ""
}

// Load reads configuration from the environment. Missing values fall back to
// defaults; malformed values are errors.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Backend: backend,
		Session: SessionConfig{
			DefaultUserID:    envOrDefault("DEFAULT_USER_ID", defaultUserID),
			DefaultAuthToken: envOrDefault("DEFAULT_AUTH_TOKEN", defaultAuthToken),
		},
		Logging: LoggingConfig{
			Level:     envOrDefault("LOG_LEVEL", "info"),
			Format:    envOrDefault("LOG_FORMAT", "text"),
			Directory: envOrDefault("LOG_DIR", defaultLogDir),
		},
		Kafka: KafkaConfig{
			Brokers:    parseList(firstEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			AuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", defaultAuditTopic),
		},
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := envOrDefault("PORT", defaultPort)
	if strings.ContainsAny(port, " \t") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}
	return ServerConfig{Port: port}, nil
}

func loadBackendConfig() (BackendConfig, error) {
	baseURL := strings.TrimRight(envOrDefault("BASE_URL", defaultBaseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return BackendConfig{}, fmt.Errorf("invalid BASE_URL value: %q", baseURL)
	}

	timeout := defaultBackendTimeout
	if raw := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); raw != "" {
		parsedTimeout, err := time.ParseDuration(raw)
		if err != nil {
			return BackendConfig{}, fmt.Errorf("invalid BACKEND_TIMEOUT value %q: %w", raw, err)
		}
		if parsedTimeout <= 0 {
			return BackendConfig{}, fmt.Errorf("BACKEND_TIMEOUT must be positive, got %q", raw)
		}
		timeout = parsedTimeout
	}

	return BackendConfig{BaseURL: baseURL, Timeout: timeout}, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

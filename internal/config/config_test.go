package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "BASE_URL", "BACKEND_TIMEOUT", "DEFAULT_USER_ID", "DEFAULT_AUTH_TOKEN",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_DIR", "KAFKA_BROKERS", "KAFKA_BROKER", "KAFKA_AUDIT_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr() != ":8501" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Backend.BaseURL != "http://localhost:3000/api" || cfg.Backend.Timeout != 10*time.Second {
		t.Fatalf("unexpected backend config: %+v", cfg.Backend)
	}
	if cfg.Session.DefaultUserID != "123" || cfg.Session.DefaultAuthToken != "abc123" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Kafka.AuditEnabled() {
		t.Fatalf("audit should be disabled without brokers")
	}
	if cfg.Logging.Directory != "./logs" {
		t.Fatalf("unexpected log dir: %s", cfg.Logging.Directory)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("BASE_URL", "https://classifier.internal/api/")
	t.Setenv("BACKEND_TIMEOUT", "2500ms")
	t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092 ,")
	t.Setenv("KAFKA_AUDIT_TOPIC", "ops.console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Backend.BaseURL != "https://classifier.internal/api" {
		t.Fatalf("unexpected base url: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout: %s", cfg.Backend.Timeout)
	}
	if strings.Join(cfg.Kafka.Brokers, "|") != "kafka-1:9092|kafka-2:9092" || !cfg.Kafka.AuditEnabled() {
		t.Fatalf("unexpected kafka config: %+v", cfg.Kafka)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad timeout":      {"BACKEND_TIMEOUT", "soon"},
		"negative timeout": {"BACKEND_TIMEOUT", "-1s"},
		"bad base url":     {"BASE_URL", "localhost"},
		"bad port":         {"PORT", "80 80"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), kv[0]) {
				t.Fatalf("expected error naming %s, got %v", kv[0], err)
			}
		})
	}
}

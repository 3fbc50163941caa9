package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadUsesDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_FORMAT", "KAFKA_TOPIC",
		"HASHIDS_DEFAULT_MIN_LENGTH", "DECODE_CACHE_ITEMS", "ISSUED_FILTER_FP_RATE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Addr != ":9999" {
		t.Fatalf("Addr: got %q, want %q", cfg.Addr, ":9999")
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout: got %v", cfg.IdleTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout: got %v", cfg.ShutdownTimeout)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("LogFormat: got %q", cfg.LogFormat)
	}
	if cfg.KafkaTopic != "codec-usage" {
		t.Fatalf("KafkaTopic: got %q", cfg.KafkaTopic)
	}
	if cfg.DefaultMinLength != 0 {
		t.Fatalf("DefaultMinLength: got %d", cfg.DefaultMinLength)
	}
	if cfg.DecodeCacheItems != 100_000 {
		t.Fatalf("DecodeCacheItems: got %d", cfg.DecodeCacheItems)
	}
	if cfg.IssuedFilterFPRate != 0.01 {
		t.Fatalf("IssuedFilterFPRate: got %v", cfg.IssuedFilterFPRate)
	}
	if cfg.TraceSampleRatio != 1 {
		t.Fatalf("TraceSampleRatio: got %v", cfg.TraceSampleRatio)
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("ADDR", ":18080")
	t.Setenv("IDLE_TIMEOUT", "2m")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HASHIDS_MASTER_SECRET", "m")
	t.Setenv("HASHIDS_DEFAULT_SALT", "this is my salt")
	t.Setenv("HASHIDS_DEFAULT_MIN_LENGTH", "8")
	t.Setenv("HASHIDS_REGISTRY_TTL", "30s")
	t.Setenv("DECODE_CACHE_ENABLED", "false")
	t.Setenv("ISSUED_FILTER_ITEMS", "5000")
	t.Setenv("ISSUED_FILTER_FP_RATE", "0.001")

	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	cfg := Load()

	if cfg.Addr != ":18080" {
		t.Fatalf("Addr: got %q", cfg.Addr)
	}
	if cfg.IdleTimeout != 2*time.Minute {
		t.Fatalf("IdleTimeout: got %v", cfg.IdleTimeout)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Fatalf("ReadTimeout: got %v", cfg.ReadTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel: got %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("LogFormat: got %q", cfg.LogFormat)
	}
	if !cfg.KafkaEnabled || len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("Kafka: got %v %v", cfg.KafkaEnabled, cfg.KafkaBrokers)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("RedisDB: got %d", cfg.RedisDB)
	}
	if cfg.MasterSecret != "m" || cfg.DefaultSalt != "this is my salt" || cfg.DefaultMinLength != 8 {
		t.Fatalf("hashids defaults: got %q %q %d", cfg.MasterSecret, cfg.DefaultSalt, cfg.DefaultMinLength)
	}
	if cfg.RegistryTTL != 30*time.Second {
		t.Fatalf("RegistryTTL: got %v", cfg.RegistryTTL)
	}
	if cfg.DecodeCacheEnabled {
		t.Fatal("DecodeCacheEnabled: want false")
	}
	if cfg.IssuedFilterItems != 5000 || cfg.IssuedFilterFPRate != 0.001 {
		t.Fatalf("issued filter: got %d %v", cfg.IssuedFilterItems, cfg.IssuedFilterFPRate)
	}
	if cfg.TraceSampleRatio != 0.25 {
		t.Fatalf("TraceSampleRatio: got %v", cfg.TraceSampleRatio)
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("IDLE_TIMEOUT", "soon")
	t.Setenv("HASHIDS_DEFAULT_MIN_LENGTH", "-4")
	t.Setenv("ISSUED_FILTER_FP_RATE", "2")
	t.Setenv("TRACE_SAMPLE_RATIO", "1.5")

	cfg := Load()

	if cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout: got %v", cfg.IdleTimeout)
	}
	if cfg.DefaultMinLength != 0 {
		t.Fatalf("DefaultMinLength: got %d", cfg.DefaultMinLength)
	}
	if cfg.IssuedFilterFPRate != 0.01 {
		t.Fatalf("IssuedFilterFPRate: got %v", cfg.IssuedFilterFPRate)
	}
	if cfg.TraceSampleRatio != 1 {
		t.Fatalf("TraceSampleRatio: got %v", cfg.TraceSampleRatio)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "info": slog.LevelInfo, "???": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnv = []string{
	"APP_ENV", "PORT", "JWT_SECRET", "TOKEN_TTL", "CORS_ORIGINS", "LOG_LEVEL",
	"DB_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"REDIS_URL", "STATS_CACHE_TTL", "DIGEST_TIME", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.Port != "5000" || cfg.Addr() != ":5000" {
		t.Fatalf("unexpected env/port: %+v", cfg)
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Fatalf("expected 168h ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.DSN() != "smart_tasks.db" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Redis.URL != "" || cfg.Redis.StatsTTL != 5*time.Minute {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Digest.Time != "" {
		t.Fatalf("digest should be disabled by default")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "   ")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	cases := map[string][2]string{
		"env":    {"APP_ENV", "staging"},
		"driver": {"DB_DRIVER", "mysql"},
		"ttl":    {"TOKEN_TTL", "-1h"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_USER", "tasks")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_HOST", "db")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.Digest.TelegramChatID != -100200 {
		t.Fatalf("unexpected chat id %d", cfg.Digest.TelegramChatID)
	}

	want := "postgres://tasks:p%40ss@db:5432/smart_tasks?sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestDSNPrefersURL(t *testing.T) {
	c := DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u@h/db", Host: "ignored"}
	if got := c.DSN(); got != "postgres://u@h/db" {
		t.Fatalf("DSN = %q", got)
	}
}

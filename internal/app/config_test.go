package app

import (
	"testing"
	"time"

	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "REDIS_CHANNEL", "REACTIONS_PARALLEL", "ANALYTICS_RESYNC_INTERVAL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" || cfg.DB.Driver != "postgres" || cfg.Redis.Channel != "applyflow-sse" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if !cfg.ReactionsParallel || !cfg.AnalyticsSeedOnStart || cfg.AnalyticsResyncInterval != 0 {
		t.Fatalf("analytics/reaction defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("CORS origins should fall back to dev defaults: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("REACTIONS_PARALLEL", "false")
	t.Setenv("ANALYTICS_RESYNC_INTERVAL", "90")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc")

	cfg := LoadConfig(logger.Nop())
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/x.db" {
		t.Fatalf("db: %+v", cfg.DB)
	}
	if cfg.ReactionsParallel || cfg.AnalyticsResyncInterval != 90*time.Second {
		t.Fatalf("reactions/resync: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
	if cfg.Otel.Headers["x-api-key"] != "abc" {
		t.Fatalf("headers=%v", cfg.Otel.Headers)
	}
}

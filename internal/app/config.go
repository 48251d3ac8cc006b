package app

import (
	"time"

	"github.com/yungbote/applyflow-backend/internal/data/db"
	"github.com/yungbote/applyflow-backend/internal/observability"
	"github.com/yungbote/applyflow-backend/internal/platform/envutil"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
	"github.com/yungbote/applyflow-backend/internal/realtime"
	"github.com/yungbote/applyflow-backend/internal/realtime/bus"
)

type Config struct {
	Port    string
	LogMode string

	DB    db.Config
	Redis bus.RedisConfig
	Hub   realtime.HubConfig

	MetricsEnabled        bool
	MetricsAddr           string
	MetricsScrapeInterval time.Duration
	Otel                  observability.OtelConfig

	AnalyticsSeedOnStart    bool
	AnalyticsResyncInterval time.Duration
	ReactionsParallel       bool
	NotificationTemplates   string

	CORSOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "applyflow"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "applyflow.db"),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", 200*time.Millisecond),
		},
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_CHANNEL", "applyflow-sse"),
		},
		Hub: realtime.HubConfig{
			ClientBuffer: envutil.Int("SSE_CLIENT_BUFFER", 16),
			Heartbeat:    envutil.Duration("SSE_HEARTBEAT", 15*time.Second),
		},
		MetricsEnabled:        envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:           envutil.String("METRICS_ADDR", ":9090"),
		MetricsScrapeInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "applyflow-api"),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		},
		AnalyticsSeedOnStart:    envutil.Bool("ANALYTICS_SEED_ON_START", true),
		AnalyticsResyncInterval: envutil.Duration("ANALYTICS_RESYNC_INTERVAL", 0),
		ReactionsParallel:       envutil.Bool("REACTIONS_PARALLEL", true),
		NotificationTemplates:   envutil.String("NOTIFICATION_TEMPLATES_FILE", ""),
		CORSOrigins:             envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}
	if log != nil {
		log.Info("Config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"redis", cfg.Redis.Addr != "",
			"metrics", cfg.MetricsEnabled,
			"otel", cfg.Otel.Enabled,
			"reactions_parallel", cfg.ReactionsParallel,
		)
	}
	return cfg
}

package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STARTGG_TOKEN", "test-token")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	t.Setenv("STARTGG_TOKEN", "test-token")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresStartGGToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STARTGG_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STARTGG_TOKEN is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.ServiceName != "startgg-stats-api" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL default, got %q", cfg.DBURL)
	}
	if cfg.ParticipantsPerPage != 100 {
		t.Fatalf("unexpected participants page size %d", cfg.ParticipantsPerPage)
	}
	if cfg.SetsPerPage != 20 {
		t.Fatalf("unexpected sets page size %d", cfg.SetsPerPage)
	}
	if cfg.StartGGTimeout != 20*time.Second {
		t.Fatalf("unexpected upstream timeout %s", cfg.StartGGTimeout)
	}
	if cfg.SyncWorkers != 4 {
		t.Fatalf("unexpected sync workers %d", cfg.SyncWorkers)
	}
	if cfg.ReportAsyncWorkers != 2 {
		t.Fatalf("unexpected report workers %d", cfg.ReportAsyncWorkers)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger on by default in dev")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_SwaggerDefaultsOffInProd(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger off by default in prod")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/123"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/123" {
		t.Fatalf("unexpected uptrace dsn %q", cfg.UptraceDSN)
	}
}

func TestLoad_AuditRemoteRequiresBaseURLWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUDIT_REMOTE_ENABLED", "true")
	t.Setenv("AUDIT_REMOTE_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when AUDIT_REMOTE_ENABLED=true without AUDIT_REMOTE_BASE_URL")
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_RejectsBadPageSizes(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STARTGG_PARTICIPANTS_PER_PAGE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero participants page size")
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STARTGG_PARTICIPANTS_PER_PAGE", "50")
	t.Setenv("STARTGG_SETS_DELAY", "1s")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ParticipantsPerPage != 50 {
		t.Fatalf("unexpected participants page size %d", cfg.ParticipantsPerPage)
	}
	if cfg.SetsDelay != time.Second {
		t.Fatalf("unexpected sets delay %s", cfg.SetsDelay)
	}
	if cfg.SyncWorkers != 8 {
		t.Fatalf("unexpected sync workers %d", cfg.SyncWorkers)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

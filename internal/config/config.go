package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	DBURL                        string
	DBDisablePreparedBinary      bool
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	CORSAllowedOrigins           []string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	PprofEnabled                 bool
	PprofAddr                    string
	SwaggerEnabled               bool
	StartGGBaseURL               string
	StartGGToken                 string
	StartGGTimeout               time.Duration
	StartGGResolveTTL            time.Duration
	StartGGCircuitEnabled        bool
	StartGGCircuitFailureCount   int
	StartGGCircuitOpenTimeout    time.Duration
	StartGGCircuitHalfOpenMaxReq int
	ParticipantsPerPage          int
	ParticipantsDelay            time.Duration
	SetsPerPage                  int
	SetsDelay                    time.Duration
	SyncWorkers                  int
	AuditRemoteEnabled           bool
	AuditRemoteBaseURL           string
	AuditRemoteToken             string
	AuditRemoteTimeout           time.Duration
	AuditCircuitEnabled          bool
	AuditCircuitFailureCount     int
	AuditCircuitOpenTimeout      time.Duration
	AuditCircuitHalfOpenMaxReq   int
	ReportsDir                   string
	ReportAsyncWorkers           int
	InternalJobToken             string
	UptraceEnabled               bool
	UptraceDSN                   string
	UptraceLogsEnabled           bool
	UptraceCaptureRequestBody    bool
	UptraceRequestBodyMaxBytes   int
	BetterStackEnabled           bool
	BetterStackEndpoint          string
	BetterStackToken             string
	BetterStackTimeout           time.Duration
	BetterStackMinLevel          logging.Level
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	LogLevel                     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel := parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	startGGToken := strings.TrimSpace(getEnv("STARTGG_TOKEN", ""))
	if startGGToken == "" {
		return Config{}, fmt.Errorf("STARTGG_TOKEN is required")
	}
	startGGTimeout, err := time.ParseDuration(getEnv("STARTGG_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_TIMEOUT: %w", err)
	}
	if startGGTimeout <= 0 {
		return Config{}, fmt.Errorf("STARTGG_TIMEOUT must be > 0")
	}
	startGGResolveTTL, err := time.ParseDuration(getEnv("STARTGG_RESOLVE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_RESOLVE_TTL: %w", err)
	}
	if startGGResolveTTL <= 0 {
		return Config{}, fmt.Errorf("STARTGG_RESOLVE_TTL must be > 0")
	}
	startGGCircuitEnabled, err := strconv.ParseBool(getEnv("STARTGG_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_ENABLED: %w", err)
	}
	startGGCircuitFailureCount, err := getEnvAsInt("STARTGG_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if startGGCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	startGGCircuitOpenTimeout, err := time.ParseDuration(getEnv("STARTGG_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if startGGCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	startGGCircuitHalfOpenMaxReq, err := getEnvAsInt("STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if startGGCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STARTGG_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	participantsPerPage, err := getEnvAsInt("STARTGG_PARTICIPANTS_PER_PAGE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_PARTICIPANTS_PER_PAGE: %w", err)
	}
	if participantsPerPage < 1 {
		return Config{}, fmt.Errorf("STARTGG_PARTICIPANTS_PER_PAGE must be >= 1")
	}
	participantsDelay, err := time.ParseDuration(getEnv("STARTGG_PARTICIPANTS_DELAY", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_PARTICIPANTS_DELAY: %w", err)
	}
	if participantsDelay < 0 {
		return Config{}, fmt.Errorf("STARTGG_PARTICIPANTS_DELAY must be >= 0")
	}
	setsPerPage, err := getEnvAsInt("STARTGG_SETS_PER_PAGE", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_SETS_PER_PAGE: %w", err)
	}
	if setsPerPage < 1 {
		return Config{}, fmt.Errorf("STARTGG_SETS_PER_PAGE must be >= 1")
	}
	setsDelay, err := time.ParseDuration(getEnv("STARTGG_SETS_DELAY", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTGG_SETS_DELAY: %w", err)
	}
	if setsDelay < 0 {
		return Config{}, fmt.Errorf("STARTGG_SETS_DELAY must be >= 0")
	}

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKERS: %w", err)
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}

	auditRemoteEnabled, err := strconv.ParseBool(getEnv("AUDIT_REMOTE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_REMOTE_ENABLED: %w", err)
	}
	auditRemoteBaseURL := strings.TrimSpace(getEnv("AUDIT_REMOTE_BASE_URL", ""))
	if auditRemoteEnabled && auditRemoteBaseURL == "" {
		return Config{}, fmt.Errorf("AUDIT_REMOTE_BASE_URL is required when AUDIT_REMOTE_ENABLED=true")
	}
	auditRemoteTimeout, err := time.ParseDuration(getEnv("AUDIT_REMOTE_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_REMOTE_TIMEOUT: %w", err)
	}
	if auditRemoteTimeout <= 0 {
		return Config{}, fmt.Errorf("AUDIT_REMOTE_TIMEOUT must be > 0")
	}
	auditCircuitEnabled, err := strconv.ParseBool(getEnv("AUDIT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_CIRCUIT_ENABLED: %w", err)
	}
	auditCircuitFailureCount, err := getEnvAsInt("AUDIT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if auditCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AUDIT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	auditCircuitOpenTimeout, err := time.ParseDuration(getEnv("AUDIT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if auditCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("AUDIT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	auditCircuitHalfOpenMaxReq, err := getEnvAsInt("AUDIT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if auditCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("AUDIT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	reportAsyncWorkers, err := getEnvAsInt("REPORT_ASYNC_WORKERS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_ASYNC_WORKERS: %w", err)
	}
	if reportAsyncWorkers < 0 {
		return Config{}, fmt.Errorf("REPORT_ASYNC_WORKERS must be >= 0")
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "startgg-stats-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:      true,
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		SwaggerEnabled:               swaggerEnabled,
		StartGGBaseURL:               getEnv("STARTGG_BASE_URL", ""),
		StartGGToken:                 startGGToken,
		StartGGTimeout:               startGGTimeout,
		StartGGResolveTTL:            startGGResolveTTL,
		StartGGCircuitEnabled:        startGGCircuitEnabled,
		StartGGCircuitFailureCount:   startGGCircuitFailureCount,
		StartGGCircuitOpenTimeout:    startGGCircuitOpenTimeout,
		StartGGCircuitHalfOpenMaxReq: startGGCircuitHalfOpenMaxReq,
		ParticipantsPerPage:          participantsPerPage,
		ParticipantsDelay:            participantsDelay,
		SetsPerPage:                  setsPerPage,
		SetsDelay:                    setsDelay,
		SyncWorkers:                  syncWorkers,
		AuditRemoteEnabled:           auditRemoteEnabled,
		AuditRemoteBaseURL:           auditRemoteBaseURL,
		AuditRemoteToken:             strings.TrimSpace(getEnv("AUDIT_REMOTE_TOKEN", "")),
		AuditRemoteTimeout:           auditRemoteTimeout,
		AuditCircuitEnabled:          auditCircuitEnabled,
		AuditCircuitFailureCount:     auditCircuitFailureCount,
		AuditCircuitOpenTimeout:      auditCircuitOpenTimeout,
		AuditCircuitHalfOpenMaxReq:   auditCircuitHalfOpenMaxReq,
		ReportsDir:                   strings.TrimSpace(getEnv("REPORTS_DIR", "./reports")),
		ReportAsyncWorkers:           reportAsyncWorkers,
		InternalJobToken:             strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		UptraceLogsEnabled:           uptraceLogsEnabled,
		UptraceCaptureRequestBody:    uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes:   uptraceRequestBodyMaxBytes,
		BetterStackEnabled:           betterStackEnabled,
		BetterStackEndpoint:          betterStackEndpoint,
		BetterStackToken:             strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:           betterStackTimeout,
		BetterStackMinLevel:          betterStackMinLevel,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.ReportsDir == "" {
		return Config{}, fmt.Errorf("REPORTS_DIR cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

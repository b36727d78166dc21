package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration

	PprofEnabled bool
	PprofAddr    string

	AccountBaseURL        string
	AccountIntrospectPath string
	AccountTimeout        time.Duration
	AccountCacheTTL       time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	ScoreFeedEnabled             bool
	ScoreFeedBaseURL             string
	ScoreFeedToken               string
	ScoreFeedTimeout             time.Duration
	ScoreFeedMaxRetries          int
	ScoreFeedCircuitEnabled      bool
	ScoreFeedCircuitFailureCount int
	ScoreFeedCircuitOpenTimeout  time.Duration
	ScoreFeedCircuitHalfOpenMax  int

	InternalJobToken string
	ReminderLead     time.Duration
	LiveScoreWorkers int
	RecalcWorkers    int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
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

	scoreFeedEnabled, err := strconv.ParseBool(getEnv("SCORE_FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_ENABLED: %w", err)
	}
	scoreFeedTimeout, err := time.ParseDuration(getEnv("SCORE_FEED_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_TIMEOUT: %w", err)
	}
	if scoreFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("SCORE_FEED_TIMEOUT must be > 0")
	}
	scoreFeedMaxRetries, err := getEnvAsInt("SCORE_FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_MAX_RETRIES: %w", err)
	}
	if scoreFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("SCORE_FEED_MAX_RETRIES must be >= 0")
	}
	scoreFeedCircuitEnabled, err := strconv.ParseBool(getEnv("SCORE_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_CIRCUIT_ENABLED: %w", err)
	}
	scoreFeedCircuitFailureCount, err := getEnvAsInt("SCORE_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if scoreFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SCORE_FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	scoreFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCORE_FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if scoreFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SCORE_FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	scoreFeedCircuitHalfOpenMax, err := getEnvAsInt("SCORE_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORE_FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if scoreFeedCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("SCORE_FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	scoreFeedBaseURL := strings.TrimSpace(getEnv("SCORE_FEED_BASE_URL", "https://api.scorefeed.io/v2/football"))
	scoreFeedToken := strings.TrimSpace(getEnv("SCORE_FEED_TOKEN", ""))
	if scoreFeedEnabled && scoreFeedToken == "" {
		return Config{}, fmt.Errorf("SCORE_FEED_TOKEN is required when SCORE_FEED_ENABLED=true")
	}

	reminderLead, err := time.ParseDuration(getEnv("REMINDER_LEAD", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REMINDER_LEAD: %w", err)
	}
	if reminderLead <= 0 {
		return Config{}, fmt.Errorf("REMINDER_LEAD must be > 0")
	}

	liveScoreWorkers, err := getEnvAsInt("LIVE_SCORE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SCORE_WORKERS: %w", err)
	}
	if liveScoreWorkers < 1 {
		return Config{}, fmt.Errorf("LIVE_SCORE_WORKERS must be >= 1")
	}
	recalcWorkers, err := getEnvAsInt("RECALC_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECALC_WORKERS: %w", err)
	}
	if recalcWorkers < 1 {
		return Config{}, fmt.Errorf("RECALC_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "predictor-league-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        getEnv("DB_URL", ""),
		DBDisablePreparedBinary:      true,
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		AccountBaseURL:               getEnv("ACCOUNT_BASE_URL", "http://localhost:8081"),
		AccountIntrospectPath:        getEnv("ACCOUNT_INTROSPECT_PATH", "/v1/auth/introspect"),
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
		ScoreFeedEnabled:             scoreFeedEnabled,
		ScoreFeedBaseURL:             scoreFeedBaseURL,
		ScoreFeedToken:               scoreFeedToken,
		ScoreFeedTimeout:             scoreFeedTimeout,
		ScoreFeedMaxRetries:          scoreFeedMaxRetries,
		ScoreFeedCircuitEnabled:      scoreFeedCircuitEnabled,
		ScoreFeedCircuitFailureCount: scoreFeedCircuitFailureCount,
		ScoreFeedCircuitOpenTimeout:  scoreFeedCircuitOpenTimeout,
		ScoreFeedCircuitHalfOpenMax:  scoreFeedCircuitHalfOpenMax,
		InternalJobToken:             strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		ReminderLead:                 reminderLead,
		LiveScoreWorkers:             liveScoreWorkers,
		RecalcWorkers:                recalcWorkers,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
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

	accountTimeout, err := time.ParseDuration(getEnv("ACCOUNT_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_TIMEOUT: %w", err)
	}
	accountCacheTTL, err := time.ParseDuration(getEnv("ACCOUNT_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CACHE_TTL: %w", err)
	}
	if accountCacheTTL < 0 {
		return Config{}, fmt.Errorf("ACCOUNT_CACHE_TTL must be >= 0")
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.AccountTimeout = accountTimeout
	cfg.AccountCacheTTL = accountCacheTTL
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

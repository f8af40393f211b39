package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/selection"
	"github.com/riskibarqy/team-roster/internal/platform/logging"
	"github.com/riskibarqy/team-roster/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBBreaker               resilience.BreakerConfig
	CacheEnabled            bool
	CacheTTL                time.Duration

	CORSAllowedOrigins []string
	MetricsEnabled     bool
	PprofEnabled       bool
	PprofAddr          string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	SelectionBatchMaxWorkers int
	SelectionLevelBands      selection.LevelBands
	// SelectionRandomSeed of zero leaves tie-breaking unseeded.
	SelectionRandomSeed uint64
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch storageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	dbBreaker, err := loadBreakerConfig()
	if err != nil {
		return Config{}, err
	}

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

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	batchMaxWorkers, err := getEnvAsInt("SELECTION_BATCH_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SELECTION_BATCH_MAX_WORKERS: %w", err)
	}
	if batchMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SELECTION_BATCH_MAX_WORKERS must be >= 1")
	}
	levelBands, err := ParseLevelBands(getEnv("SELECTION_LEVEL_BANDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse SELECTION_LEVEL_BANDS: %w", err)
	}
	randomSeed, err := strconv.ParseUint(getEnv("SELECTION_RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SELECTION_RANDOM_SEED: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "team-roster-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       logLevel,

		StorageDriver:           storageDriver,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBBreaker:               dbBreaker,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,

		CORSAllowedOrigins: corsAllowedOrigins,
		MetricsEnabled:     metricsEnabled,
		PprofEnabled:       pprofEnabled,
		PprofAddr:          pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		SelectionBatchMaxWorkers: batchMaxWorkers,
		SelectionLevelBands:      levelBands,
		SelectionRandomSeed:      randomSeed,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func loadBreakerConfig() (resilience.BreakerConfig, error) {
	defaults := resilience.DefaultBreakerConfig()

	enabled, err := strconv.ParseBool(getEnv("DB_BREAKER_ENABLED", strconv.FormatBool(defaults.Enabled)))
	if err != nil {
		return resilience.BreakerConfig{}, fmt.Errorf("parse DB_BREAKER_ENABLED: %w", err)
	}
	threshold, err := getEnvAsInt("DB_BREAKER_FAILURE_THRESHOLD", defaults.FailureThreshold)
	if err != nil {
		return resilience.BreakerConfig{}, fmt.Errorf("parse DB_BREAKER_FAILURE_THRESHOLD: %w", err)
	}
	openTimeout, err := time.ParseDuration(getEnv("DB_BREAKER_OPEN_TIMEOUT", defaults.OpenTimeout.String()))
	if err != nil {
		return resilience.BreakerConfig{}, fmt.Errorf("parse DB_BREAKER_OPEN_TIMEOUT: %w", err)
	}
	probes, err := getEnvAsInt("DB_BREAKER_HALF_OPEN_PROBES", defaults.HalfOpenProbes)
	if err != nil {
		return resilience.BreakerConfig{}, fmt.Errorf("parse DB_BREAKER_HALF_OPEN_PROBES: %w", err)
	}

	return resilience.BreakerConfig{
		Enabled:          enabled,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenProbes:   probes,
	}, nil
}

// ParseLevelBands reads "1:4|5,2:2|3|4,default:1|2". Empty input yields
// the default table; a missing default entry keeps the default fallback.
func ParseLevelBands(raw string) (selection.LevelBands, error) {
	bands := selection.DefaultLevelBands()
	if strings.TrimSpace(raw) == "" {
		return bands, nil
	}

	bands.ByStrength = make(map[int][]int)
	for _, item := range splitCSV(raw) {
		key, value, ok := strings.Cut(item, ":")
		if !ok {
			return selection.LevelBands{}, fmt.Errorf("invalid band %q, expected strength:level|level", item)
		}

		levels, err := parseLevels(value)
		if err != nil {
			return selection.LevelBands{}, fmt.Errorf("band %q: %w", item, err)
		}

		key = strings.TrimSpace(key)
		if strings.EqualFold(key, "default") {
			bands.Fallback = levels
			continue
		}
		strength, err := strconv.Atoi(key)
		if err != nil || strength < 1 {
			return selection.LevelBands{}, fmt.Errorf("invalid strength %q in band %q", key, item)
		}
		if _, dup := bands.ByStrength[strength]; dup {
			return selection.LevelBands{}, fmt.Errorf("strength %d listed more than once", strength)
		}
		bands.ByStrength[strength] = levels
	}

	return bands, nil
}

func parseLevels(raw string) ([]int, error) {
	parts := strings.Split(raw, "|")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		level, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid level %q", part)
		}
		if level < selection.MinLevel || level > selection.MaxLevel {
			return nil, fmt.Errorf("level %d outside %d..%d", level, selection.MinLevel, selection.MaxLevel)
		}
		out = append(out, level)
	}
	sort.Ints(out)
	return out, nil
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

	return strconv.Atoi(value)
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
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

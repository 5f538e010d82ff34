package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	CORSAllowedOrigins []string

	DBDisablePreparedBinaryResult bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	TokenSecret string
	TokenTTL    time.Duration

	AdminPassword string

	CodePrefix       string
	CodeSuffixLength int

	DefaultSeason  int
	SeasonLocks    map[int]time.Time
	BudgetCap      int64
	MaxRosterSlots int

	CacheEnabled bool
	CacheTTL     time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	var cfg Config

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv
	cfg.ServiceName = getEnv("SERVICE_NAME", "megabike-api")
	cfg.ServiceVersion = getEnv("SERVICE_VERSION", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.DBURL = strings.TrimSpace(os.Getenv("DB_URL"))
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinaryResult = disablePreparedBinary

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

	cfg.TokenSecret = strings.TrimSpace(os.Getenv("TOKEN_SECRET"))
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("TOKEN_SECRET is required")
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}
	if tokenTTL <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be > 0")
	}
	cfg.TokenTTL = tokenTTL

	cfg.AdminPassword = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	cfg.CodePrefix = getEnv("CODE_PREFIX", "MB26-")
	codeSuffixLength, err := getEnvAsInt("CODE_SUFFIX_LENGTH", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse CODE_SUFFIX_LENGTH: %w", err)
	}
	if codeSuffixLength < 4 {
		return Config{}, fmt.Errorf("CODE_SUFFIX_LENGTH must be >= 4")
	}
	cfg.CodeSuffixLength = codeSuffixLength

	defaultSeason, err := getEnvAsInt("DEFAULT_SEASON", 2026)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_SEASON: %w", err)
	}
	if defaultSeason <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_SEASON must be > 0")
	}
	cfg.DefaultSeason = defaultSeason

	seasonLocks, err := parseSeasonLocks(getEnv("SEASON_LOCKS", "2026=2026-02-27T00:00:00Z"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_LOCKS: %w", err)
	}
	cfg.SeasonLocks = seasonLocks

	budgetCap, err := getEnvAsInt("BUDGET_CAP", 11000)
	if err != nil {
		return Config{}, fmt.Errorf("parse BUDGET_CAP: %w", err)
	}
	if budgetCap <= 0 {
		return Config{}, fmt.Errorf("BUDGET_CAP must be > 0")
	}
	cfg.BudgetCap = int64(budgetCap)

	maxRosterSlots, err := getEnvAsInt("MAX_ROSTER_SLOTS", 12)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_ROSTER_SLOTS: %w", err)
	}
	if maxRosterSlots <= 0 {
		return Config{}, fmt.Errorf("MAX_ROSTER_SLOTS must be > 0")
	}
	cfg.MaxRosterSlots = maxRosterSlots

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(os.Getenv("UPTRACE_DSN"))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(os.Getenv("PYROSCOPE_SERVER_ADDRESS"))
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
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = strings.TrimSpace(os.Getenv("PYROSCOPE_AUTH_TOKEN"))
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = pprofAddr

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
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

// parseSeasonLocks parses "2026=2026-02-27T00:00:00Z,2027=..." into a
// year-to-instant map.
func parseSeasonLocks(raw string) (map[int]time.Time, error) {
	out := make(map[int]time.Time)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid item %q, expected year=RFC3339 instant", item)
		}

		year, err := strconv.Atoi(strings.TrimSpace(segments[0]))
		if err != nil || year <= 0 {
			return nil, fmt.Errorf("invalid season year in item %q", item)
		}
		lockAt, err := time.Parse(time.RFC3339, strings.TrimSpace(segments[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid lock instant in item %q: %w", item, err)
		}

		out[year] = lockAt
	}

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

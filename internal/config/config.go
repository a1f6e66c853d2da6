package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends understood by CacheConfig.Backend.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Unifi    UnifiConfig
	Cache    CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// UnifiConfig describes the UniFi Access developer API.
type UnifiConfig struct {
	Host                  string
	Token                 string
	RequestTimeoutSeconds int
	RetryCount            int

	// InsecureTLS skips certificate verification; controllers on local
	// hardware ship self-signed certificates.
	InsecureTLS bool

	// DefaultReaderID is used when a read request carries no device id.
	DefaultReaderID    string
	ReadTimeoutSeconds int
	PollIntervalMillis int
}

// CacheConfig selects the key-value store and entry lifetimes.
type CacheConfig struct {
	Backend           string
	DeviceTTLSeconds  int
	SessionTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "club-access-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Unifi: UnifiConfig{
			Host:                  strings.TrimRight(getEnv("UNIFI_ACCESS_HOST", "https://127.0.0.1:12445"), "/"),
			Token:                 os.Getenv("UNIFI_ACCESS_TOKEN"),
			InsecureTLS:           getEnvAsBool("UNIFI_INSECURE_TLS", true),
			RequestTimeoutSeconds: getEnvAsInt("UNIFI_REQUEST_TIMEOUT_SECONDS", 10),
			RetryCount:            getEnvAsInt("UNIFI_RETRY_COUNT", 0),
			DefaultReaderID:       os.Getenv("UNIFI_DEFAULT_READER_ID"),
			ReadTimeoutSeconds:    getEnvAsInt("UNIFI_READ_TIMEOUT_SECONDS", 30),
			PollIntervalMillis:    getEnvAsInt("UNIFI_POLL_INTERVAL_MILLIS", 1000),
		},
		Cache: CacheConfig{
			Backend:           strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendRedis)),
			DeviceTTLSeconds:  getEnvAsInt("CACHE_DEVICE_TTL_SECONDS", 300),
			SessionTTLSeconds: getEnvAsInt("CACHE_SESSION_TTL_SECONDS", 120),
		},
	}

	if cfg.Cache.Backend != CacheBackendRedis && cfg.Cache.Backend != CacheBackendMemory {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.Cache.Backend)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BaseURL is the root of the developer API.
func (u UnifiConfig) BaseURL() string {
	return u.Host + "/api/v1/developer"
}

func (u UnifiConfig) RequestTimeout() time.Duration {
	return secondsOr(u.RequestTimeoutSeconds, 10*time.Second)
}

func (u UnifiConfig) ReadTimeout() time.Duration {
	return secondsOr(u.ReadTimeoutSeconds, 30*time.Second)
}

func (u UnifiConfig) PollInterval() time.Duration {
	if u.PollIntervalMillis <= 0 {
		return time.Second
	}
	return time.Duration(u.PollIntervalMillis) * time.Millisecond
}

// DeviceTTL is the absolute lifetime of the cached device list.
func (c CacheConfig) DeviceTTL() time.Duration {
	return secondsOr(c.DeviceTTLSeconds, 300*time.Second)
}

// SessionTTL bounds how long a pending badge read waits for confirmation.
func (c CacheConfig) SessionTTL() time.Duration {
	return secondsOr(c.SessionTTLSeconds, 120*time.Second)
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

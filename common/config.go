package common

import (
	"log"
	"time"

	"github.com/sosodev/duration"
)

const (
	DefaultAddr                 = "127.0.0.1:8082"
	DefaultCacheTTL             = 30 * time.Minute
	DefaultSessionID            = "local"
	DefaultDiscoveryConcurrency = 16
	DefaultMaxPages             = 50
	DefaultRequestsPerSecond    = 20
	DefaultRequestTimeout       = 30 * time.Second
	DefaultInsightsModel        = "claude-sonnet-4-5-20250929"
	DefaultUsageWindow          = 30 * 24 * time.Hour
)

// Config holds every setting the footprint tool reads from its environment.
type Config struct {
	Port string

	CloudLogging bool

	RedisAddr string
	CacheTTL  time.Duration
	SessionID string

	DiscoveryConcurrency int
	MaxPages             int
	RequestsPerSecond    float64
	RequestTimeout       time.Duration
	UsageWindow          time.Duration

	TokenProxyURL string

	AnthropicAPIKey string
	InsightsModel   string

	SentryDSN string
}

// LoadConfig reads the configuration from environment variables, falling back to defaults.
func LoadConfig() *Config {
	return &Config{
		Port:                 GetEnv("PORT", ""),
		CloudLogging:         GetEnvBool("GCP_LOGGING", !IsLocalhost),
		RedisAddr:            GetEnv("REDIS_ADDR", ""),
		CacheTTL:             GetEnvDuration("CACHE_TTL", DefaultCacheTTL),
		SessionID:            GetEnv("SESSION_ID", DefaultSessionID),
		DiscoveryConcurrency: GetEnvInt("DISCOVERY_CONCURRENCY", DefaultDiscoveryConcurrency),
		MaxPages:             GetEnvInt("DISCOVERY_MAX_PAGES", DefaultMaxPages),
		RequestsPerSecond:    GetEnvFloat("GCP_API_RPS", DefaultRequestsPerSecond),
		RequestTimeout:       GetEnvDuration("GCP_API_TIMEOUT", DefaultRequestTimeout),
		UsageWindow:          getEnvISODuration("USAGE_WINDOW", DefaultUsageWindow),
		TokenProxyURL:        GetEnv("TOKEN_PROXY_URL", ""),
		AnthropicAPIKey:      GetEnv("ANTHROPIC_API_KEY", ""),
		InsightsModel:        GetEnv("INSIGHTS_MODEL", DefaultInsightsModel),
		SentryDSN:            GetEnv("SENTRY_DSN", ""),
	}
}

// Addr returns the listen address for the API server.
func (c *Config) Addr() string {
	if c.Port == "" {
		return DefaultAddr
	}

	return ":" + c.Port
}

// getEnvISODuration parses an ISO 8601 duration such as P30D or PT12H.
func getEnvISODuration(key string, fallback time.Duration) time.Duration {
	value := GetEnv(key, "")
	if value == "" {
		return fallback
	}

	d, err := duration.Parse(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %s", value, key, fallback)
		return fallback
	}

	dur := d.ToTimeDuration()
	if dur <= 0 {
		return fallback
	}

	return dur
}

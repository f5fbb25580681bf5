package config

import (
	"time"

	"go.uber.org/zap"
)

// DefaultPartitions are the upstream company codes, in merge order.
var DefaultPartitions = []string{"AMZ", "FLP", "SNP", "BIYN", "AZO"}

// DefaultLookupCategories is the category set scanned by product id lookups. Every
// extra category costs one sequential upstream call per partition on a miss.
var DefaultLookupCategories = []string{"Laptop"}

const (
	DefaultUpstreamBaseURL = "http://20.244.56.144/test"
	DefaultPageSizeCap     = 10
)

type Settings struct {
	Port   string
	AppEnv string

	UpstreamBaseURL string
	UpstreamToken   string
	UpstreamTimeout time.Duration
	UpstreamRPS     float64
	UpstreamBurst   int

	Partitions        []string
	LookupCategories  []string
	PageSizeCap       int
	FanoutMode        string
	FanoutConcurrency int

	RedisAddress       string
	RedisPassword      string
	RedisDB            int
	CacheTTL           time.Duration
	CacheFlushSchedule string

	CORSAllowOrigins string
	RateLimitMax     int
	RateLimitWindow  time.Duration
	AdminToken       string

	LogLevel string
	LogDir   string
}

// LoadSettings reads the service settings from the environment, applying defaults.
func LoadSettings() *Settings {
	s := &Settings{
		Port:   GetEnvDefault("PORT", "3000"),
		AppEnv: GetEnvDefault("APP_ENV", "development"),

		UpstreamBaseURL: GetEnvDefault("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL),
		UpstreamToken:   GetEnv("UPSTREAM_TOKEN"),
		UpstreamTimeout: GetEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		UpstreamRPS:     GetEnvFloat("UPSTREAM_RPS", 0),
		UpstreamBurst:   GetEnvInt("UPSTREAM_BURST", 10),

		Partitions:        GetEnvList("PARTITIONS", DefaultPartitions),
		LookupCategories:  GetEnvList("LOOKUP_CATEGORIES", DefaultLookupCategories),
		PageSizeCap:       GetEnvInt("PAGE_SIZE_CAP", DefaultPageSizeCap),
		FanoutMode:        GetEnvDefault("FANOUT_MODE", "strict"),
		FanoutConcurrency: GetEnvInt("FANOUT_CONCURRENCY", 0),

		RedisAddress:       GetEnv("REDIS_ADDRESS"),
		RedisPassword:      GetEnv("REDIS_PASSWORD"),
		RedisDB:            GetEnvInt("REDIS_DB", 0),
		CacheTTL:           GetEnvDuration("CACHE_TTL", 30*time.Second),
		CacheFlushSchedule: GetEnv("CACHE_FLUSH_SCHEDULE"),

		CORSAllowOrigins: GetEnvDefault("CORS_ALLOW_ORIGINS", "*"),
		RateLimitMax:     GetEnvInt("RATE_LIMIT_MAX", 0),
		RateLimitWindow:  GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		AdminToken:       GetEnv("ADMIN_TOKEN"),

		LogLevel: GetEnvDefault("LOG_LEVEL", "info"),
		LogDir:   GetEnvDefault("LOG_DIR", "logs"),
	}

	if s.PageSizeCap <= 0 {
		Logger.Warn("PAGE_SIZE_CAP must be positive, using default", zap.Int("value", s.PageSizeCap))
		s.PageSizeCap = DefaultPageSizeCap
	}
	if s.FanoutMode != "strict" && s.FanoutMode != "partial" {
		Logger.Warn("unknown FANOUT_MODE, using strict", zap.String("value", s.FanoutMode))
		s.FanoutMode = "strict"
	}

	return s
}

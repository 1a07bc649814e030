package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string
	Env         string

	AuthAPIURL         string
	AuthAPIKey         string
	AuthTimeoutSeconds int

	PolicyBundlePath string

	AllowedOrigins []string
	SiteOrigin     string

	RateLimitRequests           int
	RateLimitWindowSeconds      int
	RateLimitWriteRequests      int
	RateLimitWriteWindowSeconds int
	RateLimitFailClosed         bool
	RateLimitMaxKeys            int
	RateLimitStore              string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                    addr,
		PostgresDSN:                 os.Getenv("POSTGRES_DSN"),
		LogLevel:                    envDefault("LOG_LEVEL", "info"),
		Env:                         envDefault("TOIT_ENV", "prod"),
		AuthAPIURL:                  os.Getenv("AUTH_API_URL"),
		AuthAPIKey:                  os.Getenv("AUTH_API_KEY"),
		AuthTimeoutSeconds:          envIntDefault("AUTH_TIMEOUT_SECONDS", 5),
		PolicyBundlePath:            os.Getenv("POLICY_BUNDLE_PATH"),
		AllowedOrigins:              envListDefault("ALLOWED_ORIGINS", nil),
		SiteOrigin:                  envDefault("SITE_ORIGIN", "http://localhost:3000"),
		RateLimitRequests:           envIntDefault("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindowSeconds:      envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitWriteRequests:      envIntDefault("RATE_LIMIT_WRITE_REQUESTS", 20),
		RateLimitWriteWindowSeconds: envIntDefault("RATE_LIMIT_WRITE_WINDOW_SECONDS", 60),
		RateLimitFailClosed:         envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:            envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RateLimitStore:              envDefault("RATE_LIMIT_STORE", "auto"),
		RedisAddr:                   os.Getenv("REDIS_ADDR"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                     envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) AuthTimeout() time.Duration {
	if c.AuthTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.AuthTimeoutSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}

func envListDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	AdminKey    string

	CacheTTL       time.Duration
	IdempotencyTTL time.Duration
	RatePerMinute  int

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	AlertEmail string

	MailQueueSize  int
	MailMaxRetries int

	HealthInterval  time.Duration
	HealthMaxErrors int

	SeedTenants []string
	SeedWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":5000"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/charter?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		AdminKey:    env("ADMIN_KEY", "changeme-admin"),

		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		IdempotencyTTL: time.Duration(atoi("IDEMPOTENCY_TTL_SECONDS", 24*3600)) * time.Second,
		RatePerMinute:  atoi("RATE_LIMIT_PER_MINUTE", 60),

		SMTPHost:   env("SMTP_HOST", ""),
		SMTPPort:   atoi("SMTP_PORT", 587),
		SMTPUser:   env("SMTP_USER", ""),
		SMTPPass:   env("SMTP_PASS", ""),
		AlertEmail: env("ALERT_EMAIL", ""),

		MailQueueSize:  atoi("MAIL_QUEUE_SIZE", 256),
		MailMaxRetries: atoi("MAIL_MAX_RETRIES", 3),

		HealthInterval:  time.Duration(atoi("HEALTH_INTERVAL_SECONDS", 30)) * time.Second,
		HealthMaxErrors: atoi("HEALTH_MAX_ERRORS", 10),

		SeedTenants: splitList(env("SEED_TENANTS", "")),
		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.AdminKey == "changeme-admin" {
		log.Warn().Msg("ADMIN_KEY is the default value")
	}
	if c.AlertEmail == "" {
		c.AlertEmail = c.SMTPUser
	}
	return c
}

// SMTPConfigured reports whether system-level SMTP (alerts) is usable.
func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	HostawayBase string
	AccountID    string
	APIKey       string
	MockFile     string
	StoreBackend string // file|mysql
	ApprovalFile string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	Workers      int
	CacheTTL     time.Duration
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
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		HostawayBase: env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		AccountID:    env("HOSTAWAY_ACCOUNT_ID", ""),
		APIKey:       env("HOSTAWAY_API_KEY", ""),
		MockFile:     env("MOCK_REVIEWS_FILE", "data/hostaway-reviews.json"),
		StoreBackend: env("APPROVALS_BACKEND", "file"),
		ApprovalFile: env("APPROVALS_FILE", "data/approvals.json"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/flexrev?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		Workers:      atoi("REFRESH_WORKERS", 8),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.AccountID == "" || c.APIKey == "" {
		log.Warn().Msg("HOSTAWAY credentials are empty; serving from the mock document")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

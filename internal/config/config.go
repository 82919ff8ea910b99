// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Exa search
	ExaAPIKey  string
	ExaBaseURL string

	// Scrape
	ScrapeInterval   time.Duration
	ScrapeQuery      string
	ScrapeSectors    []string
	ScrapeNumResults int

	// Rate Limit
	RateLimitGeneral int
	RateLimitScrape  int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// ScrapeConfigured はExa APIキーが設定されているかどうかを返す。
func (c *Config) ScrapeConfigured() bool {
	return c.ExaAPIKey != ""
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envファイルがあれば先に読み込む（既存の環境変数が優先される）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	// EXA_API_KEYは未設定を許容する。その場合スクレイプ系の操作のみが拒否される。
	cfg.ExaAPIKey = os.Getenv("EXA_API_KEY")
	cfg.ExaBaseURL = getEnvString("EXA_BASE_URL", "https://api.exa.ai")
	cfg.ScrapeInterval = getEnvDuration("SCRAPE_INTERVAL", 6*time.Hour)
	cfg.ScrapeQuery = getEnvString("SCRAPE_QUERY", "venture capital analyst associate job opening")
	cfg.ScrapeSectors = getEnvList("SCRAPE_SECTORS", []string{"fintech", "AI", "healthcare"})
	cfg.ScrapeNumResults = getEnvInt("SCRAPE_NUM_RESULTS", 25)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitScrape = getEnvInt("RATE_LIMIT_SCRAPE", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parts := strings.Split(v, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

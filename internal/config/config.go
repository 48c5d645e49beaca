package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
//
// 外部サービスの認証情報（ニュースAPI・補完API・画像検索API）は
// 起動必須ではなく、未設定のままでも起動する。未設定の認証情報を
// 必要とするリクエストは、その時点で設定エラーとして拒否される。
type Config struct {
	// News API
	NewsAPIBaseURL string
	NewsAPIToken   string
	NewsAPIKey     string

	// Content generation
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	GenerationTimeout  time.Duration
	GenerationBudget   int
	GenerationArticles int

	// Image search
	PexelsAPIKey string

	// Session
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// Rate Limit
	RateLimitGeneral    int
	RateLimitGeneration int

	// HTTP
	HTTPClientTimeout time.Duration
	ServerPort        string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.NewsAPIBaseURL = os.Getenv("NEWS_API_BASE_URL")
	if cfg.NewsAPIBaseURL == "" {
		missing = append(missing, "NEWS_API_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Credentials（未設定はリクエスト時に拒否）
	cfg.NewsAPIToken = os.Getenv("NEWS_API_TOKEN")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.PexelsAPIKey = os.Getenv("PEXELS_API_KEY")

	// Optional fields with defaults
	cfg.OpenAIModel = getEnvString("OPENAI_MODEL", "")
	cfg.OpenAIBaseURL = getEnvString("OPENAI_BASE_URL", "")
	cfg.GenerationTimeout = getEnvDuration("GENERATION_TIMEOUT", 30*time.Second)
	cfg.GenerationBudget = getEnvInt("GENERATION_CHAR_BUDGET", 6000)
	cfg.GenerationArticles = getEnvInt("GENERATION_ARTICLE_LIMIT", 5)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 2*time.Hour)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGeneration = getEnvInt("RATE_LIMIT_GENERATION", 10)
	cfg.HTTPClientTimeout = getEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second)
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

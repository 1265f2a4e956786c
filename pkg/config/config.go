package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// OpenAI-compatible classifier endpoint. An empty key disables the
	// relevance classifier and AI analysis (relevance checks fail open).
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ScreenshotsDir string

	BrowserHeadless    bool
	NavigationTimeout  time.Duration
	NetworkIdleTimeout time.Duration

	// Request pacing. Randomized delays are drawn uniformly from these
	// ranges so the scrape cadence is tunable without code changes.
	ScrollDelayMin  time.Duration
	ScrollDelayMax  time.Duration
	CaptureDelayMin time.Duration
	CaptureDelayMax time.Duration

	VerdictCacheTTL time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "adintel"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ScreenshotsDir:   getEnv("SCREENSHOTS_DIR", "screenshots"),
		BrowserHeadless:  getEnvAsBool("BROWSER_HEADLESS", true),

		NavigationTimeout:  getEnvAsMillis("NAVIGATION_TIMEOUT_MS", 90000),
		NetworkIdleTimeout: getEnvAsMillis("NETWORK_IDLE_TIMEOUT_MS", 45000),

		ScrollDelayMin:  getEnvAsMillis("SCROLL_DELAY_MIN_MS", 1200),
		ScrollDelayMax:  getEnvAsMillis("SCROLL_DELAY_MAX_MS", 2000),
		CaptureDelayMin: getEnvAsMillis("CAPTURE_DELAY_MIN_MS", 500),
		CaptureDelayMax: getEnvAsMillis("CAPTURE_DELAY_MAX_MS", 1000),

		VerdictCacheTTL: getEnvAsMillis("VERDICT_CACHE_TTL_MS", int(7*24*time.Hour/time.Millisecond)),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Millisecond
}

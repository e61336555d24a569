package mcpserver

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input limits.
	MaxInlineSize int64

	// Convert tool defaults.
	ConvertStrict bool
	ConvertNoInfo bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from POETRY2UV_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("POETRY2UV_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("POETRY2UV_MCP_CACHE_MAX_SIZE", 32),
		CacheFileTTL:       envDuration("POETRY2UV_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("POETRY2UV_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("POETRY2UV_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      envInt64("POETRY2UV_MCP_MAX_INLINE_SIZE", 1024*1024),
		ConvertStrict:      envBool("POETRY2UV_MCP_STRICT", false),
		ConvertNoInfo:      envBool("POETRY2UV_MCP_NO_INFO", false),
	}
}

// LoadEnvFile reads POETRY2UV_MCP_* settings from a dotenv file and reloads
// the server configuration. Variables already set in the environment win.
// It must be called before Run.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("mcpserver: loading env file: %w", err)
	}
	cfg = loadConfig()
	manifestCache = newParseCache(cfg.CacheMaxSize)
	return nil
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port   string
	DBPath string

	// Adapter selection: "mock" uses the fixture-backed adapter set,
	// "live" scrapes the platforms that expose a public search.
	AdapterMode     string
	DefaultLocality string
	CompareTimeout  time.Duration
	ScrapeRate      float64 // live adapter requests per second, per platform

	// Gemini (item extraction, insights, chat). Empty key disables the
	// model; every consumer has a deterministic fallback.
	GeminiAPIKey string
	GeminiModel  string

	RetentionDays int

	CORSAllowedOrigins string
}

// Default returns configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Port:            "8080",
		DBPath:          "./prices.db",
		AdapterMode:     "mock",
		DefaultLocality: "unspecified",
		CompareTimeout:  30 * time.Second,
		ScrapeRate:      0.5,
		GeminiModel:     "gemini-2.5-flash",
		RetentionDays:   90,
	}
}

// Load reads .env (if present) and environment variables over the defaults.
func Load() *Config {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	c := Default()

	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ADAPTER_MODE"); v != "" {
		c.AdapterMode = v
	}
	if v := os.Getenv("DEFAULT_LOCALITY"); v != "" {
		c.DefaultLocality = v
	}
	if v := os.Getenv("COMPARE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CompareTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("SCRAPE_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.ScrapeRate = f
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RetentionDays = n
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = v
	}

	return c
}

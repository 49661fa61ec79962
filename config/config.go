package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Model artifacts
	ScalerPath string
	ModelPath  string

	// Risk thresholding
	RiskProfile    string  // "3tier" or "2tier"
	RiskLowMax     float64 // 3-tier: probability below this is LOW
	RiskMediumMax  float64 // 3-tier: probability below this is MEDIUM, at or above is HIGH
	RiskHighCutoff float64 // 2-tier: probability at or above this is HIGH

	// Reachability probe (optional variant)
	ReachabilityCheck bool
	ProbeTimeoutSec   int

	// Redis (optional verdict cache)
	RedisURL           string
	VerdictCacheTTLMin int

	// Rate limiting
	RateLimitPerMin int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Model artifacts
		ScalerPath: getEnv("SCALER_PATH", "artifacts/scaler.json"),
		ModelPath:  getEnv("MODEL_PATH", "artifacts/model.json"),

		// Risk thresholding
		RiskProfile:    getEnv("RISK_PROFILE", "3tier"),
		RiskLowMax:     getEnvFloat("RISK_LOW_MAX", 0.3),
		RiskMediumMax:  getEnvFloat("RISK_MEDIUM_MAX", 0.6),
		RiskHighCutoff: getEnvFloat("RISK_HIGH_CUTOFF", 0.5),

		// Reachability probe
		ReachabilityCheck: getEnvBool("REACHABILITY_CHECK", false),
		ProbeTimeoutSec:   getEnvInt("PROBE_TIMEOUT_SEC", 3),

		// Redis
		RedisURL:           getEnv("REDIS_URL", ""),
		VerdictCacheTTLMin: getEnvInt("VERDICT_CACHE_TTL_MIN", 10),

		// Rate limiting
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 60),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// ProbeTimeout returns the reachability probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSec) * time.Second
}

// VerdictCacheTTL returns the verdict cache TTL as a duration.
func (c *Config) VerdictCacheTTL() time.Duration {
	return time.Duration(c.VerdictCacheTTLMin) * time.Minute
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Trial window granted at sign-up (and at row synthesis)
	TrialDays int

	// Public profile resolution
	PublicResolveTimeout time.Duration
	PublicCacheTTL       time.Duration

	// Route gate bounded waits
	GateSoftTimeout time.Duration
	GateHardTimeout time.Duration

	// Redis (optional; empty addr falls back to the in-process cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "biolink_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		TrialDays: parseInt(getEnv("TRIAL_DAYS", "7"), 7),

		PublicResolveTimeout: parseDuration(getEnv("PUBLIC_RESOLVE_TIMEOUT", "5s"), 5*time.Second),
		PublicCacheTTL:       parseDuration(getEnv("PUBLIC_CACHE_TTL", "60s"), 60*time.Second),

		GateSoftTimeout: parseDuration(getEnv("GATE_SOFT_TIMEOUT", "3s"), 3*time.Second),
		GateHardTimeout: parseDuration(getEnv("GATE_HARD_TIMEOUT", "10s"), 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// internal/config/config.go
//
// Process configuration, read from the environment after loading an
// optional .env file (godotenv). Every value has a development default.
//
// Environment variables:
//   PORT                 HTTP port (5175)
//   LOG_LEVEL            zerolog level (info)
//   CLIENT_ORIGIN        CORS origin (http://localhost:5173)
//   DB_PATH              SQLite archive path; empty disables the archive
//   REDIS_ADDR           Redis address; empty keeps sessions in memory
//   SESSION_TTL          session lifetime in the Redis store (24h)
//   JWT_SECRET           session token secret (dev_secret_change_me)
//   TOKEN_TTL_HOURS      session token lifetime in hours (24)
//   MAX_ROUNDS           rounds per session (10)
//   COOKIE_NAME          session token cookie (rps_token)
//   ADMIN_PASSWORD_HASH  bcrypt hash enabling /admin routes
//   APP_ENV              "production" enables secure cookies

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config is the resolved process configuration.
type Config struct {
	Port              string
	LogLevel          zerolog.Level
	ClientOrigin      string
	DBPath            string
	RedisAddr         string
	SessionTTL        time.Duration
	JWTSecret         string
	TokenTTL          time.Duration
	MaxRounds         int
	CookieName        string
	AdminPasswordHash string
	Production        bool
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:              getEnv("PORT", "5175"),
		LogLevel:          lvl,
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DBPath:            os.Getenv("DB_PATH"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:         getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:          time.Duration(getInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		MaxRounds:         getInt("MAX_ROUNDS", 10),
		CookieName:        getEnv("COOKIE_NAME", "rps_token"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		Production:        os.Getenv("APP_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getInt parses a positive integer, falling back to def.
func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

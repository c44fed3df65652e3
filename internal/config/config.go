// internal/config/config.go
//
// Environment-driven configuration for the server and terminal client.
// Values come from the process environment, optionally seeded from a
// `.env` file in development (godotenv). Command-line flags override them
// in the cmd package.
//
// Environment variables:
//   PORT, LOG_LEVEL, LOG_FILE, DB_PATH, BOARD_HEIGHT, BOARD_WIDTH,
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, CLIENT_ORIGIN,
//   DAILY_SALT, NODE_ENV

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable of the process.
type Config struct {
	Port     string
	LogLevel string
	LogFile  string
	DBPath   string

	BoardHeight int
	BoardWidth  int

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
}

// Load reads `.env` (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:           GetEnv("PORT", "5175"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		DBPath:         GetEnv("DB_PATH", "./data/app.db"),
		BoardHeight:    GetEnvInt("BOARD_HEIGHT", 20),
		BoardWidth:     GetEnvInt("BOARD_WIDTH", 20),
		JWTSecret:      GetEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: GetEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     GetEnv("COOKIE_NAME", "mines_token"),
		ClientOrigin:   GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:      GetEnv("DAILY_SALT", "local_dev_salt"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}
}

// ApplyLogLevel sets the global zerolog level; unknown names are ignored.
func (c Config) ApplyLogLevel() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", c.LogLevel).Msg("unknown log level, keeping default")
	}
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses k as an integer, falling back to def when unset or
// malformed.
func GetEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

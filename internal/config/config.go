// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read from the environment (and .env via godotenv).
type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string
	LogLevel       logrus.Level

	// TokenExpire is how long a session cookie stays valid; 0 means it never expires.
	TokenExpire time.Duration

	// Key files for signing sessions; a fresh key pair is generated when unset.
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string

	RedisAddr   string
	RedisDB     int
	QueueName   string
	DatabaseURL string

	HistorianBatchSize int
	HistorianFlush     time.Duration
}

// Load reads the configuration, falling back to development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               GetEnv("PORT", "8080"),
		Env:                GetEnv("TBG_ENV", "dev"),
		RedisAddr:          GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            GetEnvInt("REDIS_DB", 0),
		QueueName:          GetEnv("HISTORIAN_QUEUE_NAME", "tbg_actions"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTPrivateKeyPath:  os.Getenv("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:   os.Getenv("JWT_PUBLIC_KEY_PATH"),
		HistorianBatchSize: GetEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlush:     time.Duration(GetEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
	}

	if origins := os.Getenv("TBG_CLIENT_ORIGIN"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowedOrigins = []string{"https://*", "http://*"}
	}

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	expire, err := ParseExpire(os.Getenv("TOKEN_EXPIRE_TIME"))
	if err != nil {
		return nil, err
	}
	cfg.TokenExpire = expire

	return cfg, nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

// ParseExpire reads a token lifetime; "", "0" and "never" mean no expiry.
func ParseExpire(s string) (time.Duration, error) {
	if s == "" || s == "0" || s == "never" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt parses an environment variable as integer, else returns a default value.
func GetEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

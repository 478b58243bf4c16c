package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds service settings read from the environment
type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	JWTSecret       string
	JWTTTL          time.Duration
	LogLevel        string
	LogFormat       string
	CORSOrigins     string
	QuizCacheTTL    time.Duration
	MatchCacheTTL   time.Duration
	ShutdownTimeout time.Duration
	Alignment       AlignmentConfig
}

// AlignmentConfig selects scorer behaviour
type AlignmentConfig struct {
	// SkipInsufficient drops representatives without stances on the quiz
	// instead of failing the request
	SkipInsufficient bool
	// Categories adds per-category percentages to results
	Categories bool
}

const defaultJWTSecret = "govtrack-dev-secret-change-in-production"

// Load reads an optional .env file and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// Missing files are fine; variables may come from the environment
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "govtrack"),
		RedisAddr:   strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.QuizCacheTTL, err = getDuration("QUIZ_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.MatchCacheTTL, err = getDuration("MATCH_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Alignment.SkipInsufficient, err = getBool("ALIGN_SKIP_INSUFFICIENT", false); err != nil {
		return nil, err
	}
	if cfg.Alignment.Categories, err = getBool("ALIGN_CATEGORIES", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for settings the server cannot run with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// UsingDefaultSecret reports whether JWT_SECRET was left unset
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

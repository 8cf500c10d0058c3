package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harentsoaR/clinic-cases/internal/utils"
)

const minSecretLength = 32

// Config holds the configuration values for the application.
type Config struct {
	Port            string
	MongoURI        string
	MongoDatabase   string
	SessionSecret   string
	SessionTTL      time.Duration
	CookieSecure    bool
	CORSOrigins     []string
	BcryptCost      int
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	TextbeltAPIKey string
	TextbeltURL    string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// LoadConfig loads configuration from environment variables or uses default
// values. It is what the API server runs with.
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	if len(cfg.SessionSecret) < minSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	return cfg, nil
}

// LoadSeedConfig loads what the seed task needs: the database, hashing and
// logging settings. Session settings are neither read nor checked.
func LoadSeedConfig() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("API_PORT", "8080"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "clinic"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		TextbeltAPIKey:    os.Getenv("TEXTBELT_API_KEY"),
		TextbeltURL:       getEnv("TEXTBELT_URL", "https://textbelt.com/text"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@stevens.edu"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "stevens@123"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", utils.DefaultHashCost); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	return cfg, nil
}

// Logger returns a text logger on stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

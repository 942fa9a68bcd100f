package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tarujar/kantalakyykka/scoring"
)

// Config holds all runtime configuration of the application.
type Config struct {
	DatabaseURL string
	ServerPort  int

	CORSAllowedOrigins []string

	// Cloudflare R2 storage for team logos. Optional: when the account id
	// is empty, logo uploads are disabled.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// Scoring policy overrides.
	UnusedThrowScore int
	DeriveTeamScores bool
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present, which is convenient for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	unusedScore := scoring.DefaultUnusedThrowScore
	if raw := os.Getenv("SCORE_UNUSED_THROW_VALUE"); raw != "" {
		unusedScore, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SCORE_UNUSED_THROW_VALUE environment variable: %w", err)
		}
	}

	deriveScores := false
	if raw := os.Getenv("SCORE_DERIVE_TEAM_SCORES"); raw != "" {
		deriveScores, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SCORE_DERIVE_TEAM_SCORES environment variable: %w", err)
		}
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = splitAndTrim(raw)
	}

	cfg := &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		CORSAllowedOrigins: origins,
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
		UnusedThrowScore:   unusedScore,
		DeriveTeamScores:   deriveScores,
	}

	return cfg, nil
}

// LogoStorageConfigured reports whether every R2 field needed for logo
// uploads is present.
func (c *Config) LogoStorageConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" && c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Rules builds the scoring policy from the configured overrides.
func (c *Config) Rules() scoring.Rules {
	rules := scoring.DefaultRules()
	rules.UnusedThrowScore = c.UnusedThrowScore
	rules.DeriveTeamScores = c.DeriveTeamScores
	return rules
}

func splitAndTrim(raw string) []string {
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

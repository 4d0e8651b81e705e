package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           string
	DatabaseURL    string
	TokenSecret    string
	SiteURL        string
	PostsBucket    string
	UploadsDir     string
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins string
	Environment    string // development, staging, production
}

// Load loads configuration from environment variables and fails fast when
// values required for authentication are missing.
func Load() *Config {
	cfg := load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	return cfg
}

// LoadLenient loads configuration but falls back to empty strings for the
// required values instead of exiting. Used by tooling that should stay up
// even when the environment is incomplete.
func LoadLenient() *Config {
	return load()
}

func load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		TokenSecret:    getEnv("TOKEN_SECRET", ""),
		SiteURL:        siteURL(),
		PostsBucket:    getEnv("POSTS_BUCKET", "post-images"),
		UploadsDir:     getEnv("UPLOADS_DIR", "./uploads"),
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
	}
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}

	if c.IsProduction() {
		if c.TokenSecret == "" || c.TokenSecret == "change-this-in-production" {
			return fmt.Errorf("TOKEN_SECRET must be set to a strong random value in production")
		}

		if len(c.TokenSecret) < 32 {
			return fmt.Errorf("TOKEN_SECRET must be at least 32 characters in production (got %d)", len(c.TokenSecret))
		}
	} else if c.TokenSecret == "" {
		// Development/staging: provide default if not set
		c.TokenSecret = "dev-secret-not-for-production"
		log.Println("Using default TOKEN_SECRET for development")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

// siteURL resolves the public site URL used for canonical links and public
// upload URLs. Falls back to the deployment-provided URL, then localhost.
func siteURL() string {
	if v := strings.TrimSpace(os.Getenv("SITE_URL")); v != "" {
		return v
	}

	if v := strings.TrimSpace(os.Getenv("DEPLOY_URL")); v != "" {
		if strings.HasPrefix(v, "http") {
			return v
		}
		return "https://" + v
	}

	return "http://localhost:8080"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

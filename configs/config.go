package config

import (
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	APIKey      string

	// Chat (language model) provider. An empty URL means no provider is
	// configured and the gateway serves deterministic fallback responses.
	ChatAPIURL string
	ChatAPIKey string

	// Image generation provider. The URL scheme is the public no-auth
	// prompt-based one; the key is optional and passed as a token when set.
	ImageProviderURL string
	ImageAPIKey      string

	// Partner APIs (invoice analysis, finish visualization). Both sit behind
	// an ngrok tunnel and require the browser-warning bypass header.
	InvoiceAPIURL string
	DesignAPIURL  string

	// Per-upstream-call budget. A timeout is treated like any other network
	// failure by the callers.
	UpstreamTimeout time.Duration

	AdminUsername string
	AdminPassword string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		APIKey:           getEnv("API_KEY", ""),
		ChatAPIURL:       getEnv("CHAT_API_URL", ""),
		ChatAPIKey:       getEnv("CHAT_API_KEY", ""),
		ImageProviderURL: getEnv("IMAGE_PROVIDER_URL", "https://image.pollinations.ai"),
		ImageAPIKey:      getEnv("IMAGE_API_KEY", ""),
		InvoiceAPIURL:    getEnv("INVOICE_API_URL", "https://hornless-maura-uncontrovertedly.ngrok-free.dev/analyze-invoice"),
		DesignAPIURL:     getEnv("DESIGN_API_URL", "https://hornless-maura-uncontrovertedly.ngrok-free.dev/generate-design"),
		UpstreamTimeout:  getDurationEnv("UPSTREAM_TIMEOUT", 30*time.Second),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", "default_secret_key"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWebhookURL   = "https://hook.eu2.make.com/dfyvzc7zojqoywco28813yzvd89alr8u"
	DefaultAdvisoryLink = "https://divia.com/asesoria"
)

// Config holds all application configuration values
type Config struct {
	Port                string
	GinMode             string
	WebhookURL          string
	WebhookTimeout      time.Duration
	AdvisoryLink        string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	AllowedOrigins      []string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		WebhookURL:          getEnv("WEBHOOK_URL", DefaultWebhookURL),
		WebhookTimeout:      getDuration("WEBHOOK_TIMEOUT", 2*time.Minute),
		AdvisoryLink:        getEnv("ADVISORY_LINK", DefaultAdvisoryLink),
		SessionTTL:          getDuration("SESSION_TTL", 2*time.Hour),
		SessionCookieSecure: getBool("SESSION_COOKIE_SECURE", false),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if value == "0" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("Invalid %s %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid %s %q, using %v", key, value, fallback)
		return fallback
	}
	return b
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

package config

import (
	"os"
	"strings"
)

type Config struct {
	MongoURI       string
	RedisURI       string
	Port           string
	Environment    string   // ENV: production, development, etc.
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS, else the portal page URL
	RedirectURL    string   // where the captive portal sends the device after registering
	WifiNetwork    string   // network name stamped on records when the form omits it
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		portal := strings.TrimSpace(getEnv("PORTAL_URL", "http://localhost:3000"))
		if portal != "" {
			allowedOrigins = append(allowedOrigins, portal)
		}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/wifi-portal")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:           getEnv("PORT", "3001"),
		Environment:    env,
		AllowedOrigins: allowedOrigins,
		RedirectURL:    getEnv("REDIRECT_URL", "https://www.google.com"),
		WifiNetwork:    getEnv("WIFI_NETWORK", "Portal-WiFi-Gratis"),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment controls whether internal error detail reaches responses.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

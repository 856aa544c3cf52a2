package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Open Wearables
	OpenWearablesAPIURL  string
	OpenWearablesAPIKey  string
	OpenWearablesTimeout time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "healthion"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		OpenWearablesAPIURL:  strings.TrimRight(getEnv("OPEN_WEARABLES_API_URL", "http://localhost:8000"), "/"),
		OpenWearablesAPIKey:  getEnv("OPEN_WEARABLES_API_KEY", ""),
		OpenWearablesTimeout: parseDuration(getEnv("OPEN_WEARABLES_TIMEOUT", "30s")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Auth0IssuerURL is the expected `iss` claim. Auth0 issues tokens with a
// trailing slash on the issuer.
func (c *Config) Auth0IssuerURL() string {
	return "https://" + c.Auth0Domain + "/"
}

func (c *Config) Auth0JWKSURL() string {
	return "https://" + c.Auth0Domain + "/.well-known/jwks.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

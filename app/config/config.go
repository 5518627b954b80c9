package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs at startup. It is loaded once in
// main and handed to the components that need it; there is no ambient global.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Fallback identifiers used when bulk import has to create a placeholder
	// student whose row names no class or section.
	FallbackClassID   string
	FallbackSectionID string
}

// Load reads .env if present and assembles the configuration from the
// environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:              getEnv("PORT", "5000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-key"),
		FallbackClassID:   os.Getenv("FALLBACK_CLASS_ID"),
		FallbackSectionID: os.Getenv("FALLBACK_SECTION_ID"),
	}

	if cfg.DatabaseURL == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := getEnv("DB_NAME", "ritdc")

		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable connect_timeout=5",
			host, port, user, password, dbname)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

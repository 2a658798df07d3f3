package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	LogFile   string
	AIBaseURL string
	AIAPIKey  string
	RedisURL  string // empty keeps the sqlite durable cache tier
}

// Load reads an optional .env file and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using system env vars")
	}

	cfg := Config{
		Port:      getEnv("PORT", "8081"),
		DBDSN:     getEnv("DB_DSN", "offerlens.db"),
		LogFile:   getEnv("LOG_FILE", "./offerlens.log"),
		AIBaseURL: getEnv("AI_BASE_URL", "http://localhost:9090"),
		AIAPIKey:  getEnv("AI_API_KEY", ""),
		RedisURL:  getEnv("REDIS_URL", ""),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s AI_BASE_URL=%s REDIS=%v",
		cfg.Port, cfg.DBDSN, cfg.AIBaseURL, cfg.RedisURL != "")
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port       string
	JWTSecret  string
	LogLevel   string
	BcryptCost int
	RateLimit  float64
	RateBurst  int
	TokenTTL   time.Duration
}

const defaultJWTSecret = "default-secret-key-change-in-production"

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using defaults")
	}

	return Config{
		Port:       getenv("PORT", "8080"),
		JWTSecret:  getenv("JWT_SECRET", defaultJWTSecret),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		BcryptCost: getInt("BCRYPT_COST", bcrypt.DefaultCost),
		RateLimit:  getFloat("RATE_LIMIT", 10),
		RateBurst:  getInt("RATE_BURST", 20),
		TokenTTL:   getDuration("TOKEN_TTL", 24*time.Hour),
	}
}

// UsingDefaultSecret reports whether JWT_SECRET was left unset.
func (c Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", k, v, def)
		return def
	}
	return f
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

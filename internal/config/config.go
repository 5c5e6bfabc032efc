package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
	PublicDir      string
	AllowedOrigins []string
	AppURL         string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
	SMTPSender   string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	smtpPort, _ := strconv.Atoi(getEnvOrDefault("SMTP_PORT", "587"))

	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "eatspot"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 24, time.Hour),
		SessionTTL:     getDurationEnv("SESSION_TTL", 7, 24*time.Hour),
		PublicDir:      getEnvOrDefault("PUBLIC_DIR", "./public"),
		AllowedOrigins: getListEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		AppURL:         getEnvOrDefault("APP_URL", "http://localhost:8080"),
		SMTPHost:       getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:       smtpPort,
		SMTPEmail:      getEnvOrDefault("SMTP_EMAIL", ""),
		SMTPPassword:   getEnvOrDefault("SMTP_PASSWORD", ""),
		SMTPSender:     getEnvOrDefault("SMTP_SENDER", "Eatspot"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnvOrDefault(key, defaultValue)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

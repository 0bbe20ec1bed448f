package config

import "os"

type Config struct {
	Port        string
	DatabaseDSN string

	RedisAddr     string
	RedisPassword string

	SMTPHost  string
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	JWTSecret string

	// ClientURL is the frontend origin; verification and reset links point
	// back at it.
	ClientURL string

	UploadDir     string
	UploadBaseURL string
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		FromEmail:     os.Getenv("FROM_EMAIL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ClientURL:     getenv("CLIENT_URL", "http://localhost:5173"),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		UploadBaseURL: getenv("UPLOAD_BASE_URL", "/uploads"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

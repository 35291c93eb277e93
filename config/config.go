package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	BackendURL       string // API REST FILxCONNECT (black-box)
	MediaBaseURL     string // Préfixe Cloudinary pour les refs relatives
	DefaultAvatarURL string
	JWTPublicKeyFile string
	OtelEndpoint     string
	Env              string // "local" ou "prod"
}

func Load() Config {
	// Best effort : en local on charge le .env, en prod les vars sont injectées
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8090"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:8080/api"),
		MediaBaseURL:     getEnv("MEDIA_BASE_URL", "https://res.cloudinary.com/djvat4mcp/image/upload/v1741357526/"),
		DefaultAvatarURL: getEnv("DEFAULT_AVATAR_URL", "https://res.cloudinary.com/djvat4mcp/image/upload/v1741357526/zybt9ffewrjwhq7tyvy1.png"),
		JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", "jwt_public.pem"),
		OtelEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Env:              getEnv("APP_ENV", "local"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

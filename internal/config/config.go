package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env             string
	HTTPPort        string
	DataDir         string
	JWTSecret       string
	SessionTTL      time.Duration
	AllowedOrigins  []string
	RateLimitLimit  int64
	RateLimitPeriod time.Duration
	MaxImageSizeMB  int64

	// Discord
	DiscordAPIBaseURL   string
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordBotToken     string
	DiscordGuildID      string
	AdminRoleIDs        []string
	BanRoleID           string
	WhitelistRoleID     string
	WhitelistChannelID  string
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:                 env,
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DataDir:             getEnv("DATA_DIR", "./data"),
		DiscordAPIBaseURL:   getEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10"),
		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordRedirectURI:  getEnv("DISCORD_REDIRECT_URI", "http://localhost:3000/auth/callback"),
		DiscordBotToken:     getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordGuildID:      getEnv("DISCORD_GUILD_ID", ""),
		BanRoleID:           getEnv("DISCORD_BAN_ROLE_ID", ""),
		WhitelistRoleID:     getEnv("DISCORD_WHITELIST_ROLE_ID", ""),
		WhitelistChannelID:  getEnv("DISCORD_WHITELIST_CHANNEL_ID", ""),
	}

	// Валидация JWT секрета
	jwtSecret := getEnv("JWT_SECRET", "")
	if env == "production" {
		if jwtSecret == "" || len(jwtSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET обязателен и должен быть не менее 32 символов в production")
		}
		if cfg.DiscordBotToken == "" {
			log.Printf("config: WARNING - DISCORD_BOT_TOKEN не задан, интеграция с Discord будет недоступна")
		}
	} else {
		if jwtSecret == "" {
			jwtSecret = "super-secret-development-only-change-in-production"
			log.Printf("config: WARNING - используется дефолтный JWT_SECRET, измените в production!")
		}
	}
	cfg.JWTSecret = jwtSecret

	// Список ролей-администраторов: любая из них даёт доступ к админским маршрутам.
	cfg.AdminRoleIDs = splitAndTrim(getEnv("DISCORD_ADMIN_ROLE_IDS", ""))

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	} else {
		cfg.AllowedOrigins = splitAndTrim(originsStr)
	}

	cfg.SessionTTL = mustParseDuration(getEnv("SESSION_TTL", "12h"))
	cfg.MaxImageSizeMB = mustParseInt64(getEnv("MAX_IMAGE_MB", "8"))

	// Rate limiting настройки (применяются к обмену OAuth кода)
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "10"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// splitAndTrim разбивает строку по запятым и убирает пробелы и пустые элементы.
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSecretKey is used when SECRET_KEY is unset. It is public knowledge,
// so the server logs a warning whenever it is in effect.
const DefaultSecretKey = "sitecms-insecure-secret-key"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port   string
	AppEnv string

	DBDriver string
	DBDSN    string
	ResetDB  bool

	SecretKey string
	TokenTTL  time.Duration

	AdminUsername  string
	AdminPassword  string
	AdminBootstrap bool
	AuthFallback   bool

	UploadDir  string
	BaiduMapAK string

	RedisAddr string
	RedisDB   int
	RedisPass string

	CORSOrigins []string
	SwaggerHost string

	BackendAPIURL string
	GatewayPort   string
	ProxyTimeout  time.Duration
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "3001"),
		AppEnv: getEnv("APP_ENV", "production"),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DBDSN:    getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/sitecms?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:  getEnvBool("RESET_DB", false),

		SecretKey: getEnv("SECRET_KEY", DefaultSecretKey),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		AdminBootstrap: getEnvBool("ADMIN_BOOTSTRAP", true),
		AuthFallback:   getEnvBool("AUTH_FALLBACK", false),

		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		BaiduMapAK: os.Getenv("BAIDU_MAP_AK"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		BackendAPIURL: getEnv("BACKEND_API_URL", "http://localhost:3001"),
		GatewayPort:   getEnv("GATEWAY_PORT", "3000"),
		ProxyTimeout:  getEnvDuration("PROXY_TIMEOUT", 0),
	}
}

// IsDevelopment reports whether APP_ENV selects development behaviour
// (console logs, stack traces in 500 responses).
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}

// UsesDefaultSecret reports whether tokens are signed with DefaultSecretKey.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

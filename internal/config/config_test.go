package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SECRET_KEY", "TOKEN_TTL", "BACKEND_API_URL", "PROXY_TIMEOUT", "CORS_ORIGINS", "AUTH_FALLBACK"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:3001", cfg.BackendAPIURL)
	assert.Equal(t, time.Duration(0), cfg.ProxyTimeout)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.False(t, cfg.AuthFallback)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("PROXY_TIMEOUT", "15s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AUTH_FALLBACK", "true")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.ProxyTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthFallback)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 0, cfg.RedisDB)
}

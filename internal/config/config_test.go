package config

import (
	"testing"
	"time"

	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DB_DSN_PRIMARY": "user:pass@tcp(127.0.0.1:3306)/aitools?parseTime=true",
		"JWT_SECRET":     "test-secret",
		"OPENAI_API_KEY": "sk-test",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Quota.Grace)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "openai", cfg.Quota.TextProvider)
	assert.Equal(t, "dall-e-3", cfg.OpenAI.ImageModel)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.False(t, cfg.Server.MaintenanceMode)
	assert.Empty(t, cfg.Quota.LimitOverrides)
	assert.Empty(t, cfg.DB.DSNReadOnly)
}

func TestFromEnvReadOnlyDSN(t *testing.T) {
	env := baseEnv()
	env["DB_DSN_READONLY"] = "reader:pass@tcp(replica:3306)/aitools"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "reader:pass@tcp(replica:3306)/aitools", cfg.DB.DSNReadOnly)
}

func TestFromEnvMissingRequired(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN_PRIMARY is required")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is required")
}

func TestFromEnvGeminiProvider(t *testing.T) {
	env := baseEnv()
	delete(env, "OPENAI_API_KEY")
	env["AI_TEXT_PROVIDER"] = "Gemini"
	env["GEMINI_API_KEY"] = "g-key"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Quota.TextProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
}

func TestFromEnvUnknownProvider(t *testing.T) {
	env := baseEnv()
	env["AI_TEXT_PROVIDER"] = "llama"

	_, err := FromEnv(envFrom(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value")
}

func TestFromEnvLimitOverrides(t *testing.T) {
	env := baseEnv()
	env["FREE_LIMIT_IMAGE"] = "3"
	env["FREE_LIMIT_VIDEO"] = "0"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, quota.Limits{quota.FeatureImage: 3, quota.FeatureVideo: 0}, cfg.Quota.LimitOverrides)
}

func TestFromEnvInvalidValues(t *testing.T) {
	env := baseEnv()
	env["FREE_LIMIT_VOICE"] = "-1"
	env["FREE_LIMIT_STUDY"] = "many"
	env["SUBSCRIPTION_GRACE"] = "a day"
	env["MAINTENANCE_MODE"] = "sometimes"

	_, err := FromEnv(envFrom(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FREE_LIMIT_VOICE: must not be negative")
	assert.Contains(t, err.Error(), "FREE_LIMIT_STUDY")
	assert.Contains(t, err.Error(), "SUBSCRIPTION_GRACE")
	assert.Contains(t, err.Error(), "MAINTENANCE_MODE")
}

func TestFromEnvAllowedOrigins(t *testing.T) {
	env := baseEnv()
	env["CORS_ALLOWED_ORIGINS"] = "https://app.example.com, https://admin.example.com ,"

	cfg, err := FromEnv(envFrom(env))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

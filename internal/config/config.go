// Package config loads runtime configuration from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/aitools-golang/internal/quota"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	DB     DBConfig
	Auth   AuthConfig
	OpenAI OpenAIConfig
	Gemini GeminiConfig
	Video  VideoConfig
	Redis  RedisConfig
	PayPal PayPalConfig
	Quota  QuotaConfig
}

type ServerConfig struct {
	Addr            string
	AppURL          string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	MaintenanceMode bool
	Production      bool
}

type LogConfig struct {
	Format string
	Level  string
}

type DBConfig struct {
	DSN             string
	DSNReadOnly     string // optional replica for list endpoints
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	ImageModel  string
	SpeechModel string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// VideoConfig points at a Replicate-compatible predictions endpoint.
type VideoConfig struct {
	APIURL   string
	APIToken string
	Version  string
	Timeout  time.Duration
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type PayPalConfig struct {
	ClientID string
	APIBase  string
}

type QuotaConfig struct {
	// Grace extends a subscription past its current period end.
	Grace time.Duration
	// LimitOverrides replaces the built-in free limit of a feature.
	LimitOverrides quota.Limits
	// TextProvider selects the backend for chat-style tools: "openai" or "gemini".
	TextProvider string
}

// Load reads a .env file if present and builds the Config from the environment.
func Load() (*Config, error) {
	// A missing .env is normal in containers; the environment is authoritative.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	var errs []error
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return n
	}
	getBool := func(key string) bool {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return b
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return d
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:            get("HTTP_ADDR", ":8080"),
			AppURL:          get("NEXT_PUBLIC_APP_URL", "http://localhost:3000"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			MaintenanceMode: getBool("MAINTENANCE_MODE"),
			Production:      get("APP_ENV", "development") == "production",
		},
		Log: LogConfig{
			Format: get("LOG_FORMAT", "auto"),
			Level:  get("LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DSN:             get("DB_DSN_PRIMARY", ""),
			DSNReadOnly:     get("DB_DSN_READONLY", ""),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: get("JWT_SECRET", ""),
			Issuer:    get("JWT_ISSUER", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:      get("OPENAI_API_KEY", ""),
			BaseURL:     get("OPENAI_BASE_URL", ""),
			ChatModel:   get("OPENAI_CHAT_MODEL", "gpt-3.5-turbo"),
			ImageModel:  get("OPENAI_IMAGE_MODEL", "dall-e-3"),
			SpeechModel: get("OPENAI_SPEECH_MODEL", "tts-1"),
		},
		Gemini: GeminiConfig{
			APIKey: get("GEMINI_API_KEY", ""),
			Model:  get("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Video: VideoConfig{
			APIURL:   get("VIDEO_API_URL", "https://api.replicate.com/v1/predictions"),
			APIToken: get("REPLICATE_API_TOKEN", ""),
			Version:  get("VIDEO_MODEL_VERSION", ""),
			Timeout:  getDuration("VIDEO_TIMEOUT", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: get("REDIS_URL", ""),
			TTL: getDuration("IMAGE_CACHE_TTL", 24*time.Hour),
		},
		PayPal: PayPalConfig{
			ClientID: get("PAYPAL_CLIENT_ID", ""),
			APIBase:  get("PAYPAL_API_BASE", ""),
		},
		Quota: QuotaConfig{
			Grace:          getDuration("SUBSCRIPTION_GRACE", 24*time.Hour),
			LimitOverrides: quota.Limits{},
			TextProvider:   strings.ToLower(get("AI_TEXT_PROVIDER", "openai")),
		},
	}

	if origins := get("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	} else {
		cfg.Server.AllowedOrigins = []string{cfg.Server.AppURL}
	}

	for _, feature := range quota.AllFeatures() {
		key := "FREE_LIMIT_" + strings.ToUpper(string(feature))
		if strings.TrimSpace(getenv(key)) == "" {
			continue
		}
		n := getInt(key, 0)
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative", key))
			continue
		}
		cfg.Quota.LimitOverrides[feature] = n
	}

	if cfg.DB.DSN == "" {
		errs = append(errs, errors.New("DB_DSN_PRIMARY is required"))
	}
	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch cfg.Quota.TextProvider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when AI_TEXT_PROVIDER=openai"))
		}
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when AI_TEXT_PROVIDER=gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("AI_TEXT_PROVIDER: unsupported value %q", cfg.Quota.TextProvider))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

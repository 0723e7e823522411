package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

type Config struct {
	Port int

	MongoURI      string
	MongoDatabase string

	JWTSecret      string
	AllowedOrigins []string

	LLMProvider string
	LLMBaseURL  string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration

	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	FeedbackNotifyEmail string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
}

// Load reads the process environment (and a .env file, if present).
func Load() *Config {
	cfg := &Config{
		Port:                intEnv("PORT", 8080),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDatabase:       stringEnv("MONGO_DATABASE", "rebelbot"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AllowedOrigins:      listEnv("ALLOWED_ORIGINS"),
		LLMProvider:         strings.ToLower(stringEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMBaseURL:          stringEnv("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
		LLMAPIKey:           os.Getenv("LLM_API_KEY"),
		LLMModel:            stringEnv("LLM_MODEL", "google/gemini-2.5-flash"),
		LLMTimeout:          durationEnv("LLM_TIMEOUT", 15*time.Second),
		SMTPHost:            stringEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:            intEnv("SMTP_PORT", 587),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		FeedbackNotifyEmail: os.Getenv("FEEDBACK_NOTIFY_EMAIL"),
		RateLimitRPS:        floatEnv("RATE_LIMIT_RPS", 3),
		RateLimitBurst:      intEnv("RATE_LIMIT_BURST", 5),
		LogLevel:            stringEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// CompletionEnabled reports whether an external completion provider is configured.
func (c *Config) CompletionEnabled() bool {
	return c.LLMAPIKey != ""
}

// MailEnabled reports whether feedback notifications can be sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPUsername != "" && c.FeedbackNotifyEmail != ""
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("value", v).Int("default", def).Msg("Invalid integer in environment, using default")
		return def
	}
	return n
}

func floatEnv(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("value", v).Float64("default", def).Msg("Invalid number in environment, using default")
		return def
	}
	return f
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("value", v).Dur("default", def).Msg("Invalid duration in environment, using default")
		return def
	}
	return d
}

func listEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

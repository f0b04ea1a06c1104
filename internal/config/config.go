package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	ElevenLabs ElevenLabsConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Synthesis  SynthesisConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ElevenLabsConfig struct {
	APIKey         string
	BaseURL        string // default: "https://api.elevenlabs.io/v1"
	ModelID        string // default: "eleven_monolingual_v1"
	DefaultVoiceID string // default: Rachel
}

type RedisConfig struct {
	Addr     string // empty disables the audio cache
	Password string
	DB       int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type SynthesisConfig struct {
	MaxTextChars int
	CacheTTLSecs int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxChars, err := getEnvInt("MAX_TEXT_CHARS", 5000)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_TEXT_CHARS: %w", err)
	}

	cacheTTL, err := getEnvInt("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:         getEnv("ELEVENLABS_API_KEY", ""),
			BaseURL:        getEnv("ELEVENLABS_BASE_URL", ""),
			ModelID:        getEnv("ELEVENLABS_MODEL_ID", ""),
			DefaultVoiceID: getEnv("ELEVENLABS_DEFAULT_VOICE_ID", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Synthesis: SynthesisConfig{
			MaxTextChars: maxChars,
			CacheTTLSecs: cacheTTL,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports configuration the server cannot start without. The
// upstream API key is deliberately not required here: voice listing
// degrades to the static catalog and conversion returns a configuration
// error per request.
func (c *Config) Validate() error {
	var bad []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		bad = append(bad, "SERVER_PORT")
	}
	if c.Synthesis.MaxTextChars <= 0 {
		bad = append(bad, "MAX_TEXT_CHARS")
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid env vars: %s", strings.Join(bad, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

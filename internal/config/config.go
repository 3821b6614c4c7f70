package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string

	// Upload handling
	UploadDir   string
	MaxFileSize int64 // bytes

	// LLM configuration for the AI-assisted analyzer
	LLMProvider string        // "openai", "groq", or "none"
	LLMModel    string        // e.g. "gpt-4o-mini", "llama-3.3-70b-versatile"
	LLMAPIKey   string        // OpenAI or Groq API key
	LLMTimeout  time.Duration // per-request deadline for completion calls

	// Logging
	LogJSON  bool
	LogDebug bool
}

func Load() *Config {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	llmProvider := getEnv("LLM_PROVIDER", "openai")

	llmAPIKey := ""
	switch llmProvider {
	case "openai":
		llmAPIKey = os.Getenv("OPENAI_API_KEY")
	case "groq":
		llmAPIKey = os.Getenv("GROQ_API_KEY")
	}

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8080"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads/cvs"),
		MaxFileSize: getEnvInt64("MAX_FILE_SIZE", 10<<20),
		LLMProvider: llmProvider,
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:   llmAPIKey,
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LogJSON:     getEnvBool("LOG_JSON", false),
		LogDebug:    getEnvBool("LOG_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

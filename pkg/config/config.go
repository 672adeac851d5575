package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	GitHub  GitHubConfig
	Session SessionConfig
	LLM     LLMConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
	StaticDir    string
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	// Token is optional and only used for the unauthenticated roast lookups.
	Token  string
	APIURL string
}

type SessionConfig struct {
	Secret        string
	DBPath        string
	TTLHours      int
	SweepInterval int
}

type LLMConfig struct {
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
}

type CacheConfig struct {
	RoastTTLMinutes int
}

var AppConfig *Config

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. Fine for local
// development only.
const DefaultSessionSecret = "default-secret-key"

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
			StaticDir:    getEnv("STATIC_DIR", "./web/dist"),
		},
		GitHub: GitHubConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			CallbackURL:  getEnv("GITHUB_CALLBACK_URL", "http://localhost:8080/api/auth/callback/github"),
			Token:        getEnv("GITHUB_TOKEN", ""),
			APIURL:       getEnv("GITHUB_API_URL", ""),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", DefaultSessionSecret),
			DBPath:        getEnv("SESSION_DB_PATH", "file:ratemygit?mode=memory&cache=shared"),
			TTLHours:      getEnvAsInt("SESSION_TTL_HOURS", 24),
			SweepInterval: getEnvAsInt("SESSION_SWEEP_MINUTES", 10),
		},
		LLM: LLMConfig{
			AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		},
		Cache: CacheConfig{
			RoastTTLMinutes: getEnvAsInt("ROAST_CACHE_TTL_MINUTES", 15),
		},
	}

	return nil
}

// SessionTTL returns the sliding session lifetime
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// RoastCacheTTL returns how long a generated roast is served from memory
func (c *Config) RoastCacheTTL() time.Duration {
	return time.Duration(c.Cache.RoastTTLMinutes) * time.Minute
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
